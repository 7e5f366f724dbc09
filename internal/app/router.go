package app

import (
	"net/url"
	"strings"
)

// RefKind is the catalog entity type parsed out of an input URL.
type RefKind string

const (
	RefTrack    RefKind = "track"
	RefPlaylist RefKind = "playlist"
	RefAlbum    RefKind = "album"
	RefArtist   RefKind = "artist"
)

// Reference identifies one catalog entity.
type Reference struct {
	Kind RefKind
	ID   string
}

const catalogHost = "open.spotify.com"

// ParseReference extracts the entity kind and ID from a URL of the
// form https://open.spotify.com/{type}/{id}[?...]. Query parameters
// are discarded. Anything else, including an unknown entity type,
// reports false rather than an error.
func ParseReference(raw string) (Reference, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return Reference{}, false
	}
	if u.Host != catalogHost {
		return Reference{}, false
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || parts[1] == "" {
		return Reference{}, false
	}

	kind := RefKind(parts[0])
	switch kind {
	case RefTrack, RefPlaylist, RefAlbum, RefArtist:
		return Reference{Kind: kind, ID: parts[1]}, true
	}
	return Reference{}, false
}
