// Package catalog resolves catalog references (track, playlist, album,
// artist discography) into track records.
package catalog

import (
	"context"
	"errors"

	"github.com/SohamBorate/spot-dl-downloader/internal/domain"
)

// ErrAuth indicates the client-credentials token exchange failed. This
// is fatal: the downloader refuses all further work until restart.
var ErrAuth = errors.New("catalog authentication failed")

// Provider is the catalog metadata service. Playlist and album
// expansion return tracks in catalog order; album tracks carry a
// synthesized album context copied from the parent album.
type Provider interface {
	GetTrack(ctx context.Context, id string) (*domain.Track, error)
	GetPlaylistTracks(ctx context.Context, id string) ([]*domain.Track, error)
	GetAlbumTracks(ctx context.Context, id string) ([]*domain.Track, error)
	GetArtistAlbumIDs(ctx context.Context, id string) ([]string, error)
}
