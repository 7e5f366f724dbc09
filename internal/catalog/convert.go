package catalog

import (
	"github.com/zmb3/spotify/v2"

	"github.com/SohamBorate/spot-dl-downloader/internal/domain"
)

const linkKey = "spotify"

// convertFullTrack maps a full track response, including its own album
// substructure, to a domain record.
func convertFullTrack(ft *spotify.FullTrack) *domain.Track {
	track := convertBase(ft.SimpleTrack)
	track.Album = domain.AlbumContext{
		Name:        ft.Album.Name,
		Artist:      primaryArtistName(ft.Album.Artists),
		ReleaseDate: domain.ParseReleaseDate(ft.Album.ReleaseDate),
		ArtURL:      firstImageURL(ft.Album.Images),
	}
	return track
}

// convertAlbumTrack maps a simplified album track, synthesizing the
// album context from the parent album record.
func convertAlbumTrack(st spotify.SimpleTrack, album *spotify.FullAlbum) *domain.Track {
	track := convertBase(st)
	track.Album = domain.AlbumContext{
		Name:        album.Name,
		Artist:      primaryArtistName(album.Artists),
		ReleaseDate: domain.ParseReleaseDate(album.ReleaseDate),
		ArtURL:      firstImageURL(album.Images),
	}
	return track
}

func convertBase(st spotify.SimpleTrack) *domain.Track {
	artists := make([]string, len(st.Artists))
	for i, a := range st.Artists {
		artists[i] = a.Name
	}

	var artistURL string
	if len(st.Artists) > 0 {
		artistURL = st.Artists[0].ExternalURLs[linkKey]
	}

	return &domain.Track{
		ID:          string(st.ID),
		Title:       st.Name,
		Artists:     artists,
		TrackNumber: int(st.TrackNumber),
		DiscNumber:  int(st.DiscNumber),
		Duration:    int(st.Duration),
		URL:         st.ExternalURLs[linkKey],
		ArtistURL:   artistURL,
	}
}

func primaryArtistName(artists []spotify.SimpleArtist) string {
	if len(artists) == 0 {
		return ""
	}
	return artists[0].Name
}

func firstImageURL(images []spotify.Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
