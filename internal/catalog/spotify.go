package catalog

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/SohamBorate/spot-dl-downloader/internal/domain"
)

// Spotify is the Provider backed by the Spotify Web API.
type Spotify struct {
	client *spotify.Client
}

// NewSpotify performs the client-credentials exchange and returns a
// ready provider. A failed exchange returns ErrAuth; the caller treats
// this as permanent.
func NewSpotify(ctx context.Context, clientID, clientSecret string) (*Spotify, error) {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	// Force the token exchange now so readiness is known up front.
	if _, err := cfg.Token(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	return &Spotify{client: spotify.New(cfg.Client(ctx))}, nil
}

func (s *Spotify) GetTrack(ctx context.Context, id string) (*domain.Track, error) {
	ft, err := s.client.GetTrack(ctx, spotify.ID(id))
	if err != nil {
		return nil, fmt.Errorf("get track %s: %w", id, err)
	}
	return convertFullTrack(ft), nil
}

func (s *Spotify) GetPlaylistTracks(ctx context.Context, id string) ([]*domain.Track, error) {
	pl, err := s.client.GetPlaylist(ctx, spotify.ID(id))
	if err != nil {
		return nil, fmt.Errorf("get playlist %s: %w", id, err)
	}

	var tracks []*domain.Track
	page := pl.Tracks
	for {
		for _, item := range page.Tracks {
			if item.Track.ID == "" || item.IsLocal {
				continue
			}
			track := item.Track
			tracks = append(tracks, convertFullTrack(&track))
		}

		err = s.client.NextPage(ctx, &page)
		if err == spotify.ErrNoMorePages {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("playlist %s pagination: %w", id, err)
		}
	}

	return tracks, nil
}

func (s *Spotify) GetAlbumTracks(ctx context.Context, id string) ([]*domain.Track, error) {
	album, err := s.client.GetAlbum(ctx, spotify.ID(id))
	if err != nil {
		return nil, fmt.Errorf("get album %s: %w", id, err)
	}

	tracks := make([]*domain.Track, 0, len(album.Tracks.Tracks))
	for _, st := range album.Tracks.Tracks {
		tracks = append(tracks, convertAlbumTrack(st, album))
	}
	return tracks, nil
}

func (s *Spotify) GetArtistAlbumIDs(ctx context.Context, id string) ([]string, error) {
	page, err := s.client.GetArtistAlbums(ctx, spotify.ID(id), nil)
	if err != nil {
		return nil, fmt.Errorf("get artist albums %s: %w", id, err)
	}

	ids := make([]string, 0, len(page.Albums))
	for _, album := range page.Albums {
		ids = append(ids, string(album.ID))
	}
	return ids, nil
}
