package catalog

import (
	"context"
	"fmt"

	"github.com/SohamBorate/spot-dl-downloader/internal/domain"
)

// MockProvider is an in-memory Provider used by tests.
type MockProvider struct {
	Tracks   map[string]*domain.Track
	Playlist map[string][]string // playlist id -> track ids
	Albums   map[string][]string // album id -> track ids
	Artists  map[string][]string // artist id -> album ids
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		Tracks:   make(map[string]*domain.Track),
		Playlist: make(map[string][]string),
		Albums:   make(map[string][]string),
		Artists:  make(map[string][]string),
	}
}

func (p *MockProvider) AddTrack(track *domain.Track) {
	p.Tracks[track.ID] = track
}

func (p *MockProvider) GetTrack(ctx context.Context, id string) (*domain.Track, error) {
	track, ok := p.Tracks[id]
	if !ok {
		return nil, fmt.Errorf("mock: no track %s", id)
	}
	clone := *track
	return &clone, nil
}

func (p *MockProvider) GetPlaylistTracks(ctx context.Context, id string) ([]*domain.Track, error) {
	ids, ok := p.Playlist[id]
	if !ok {
		return nil, fmt.Errorf("mock: no playlist %s", id)
	}
	return p.collect(ctx, ids)
}

func (p *MockProvider) GetAlbumTracks(ctx context.Context, id string) ([]*domain.Track, error) {
	ids, ok := p.Albums[id]
	if !ok {
		return nil, fmt.Errorf("mock: no album %s", id)
	}
	return p.collect(ctx, ids)
}

func (p *MockProvider) GetArtistAlbumIDs(ctx context.Context, id string) ([]string, error) {
	ids, ok := p.Artists[id]
	if !ok {
		return nil, fmt.Errorf("mock: no artist %s", id)
	}
	return ids, nil
}

func (p *MockProvider) collect(ctx context.Context, ids []string) ([]*domain.Track, error) {
	tracks := make([]*domain.Track, 0, len(ids))
	for _, id := range ids {
		track, err := p.GetTrack(ctx, id)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}
