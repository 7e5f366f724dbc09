// Package art fetches and caches album cover images. The cache is a
// directory of files keyed by "{album artist} - {album}"; a present
// file is reused without touching the network, so concurrent pipelines
// working the same album at worst repeat a harmless write.
package art

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/SohamBorate/spot-dl-downloader/internal/constants"
	"github.com/SohamBorate/spot-dl-downloader/internal/progress"
	"github.com/SohamBorate/spot-dl-downloader/internal/storage"
)

// Fetcher guarantees a cover image exists at a cache path.
type Fetcher interface {
	// Ensure downloads the image at url to path unless a cached copy
	// already exists. It reports whether the cache was hit. Raw chunks
	// are emitted on the notifier as they arrive.
	Ensure(ctx context.Context, url, path string, notifier *progress.Notifier) (cached bool, err error)
}

type Service struct {
	client *http.Client
}

func NewService() *Service {
	return &Service{
		client: &http.Client{Timeout: constants.ImageHTTPTimeout},
	}
}

func (s *Service) Ensure(ctx context.Context, url, path string, notifier *progress.Notifier) (bool, error) {
	if storage.FileExists(path) {
		return true, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("create art request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetch art: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("fetch art: status %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	chunk := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if notifier != nil {
				data := make([]byte, n)
				copy(data, chunk[:n])
				notifier.Emit(progress.KindData, data)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return false, fmt.Errorf("read art stream: %w", readErr)
		}
	}

	if err := storage.WriteFile(path, buf.Bytes()); err != nil {
		return false, fmt.Errorf("persist art: %w", err)
	}
	return false, nil
}
