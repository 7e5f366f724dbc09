// Package locate finds and fetches a remote audio stream matching a
// "{artist} - {title}" query. Best-match semantics live entirely inside
// this package; callers take the single candidate it returns.
package locate

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound indicates the search returned no usable candidate. It
// fails the one item being located, never the whole run.
var ErrNotFound = errors.New("no matching stream found")

// Candidate is a located remote audio source.
type Candidate struct {
	URL   string
	Title string
}

// Locator searches for the best matching stream and fetches its bytes.
type Locator interface {
	SearchOne(ctx context.Context, query string) (*Candidate, error)
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}
