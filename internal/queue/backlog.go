// Package queue holds pending track items and drains them in fixed-size
// concurrent batches. A batch joins on every launched item before the
// next batch starts, so a failed item never stalls or skips its peers.
package queue

import (
	"sync"

	"github.com/SohamBorate/spot-dl-downloader/internal/domain"
)

// Backlog is a FIFO of pending items. The scheduler is its only
// consumer; expanders only enqueue. Peek and Drop are separate so a
// batch stays visible in the backlog until it has fully drained.
type Backlog struct {
	mu    sync.Mutex
	items []*domain.QueueItem
}

func NewBacklog() *Backlog {
	return &Backlog{}
}

// Enqueue appends items in order to the tail.
func (b *Backlog) Enqueue(items ...*domain.QueueItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, items...)
}

// Peek returns up to n items from the head without removing them.
func (b *Backlog) Peek(n int) []*domain.QueueItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > len(b.items) {
		n = len(b.items)
	}
	out := make([]*domain.QueueItem, n)
	copy(out, b.items[:n])
	return out
}

// Drop removes up to n items from the head.
func (b *Backlog) Drop(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > len(b.items) {
		n = len(b.items)
	}
	b.items = b.items[n:]
}

func (b *Backlog) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}
