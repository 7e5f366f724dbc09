// Package progress provides the result handle used by every pipeline
// stage: a resolve-once future composed with a multicast notifier, so a
// caller can observe intermediate events while still awaiting exactly
// one terminal outcome.
package progress

import (
	"context"
	"sync"
)

// Kind identifies a class of progress notification. Ordering is only
// guaranteed among notifications of the same kind.
type Kind string

const (
	// KindMessage carries human-readable progress lines.
	KindMessage Kind = "message"
	// KindData carries raw byte chunks as they arrive from the network.
	KindData Kind = "data"
)

// Observer receives one notification payload.
type Observer func(payload any)

// Notifier multicasts progress notifications to observers keyed by
// kind. Observers may be registered at any time; notifications emitted
// before a subscription are not replayed.
type Notifier struct {
	mu        sync.Mutex
	observers map[Kind][]Observer
}

// Subscribe registers an observer for notifications of the given kind.
// An observer registered synchronously after the Notifier is created
// cannot miss any subsequent Emit call.
func (n *Notifier) Subscribe(kind Kind, fn Observer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.observers == nil {
		n.observers = make(map[Kind][]Observer)
	}
	n.observers[kind] = append(n.observers[kind], fn)
}

// Emit synchronously invokes every observer registered for kind, in
// registration order. There is no buffering.
func (n *Notifier) Emit(kind Kind, payload any) {
	n.mu.Lock()
	observers := make([]Observer, len(n.observers[kind]))
	copy(observers, n.observers[kind])
	n.mu.Unlock()

	for _, fn := range observers {
		fn(payload)
	}
}

// Result is the success value of a completed pipeline run.
type Result struct {
	Message string
}

// Future is one in-flight operation: progress notifications stream
// through the embedded Notifier while the terminal value is produced
// exactly once. Resolving or failing an already-settled Future is a
// no-op.
type Future struct {
	Notifier

	once   sync.Once
	done   chan struct{}
	result Result
	err    error
}

func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolve settles the future with a success value.
func (f *Future) Resolve(res Result) {
	f.once.Do(func() {
		f.result = res
		close(f.done)
	})
}

// Fail settles the future with an error.
func (f *Future) Fail(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future is settled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or the context is cancelled.
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Message emits a human-readable progress line.
func (f *Future) Message(text string) {
	f.Emit(KindMessage, text)
}

// OnMessage subscribes to human-readable progress lines.
func (f *Future) OnMessage(fn func(string)) {
	f.Subscribe(KindMessage, func(payload any) {
		if s, ok := payload.(string); ok {
			fn(s)
		}
	})
}
