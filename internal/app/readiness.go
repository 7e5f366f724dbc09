package app

import (
	"context"
	"sync"
)

// ReadyState is the process-wide dispatch gate. It starts at loading,
// settles exactly once to ready or errored, and never moves again.
type ReadyState int

const (
	StateLoading ReadyState = iota
	StateReady
	StateError
)

func (s ReadyState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "loading"
	}
}

// Readiness broadcasts the settled state to waiting dispatchers, so
// callers block on a channel instead of polling.
type Readiness struct {
	mu      sync.Mutex
	state   ReadyState
	settled chan struct{}
}

func NewReadiness() *Readiness {
	return &Readiness{settled: make(chan struct{})}
}

func (r *Readiness) SetReady() {
	r.settle(StateReady)
}

func (r *Readiness) SetError() {
	r.settle(StateError)
}

func (r *Readiness) settle(state ReadyState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateLoading {
		return
	}
	r.state = state
	close(r.settled)
}

func (r *Readiness) State() ReadyState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Await blocks until the gate settles or the context ends.
func (r *Readiness) Await(ctx context.Context) (ReadyState, error) {
	select {
	case <-r.settled:
		return r.State(), nil
	case <-ctx.Done():
		return r.State(), ctx.Err()
	}
}
