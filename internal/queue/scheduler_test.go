package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SohamBorate/spot-dl-downloader/internal/domain"
	"github.com/SohamBorate/spot-dl-downloader/internal/progress"
)

type fakeRunner struct {
	mu      sync.Mutex
	started []string

	inFlight int32
	peak     int32

	delay   time.Duration
	failIDs map[string]bool
}

func (r *fakeRunner) Start(ctx context.Context, track *domain.Track, future *progress.Future) {
	r.mu.Lock()
	r.started = append(r.started, track.ID)
	r.mu.Unlock()

	go func() {
		n := atomic.AddInt32(&r.inFlight, 1)
		for {
			peak := atomic.LoadInt32(&r.peak)
			if n <= peak || atomic.CompareAndSwapInt32(&r.peak, peak, n) {
				break
			}
		}
		time.Sleep(r.delay)
		atomic.AddInt32(&r.inFlight, -1)

		if r.failIDs[track.ID] {
			future.Fail(errors.New("download failed"))
			return
		}
		future.Message("Starting download " + track.Title)
		future.Resolve(progress.Result{Message: "--> Downloaded " + track.Title})
	}()
}

func item(id string) *domain.QueueItem {
	return &domain.QueueItem{Track: &domain.Track{ID: id, Title: id, Artists: []string{"a"}}}
}

func TestBacklogFIFO(t *testing.T) {
	b := NewBacklog()
	b.Enqueue(item("1"), item("2"), item("3"))

	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}

	head := b.Peek(2)
	if len(head) != 2 || head[0].Track.ID != "1" || head[1].Track.ID != "2" {
		t.Errorf("Peek(2) = %v", head)
	}
	if b.Len() != 3 {
		t.Error("Peek removed items")
	}

	b.Drop(2)
	if b.Len() != 1 {
		t.Fatalf("Len() after Drop(2) = %d, want 1", b.Len())
	}

	rest := b.Peek(5)
	if len(rest) != 1 || rest[0].Track.ID != "3" {
		t.Errorf("Peek(5) = %v", rest)
	}
}

func TestDrainSequentialOrder(t *testing.T) {
	b := NewBacklog()
	for i := 1; i <= 4; i++ {
		b.Enqueue(item(fmt.Sprintf("%d", i)))
	}

	runner := &fakeRunner{delay: 5 * time.Millisecond}
	s := NewScheduler(b, runner, 1, nil)

	results, err := s.Drain(context.Background())
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for i, want := range []string{"1", "2", "3", "4"} {
		if runner.started[i] != want {
			t.Errorf("start order[%d] = %s, want %s", i, runner.started[i], want)
		}
	}
	if runner.peak != 1 {
		t.Errorf("peak concurrency = %d, want 1", runner.peak)
	}
	if b.Len() != 0 {
		t.Errorf("backlog not drained, %d left", b.Len())
	}
}

func TestDrainBatchConcurrency(t *testing.T) {
	b := NewBacklog()
	for i := 1; i <= 4; i++ {
		b.Enqueue(item(fmt.Sprintf("%d", i)))
	}

	runner := &fakeRunner{delay: 30 * time.Millisecond}
	s := NewScheduler(b, runner, 2, nil)

	results, err := s.Drain(context.Background())
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	if runner.peak != 2 {
		t.Errorf("peak concurrency = %d, want 2", runner.peak)
	}
}

func TestDrainIsolatesFailures(t *testing.T) {
	b := NewBacklog()
	b.Enqueue(item("1"), item("2"), item("3"))

	runner := &fakeRunner{failIDs: map[string]bool{"2": true}}
	s := NewScheduler(b, runner, 2, nil)

	results, err := s.Drain(context.Background())
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			if r.Item.Track.ID != "2" {
				t.Errorf("failed item = %s, want 2", r.Item.Track.ID)
			}
		}
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if b.Len() != 0 {
		t.Errorf("backlog not drained, %d left", b.Len())
	}
}

func TestDrainPicksUpLateEnqueues(t *testing.T) {
	b := NewBacklog()
	b.Enqueue(item("1"))

	runner := &fakeRunner{}
	s := NewScheduler(b, runner, 1, nil)

	var once sync.Once
	s.SetObserver(func(it *domain.QueueItem, future *progress.Future) {
		once.Do(func() {
			b.Enqueue(item("2"))
		})
	})

	results, err := s.Drain(context.Background())
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
}

func TestDrainObserverSeesMessages(t *testing.T) {
	b := NewBacklog()
	b.Enqueue(item("1"))

	runner := &fakeRunner{}
	s := NewScheduler(b, runner, 1, nil)

	var mu sync.Mutex
	var messages []string
	s.SetObserver(func(it *domain.QueueItem, future *progress.Future) {
		future.OnMessage(func(text string) {
			mu.Lock()
			messages = append(messages, text)
			mu.Unlock()
		})
	})

	results, err := s.Drain(context.Background())
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if results[0].Message != "--> Downloaded 1" {
		t.Errorf("result message = %q", results[0].Message)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(messages) != 1 || messages[0] != "Starting download 1" {
		t.Errorf("observed messages = %v", messages)
	}
}

func TestDrainStopsOnCancel(t *testing.T) {
	b := NewBacklog()
	b.Enqueue(item("1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScheduler(b, &fakeRunner{}, 1, nil)
	results, err := s.Drain(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Drain() error = %v, want context.Canceled", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}
