package queue

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/SohamBorate/spot-dl-downloader/internal/domain"
	"github.com/SohamBorate/spot-dl-downloader/internal/logger"
	"github.com/SohamBorate/spot-dl-downloader/internal/progress"
)

// Runner starts one item's download against a caller-built future.
type Runner interface {
	Start(ctx context.Context, track *domain.Track, future *progress.Future)
}

// ItemResult is the terminal outcome of one item in a drained batch.
type ItemResult struct {
	Item    *domain.QueueItem
	Message string
	Err     error
}

// ObserveFunc is called with each item's future before the item starts,
// so observers see every progress message.
type ObserveFunc func(item *domain.QueueItem, future *progress.Future)

// Scheduler drains the backlog in batches of a fixed size. Items in a
// batch run concurrently; the batch is dropped from the backlog only
// after every launched item has terminated.
type Scheduler struct {
	backlog   *Backlog
	runner    Runner
	batchSize int
	observe   ObserveFunc
	logger    *logger.Logger
}

func NewScheduler(backlog *Backlog, runner Runner, batchSize int, log *logger.Logger) *Scheduler {
	if batchSize < 1 {
		batchSize = 1
	}
	if log == nil {
		log = logger.Default()
	}
	return &Scheduler{
		backlog:   backlog,
		runner:    runner,
		batchSize: batchSize,
		logger:    log.WithComponent("scheduler"),
	}
}

// SetObserver registers a hook invoked once per item before it starts.
func (s *Scheduler) SetObserver(fn ObserveFunc) {
	s.observe = fn
}

// Drain processes batches until the backlog is empty, returning every
// item's outcome in completion batches. Items enqueued while a batch is
// in flight are picked up by a later batch. Cancellation is honored
// between batches; in-flight items run to their own termination.
func (s *Scheduler) Drain(ctx context.Context) ([]ItemResult, error) {
	var results []ItemResult
	for {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		batch := s.backlog.Peek(s.batchSize)
		if len(batch) == 0 {
			return results, nil
		}

		batchResults := s.runBatch(ctx, batch)
		s.backlog.Drop(len(batch))
		results = append(results, batchResults...)

		succeeded, failed := 0, 0
		for _, r := range batchResults {
			if r.Err != nil {
				failed++
			} else {
				succeeded++
			}
		}
		s.logger.Info("Batch finished",
			"size", len(batch),
			"succeeded", succeeded,
			"failed", failed,
			"remaining", s.backlog.Len())
	}
}

// runBatch launches every item in the batch and joins on all of them.
// Failures are captured per item, never propagated as a group error.
func (s *Scheduler) runBatch(ctx context.Context, batch []*domain.QueueItem) []ItemResult {
	results := make([]ItemResult, len(batch))
	var g errgroup.Group
	for i, item := range batch {
		i, item := i, item
		future := progress.NewFuture()
		if s.observe != nil {
			s.observe(item, future)
		}
		s.runner.Start(ctx, item.Track, future)
		g.Go(func() error {
			res, err := future.Wait(ctx)
			results[i] = ItemResult{Item: item, Message: res.Message, Err: err}
			return nil
		})
	}
	g.Wait()
	return results
}
