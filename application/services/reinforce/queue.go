// Package reinforce runs a small bounded worker pool that applies
// fire-and-forget access reinforcement after a search returns its hits, so
// the request path never waits on it.
package reinforce

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"mnemosyne/application/ports"
	"mnemosyne/domain/config"
)

type job struct {
	ownerID  string
	engramID string
}

// Queue is a bounded worker pool accepting access-reinforcement jobs.
// Enqueue never blocks the caller for longer than it takes to drop a job
// into the channel; a full queue drops the job and logs a warning rather
// than applying backpressure to the search path.
type Queue struct {
	engrams ports.EngramStore
	cfg     *config.DomainConfig
	logger  *zap.Logger

	jobs chan job
	wg   sync.WaitGroup
	stop chan struct{}
}

// New creates a Queue with the given number of workers and queue depth and
// starts the worker goroutines.
func New(engrams ports.EngramStore, cfg *config.DomainConfig, logger *zap.Logger, workers, queueDepth int) *Queue {
	q := &Queue{
		engrams: engrams,
		cfg:     cfg,
		logger:  logger,
		jobs:    make(chan job, queueDepth),
		stop:    make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case j, ok := <-q.jobs:
			if !ok {
				return
			}
			q.process(j)
		case <-q.stop:
			return
		}
	}
}

func (q *Queue) process(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	e, err := q.engrams.GetEngram(ctx, j.ownerID, j.engramID)
	if err != nil {
		q.logger.Warn("access reinforcement: failed to load engram", zap.String("engramID", j.engramID), zap.Error(err))
		return
	}
	if e == nil {
		return
	}
	e.RecordAccess(time.Now())
	if err := q.engrams.SaveEngram(ctx, e); err != nil {
		q.logger.Warn("access reinforcement: failed to save engram", zap.String("engramID", j.engramID), zap.Error(err))
	}
}

// Enqueue submits an access-reinforcement job. Never blocks the caller; a
// full queue drops the job.
func (q *Queue) Enqueue(ownerID, engramID string) {
	select {
	case q.jobs <- job{ownerID: ownerID, engramID: engramID}:
	default:
		q.logger.Warn("access reinforcement queue full, dropping job", zap.String("engramID", engramID))
	}
}

// Drain stops accepting new jobs, closes the queue, and waits for
// in-flight jobs to finish or the context to expire, whichever comes
// first. Intended to run during graceful HTTP server shutdown.
func (q *Queue) Drain(ctx context.Context) {
	close(q.jobs)
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		close(q.stop)
	}
}
