package engine

import (
	"context"
	"sync"

	"knoxshield/pkg/logger"
)

// Queue bounds how many operations simulate at once with a counting semaphore.
type Queue struct {
	semaphore chan struct{}
	running   int
	queued    int
	mu        sync.Mutex
	logger    *logger.Logger
}

// NewQueue creates a queue with maxConcurrent slots.
func NewQueue(maxConcurrent int, log *logger.Logger) *Queue {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if log == nil {
		log = logger.Default()
	}
	q := &Queue{
		semaphore: make(chan struct{}, maxConcurrent),
		logger:    log,
	}
	q.logger.WithFields(logger.Fields{
		"max_concurrent": maxConcurrent,
	}).Info("Operation queue initialized")
	return q
}

// ExecuteWithQueue blocks until a slot is free, then runs fn. It gives up
// waiting when ctx is cancelled.
func (q *Queue) ExecuteWithQueue(ctx context.Context, fn func() error) error {
	q.mu.Lock()
	q.queued++
	currentQueued := q.queued
	currentRunning := q.running
	q.mu.Unlock()

	q.logger.WithFields(logger.Fields{
		"queued":  currentQueued,
		"running": currentRunning,
		"slots":   cap(q.semaphore),
	}).Debug("Operation added to queue")

	select {
	case q.semaphore <- struct{}{}:
	case <-ctx.Done():
		q.mu.Lock()
		q.queued--
		q.mu.Unlock()
		return ctx.Err()
	}

	q.mu.Lock()
	q.queued--
	q.running++
	q.mu.Unlock()

	defer func() {
		<-q.semaphore
		q.mu.Lock()
		q.running--
		remainingRunning := q.running
		remainingQueued := q.queued
		q.mu.Unlock()

		q.logger.WithFields(logger.Fields{
			"running": remainingRunning,
			"queued":  remainingQueued,
		}).Debug("Operation slot released")
	}()

	return fn()
}

// GetStatus returns current queue status.
func (q *Queue) GetStatus() (running, queued, maxConcurrent int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running, q.queued, cap(q.semaphore)
}
