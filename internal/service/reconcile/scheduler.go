package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is one unit of periodic work. It receives a context that is cancelled
// when the task's handle is stopped.
type Task func(ctx context.Context)

// Scheduler starts tasks that run on a fixed interval.
type Scheduler struct {
	interval       time.Duration
	runImmediately bool
	logger         *slog.Logger
}

// NewScheduler creates a scheduler. When runImmediately is set each task runs
// once at start instead of waiting a full interval.
func NewScheduler(interval time.Duration, runImmediately bool, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		interval:       interval,
		runImmediately: runImmediately,
		logger:         logger,
	}
}

// Start runs task every interval on its own goroutine until the returned
// handle is stopped or ctx is cancelled. Ticks never overlap: a tick that
// fires while task is still running is dropped.
func (s *Scheduler) Start(ctx context.Context, name string, task Task) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		name:   name,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	s.logger.Info("scheduled task started",
		"task", name,
		"interval", s.interval.String(),
	)

	go func() {
		defer close(h.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		if s.runImmediately {
			task(ctx)
		}

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("scheduled task stopped", "task", name)
				return
			case <-ticker.C:
				task(ctx)
			}
		}
	}()

	return h
}

// Handle controls a started task
type Handle struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Name returns the task name
func (h *Handle) Name() string {
	return h.name
}

// Stop cancels the task and waits for the running tick, if any, to return.
// Stop is safe to call multiple times.
func (h *Handle) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the task goroutine has exited
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
