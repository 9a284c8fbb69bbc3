package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

// Loop runs engine tasks one at a time on a single goroutine. Session state
// is only touched from inside a task, so it needs no locking.
type Loop struct {
	tasks   chan func()
	stopped chan struct{}
	log     *slog.Logger
}

var ErrLoopStopped = errors.New("engine loop stopped")

func NewLoop(buffer int, log *slog.Logger) *Loop {
	return &Loop{
		tasks:   make(chan func(), buffer),
		stopped: make(chan struct{}),
		log:     log,
	}
}

var _ ports.Scheduler = (*Loop)(nil)

// Run executes tasks until ctx is done. It must be called once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)
	for {
		select {
		case <-ctx.Done():
			l.log.Debug("Stopping engine loop")
			return nil
		case task := <-l.tasks:
			l.execute(task)
		}
	}
}

func (l *Loop) execute(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("Engine task panicked", "panic", r)
		}
	}()
	task()
}

// Post enqueues a task. It blocks while the queue is full and drops the task
// once the loop has stopped.
func (l *Loop) Post(task func()) {
	select {
	case l.tasks <- task:
	case <-l.stopped:
	}
}

// Do enqueues a task and waits for it to finish.
func (l *Loop) Do(ctx context.Context, task func()) error {
	done := make(chan struct{})
	select {
	case l.tasks <- func() {
		defer close(done)
		task()
	}:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AfterFunc posts fn to the loop once d has elapsed. Cancelling after the
// timer fired does not stop an already queued fn, so fn must re-check state.
func (l *Loop) AfterFunc(d time.Duration, fn func()) ports.CancelFunc {
	timer := time.AfterFunc(d, func() { l.Post(fn) })
	return timer.Stop
}
