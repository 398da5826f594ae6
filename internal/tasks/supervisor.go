package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Supervisor owns background goroutines. Every task runs under the
// supervisor's context, so shutdown cancels them all and waits for them to
// drain. A panicking task is logged and never takes down the process.
type Supervisor struct {
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSupervisor creates a supervisor rooted at the given parent context.
func NewSupervisor(parent context.Context, logger *slog.Logger) *Supervisor {
	ctx, cancel := context.WithCancel(parent)
	return &Supervisor{
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Go launches fn as a supervised background task.
func (s *Supervisor) Go(name string, fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Background task panicked",
					slog.String("task", name),
					slog.Any("panic", r),
				)
			}
		}()

		s.logger.Debug("Background task started", slog.String("task", name))
		fn(s.ctx)
		s.logger.Debug("Background task finished", slog.String("task", name))
	}()
}

// Shutdown cancels all tasks and waits up to timeout for them to finish.
func (s *Supervisor) Shutdown(timeout time.Duration) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("background tasks did not finish within %s", timeout)
	}
}
