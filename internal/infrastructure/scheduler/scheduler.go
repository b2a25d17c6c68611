package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobFunc is a periodic task body. Errors are logged, not fatal; the
// job keeps its schedule.
type JobFunc func(ctx context.Context) error

// Scheduler runs named periodic jobs. Each job is held as a handle in
// a keyed map so it can be stopped or replaced individually.
type Scheduler struct {
	mu     sync.Mutex
	jobs   map[string]*jobHandle
	logger *zap.Logger
}

type jobHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an empty scheduler
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		jobs:   make(map[string]*jobHandle),
		logger: logger,
	}
}

// Start registers and starts a named job. Starting a name that is
// already running is an error; use Replace to swap a job in place.
func (s *Scheduler) Start(name string, interval time.Duration, fn JobFunc) error {
	if interval <= 0 {
		return fmt.Errorf("scheduler: job %q requires a positive interval", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("scheduler: job %q is already running", name)
	}
	s.startLocked(name, interval, fn)
	return nil
}

// Replace stops the named job if it is running and starts the new one
// under the same name.
func (s *Scheduler) Replace(name string, interval time.Duration, fn JobFunc) error {
	if interval <= 0 {
		return fmt.Errorf("scheduler: job %q requires a positive interval", name)
	}

	// The lock is held across the stop so a concurrent Start under the
	// same name cannot register a handle that would be overwritten and
	// leak its goroutine. Job bodies never touch the scheduler, so
	// waiting for the in-flight run here cannot deadlock.
	s.mu.Lock()
	defer s.mu.Unlock()
	if handle, exists := s.jobs[name]; exists {
		delete(s.jobs, name)
		handle.stop()
	}
	s.startLocked(name, interval, fn)
	return nil
}

// Stop cancels the named job and waits for its current run to finish
func (s *Scheduler) Stop(name string) error {
	s.mu.Lock()
	handle, exists := s.jobs[name]
	if exists {
		delete(s.jobs, name)
	}
	s.mu.Unlock()

	if !exists {
		return fmt.Errorf("scheduler: job %q is not running", name)
	}
	handle.stop()
	return nil
}

// StopAll cancels every job and waits for in-flight runs
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	handles := make([]*jobHandle, 0, len(s.jobs))
	for name, handle := range s.jobs {
		handles = append(handles, handle)
		delete(s.jobs, name)
	}
	s.mu.Unlock()

	for _, handle := range handles {
		handle.stop()
	}
}

// Running reports whether a job with the given name is registered
func (s *Scheduler) Running(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.jobs[name]
	return exists
}

func (s *Scheduler) startLocked(name string, interval time.Duration, fn JobFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	handle := &jobHandle{cancel: cancel, done: make(chan struct{})}
	s.jobs[name] = handle

	go func() {
		defer close(handle.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.logger.Info("job started", zap.String("job", name), zap.Duration("interval", interval))
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("job stopped", zap.String("job", name))
				return
			case <-ticker.C:
				if err := fn(ctx); err != nil {
					s.logger.Error("job run failed", zap.String("job", name), zap.Error(err))
				}
			}
		}
	}()
}

func (h *jobHandle) stop() {
	h.cancel()
	<-h.done
}
