// Package jobmgr runs named background jobs with cancellation, status
// callbacks and in-memory tracking. A name can only be running once at a
// time, which makes periodic re-runs of the same job idempotent.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(func(msg string) { logger.Debug().Msg(msg) })
//	err := jm.StartAsync(ctx, "emoji-warm", func(ctx context.Context) error {
//	    return warmer.Warm(ctx)
//	})
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrRunning is returned when a job with the same name is already running.
var ErrRunning = errors.New("job already running")

// Job represents a running unit of work.
type Job struct {
	Name   string
	Cancel context.CancelFunc
	done   chan struct{}
}

// StatusReporter receives lifecycle events for jobs:
//
//	running:emoji-warm
//	error:emoji-warm:failed to list emojis
//	done:emoji-warm
type StatusReporter func(string)

// Manager orchestrates starting, stopping and tracking jobs.
// It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*Job
	Reporter StatusReporter
}

// NewManager creates a new Manager. The reporter may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*Job),
		Reporter: reporter,
	}
}

// StartAsync runs a job in a separate goroutine and returns immediately.
// The job's context is derived from parent. Jobs are removed automatically
// after completion, successful or not.
func (m *Manager) StartAsync(parent context.Context, name string, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrRunning, name)
	}
	ctx, cancel := context.WithCancel(parent)
	job := &Job{Name: name, Cancel: cancel, done: make(chan struct{})}
	m.jobs[name] = job
	m.mu.Unlock()

	go func() {
		defer close(job.done)
		defer cancel()
		defer func() {
			m.mu.Lock()
			if m.jobs[name] == job {
				delete(m.jobs, name)
			}
			m.mu.Unlock()
		}()

		m.report("running:" + name)
		if err := runner(ctx); err != nil {
			m.report("error:" + name + ":" + err.Error())
			return
		}
		m.report("done:" + name)
	}()

	return nil
}

// Stop cancels a running job by name.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job '%s' not running", name)
	}
	job.Cancel()
	delete(m.jobs, name)
	return nil
}

// Wait blocks until the named job finishes or ctx ends. It returns
// immediately when the job is not running.
func (m *Manager) Wait(ctx context.Context, name string) error {
	m.mu.Lock()
	job, ok := m.jobs[name]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	select {
	case <-job.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// List returns the sorted names of active jobs.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
