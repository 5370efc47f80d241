// Package jobmgr runs named background jobs with cancellation and in-memory
// tracking. The bot uses it for work that outlives the interaction that
// started it, such as expiring a select menu.
//
//	jm := jobmgr.NewManager(func(msg string) { log.Println("[DEBUG] job", msg) })
//	_ = jm.After("leaderboard:123", time.Minute, func() { /* drop components */ })
//	...
//	jm.StopAll()
package jobmgr

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Job represents a running unit of work.
type Job struct {
	Name    string
	Started time.Time
	cancel  context.CancelFunc
	done    chan struct{}
}

// StatusReporter receives lifecycle events for jobs, e.g.
//
//	running:leaderboard:123
//	error:leaderboard:123:context canceled
//	done:leaderboard:123
type StatusReporter func(string)

// Manager starts, stops and tracks jobs. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*Job
	closed   bool
	Reporter StatusReporter
}

// NewManager creates a Manager. reporter may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*Job),
		Reporter: reporter,
	}
}

// StartAsync runs runner in its own goroutine. A job with the same name must
// not already be running. The job is forgotten once runner returns.
func (m *Manager) StartAsync(name string, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return fmt.Errorf("job manager is stopped")
	}
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		return fmt.Errorf("job '%s' is already running", name)
	}
	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{Name: name, Started: time.Now(), cancel: cancel, done: make(chan struct{})}
	m.jobs[name] = job
	m.mu.Unlock()

	go func() {
		defer close(job.done)
		defer cancel()
		m.report("running:" + name)

		if err := runner(ctx); err != nil {
			m.report("error:" + name + ":" + err.Error())
		} else {
			m.report("done:" + name)
		}

		m.mu.Lock()
		if m.jobs[name] == job {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()

	return nil
}

// After runs fn once d has elapsed. Stopping the job before then, directly or
// through StopAll, skips fn.
func (m *Manager) After(name string, d time.Duration, fn func()) error {
	return m.StartAsync(name, func(ctx context.Context) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			fn()
			return nil
		}
	})
}

// Stop cancels a running job by name.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job '%s' not running", name)
	}
	job.cancel()
	delete(m.jobs, name)
	return nil
}

// StopAll cancels every job, waits for them to return and refuses new ones.
func (m *Manager) StopAll() {
	m.mu.Lock()
	m.closed = true
	jobs := make([]*Job, 0, len(m.jobs))
	for name, job := range m.jobs {
		job.cancel()
		jobs = append(jobs, job)
		delete(m.jobs, name)
	}
	m.mu.Unlock()

	for _, job := range jobs {
		<-job.done
	}
}

// List returns the names of active jobs, sorted.
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

// Status returns a one-line summary such as "Running jobs: a, b".
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}

func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
