package jobmgr

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStartAsyncRejectsDuplicateNames(t *testing.T) {
	m := NewManager(nil)
	defer m.StopAll()

	block := func(ctx context.Context) error { <-ctx.Done(); return nil }
	if err := m.StartAsync("a", block); err != nil {
		t.Fatal(err)
	}
	if err := m.StartAsync("a", block); err == nil {
		t.Error("expected duplicate job to be rejected")
	}
	if got := m.Status(); got != "Running jobs: a" {
		t.Errorf("Status = %q", got)
	}
}

func TestJobIsForgottenWhenDone(t *testing.T) {
	m := NewManager(nil)
	if err := m.StartAsync("quick", func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return len(m.List()) == 0 })
	if got := m.Status(); got != "No jobs are running." {
		t.Errorf("Status = %q", got)
	}
}

func TestAfterRunsOnce(t *testing.T) {
	m := NewManager(nil)
	var fired atomic.Int32
	if err := m.After("expire", 10*time.Millisecond, func() { fired.Add(1) }); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return fired.Load() == 1 && len(m.List()) == 0 })
}

func TestStopSkipsPendingAfter(t *testing.T) {
	m := NewManager(nil)
	var fired atomic.Int32
	if err := m.After("expire", time.Hour, func() { fired.Add(1) }); err != nil {
		t.Fatal(err)
	}
	if err := m.Stop("expire"); err != nil {
		t.Fatal(err)
	}
	if err := m.Stop("expire"); err == nil {
		t.Error("second Stop should report the job is not running")
	}
	if fired.Load() != 0 {
		t.Error("stopped job must not fire")
	}
}

func TestStopAllWaitsAndCloses(t *testing.T) {
	var reports []string
	reported := make(chan string, 8)
	m := NewManager(func(s string) { reported <- s })

	for _, name := range []string{"x", "y"} {
		if err := m.After(name, time.Hour, func() {}); err != nil {
			t.Fatal(err)
		}
	}
	m.StopAll()

	if n := len(m.List()); n != 0 {
		t.Errorf("%d jobs left after StopAll", n)
	}
	if err := m.StartAsync("late", func(context.Context) error { return nil }); err == nil {
		t.Error("StartAsync after StopAll should fail")
	}

	close(reported)
	for r := range reported {
		reports = append(reports, r)
	}
	// running + error for each job
	if len(reports) != 4 {
		t.Errorf("reports = %v", reports)
	}
}
