package commands

import (
	"context"
	"strings"
	"testing"
	"time"

	"teambot/internal/stats"
	"teambot/internal/version"
	"teambot/pkg/jobmgr"
)

func TestStatusMessage(t *testing.T) {
	store := newStore(t)
	store.AddWin("1", "Ann", stats.GameValorant)
	store.AddWin("2", "Bob", stats.GameLoL)

	jobs := jobmgr.NewManager(nil)
	defer jobs.StopAll()
	if err := jobs.After("leaderboard:i1", time.Hour, func() {}); err != nil {
		t.Fatal(err)
	}

	started := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := Deps{
		Stats:   store,
		Jobs:    jobs,
		Started: started,
		Latency: func() time.Duration { return 42 * time.Millisecond },
	}

	msg := buildStatusMessage(d, started.Add(90*time.Minute+400*time.Millisecond))
	for _, want := range []string{
		"Version: " + version.Get().String(),
		"Uptime: 1h30m0s",
		"Gateway latency: 42ms",
		"Players tracked: 2",
		"Background jobs: 1",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("status is missing %q:\n%s", want, msg)
		}
	}
}

func TestStatusBeforeConnecting(t *testing.T) {
	d := Deps{Started: time.Now(), Latency: func() time.Duration { return 0 }}
	msg := buildStatusMessage(d, d.Started)
	if !strings.Contains(msg, "Gateway latency: n/a") {
		t.Errorf("status = %q", msg)
	}
	if strings.Contains(msg, "Players tracked") || strings.Contains(msg, "Background jobs") {
		t.Errorf("optional lines should be omitted without a store or job manager:\n%s", msg)
	}
}

func TestStatusResponds(t *testing.T) {
	def := build(t, Status(Deps{}))
	fc, ic := interaction("status", member("1", 0))
	if err := def.Interaction(context.Background(), ic); err != nil {
		t.Fatal(err)
	}
	if len(fc.responses) != 1 || len(fc.responses[0].Data.Embeds) != 1 {
		t.Fatalf("responses = %+v", fc.responses)
	}
	if !strings.Contains(fc.responses[0].Data.Embeds[0].Description, "Uptime:") {
		t.Errorf("embed = %+v", fc.responses[0].Data.Embeds[0])
	}
}
