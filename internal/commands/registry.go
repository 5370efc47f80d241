// Package commands holds the bot's built-in command definitions.
package commands

import (
	"fmt"
	"time"

	"teambot/internal/command"
	"teambot/internal/discord"
	"teambot/internal/stats"
	"teambot/pkg/jobmgr"
	"teambot/pkg/retrylimit"
)

// Deps is everything the built-in commands need from the running bot.
type Deps struct {
	Stats    *stats.Store
	Jobs     *jobmgr.Manager
	Commands *command.Registry
	Prefix   string

	// Publish queues a system event; defaults to discord.PublishSystemEvent.
	Publish func(discord.SystemEvent) bool
	// Limiter paces individual message deletes.
	Limiter *retrylimit.AdaptiveLimiter

	// Started is the process start time reported by /status; defaults to now.
	Started time.Time
	// Latency reports the gateway heartbeat round trip. May be nil.
	Latency func() time.Duration
}

// Builtins returns a factory per built-in command, in help order.
func Builtins(d Deps) []command.Factory {
	d = d.withDefaults()
	return []command.Factory{
		Ping(),
		Help(d),
		Status(d),
		Stats(d),
		Leaderboard(d),
		Teams(d),
		PlayerStats(d),
		Cleaner(d),
	}
}

func (d Deps) withDefaults() Deps {
	if d.Publish == nil {
		d.Publish = discord.PublishSystemEvent
	}
	if d.Limiter == nil {
		d.Limiter = retrylimit.NewAdaptiveLimiter(4, 1, 8, 1, 0.5)
	}
	if d.Started.IsZero() {
		d.Started = time.Now()
	}
	return d
}

func requireStats(d Deps, name string) error {
	if d.Stats == nil {
		return fmt.Errorf("%s: stats store is not configured", name)
	}
	return nil
}
