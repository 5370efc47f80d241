package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teambot/internal/api"
	"teambot/internal/command"
	"teambot/internal/commands"
	"teambot/internal/config"
	"teambot/internal/discord"
	"teambot/internal/middleware"
	"teambot/internal/stats"
	v "teambot/internal/version"
	"teambot/pkg/cmd"
	"teambot/pkg/jobmgr"
)

func main() {
	started := time.Now()
	log.Printf("[INFO] Starting %v...", v.Get())

	cfg, err := config.Load()
	if err != nil {
		log.Printf("[ERR] %v", err)
		os.Exit(1)
	}
	policy, err := cmd.ParseDuplicatePolicy(cfg.Duplicates)
	if err != nil {
		log.Printf("[ERR] %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := stats.Open(cfg.StatsPath, cfg.StatsBackupCount)
	if err != nil {
		log.Printf("[ERR] %v", err)
		os.Exit(1)
	}
	log.Printf("[INFO] Player stats loaded from %s (%d players)", store.Path(), store.Len())

	jobs := jobmgr.NewManager(func(msg string) { log.Printf("[DEBUG] job %s", msg) })

	bot := discord.NewBot(cfg)
	registry := command.NewRegistry(policy, middleware.Defaults(bot)...)
	bot.Use(registry, commands.Builtins(commands.Deps{
		Stats:    store,
		Jobs:     jobs,
		Commands: registry,
		Prefix:   cfg.Prefix,
		Started:  started,
		Latency:  bot.Latency,
	}))

	errCh := make(chan error, 2)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	if cfg.APIEnabled {
		go func() {
			if err := api.Serve(ctx, cfg.APIAddr, store); err != nil {
				errCh <- err
			}
		}()
	} else {
		log.Println("[INFO] Stats API disabled")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
	case err := <-errCh:
		log.Println("[ERR] Fatal error:", err)
	}
	cancel()

	log.Printf("[INFO] Stopping background jobs. %s", jobs.Status())
	jobs.StopAll()
	log.Println("[INFO] Discord bot exited cleanly")
}
