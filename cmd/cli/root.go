package main

import (
	"fmt"

	"teambot/internal/command"
	"teambot/internal/commands"
	"teambot/internal/config"
	"teambot/internal/stats"
	"teambot/internal/version"
	"teambot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
)

// env is what the subcommands need from the outside world.
type env struct {
	loadConfig func() (*config.Config, error)
	connect    func(token string) (command.Registrar, error)
	factories  func(cfg *config.Config, reg *command.Registry) ([]command.Factory, error)
}

func defaultEnv() env {
	return env{
		loadConfig: config.Load,
		connect: func(token string) (command.Registrar, error) {
			return discordgo.New("Bot " + token)
		},
		factories: func(cfg *config.Config, reg *command.Registry) ([]command.Factory, error) {
			store, err := stats.Open(cfg.StatsPath, cfg.StatsBackupCount)
			if err != nil {
				return nil, err
			}
			return commands.Builtins(commands.Deps{
				Stats:    store,
				Commands: reg,
				Prefix:   cfg.Prefix,
			}), nil
		},
	}
}

func newRootCmd(e env) *cobra.Command {
	root := &cobra.Command{
		Use:           "cli",
		Short:         "Manage the bot's registered commands",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(
		newRegisterCmd(e),
		newResetCmd(e),
	)
	return root
}

// session is a connected registrar plus the config it came from.
type session struct {
	cfg       *config.Config
	policy    cmd.DuplicatePolicy
	registrar command.Registrar
}

func (e env) open() (*session, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireApplicationID(); err != nil {
		return nil, err
	}
	policy, err := cmd.ParseDuplicatePolicy(cfg.Duplicates)
	if err != nil {
		return nil, err
	}
	r, err := e.connect(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &session{cfg: cfg, policy: policy, registrar: r}, nil
}
