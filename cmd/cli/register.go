package main

import (
	"context"
	"fmt"
	"io"

	"teambot/internal/command"

	"github.com/spf13/cobra"
)

func newRegisterCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register every command in the configured scope",
		Long:  "Register replaces the command set of the guild named by GUILD_ID, or the global set when it is empty.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			s, err := e.open()
			if err != nil {
				return err
			}
			return runRegister(c.Context(), c.OutOrStdout(), e, s)
		},
	}
}

func runRegister(ctx context.Context, w io.Writer, e env, s *session) error {
	if ctx == nil {
		ctx = context.Background()
	}
	reg := command.NewRegistry(s.policy)

	factories, err := e.factories(s.cfg, reg)
	if err != nil {
		return err
	}
	defs, errs := command.Discover(factories)
	if len(errs) > 0 {
		fmt.Fprintf(w, "Skipped %d invalid command(s)\n", len(errs))
	}
	if err := reg.Load(defs); err != nil {
		fmt.Fprintf(w, "Skipped %d duplicate command(s) under the %s policy\n", countErrors(err), s.policy)
	}

	n, err := command.Register(ctx, s.registrar, s.cfg.ApplicationID, s.cfg.GuildID, command.BuildSchema(reg.Definitions()))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Registered %d command(s) in %s scope\n", n, command.Scope(s.cfg.GuildID))
	return nil
}

func countErrors(err error) int {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}
