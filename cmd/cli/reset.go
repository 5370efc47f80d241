package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"teambot/internal/command"

	"github.com/spf13/cobra"
)

const confirmPrompt = `Type "yes" to wipe all commands: `

func newResetCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Wipe all registered commands, then register them again",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			s, err := e.open()
			if err != nil {
				return err
			}

			w := c.OutOrStdout()
			fmt.Fprint(w, confirmPrompt)
			answer, _ := bufio.NewReader(c.InOrStdin()).ReadString('\n')
			if strings.TrimSpace(answer) != "yes" {
				fmt.Fprintln(w, "Aborted.")
				return nil
			}

			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if _, err := command.Register(ctx, s.registrar, s.cfg.ApplicationID, "", nil); err != nil {
				return err
			}
			fmt.Fprintln(w, "Cleared global commands")
			if s.cfg.GuildID != "" {
				if _, err := command.Register(ctx, s.registrar, s.cfg.ApplicationID, s.cfg.GuildID, nil); err != nil {
					return err
				}
				fmt.Fprintf(w, "Cleared commands in guild %s\n", s.cfg.GuildID)
			}
			return runRegister(ctx, w, e, s)
		},
	}
}
