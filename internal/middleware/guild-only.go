package middleware

import (
	"context"

	"teambot/internal/command"
	"teambot/pkg/cmd"
)

// WithGuildOnly rejects invocations outside a guild for definitions marked GuildOnly.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			def := command.DefinitionOf(c)
			if def == nil || !def.GuildOnly {
				return c.Run(ctx, inv)
			}
			if _, guildID := invoker(inv); guildID == "" {
				return command.Invalid("This command can only be used in a server.")
			}
			return c.Run(ctx, inv)
		})
	}
}
