package middleware

import (
	"context"
	"log"
	"time"

	"teambot/internal/command"
	"teambot/pkg/cmd"
)

// WithCommandLogger logs every invocation with its caller, duration and result.
func WithCommandLogger() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)
			took := time.Since(start).Round(time.Millisecond)

			kind := kindOf(inv)
			userID, guildID := invoker(inv)
			switch {
			case err == nil:
				log.Printf("[INFO] %s %s by %s in %s (%s)", kind, c.Name(), userID, scope(guildID), took)
			case isValidation(err):
				log.Printf("[INFO] %s %s by %s in %s rejected: %v", kind, c.Name(), userID, scope(guildID), err)
			default:
				log.Printf("[WARN] %s %s by %s in %s failed after %s", kind, c.Name(), userID, scope(guildID), took)
			}
			return err
		})
	}
}

func kindOf(inv *cmd.Invocation) string {
	switch inv.Data.(type) {
	case *command.MessageContext:
		return "text"
	case *command.ComponentContext:
		return "component"
	case *command.InteractionContext:
		return "interaction"
	}
	return "command"
}

func scope(guildID string) string {
	if guildID == "" {
		return "DM"
	}
	return "guild " + guildID
}
