package commands

import (
	"context"
	"fmt"

	"teambot/internal/command"
)

// PlayerStats is the user context menu entry showing someone's stats.
func PlayerStats(d Deps) command.Factory {
	return func() (*command.Definition, error) {
		if err := requireStats(d, "player stats"); err != nil {
			return nil, err
		}
		return &command.Definition{
			Kind:        command.KindContext,
			ContextKind: command.ContextUser,
			Name:        "Player stats",
			Category:    categoryGameplay,
			Interaction: func(_ context.Context, ic *command.InteractionContext) error {
				u := ic.TargetUser()
				if u == nil {
					return command.Invalid("No user selected.")
				}
				p, ok := d.Stats.Get(u.ID)
				if !ok {
					return ic.RespondEphemeral(fmt.Sprintf("%s has no recorded games yet.", mention(u.ID)))
				}
				return ic.RespondEmbed(statsEmbed(p))
			},
		}, nil
	}
}
