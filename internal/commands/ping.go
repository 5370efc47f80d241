package commands

import (
	"context"

	"teambot/internal/command"
)

func Ping() command.Factory {
	return func() (*command.Definition, error) {
		return &command.Definition{
			Kind:        command.KindText,
			Name:        "ping",
			Description: "Check that the bot is alive.",
			Category:    categoryInformation,
			Text: func(_ context.Context, mc *command.MessageContext) error {
				return mc.Reply("Pong!")
			},
		}, nil
	}
}
