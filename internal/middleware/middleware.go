// Package middleware wraps commands with checks and logging that apply to every command.
package middleware

import (
	"errors"

	"teambot/internal/command"
	"teambot/pkg/cmd"
)

// Defaults returns the middleware chain the bot applies, innermost first.
func Defaults(resolver PermissionResolver) []cmd.Middleware {
	return []cmd.Middleware{
		WithPermissionCheck(resolver),
		WithGuildOnly(),
		WithCommandLogger(),
	}
}

func invoker(inv *cmd.Invocation) (userID, guildID string) {
	switch v := inv.Data.(type) {
	case *command.MessageContext:
		if v.Message.Author != nil {
			userID = v.Message.Author.ID
		}
		return userID, v.Message.GuildID
	case *command.ComponentContext:
		if u := v.User(); u != nil {
			userID = u.ID
		}
		return userID, v.Interaction.GuildID
	case *command.InteractionContext:
		if u := v.User(); u != nil {
			userID = u.ID
		}
		return userID, v.Interaction.GuildID
	}
	return "", ""
}

func isValidation(err error) bool {
	var verr *command.ValidationError
	return errors.As(err, &verr)
}
