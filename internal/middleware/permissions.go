package middleware

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"teambot/internal/command"
	"teambot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var PermissionNames = map[int64]string{
	discordgo.PermissionKickMembers:        "Kick Members",
	discordgo.PermissionBanMembers:         "Ban Members",
	discordgo.PermissionAdministrator:      "Administrator",
	discordgo.PermissionManageChannels:     "Manage Channels",
	discordgo.PermissionManageGuild:        "Manage Server",
	discordgo.PermissionViewChannel:        "View Channel",
	discordgo.PermissionSendMessages:       "Send Messages",
	discordgo.PermissionManageMessages:     "Manage Messages",
	discordgo.PermissionReadMessageHistory: "Read Message History",
	discordgo.PermissionMentionEveryone:    "Mention Everyone",
	discordgo.PermissionManageNicknames:    "Manage Nicknames",
	discordgo.PermissionManageRoles:        "Manage Roles",
	discordgo.PermissionModerateMembers:    "Moderate Members",
}

// PermissionResolver computes a member's effective permissions in a channel.
type PermissionResolver interface {
	UserChannelPermissions(userID, channelID string) (int64, error)
}

// WithPermissionCheck enforces Definition.Permissions. Interactions carry the
// member's permissions; text triggers ask the resolver. Administrators pass.
func WithPermissionCheck(resolver PermissionResolver) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			def := command.DefinitionOf(c)
			if def == nil || def.Permissions == 0 {
				return c.Run(ctx, inv)
			}

			var have int64
			switch v := inv.Data.(type) {
			case *command.ComponentContext:
				if m := v.Interaction.Member; m != nil {
					have = m.Permissions
				}
			case *command.InteractionContext:
				if m := v.Interaction.Member; m != nil {
					have = m.Permissions
				}
			case *command.MessageContext:
				if v.Message.GuildID == "" || v.Message.Author == nil {
					break
				}
				if resolver == nil {
					return errors.New("no permission resolver for text commands")
				}
				p, err := resolver.UserChannelPermissions(v.Message.Author.ID, v.Message.ChannelID)
				if err != nil {
					return fmt.Errorf("failed to get user permissions: %w", err)
				}
				have = p
			default:
				return c.Run(ctx, inv)
			}

			if have&discordgo.PermissionAdministrator != 0 || have&def.Permissions == def.Permissions {
				return c.Run(ctx, inv)
			}
			return command.Invalid("You need the following permissions to run this command: `%s`",
				strings.Join(PermissionList(def.Permissions&^have), "`, `"))
		})
	}
}

// PermissionList names every bit set in mask, lowest bit first.
func PermissionList(mask int64) []string {
	var names []string
	for m := uint64(mask); m != 0; m &= m - 1 {
		bit := int64(1) << bits.TrailingZeros64(m)
		name, ok := PermissionNames[bit]
		if !ok {
			name = fmt.Sprintf("0x%x", bit)
		}
		names = append(names, name)
	}
	return names
}
