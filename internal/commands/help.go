package commands

import (
	"context"
	"fmt"
	"strings"

	"teambot/internal/command"
	"teambot/internal/config"
	"teambot/internal/discord"

	"github.com/bwmarrin/discordgo"
)

func Help(d Deps) command.Factory {
	return func() (*command.Definition, error) {
		if d.Commands == nil {
			return nil, fmt.Errorf("help: command registry is not configured")
		}
		return &command.Definition{
			Kind:        command.KindSlash,
			Name:        "help",
			Description: "Show a list of available commands.",
			Category:    categoryInformation,
			Interaction: func(_ context.Context, ic *command.InteractionContext) error {
				return ic.RespondEmbed(&discordgo.MessageEmbed{
					Title:       "📖 Available Commands",
					Description: buildHelpMessage(d.Commands, d.Prefix),
					Color:       discord.EmbedColor,
				})
			},
		}, nil
	}
}

func buildHelpMessage(reg *command.Registry, prefix string) string {
	cats, groups := reg.ByCategory(config.CategoryWeights)

	var sb strings.Builder
	for _, cat := range cats {
		title := cat
		if title == "" {
			title = "Other"
		}
		sb.WriteString(fmt.Sprintf("**%s**\n", title))
		for _, def := range groups[cat] {
			switch def.Kind {
			case command.KindText:
				sb.WriteString(fmt.Sprintf("`%s%s` - %s\n", prefix, def.Name, def.Description))
			case command.KindContext:
				sb.WriteString(fmt.Sprintf("`%s` - right-click menu\n", def.Name))
			default:
				sb.WriteString(fmt.Sprintf("`/%s` - %s\n", def.Name, def.Description))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
