package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"teambot/internal/command"
	"teambot/internal/discord"
	"teambot/internal/version"

	"github.com/bwmarrin/discordgo"
)

func Status(d Deps) command.Factory {
	d = d.withDefaults()
	return func() (*command.Definition, error) {
		return &command.Definition{
			Kind:        command.KindSlash,
			Name:        "status",
			Description: "Show bot version, uptime and gateway latency.",
			Category:    categoryInformation,
			Interaction: func(_ context.Context, ic *command.InteractionContext) error {
				return ic.RespondEmbed(&discordgo.MessageEmbed{
					Title:       "📊 Bot Status",
					Description: buildStatusMessage(d, time.Now()),
					Color:       discord.EmbedColor,
				})
			},
		}, nil
	}
}

func buildStatusMessage(d Deps, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("- Version: %s\n", version.Get()))
	sb.WriteString(fmt.Sprintf("- Uptime: %s\n", now.Sub(d.Started).Round(time.Second)))

	if d.Latency != nil && d.Latency() > 0 {
		sb.WriteString(fmt.Sprintf("- Gateway latency: %dms\n", d.Latency().Milliseconds()))
	} else {
		sb.WriteString("- Gateway latency: n/a\n")
	}
	if d.Stats != nil {
		sb.WriteString(fmt.Sprintf("- Players tracked: %d\n", d.Stats.Len()))
	}
	if d.Jobs != nil {
		sb.WriteString(fmt.Sprintf("- Background jobs: %d\n", len(d.Jobs.List())))
	}
	return sb.String()
}
