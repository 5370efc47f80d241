package commands

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"teambot/internal/command"
	"teambot/internal/discord"
	"teambot/internal/stats"

	"github.com/bwmarrin/discordgo"
)

const (
	categoryInformation = "🕯️ Information"
	categoryGameplay    = "🎲 Gameplay"
	categoryCleanup     = "🧹 Cleanup"
)

func gameChoices() []command.Choice {
	out := make([]command.Choice, 0, len(stats.Games))
	for _, g := range stats.Games {
		out = append(out, command.Choice{Name: g.Title(), Value: string(g)})
	}
	return out
}

func gameParameter(description string, required bool) command.Parameter {
	return command.Parameter{
		Name:        "game",
		Description: description,
		Type:        command.ParamText,
		Required:    required,
		Choices:     gameChoices(),
	}
}

// gameOption reads the "game" option, falling back to def when it is unset.
func gameOption(ic *command.InteractionContext, def stats.Game) (stats.Game, error) {
	raw := ic.StringOption("game")
	if raw == "" {
		if def == "" {
			return "", command.Invalid("Pick a game.")
		}
		return def, nil
	}
	g, err := stats.ParseGame(raw)
	if err != nil {
		return "", command.Invalid("Unknown game `%s`.", raw)
	}
	return g, nil
}

// storeError turns stats errors into what the handler should return.
// A failed write is logged only: the change is live in memory and the reply
// still goes out.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	var perr *stats.PersistenceError
	if errors.As(err, &perr) {
		log.Printf("[ERR] %v", perr)
		return nil
	}
	if errors.Is(err, stats.ErrUnknownGame) {
		return command.Invalid("Unknown game.")
	}
	return err
}

// target returns the user named by option, or the invoker, with a display name.
func target(ic *command.InteractionContext, option string) (*discordgo.User, string, bool) {
	if u := ic.UserOption(option); u != nil && u.ID != ic.User().ID {
		name := command.UserDisplayName(u)
		if m := ic.ResolvedMember(u.ID); m != nil && m.Nick != "" {
			name = m.Nick
		}
		if name == "" {
			name = u.ID
		}
		return u, name, true
	}
	return ic.User(), ic.DisplayName(), false
}

func statsEmbed(p stats.PlayerStats, games ...stats.Game) *discordgo.MessageEmbed {
	if len(games) == 0 {
		games = stats.Games
	}
	embed := &discordgo.MessageEmbed{
		Title: "📊 " + p.DisplayName,
		Color: discord.EmbedColor,
	}
	for _, g := range games {
		r := p.Games[g]
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   g.Title(),
			Value:  fmt.Sprintf("Rating **%d**\n%dW / %dL (%d%%)", r.SkillRating, r.Wins, r.Losses, r.WinRate()),
			Inline: true,
		})
	}
	return embed
}

func mention(userID string) string {
	return "<@" + userID + ">"
}

// mentionID extracts the user ID from "<@123>" or "<@!123>".
func mentionID(s string) (string, bool) {
	if !strings.HasPrefix(s, "<@") || !strings.HasSuffix(s, ">") {
		return "", false
	}
	id := strings.TrimPrefix(strings.TrimSuffix(s[2:], ">"), "!")
	if id == "" {
		return "", false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return id, true
}
