package commands

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"teambot/internal/command"
	"teambot/internal/discord"
	"teambot/internal/stats"

	"github.com/bwmarrin/discordgo"
)

// menuLifetime is how long the game select menu stays usable.
var menuLifetime = 60 * time.Second

func Leaderboard(d Deps) command.Factory {
	return func() (*command.Definition, error) {
		if err := requireStats(d, "leaderboard"); err != nil {
			return nil, err
		}
		return &command.Definition{
			Kind:        command.KindSlash,
			Name:        "leaderboard",
			Description: "Show the top players for a game.",
			Category:    categoryGameplay,
			Parameters: []command.Parameter{
				gameParameter("Game to rank (defaults to Valorant)", false),
				{
					Name:        "limit",
					Description: "How many players to show (1-25)",
					Type:        command.ParamInteger,
				},
			},
			Interaction: func(_ context.Context, ic *command.InteractionContext) error {
				g, err := gameOption(ic, stats.GameValorant)
				if err != nil {
					return err
				}
				limit, _ := ic.IntOption("limit")
				limit = clampLimit(limit)

				embed, err := leaderboardEmbed(d.Stats, g, limit)
				if err != nil {
					return err
				}
				if err := ic.RespondEmbed(embed, gameMenu(g, limit)); err != nil {
					return err
				}
				expireMenu(d, ic)
				return nil
			},
			Component: func(_ context.Context, cc *command.ComponentContext) error {
				kind, rawLimit, _ := strings.Cut(cc.CustomID, ":")
				if kind != "game" || len(cc.Values) == 0 {
					return fmt.Errorf("leaderboard: unexpected component %q", cc.CustomID)
				}
				g, err := stats.ParseGame(cc.Values[0])
				if err != nil {
					return command.Invalid("Unknown game `%s`.", cc.Values[0])
				}
				limit, _ := strconv.Atoi(rawLimit)
				limit = clampLimit(limit)

				embed, err := leaderboardEmbed(d.Stats, g, limit)
				if err != nil {
					return err
				}
				if err := cc.UpdateMessage(embed, gameMenu(g, limit)); err != nil {
					return err
				}
				renewMenu(d, cc)
				return nil
			},
		}, nil
	}
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return stats.DefaultLeaderboardLimit
	case n > 25:
		return 25
	}
	return n
}

func leaderboardEmbed(store *stats.Store, g stats.Game, limit int) (*discordgo.MessageEmbed, error) {
	board, err := store.Leaderboard(g, limit)
	if err != nil {
		return nil, storeError(err)
	}

	embed := &discordgo.MessageEmbed{
		Title: "🏆 " + g.Title() + " leaderboard",
		Color: discord.EmbedColor,
	}
	if len(board) == 0 {
		embed.Description = fmt.Sprintf("No games recorded for %s yet.", g.Title())
		return embed, nil
	}

	var sb strings.Builder
	for i, p := range board {
		r := p.Games[g]
		fmt.Fprintf(&sb, "**%d.** %s · %d SR · %dW / %dL (%d%%)\n",
			i+1, p.DisplayName, r.SkillRating, r.Wins, r.Losses, r.WinRate())
	}
	embed.Description = sb.String()
	return embed, nil
}

// gameMenu is the select menu; its custom ID carries the limit so a switch
// keeps the same page size.
func gameMenu(selected stats.Game, limit int) discordgo.MessageComponent {
	opts := make([]discordgo.SelectMenuOption, 0, len(stats.Games))
	for _, g := range stats.Games {
		opts = append(opts, discordgo.SelectMenuOption{
			Label:   g.Title(),
			Value:   string(g),
			Default: g == selected,
		})
	}
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.SelectMenu{
			CustomID:    fmt.Sprintf("leaderboard:game:%d", limit),
			Placeholder: "Switch game",
			Options:     opts,
		},
	}}
}

func expireMenu(d Deps, ic *command.InteractionContext) {
	if d.Jobs == nil {
		return
	}
	scheduleExpiry(d, menuJob(ic.Interaction.ID), ic)
}

// renewMenu restarts the expiry of the menu a selection came from, so the
// menu stays up for menuLifetime after its last use.
func renewMenu(d Deps, cc *command.ComponentContext) {
	msg := cc.Interaction.Message
	if d.Jobs == nil || msg == nil || msg.Interaction == nil {
		return
	}
	name := menuJob(msg.Interaction.ID)
	if err := d.Jobs.Stop(name); err != nil {
		log.Printf("[DEBUG] No expiry to renew for %s: %v", name, err)
	}
	scheduleExpiry(d, name, cc.InteractionContext)
}

func menuJob(interactionID string) string {
	return "leaderboard:" + interactionID
}

func scheduleExpiry(d Deps, name string, ic *command.InteractionContext) {
	err := d.Jobs.After(name, menuLifetime, func() {
		if err := ic.ClearComponents(); err != nil {
			log.Printf("[WARN] Failed to remove leaderboard menu: %v", err)
		}
	})
	if err != nil {
		log.Printf("[WARN] Leaderboard menu will not expire: %v", err)
	}
}
