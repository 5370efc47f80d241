package commands

import (
	"context"
	"fmt"

	"teambot/internal/command"
	"teambot/internal/stats"
)

func Stats(d Deps) command.Factory {
	return func() (*command.Definition, error) {
		if err := requireStats(d, "stats"); err != nil {
			return nil, err
		}
		return &command.Definition{
			Kind:        command.KindSlash,
			Name:        "stats",
			Description: "Show or update player statistics.",
			Category:    categoryGameplay,
			GuildOnly:   true,
			Parameters: []command.Parameter{
				{
					Name:        "action",
					Description: "What to do",
					Type:        command.ParamText,
					Required:    true,
					Choices: []command.Choice{
						{Name: "Show", Value: "show"},
						{Name: "Record a win", Value: "win"},
						{Name: "Record a loss", Value: "loss"},
						{Name: "Reset", Value: "reset"},
					},
				},
				gameParameter("Game to show or update", false),
				{
					Name:        "player",
					Description: "Player to show or update (defaults to you)",
					Type:        command.ParamUser,
				},
			},
			Interaction: func(_ context.Context, ic *command.InteractionContext) error {
				return runStats(d.Stats, ic)
			},
		}, nil
	}
}

func runStats(store *stats.Store, ic *command.InteractionContext) error {
	user, name, other := target(ic, "player")
	action := ic.StringOption("action")

	if action != "show" && other && !ic.IsAdministrator() {
		return command.Invalid("Only administrators can change another player's stats.")
	}

	switch action {
	case "show":
		p, ok := store.Get(user.ID)
		if !ok {
			return ic.Respond(fmt.Sprintf("%s has no recorded games yet.", name))
		}
		var games []stats.Game
		if raw := ic.StringOption("game"); raw != "" {
			g, err := gameOption(ic, "")
			if err != nil {
				return err
			}
			games = append(games, g)
		}
		return ic.RespondEmbed(statsEmbed(p, games...))

	case "win", "loss":
		g, err := gameOption(ic, "")
		if err != nil {
			return err
		}
		record, verb := store.AddWin, "Win"
		if action == "loss" {
			record, verb = store.AddLoss, "Loss"
		}
		p, err := record(user.ID, name, g)
		if err := storeError(err); err != nil {
			return err
		}
		r := p.Games[g]
		return ic.Respond(fmt.Sprintf("%s recorded for %s in %s. Rating is now **%d** (%dW / %dL).",
			verb, name, g.Title(), r.SkillRating, r.Wins, r.Losses))

	case "reset":
		var games []stats.Game
		if ic.StringOption("game") != "" {
			g, err := gameOption(ic, "")
			if err != nil {
				return err
			}
			games = append(games, g)
		}
		ok, err := store.Reset(user.ID, games...)
		if err := storeError(err); err != nil {
			return err
		}
		if !ok {
			return command.Invalid("%s has no stats to reset.", name)
		}
		scope := "all games"
		if len(games) == 1 {
			scope = games[0].Title()
		}
		return ic.Respond(fmt.Sprintf("Stats for %s reset (%s).", name, scope))
	}

	return command.Invalid("Unknown action `%s`.", action)
}
