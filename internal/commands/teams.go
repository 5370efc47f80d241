package commands

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"teambot/internal/command"
	"teambot/internal/discord"
	"teambot/internal/stats"

	"github.com/bwmarrin/discordgo"
)

const (
	minTeams = 2
	maxTeams = 25
)

func Teams(d Deps) command.Factory {
	return func() (*command.Definition, error) {
		if err := requireStats(d, "teams"); err != nil {
			return nil, err
		}
		return &command.Definition{
			Kind:        command.KindSlash,
			Name:        "teams",
			Description: "Split a list of members into teams.",
			Category:    categoryGameplay,
			Parameters: []command.Parameter{
				{
					Name:        "count",
					Description: "Number of teams (2-25)",
					Type:        command.ParamInteger,
					Required:    true,
				},
				{
					Name:        "members",
					Description: "Members separated by spaces or commas (mentions work)",
					Type:        command.ParamText,
					Required:    true,
				},
				{
					Name:        "mode",
					Description: "How to split (defaults to random)",
					Type:        command.ParamText,
					Choices: []command.Choice{
						{Name: "Random", Value: "random"},
						{Name: "Balanced by rating", Value: "balanced"},
					},
				},
				gameParameter("Game whose rating balances the teams", false),
			},
			Interaction: func(_ context.Context, ic *command.InteractionContext) error {
				count, _ := ic.IntOption("count")
				count = clampTeams(count)

				members := parseMembers(ic.StringOption("members"))
				if len(members) < 2 {
					return command.Invalid("Give at least two members.")
				}
				if count > len(members) {
					return command.Invalid("Cannot make %d teams out of %d members.", count, len(members))
				}

				var (
					teams  [][]string
					rating func(string) int
				)
				switch ic.StringOption("mode") {
				case "balanced":
					g, err := gameOption(ic, stats.GameValorant)
					if err != nil {
						return err
					}
					rating = func(member string) int {
						if id, ok := mentionID(member); ok {
							return d.Stats.Rating(id, g)
						}
						return 0
					}
					teams = splitBalanced(members, count, rating)
				default:
					teams = splitRandom(members, count, rand.Shuffle)
				}

				return ic.RespondEmbed(teamsEmbed(teams, rating))
			},
		}, nil
	}
}

func clampTeams(n int) int {
	switch {
	case n < minTeams:
		return minTeams
	case n > maxTeams:
		return maxTeams
	}
	return n
}

var memberSeparator = regexp.MustCompile(`[\s,]+`)

// parseMembers splits on whitespace and commas, dropping blanks and repeats.
func parseMembers(s string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range memberSeparator.Split(s, -1) {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// splitRandom shuffles members and deals them round-robin into n teams.
func splitRandom(members []string, n int, shuffle func(int, func(i, j int))) [][]string {
	pool := append([]string(nil), members...)
	shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	teams := make([][]string, n)
	for i, m := range pool {
		teams[i%n] = append(teams[i%n], m)
	}
	return teams
}

// splitBalanced deals members, strongest first, in snake order:
// 0..n-1 then n-1..0 and so on.
func splitBalanced(members []string, n int, rating func(string) int) [][]string {
	pool := append([]string(nil), members...)
	sort.SliceStable(pool, func(i, j int) bool { return rating(pool[i]) > rating(pool[j]) })

	teams := make([][]string, n)
	for i, m := range pool {
		round, pos := i/n, i%n
		if round%2 == 1 {
			pos = n - 1 - pos
		}
		teams[pos] = append(teams[pos], m)
	}
	return teams
}

func teamsEmbed(teams [][]string, rating func(string) int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🎲 Teams",
		Color: discord.EmbedColor,
	}
	for i, team := range teams {
		name := fmt.Sprintf("Team %d", i+1)
		if rating != nil {
			total := 0
			for _, m := range team {
				total += rating(m)
			}
			name = fmt.Sprintf("Team %d (%d SR)", i+1, total)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   name,
			Value:  strings.Join(team, "\n"),
			Inline: true,
		})
	}
	return embed
}
