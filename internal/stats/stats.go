// Package stats keeps per-player, per-game win/loss counters and skill ratings.
package stats

import (
	"errors"
	"fmt"
)

// Game identifies one of the tracked games.
type Game string

const (
	GameValorant Game = "valorant"
	GameLoL      Game = "lol"
)

// Games is the closed set of tracked games, in display order.
var Games = []Game{GameValorant, GameLoL}

var gameTitles = map[Game]string{
	GameValorant: "Valorant",
	GameLoL:      "League of Legends",
}

// Title returns the display name of the game.
func (g Game) Title() string {
	if t, ok := gameTitles[g]; ok {
		return t
	}
	return string(g)
}

// Valid reports whether g is a tracked game.
func (g Game) Valid() bool {
	_, ok := gameTitles[g]
	return ok
}

// ParseGame validates a game identifier.
func ParseGame(s string) (Game, error) {
	g := Game(s)
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownGame, s)
	}
	return g, nil
}

// Rating deltas applied per recorded game.
const (
	WinDelta  = 25
	LossDelta = 20
)

// DefaultLeaderboardLimit is used when Leaderboard is called with limit <= 0.
const DefaultLeaderboardLimit = 10

// GameRecord holds one player's results for one game.
// SkillRating may go negative.
type GameRecord struct {
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	SkillRating int `json:"skillRating"`
}

// Played returns wins + losses.
func (r GameRecord) Played() int { return r.Wins + r.Losses }

// WinRate returns the rounded win percentage, 0 when nothing was played.
func (r GameRecord) WinRate() int {
	if r.Played() == 0 {
		return 0
	}
	return (r.Wins*100 + r.Played()/2) / r.Played()
}

// PlayerStats is the persisted record of one player.
type PlayerStats struct {
	UserID      string              `json:"userId"`
	DisplayName string              `json:"displayName"`
	Games       map[Game]GameRecord `json:"games"`
}

func newPlayer(userID, displayName string) PlayerStats {
	p := PlayerStats{UserID: userID, DisplayName: displayName}
	p.normalize()
	return p
}

// normalize makes sure every tracked game has an entry.
func (p *PlayerStats) normalize() {
	if p.Games == nil {
		p.Games = make(map[Game]GameRecord, len(Games))
	}
	for _, g := range Games {
		if _, ok := p.Games[g]; !ok {
			p.Games[g] = GameRecord{}
		}
	}
}

func (p PlayerStats) clone() PlayerStats {
	c := p
	c.Games = make(map[Game]GameRecord, len(p.Games))
	for g, r := range p.Games {
		c.Games[g] = r
	}
	return c
}

// ErrUnknownGame is returned for game identifiers outside Games.
var ErrUnknownGame = errors.New("unknown game")

// PersistenceError reports that a mutation was applied in memory but could not
// be written to disk. The in-memory state keeps the mutation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("stats: %s: persist failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
