package stats

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"teambot/datastore"
)

// Store is the player statistics store. Every mutation rewrites the backing
// JSON document before returning. A single mutex serializes the
// read-modify-write-persist cycle, so concurrent updates never interleave.
type Store struct {
	mu sync.Mutex
	ds *datastore.Store[PlayerStats]
}

// Open loads the statistics document at path, creating it when absent.
// An unreadable document is moved aside and the store starts empty.
func Open(path string, backupCount int) (*Store, error) {
	cfg := datastore.DefaultConfig(path)
	cfg.BackupCount = backupCount

	ds, err := datastore.Open[PlayerStats](cfg)
	if err != nil {
		return nil, fmt.Errorf("open stats store: %w", err)
	}
	if moved := ds.RecoveredFrom(); moved != "" {
		log.Printf("[WARN] Player stats at %s were unreadable, moved to %s", path, moved)
	}

	for _, id := range ds.Keys() {
		p, _ := ds.Get(id)
		p.normalize()
		if p.UserID == "" {
			p.UserID = id
		}
		ds.Put(id, p)
	}

	return &Store{ds: ds}, nil
}

// Path returns the backing document path.
func (s *Store) Path() string { return s.ds.Path() }

// Upsert creates a zeroed record for a new player or refreshes the display name
// of an existing one.
func (s *Store) Upsert(userID, displayName string) (PlayerStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.upsertLocked(userID, displayName)
	return p.clone(), s.persist("upsert")
}

// AddWin records a win for game and raises the skill rating by WinDelta.
func (s *Store) AddWin(userID, displayName string, game Game) (PlayerStats, error) {
	return s.record(userID, displayName, game, func(r *GameRecord) {
		r.Wins++
		r.SkillRating += WinDelta
	}, "add win")
}

// AddLoss records a loss for game and lowers the skill rating by LossDelta.
// The rating has no floor.
func (s *Store) AddLoss(userID, displayName string, game Game) (PlayerStats, error) {
	return s.record(userID, displayName, game, func(r *GameRecord) {
		r.Losses++
		r.SkillRating -= LossDelta
	}, "add loss")
}

func (s *Store) record(userID, displayName string, game Game, apply func(*GameRecord), op string) (PlayerStats, error) {
	if !game.Valid() {
		return PlayerStats{}, fmt.Errorf("%w: %q", ErrUnknownGame, game)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.upsertLocked(userID, displayName)
	r := p.Games[game]
	apply(&r)
	p.Games[game] = r
	s.ds.Put(userID, p)

	return p.clone(), s.persist(op)
}

// Reset zeroes the given games for a player, or every game when none is given.
// It reports false, without writing, when the player is unknown.
func (s *Store) Reset(userID string, games ...Game) (bool, error) {
	for _, g := range games {
		if !g.Valid() {
			return false, fmt.Errorf("%w: %q", ErrUnknownGame, g)
		}
	}
	if len(games) == 0 {
		games = Games
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.ds.Get(userID)
	if !ok {
		return false, nil
	}
	for _, g := range games {
		p.Games[g] = GameRecord{}
	}
	s.ds.Put(userID, p)

	return true, s.persist("reset")
}

// Get returns a copy of the player's record.
func (s *Store) Get(userID string) (PlayerStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.ds.Get(userID)
	if !ok {
		return PlayerStats{}, false
	}
	return p.clone(), true
}

// Len returns the number of players on record.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ds.Len()
}

// Rating returns the player's skill rating for game, 0 for unknown players.
func (s *Store) Rating(userID string, game Game) int {
	p, ok := s.Get(userID)
	if !ok {
		return 0
	}
	return p.Games[game].SkillRating
}

// All returns copies of every record, ordered by user ID.
func (s *Store) All() []PlayerStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.ds.Keys()
	out := make([]PlayerStats, 0, len(keys))
	for _, k := range keys {
		p, _ := s.ds.Get(k)
		out = append(out, p.clone())
	}
	return out
}

// Leaderboard returns up to limit players who played game, highest skill
// rating first. Ties keep user ID order.
func (s *Store) Leaderboard(game Game, limit int) ([]PlayerStats, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, game)
	}
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	var ranked []PlayerStats
	for _, p := range s.All() {
		if p.Games[game].Played() > 0 {
			ranked = append(ranked, p)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Games[game].SkillRating > ranked[j].Games[game].SkillRating
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (s *Store) upsertLocked(userID, displayName string) PlayerStats {
	p, ok := s.ds.Get(userID)
	if !ok {
		p = newPlayer(userID, displayName)
	} else {
		p.DisplayName = displayName
	}
	s.ds.Put(userID, p)
	return p
}

func (s *Store) persist(op string) error {
	if err := s.ds.Save(); err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}
