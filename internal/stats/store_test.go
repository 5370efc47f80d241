package stats

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "playerStats.json")
	s, err := Open(path, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s, path
}

func TestAddWinAndLoss(t *testing.T) {
	s, _ := openTestStore(t)

	p, err := s.AddWin("42", "Ann", GameValorant)
	if err != nil {
		t.Fatalf("AddWin: %v", err)
	}
	if got := p.Games[GameValorant]; got != (GameRecord{Wins: 1, SkillRating: 25}) {
		t.Errorf("after win: %+v", got)
	}

	p, err = s.AddLoss("42", "Ann", GameValorant)
	if err != nil {
		t.Fatalf("AddLoss: %v", err)
	}
	if got := p.Games[GameValorant]; got != (GameRecord{Wins: 1, Losses: 1, SkillRating: 5}) {
		t.Errorf("after loss: %+v", got)
	}

	stored, ok := s.Get("42")
	if !ok {
		t.Fatal("player 42 missing")
	}
	if got := stored.Games[GameValorant]; got != (GameRecord{Wins: 1, Losses: 1, SkillRating: 5}) {
		t.Errorf("stored: %+v", got)
	}
	if got := stored.Games[GameLoL]; got != (GameRecord{}) {
		t.Errorf("other game should stay zero, got %+v", got)
	}
}

func TestTwoWinsAddFifty(t *testing.T) {
	s, _ := openTestStore(t)
	for i := 0; i < 2; i++ {
		if _, err := s.AddWin("u", "name", GameLoL); err != nil {
			t.Fatal(err)
		}
	}
	r := s.Rating("u", GameLoL)
	p, _ := s.Get("u")
	if p.Games[GameLoL].Wins != 2 || r != 2*WinDelta {
		t.Errorf("wins=%d rating=%d", p.Games[GameLoL].Wins, r)
	}
}

func TestLossOnFreshPlayerGoesNegative(t *testing.T) {
	s, _ := openTestStore(t)
	p, err := s.AddLoss("new", "Newbie", GameValorant)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Games[GameValorant]; got.Losses != 1 || got.SkillRating != -20 {
		t.Errorf("got %+v", got)
	}
}

func TestUpsertCreatesEveryGameAndRenames(t *testing.T) {
	s, _ := openTestStore(t)

	p, err := s.Upsert("7", "Old")
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range Games {
		if _, ok := p.Games[g]; !ok {
			t.Errorf("missing game %s on new player", g)
		}
	}

	p, err = s.Upsert("7", "New")
	if err != nil {
		t.Fatal(err)
	}
	if p.DisplayName != "New" {
		t.Errorf("display name = %q", p.DisplayName)
	}
	if len(s.All()) != 1 {
		t.Errorf("upsert of an existing player must not add a record")
	}
}

func TestReset(t *testing.T) {
	t.Run("single game", func(t *testing.T) {
		s, _ := openTestStore(t)
		s.AddWin("1", "A", GameValorant)
		s.AddWin("1", "A", GameLoL)

		ok, err := s.Reset("1", GameValorant)
		if err != nil || !ok {
			t.Fatalf("Reset = %v, %v", ok, err)
		}
		p, _ := s.Get("1")
		if p.Games[GameValorant] != (GameRecord{}) {
			t.Errorf("valorant not reset: %+v", p.Games[GameValorant])
		}
		if p.Games[GameLoL] != (GameRecord{Wins: 1, SkillRating: 25}) {
			t.Errorf("lol should be untouched: %+v", p.Games[GameLoL])
		}
	})

	t.Run("all games", func(t *testing.T) {
		s, _ := openTestStore(t)
		s.AddWin("1", "A", GameValorant)
		s.AddLoss("1", "A", GameLoL)

		if ok, err := s.Reset("1"); err != nil || !ok {
			t.Fatalf("Reset = %v, %v", ok, err)
		}
		p, _ := s.Get("1")
		for _, g := range Games {
			if p.Games[g] != (GameRecord{}) {
				t.Errorf("%s not reset: %+v", g, p.Games[g])
			}
		}
	})

	t.Run("unknown player", func(t *testing.T) {
		s, _ := openTestStore(t)
		ok, err := s.Reset("ghost")
		if err != nil || ok {
			t.Errorf("Reset(ghost) = %v, %v; want false, nil", ok, err)
		}
		if _, exists := s.Get("ghost"); exists {
			t.Error("reset must not create a player")
		}
	})
}

func TestUnknownGame(t *testing.T) {
	s, _ := openTestStore(t)
	if _, err := s.AddWin("1", "A", Game("chess")); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("AddWin: expected ErrUnknownGame, got %v", err)
	}
	if _, err := s.Leaderboard(Game("chess"), 10); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Leaderboard: expected ErrUnknownGame, got %v", err)
	}
	if _, err := ParseGame("lol"); err != nil {
		t.Errorf("ParseGame(lol): %v", err)
	}
}

func TestLeaderboard(t *testing.T) {
	s, _ := openTestStore(t)

	s.Upsert("idle", "Idle")          // never played
	s.AddWin("lolonly", "L", GameLoL) // played another game only
	s.AddWin("a", "A", GameValorant)  // 25
	s.AddWin("b", "B", GameValorant)
	s.AddWin("b", "B", GameValorant)  // 50
	s.AddLoss("c", "C", GameValorant) // -20
	s.AddWin("d", "D", GameValorant)
	s.AddLoss("d", "D", GameValorant) // 5

	board, err := s.Leaderboard(GameValorant, 10)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, p := range board {
		ids = append(ids, p.UserID)
	}
	want := []string{"b", "a", "d", "c"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("leaderboard = %v, want %v", ids, want)
	}

	top, _ := s.Leaderboard(GameValorant, 2)
	if len(top) != 2 || top[0].UserID != "b" {
		t.Errorf("limited leaderboard = %+v", top)
	}

	all, _ := s.Leaderboard(GameValorant, 0)
	if len(all) != 4 {
		t.Errorf("default limit should include all 4, got %d", len(all))
	}
}

func TestPersistAndReload(t *testing.T) {
	s, path := openTestStore(t)
	if _, err := s.AddWin("42", "Ann", GameValorant); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Upsert("42", "Ann B."); err != nil {
		t.Fatal(err)
	}
	before, _ := s.Get("42")

	reloaded, err := Open(path, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	after, ok := reloaded.Get("42")
	if !ok {
		t.Fatal("player missing after reload")
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("round trip mismatch:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestOpenNormalizesMissingGames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	doc := `{"9":{"userId":"9","displayName":"Old","games":{"valorant":{"wins":2,"losses":0,"skillRating":50}}}}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	p, ok := s.Get("9")
	if !ok {
		t.Fatal("player 9 missing")
	}
	if _, ok := p.Games[GameLoL]; !ok {
		t.Error("missing lol entry was not filled in")
	}
	if p.Games[GameValorant].SkillRating != 50 {
		t.Errorf("valorant rating = %d", p.Games[GameValorant].SkillRating)
	}
}

func TestOpenCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if n := len(s.All()); n != 0 {
		t.Errorf("expected empty store, got %d", n)
	}
	matches, _ := filepath.Glob(path + ".corrupt.*")
	if len(matches) != 1 {
		t.Errorf("expected the corrupt file to be kept aside, found %v", matches)
	}
}

func TestConcurrentWinsAreNotLost(t *testing.T) {
	s, _ := openTestStore(t)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AddWin("racer", "R", GameLoL); err != nil {
				t.Errorf("AddWin: %v", err)
			}
		}()
	}
	wg.Wait()

	p, _ := s.Get("racer")
	if got := p.Games[GameLoL]; got.Wins != n || got.SkillRating != n*WinDelta {
		t.Errorf("got %+v after %d concurrent wins", got, n)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s, _ := openTestStore(t)
	s.AddWin("1", "A", GameValorant)

	p, _ := s.Get("1")
	p.Games[GameValorant] = GameRecord{Wins: 99}

	again, _ := s.Get("1")
	if again.Games[GameValorant].Wins != 1 {
		t.Error("mutating a returned record must not change the store")
	}
}

func TestWinRate(t *testing.T) {
	tests := []struct {
		r    GameRecord
		want int
	}{
		{GameRecord{}, 0},
		{GameRecord{Wins: 1, Losses: 1}, 50},
		{GameRecord{Wins: 2, Losses: 1}, 67},
		{GameRecord{Wins: 3}, 100},
	}
	for _, tt := range tests {
		if got := tt.r.WinRate(); got != tt.want {
			t.Errorf("%+v.WinRate() = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestWriteFailureKeepsChangeInMemory(t *testing.T) {
	s, path := openTestStore(t)
	if err := os.RemoveAll(filepath.Dir(path)); err != nil {
		t.Fatal(err)
	}

	_, err := s.AddWin("42", "Ann", GameValorant)
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("AddWin error = %v, want *PersistenceError", err)
	}
	if perr.Op != "add win" {
		t.Errorf("Op = %q", perr.Op)
	}

	p, ok := s.Get("42")
	if !ok || p.Games[GameValorant] != (GameRecord{Wins: 1, SkillRating: 25}) {
		t.Errorf("in-memory record = %+v, %v", p, ok)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("nothing should have been written, stat err = %v", err)
	}
}
