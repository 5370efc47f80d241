// Package api serves player statistics over a read-only HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"teambot/internal/stats"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// StatsReader is the read side of the stats store.
type StatsReader interface {
	All() []stats.PlayerStats
	Get(userID string) (stats.PlayerStats, bool)
	Leaderboard(game stats.Game, limit int) ([]stats.PlayerStats, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

const readFailed = "Failed to read player stats"

// NewHandler builds the router with CORS open to every origin.
func NewHandler(store StatsReader) http.Handler {
	h := &handler{store: store}

	router := mux.NewRouter()
	router.Use(recoverer)
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.HandleFunc("/api/player-stats", h.listPlayers).Methods("GET")
	router.HandleFunc("/api/player-stats/{id}", h.getPlayer).Methods("GET")
	router.HandleFunc("/api/leaderboard/{game}", h.leaderboard).Methods("GET")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(router)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, store StatsReader) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      NewHandler(store),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] Stats API listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("[INFO] Shutting down stats API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

type handler struct {
	store StatsReader
}

func (h *handler) listPlayers(w http.ResponseWriter, r *http.Request) {
	all := h.store.All()
	out := make(map[string]stats.PlayerStats, len(all))
	for _, p := range all {
		out[p.UserID] = p
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (h *handler) getPlayer(w http.ResponseWriter, r *http.Request) {
	p, ok := h.store.Get(mux.Vars(r)["id"])
	if !ok {
		respondWithError(w, http.StatusNotFound, "Player not found")
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	game, err := stats.ParseGame(mux.Vars(r)["game"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Unknown game")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 1 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
	}

	board, err := h.store.Leaderboard(game, limit)
	if err != nil {
		log.Printf("[ERR] Leaderboard for %s failed: %v", game, err)
		respondWithError(w, http.StatusInternalServerError, readFailed)
		return
	}
	if board == nil {
		board = []stats.PlayerStats{}
	}
	respondWithJSON(w, http.StatusOK, board)
}

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[ERR] %s %s panicked: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				respondWithError(w, http.StatusInternalServerError, readFailed)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[ERR] Failed to encode response: %v", err)
		code = http.StatusInternalServerError
		response = []byte(`{"error":"` + readFailed + `"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
