// internal/httpserver/server.go
//
// HTTP server wiring for the chainpop backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", POST /session.
//   - Game endpoints (require player token): mounted under /game/{id}.
//   - Building live games: bridge, audio, difficulty curve, checkpointing and
//     the one resume load per session.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Gameplay endpoints never fail on invalid input; they answer with the
//     current state.

package httpserver

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/chainpop/apps/go-server/internal/audio"
	"github.com/robalobadob/chainpop/apps/go-server/internal/board"
	"github.com/robalobadob/chainpop/apps/go-server/internal/bridge"
	"github.com/robalobadob/chainpop/apps/go-server/internal/difficulty"
	"github.com/robalobadob/chainpop/apps/go-server/internal/game"
	"github.com/robalobadob/chainpop/apps/go-server/internal/progress"
	"github.com/robalobadob/chainpop/apps/go-server/internal/store"
)

// Config carries the game parameters read at startup.
type Config struct {
	Rows, Cols int
	Layout     board.Layout
	Curve      difficulty.Curve

	// Rand overrides the random source of new games (tests).
	Rand func() board.Rand

	// ResumeTimeout bounds the resume load at session start.
	ResumeTimeout time.Duration
}

// Server bundles router, live game registry and persistence.
type Server struct {
	r            *chi.Mux
	games        store.Store
	progress     progress.Store
	checkpointer *progress.Checkpointer
	cfg          Config
}

// New constructs a Server, installs middleware, and registers routes.
func New(games store.Store, ps progress.Store, cp *progress.Checkpointer, cfg Config) *Server {
	if cfg.Rows < 1 || cfg.Cols < 1 {
		cfg.Rows, cfg.Cols = board.DefaultRows, board.DefaultCols
	}
	if cfg.Layout.Spacing == 0 {
		cfg.Layout = board.NewLayout(cfg.Rows, cfg.Cols, board.DefaultWidth, board.DefaultHeight)
	}
	if cfg.Curve == nil {
		cfg.Curve = difficulty.Default()
	}
	if cfg.ResumeTimeout <= 0 {
		cfg.ResumeTimeout = 3 * time.Second
	}
	s := &Server{r: chi.NewRouter(), games: games, progress: ps, checkpointer: cp, cfg: cfg}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"chainpop-go","endpoints":["/health","POST /session","/game/{id}","/game/{id}/ws"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		r.Post("/session", s.handleSession)
	})

	// Game endpoints (require player token)
	s.mountGame()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := clientOrigin()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ sessions -----------------------------------

// startGame builds a live game for player and seeds it from stored progress.
// The resume data arrives over the game's bridge, exactly once.
func (s *Server) startGame(ctx context.Context, player string) (*store.Entry, error) {
	bus := bridge.NewBus()
	sound := audio.NewLogPlayer(func(c audio.Cue) { bus.Publish(bridge.TopicSound, c) })

	opts := game.Options{
		Player:    player,
		Rows:      s.cfg.Rows,
		Cols:      s.cfg.Cols,
		Layout:    &s.cfg.Layout,
		Curve:     s.cfg.Curve,
		Publisher: bus,
		Audio:     sound,
	}
	if s.cfg.Rand != nil {
		opts.Rand = s.cfg.Rand()
	}
	if s.checkpointer != nil {
		opts.Checkpoint = s.checkpointer.For(player)
	}
	e := store.NewEntry(game.New(opts), bus)

	rec := progress.Defaults()
	if s.progress != nil {
		rctx, cancel := context.WithTimeout(ctx, s.cfg.ResumeTimeout)
		rec, _ = progress.Resume(rctx, s.progress, player)
		cancel()
	}
	e.Publish(bridge.TopicPersistedLoaded, bridge.PersistedData{Level: rec.Level, Score: rec.Score, Move: rec.Move})

	if err := s.games.Save(ctx, e); err != nil {
		e.Close()
		return nil, err
	}
	log.Info().Str("gameId", e.Game.ID).Str("player", player).Int("level", rec.Level).Msg("session started")
	return e, nil
}

// ------------------------------- small util --------------------------------

// clientOrigin is the single browser origin allowed for CORS and WebSockets.
func clientOrigin() string { return getEnv("CLIENT_ORIGIN", "http://localhost:5173") }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
