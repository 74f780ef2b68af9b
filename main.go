// main.go
//
// Entry point for the chainpop Go server.
// Responsibilities:
//   - Load .env and configure the zerolog level (LOG_LEVEL).
//   - Open and migrate the SQLite database (DB_PATH).
//   - Load the optional Lua difficulty curve (DIFFICULTY_SCRIPT).
//   - Start the checkpointer, the live game registry and the HTTP server (PORT).
//   - Shut down on SIGINT/SIGTERM, draining pending progress writes.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/chainpop/apps/go-server/assets"
	"github.com/robalobadob/chainpop/apps/go-server/internal/board"
	"github.com/robalobadob/chainpop/apps/go-server/internal/difficulty"
	"github.com/robalobadob/chainpop/apps/go-server/internal/httpserver"
	"github.com/robalobadob/chainpop/apps/go-server/internal/progress"
	"github.com/robalobadob/chainpop/apps/go-server/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := openDB(getEnv("DB_PATH", "./data/chainpop.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open db")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	curve, err := loadCurve(os.Getenv("DIFFICULTY_SCRIPT"))
	if err != nil {
		log.Fatal().Err(err).Msg("load difficulty script")
	}
	if c, ok := curve.(*difficulty.LuaCurve); ok {
		defer c.Close()
	}

	ps := progress.NewSQLStore(db)
	timeout := time.Duration(envInt("PERSIST_TIMEOUT_MS", 3000)) * time.Millisecond
	cp := progress.NewCheckpointer(ps, timeout, progress.DefaultQueueDepth)
	defer cp.Close()

	rows, cols := envInt("BOARD_ROWS", board.DefaultRows), envInt("BOARD_COLS", board.DefaultCols)
	cfg := httpserver.Config{
		Rows:          rows,
		Cols:          cols,
		Layout:        board.NewLayout(rows, cols, float64(envInt("CANVAS_WIDTH", board.DefaultWidth)), float64(envInt("CANVAS_HEIGHT", board.DefaultHeight))),
		Curve:         curve,
		ResumeTimeout: timeout,
	}
	srv := httpserver.New(store.NewMemoryStore(), ps, cp, cfg)

	port := getEnv("PORT", "5175")
	hs := &http.Server{Addr: ":" + port, Handler: srv.Router()}
	go func() {
		log.Info().Str("port", port).Int("rows", rows).Int("cols", cols).Msg("starting go-server")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("shutdown")
	}
}

// loadCurve picks the difficulty curve: empty for the built-in one,
// "builtin:<name>" for a bundled script, otherwise a Lua file path.
func loadCurve(script string) (difficulty.Curve, error) {
	switch {
	case script == "":
		return difficulty.Default(), nil
	case strings.HasPrefix(script, "builtin:"):
		src, err := assets.Curve(strings.TrimPrefix(script, "builtin:"))
		if err != nil {
			return nil, err
		}
		return difficulty.ParseLua(src)
	}
	return difficulty.LoadLua(script)
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt reads a positive integer, falling back to def.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring invalid integer")
	}
	return def
}
