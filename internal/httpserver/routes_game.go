// internal/httpserver/routes_game.go
//
// HTTP routes for playing a game.
//   - POST /session               → resume progress, start a live game, issue player token
//   - GET  /game/{id}             → current state
//   - POST /game/{id}/press       → pointer down at {x,y} (pixels) or {row,col}
//   - POST /game/{id}/move        → pointer move, same payload
//   - POST /game/{id}/release     → pointer up; resolves the chain
//   - POST /game/{id}/continue    → advance after a win, restart after a loss
//   - POST /game/{id}/mute        → {muted}
//   - GET  /game/{id}/ws          → event stream + commands (routes_ws.go)
//
// Every /game route answers with the state after the action. Input that
// does not apply (wrong phase, empty cell, far token) is not an error.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/chainpop/apps/go-server/internal/bridge"
	"github.com/robalobadob/chainpop/apps/go-server/internal/game"
	"github.com/robalobadob/chainpop/apps/go-server/internal/store"
)

// mountGame registers all /game routes.
func (s *Server) mountGame() {
	s.r.Route("/game/{id}", func(r chi.Router) {
		r.Use(s.requirePlayer())

		// long-lived; no handler timeout
		r.Get("/ws", s.handleWS)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(10 * time.Second))
			r.Use(jsonContentType)

			r.Get("/", s.handleState)
			r.Post("/press", s.handlePointer(true))
			r.Post("/move", s.handlePointer(false))
			r.Post("/release", s.handleRelease)
			r.Post("/continue", s.handleContinue)
			r.Post("/mute", s.handleMute)
		})
	})
}

// sessionReq/Res payloads for POST /session.
type sessionReq struct {
	Player string `json:"player"`
}
type sessionRes struct {
	GameID  string    `json:"gameId"`
	Token   string    `json:"token"`
	Resumed bool      `json:"resumed"`
	State   game.View `json:"state"`
}

// handleSession validates the player name, starts a game seeded from the
// player's stored progress and issues the token guarding /game routes.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	var req sessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	player := normalizePlayer(req.Player)
	if err := validatePlayer(player); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	e, err := s.startGame(r.Context(), player)
	if err != nil {
		log.Error().Err(err).Str("player", player).Msg("start game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	tok, exp, err := signPlayerToken(player)
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	setPlayerCookie(w, tok, exp)

	res := sessionRes{GameID: e.Game.ID, Token: tok}
	e.Do(func(g *game.Game) {
		res.State, _ = g.View()
		res.Resumed = g.Config().Level > 1 || g.Progress().ScoreTotal > 0
	})
	_ = json.NewEncoder(w).Encode(res)
}

// stateRes is the body of every /game response.
type stateRes struct {
	Result   string           `json:"result,omitempty"`
	Resolved *game.Resolution `json:"resolved,omitempty"`
	State    game.View        `json:"state"`
}

func writeState(w http.ResponseWriter, e *store.Entry, res stateRes) {
	view, err := e.Game.View()
	if err != nil {
		http.Error(w, `{"error":"not_started"}`, http.StatusConflict)
		return
	}
	res.State = view
	_ = json.NewEncoder(w).Encode(res)
}

// gameGone answers for a session that was replaced after routing.
func gameGone(w http.ResponseWriter) {
	http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r.Context())
	if !e.Do(func(g *game.Game) { writeState(w, e, stateRes{}) }) {
		gameGone(w)
	}
}

// pointerReq carries either pixel coordinates or a cell.
type pointerReq struct {
	X   *float64 `json:"x"`
	Y   *float64 `json:"y"`
	Row *int     `json:"row"`
	Col *int     `json:"col"`
}

// decodeOptional decodes a JSON body into v; an empty body is fine.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// applyPointer feeds one pointer event to g and names the outcome.
func applyPointer(g *game.Game, p pointerReq, press bool) string {
	switch {
	case p.X != nil && p.Y != nil:
		if press {
			return pressResult(g.PressAt(*p.X, *p.Y))
		}
		return g.MoveAt(*p.X, *p.Y).String()
	case p.Row != nil && p.Col != nil:
		if press {
			return pressResult(g.Press(*p.Row, *p.Col))
		}
		return g.Move(*p.Row, *p.Col).String()
	}
	return game.Ignored.String()
}

func pressResult(ok bool) string {
	if ok {
		return "pressed"
	}
	return game.Ignored.String()
}

func (s *Server) handlePointer(press bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pointerReq
		if err := decodeOptional(r, &req); err != nil {
			http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
			return
		}
		e := entryFrom(r.Context())
		if !e.Do(func(g *game.Game) {
			writeState(w, e, stateRes{Result: applyPointer(g, req, press)})
		}) {
			gameGone(w)
		}
	}
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r.Context())
	if !e.Do(func(g *game.Game) {
		res := stateRes{Result: game.Ignored.String(), Resolved: g.Release()}
		if res.Resolved != nil {
			res.Result = "resolved"
		}
		writeState(w, e, res)
	}) {
		gameGone(w)
	}
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r.Context())
	if !e.Do(func(g *game.Game) {
		res := stateRes{Result: game.Ignored.String()}
		if g.Continue() {
			res.Result = "continued"
		}
		writeState(w, e, res)
	}) {
		gameGone(w)
	}
}

type muteReq struct {
	Muted bool `json:"muted"`
}

// handleMute goes through the bridge, like any other inbound toggle.
func (s *Server) handleMute(w http.ResponseWriter, r *http.Request) {
	var req muteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	e := entryFrom(r.Context())
	if !e.Publish(bridge.TopicMute, req.Muted) || !e.Do(func(g *game.Game) { writeState(w, e, stateRes{}) }) {
		gameGone(w)
	}
}
