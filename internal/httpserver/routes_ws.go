// internal/httpserver/routes_ws.go
//
// WebSocket stream for a live game.
// Responsibilities:
//   - Forward every bridge event of the game as {"t":topic,"m":payload}.
//   - Accept the same commands as the HTTP routes ({"t":"press","m":{...}}).
//   - Ping the client every 15s; drop frames for clients that fall behind.
//   - Close the socket when the session is replaced or deleted.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"

	"github.com/robalobadob/chainpop/apps/go-server/internal/bridge"
	"github.com/robalobadob/chainpop/apps/go-server/internal/game"
	"github.com/robalobadob/chainpop/apps/go-server/internal/store"
)

const (
	wsSendBuffer = 64
	wsPingEvery  = 15 * time.Second
)

// wsMsg is the inbound envelope: {"t":"press","m":{"x":10,"y":20}}.
type wsMsg struct {
	T string          `json:"t"`
	M json.RawMessage `json:"m,omitempty"`
}

// handleWS streams every bridge event of the game as {"t":topic,"m":payload}
// and accepts the same commands as the HTTP routes. The first frame is the
// full state.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if origin := r.Header.Get("Origin"); origin != "" && origin != clientOrigin() {
		http.Error(w, `{"error":"forbidden origin"}`, http.StatusForbidden)
		return
	}
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}

	e := entryFrom(r.Context())
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	send := make(chan []byte, wsSendBuffer)
	enqueue := func(v any) {
		b, err := json.Marshal(v)
		if err != nil {
			log.Warn().Err(err).Msg("encode ws event")
			return
		}
		select {
		case send <- b:
		default:
			// slow client: drop rather than stall the game
		}
	}

	var unsubscribe func()
	if !e.Do(func(g *game.Game) {
		// subscribe under the game lock so no event slips between the
		// snapshot and the stream
		if v, err := g.View(); err == nil {
			enqueue(bridge.Event{Topic: "state", Payload: v})
		}
		unsubscribe = e.Bus.SubscribeAll(func(ev bridge.Event) { enqueue(ev) })
	}) {
		_ = c.Close(websocket.StatusGoingAway, "session replaced")
		return
	}
	defer unsubscribe()

	log.Info().Str("gameId", e.Game.ID).Msg("ws connected")

	// writer
	go func() {
		ping := time.NewTicker(wsPingEvery)
		defer ping.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-e.Done():
				_ = c.Close(websocket.StatusGoingAway, "session replaced")
				cancel()
				return
			case msg := <-send:
				if err := c.Write(ctx, websocket.MessageText, msg); err != nil {
					cancel()
					return
				}
			case <-ping.C:
				pctx, pcancel := context.WithTimeout(ctx, wsPingEvery)
				err := c.Ping(pctx)
				pcancel()
				if err != nil {
					cancel()
					return
				}
			}
		}
	}()

	// reader
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			break
		}
		var m wsMsg
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		s.handleCommand(e, m, enqueue)
	}

	_ = c.Close(websocket.StatusNormalClosure, "bye")
	log.Info().Str("gameId", e.Game.ID).Msg("ws disconnected")
}

// handleCommand applies one inbound command. Responses travel as bridge
// events; "state" asks for a fresh snapshot.
func (s *Server) handleCommand(e *store.Entry, m wsMsg, reply func(any)) {
	switch m.T {
	case "press", "move":
		var p pointerReq
		if len(m.M) > 0 && json.Unmarshal(m.M, &p) != nil {
			return
		}
		e.Do(func(g *game.Game) { applyPointer(g, p, m.T == "press") })

	case "release":
		e.Do(func(g *game.Game) { g.Release() })

	case "continue":
		e.Do(func(g *game.Game) { g.Continue() })

	case "mute":
		var req muteReq
		if json.Unmarshal(m.M, &req) != nil {
			return
		}
		e.Publish(bridge.TopicMute, req.Muted)

	case "state":
		e.Do(func(g *game.Game) {
			if v, err := g.View(); err == nil {
				reply(bridge.Event{Topic: "state", Payload: v})
			}
		})
	}
}
