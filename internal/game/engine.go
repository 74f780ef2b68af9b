// internal/game/engine.go
//
// Level/Progress Controller for a single player's game.
// Responsibilities:
//   - Own the board, the connection session and the level counters.
//   - Translate press/move/release into chain building and resolution.
//   - Run the status check after every resolution (win first, then loss).
//   - Carry state across level boundaries, checkpoint every level start and
//     publish counters on the bridge after every state change.
//
// Notes:
//   - A Game is not safe for concurrent use; callers serialize input.
//   - Gameplay input never returns errors: anything invalid is a no-op.
//   - randomID() is a compact hex identifier for routing requests to a game.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	mrand "math/rand/v2"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/chainpop/apps/go-server/internal/audio"
	"github.com/robalobadob/chainpop/apps/go-server/internal/board"
	"github.com/robalobadob/chainpop/apps/go-server/internal/bridge"
	"github.com/robalobadob/chainpop/apps/go-server/internal/difficulty"
)

// Options configure a Game. Zero values pick the defaults.
type Options struct {
	Player     string
	Rows, Cols int
	Layout     *board.Layout
	Curve      difficulty.Curve
	Rand       board.Rand
	Publisher  bridge.Publisher
	Audio      audio.Player
	Checkpoint Checkpointer
}

// Game is one player's endless run of levels.
type Game struct {
	ID     string
	Player string

	rows, cols int
	layout     board.Layout
	curve      difficulty.Curve
	rnd        board.Rand
	pub        bridge.Publisher
	sound      audio.Player
	checkpoint Checkpointer

	board    *board.Board
	session  *Session
	cfg      LevelConfig
	progress Progress
	started  bool
}

// ErrNotStarted is returned by accessors that need an active level.
var ErrNotStarted = errors.New("game not started")

type nopPublisher struct{}

func (nopPublisher) Publish(bridge.Topic, any) {}

// New constructs a game. No level exists until Start or Resume is called.
func New(opts Options) *Game {
	g := &Game{
		ID:         randomID(),
		Player:     opts.Player,
		rows:       opts.Rows,
		cols:       opts.Cols,
		curve:      opts.Curve,
		rnd:        opts.Rand,
		pub:        opts.Publisher,
		sound:      opts.Audio,
		checkpoint: opts.Checkpoint,
	}
	if g.rows < 1 || g.cols < 1 {
		g.rows, g.cols = board.DefaultRows, board.DefaultCols
	}
	if opts.Layout != nil {
		g.layout = *opts.Layout
	} else {
		g.layout = board.NewLayout(g.rows, g.cols, board.DefaultWidth, board.DefaultHeight)
	}
	if g.curve == nil {
		g.curve = difficulty.Default()
	}
	if g.rnd == nil {
		g.rnd = mrand.New(mrand.NewPCG(mrand.Uint64(), mrand.Uint64()))
	}
	if g.pub == nil {
		g.pub = nopPublisher{}
	}
	if g.sound == nil {
		g.sound = audio.NewLogPlayer(nil)
	}
	g.session = NewSession(g.layout)
	return g
}

// Attach subscribes the game to the bridge's inbound commands and returns a
// function that detaches it.
func (g *Game) Attach(bus *bridge.Bus) (detach func()) {
	stopMute := bus.Subscribe(bridge.TopicMute, func(ev bridge.Event) {
		if m, ok := ev.Payload.(bool); ok {
			g.SetMuted(m)
		}
	})
	stopLoad := bus.Subscribe(bridge.TopicPersistedLoaded, func(ev bridge.Event) {
		if d, ok := ev.Payload.(bridge.PersistedData); ok {
			g.Resume(d)
		}
	})
	return func() { stopMute(); stopLoad() }
}

// Start begins level with carry. It always replaces the current level.
func (g *Game) Start(level int, carry Carry) {
	g.beginLevel(level, carry)
}

// Resume seeds the very first level from persisted data. Later calls are
// ignored.
func (g *Game) Resume(d bridge.PersistedData) bool {
	if g.started {
		return false
	}
	level := d.Level
	if level < 1 {
		level = 1
	}
	g.beginLevel(level, Carry{LeftoverMoves: max(d.Move, 0), CumulativeScore: max(d.Score, 0)})
	return true
}

// beginLevel configures the level, builds a fresh board, checkpoints the
// carried values and announces the new state.
func (g *Game) beginLevel(level int, carry Carry) {
	g.cfg, g.progress = ConfigureLevel(level, carry, g.curve, g.rnd)

	b, err := board.New(g.rows, g.cols, g.rnd)
	if err != nil {
		// rows/cols are validated in New; this cannot fail.
		panic(err)
	}
	b.FillRandom()
	b.AssertPlayability()
	g.board = b
	g.session.Reset()
	g.started = true

	log.Info().
		Str("gameId", g.ID).
		Str("player", g.Player).
		Int("level", g.cfg.Level).
		Int("target", g.cfg.TargetScore).
		Int("moves", g.progress.MovesTotal).
		Msg("level start")

	if g.checkpoint != nil {
		g.checkpoint.Checkpoint(Checkpoint{
			Level: g.cfg.Level,
			Score: carry.CumulativeScore,
			Move:  carry.LeftoverMoves,
		})
	}

	g.publishStatus()
	g.pub.Publish(bridge.TopicBoard, g.board.Snapshot())
}

func (g *Game) publishStatus() {
	g.pub.Publish(bridge.TopicLevel, g.cfg.Level)
	g.pub.Publish(bridge.TopicTarget, g.cfg.TargetScore)
	g.pub.Publish(bridge.TopicMoves, g.progress.Moves())
	g.pub.Publish(bridge.TopicScores, g.progress.Scores())
}

func (g *Game) publishChain() {
	g.pub.Publish(bridge.TopicChain, g.session.ChainIDs())
}

// accepting reports whether gameplay input is currently processed.
func (g *Game) accepting() bool {
	return g.started && !g.progress.GameOver
}

// Press starts a drag on the token at (row, col).
func (g *Game) Press(row, col int) bool {
	if !g.accepting() {
		return false
	}
	t, ok := g.board.At(row, col)
	if !ok || !g.session.Press(t) {
		return false
	}
	g.publishChain()
	return true
}

// PressAt is Press for pixel coordinates.
func (g *Game) PressAt(x, y float64) bool {
	row, col, ok := g.layout.Hit(x, y)
	if !ok {
		return false
	}
	return g.Press(row, col)
}

// Move offers the token at (row, col) to the current drag.
func (g *Game) Move(row, col int) EnterResult {
	if !g.accepting() {
		return Ignored
	}
	t, ok := g.board.At(row, col)
	if !ok {
		return Ignored
	}
	res := g.session.Enter(t)
	switch res {
	case Appended:
		g.publishChain()
	case Backtracked:
		g.publishChain()
		g.sound.Play(audio.CueCancel)
	case Rejected:
		g.sound.Play(audio.CueEmpty)
	}
	return res
}

// MoveAt is Move for pixel coordinates.
func (g *Game) MoveAt(x, y float64) EnterResult {
	row, col, ok := g.layout.Hit(x, y)
	if !ok {
		return Ignored
	}
	return g.Move(row, col)
}

// Release ends the drag. A chain of MinChain or more is resolved and the
// level status checked; the returned resolution is nil otherwise.
func (g *Game) Release() *Resolution {
	if g.session.State() != Drawing {
		return nil
	}
	chain := g.session.Release()
	g.publishChain()
	if chain == nil || !g.accepting() {
		return nil
	}

	res, ok := Resolve(g.board, chain, &g.progress)
	if !ok {
		return nil
	}
	g.sound.Play(audio.CueConnect)
	g.pub.Publish(bridge.TopicResolved, res)
	g.pub.Publish(bridge.TopicBoard, g.board.Snapshot())
	g.publishStatus()

	g.checkStatus()
	return &res
}

// checkStatus runs after every resolution.
func (g *Game) checkStatus() {
	result := LevelResult{
		Level:  g.cfg.Level,
		Score:  g.progress.ScoreCurrent,
		Target: g.cfg.TargetScore,
		Total:  g.progress.ScoreTotal + g.progress.ScoreCurrent,
		Moves:  g.progress.MovesCurrent,
	}
	switch Evaluate(g.progress, g.cfg) {
	case OutcomeWin:
		g.progress.GameOver = true
		g.progress.Phase = PhaseWon
		g.sound.Play(audio.CueWin)
		g.pub.Publish(bridge.TopicLevelComplete, result)
		log.Info().Str("gameId", g.ID).Int("level", g.cfg.Level).Int("score", result.Score).Msg("level complete")
	case OutcomeLoss:
		g.progress.GameOver = true
		g.progress.Phase = PhaseLost
		g.sound.Play(audio.CueLose)
		g.pub.Publish(bridge.TopicLevelFailed, result)
		log.Info().Str("gameId", g.ID).Int("level", g.cfg.Level).Int("score", result.Score).Msg("level failed")
	}
}

// Continue is called when the level-complete presentation finishes or the
// player acknowledges a loss. A won level advances with the carry; a lost one
// restarts the same level with nothing carried, total score included.
func (g *Game) Continue() bool {
	switch g.progress.Phase {
	case PhaseWon:
		g.beginLevel(g.cfg.Level+1, NextCarry(g.progress))
		return true
	case PhaseLost:
		g.sound.Play(audio.CueClick)
		g.beginLevel(g.cfg.Level, Carry{})
		return true
	}
	return false
}

// SetMuted forwards a mute toggle to the audio collaborator.
func (g *Game) SetMuted(muted bool) { g.sound.SetMuted(muted) }

// Started reports whether a level is active.
func (g *Game) Started() bool { return g.started }

// Progress returns the counters of the active level.
func (g *Game) Progress() Progress { return g.progress }

// Config returns the active level configuration.
func (g *Game) Config() LevelConfig { return g.cfg }

// Board returns the active board, or nil before the first level.
func (g *Game) Board() *board.Board { return g.board }

// Session returns the connection session.
func (g *Game) Session() *Session { return g.session }

// Layout returns the pixel layout used for pointer translation.
func (g *Game) Layout() board.Layout { return g.layout }

// View captures the client-facing state.
func (g *Game) View() (View, error) {
	if !g.started {
		return View{}, ErrNotStarted
	}
	return View{
		ID:       g.ID,
		Player:   g.Player,
		Level:    g.cfg.Level,
		Target:   g.cfg.TargetScore,
		Moves:    g.progress.Moves(),
		Scores:   g.progress.Scores(),
		Phase:    g.progress.Phase,
		GameOver: g.progress.GameOver,
		Board:    g.board.Snapshot(),
		Chain:    g.session.ChainIDs(),
		Muted:    g.sound.Muted(),
	}, nil
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
