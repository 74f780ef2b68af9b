// internal/game/types.go
//
// Core type definitions for the puzzle engine.
// Defines:
//   - Phase: coarse state of the current level (playing/won/lost).
//   - LevelConfig: the per-level target and move budget.
//   - Carry: what crosses a level boundary.
//   - Progress: score and move counters for the active level.
//   - Checkpoint: the record handed to the persistence collaborator.

package game

import (
	"github.com/robalobadob/chainpop/apps/go-server/internal/bridge"
	"github.com/robalobadob/chainpop/apps/go-server/internal/board"
)

// Phase is the state of the active level.
//   - "playing": input is accepted.
//   - "won":     target reached; waiting for the level-complete presentation.
//   - "lost":    out of moves; waiting for the player to acknowledge.
type Phase string

const (
	PhasePlaying Phase = "playing"
	PhaseWon     Phase = "won"
	PhaseLost    Phase = "lost"
)

// LevelConfig is computed once per level start and never mutated after.
type LevelConfig struct {
	Level       int `json:"level"`
	TargetScore int `json:"targetScore"`
	MoveBudget  int `json:"moveBudget"`
}

// Carry is passed from one level's end into the next level's configuration.
type Carry struct {
	LeftoverMoves   int `json:"leftoverMoves"`
	CumulativeScore int `json:"cumulativeScore"`
}

// Progress holds the counters of the active level.
type Progress struct {
	ScoreCurrent int   `json:"scoreCurrent"`
	ScoreTotal   int   `json:"scoreTotal"`   // carried in from won levels
	MovesCurrent int   `json:"movesCurrent"` // remaining
	MovesTotal   int   `json:"movesTotal"`   // budget + carried moves
	Level        int   `json:"level"`
	GameOver     bool  `json:"gameOver"`
	Phase        Phase `json:"phase"`
}

// Moves returns the moves counter as published on the bridge.
func (p Progress) Moves() bridge.Counter {
	return bridge.Counter{Current: p.MovesCurrent, Total: p.MovesTotal}
}

// Scores returns the score counter as published on the bridge.
func (p Progress) Scores() bridge.Counter {
	return bridge.Counter{Current: p.ScoreCurrent, Total: p.ScoreTotal}
}

// Checkpoint is the progress as of entering a level.
type Checkpoint struct {
	Level int
	Score int
	Move  int
}

// Checkpointer receives a checkpoint at every level start. Implementations
// must not block gameplay and must absorb their own failures.
type Checkpointer interface {
	Checkpoint(c Checkpoint)
}

// CheckpointFunc adapts a function to Checkpointer.
type CheckpointFunc func(Checkpoint)

// Checkpoint implements Checkpointer.
func (f CheckpointFunc) Checkpoint(c Checkpoint) { f(c) }

// View is the client-facing state of a game.
type View struct {
	ID       string         `json:"gameId"`
	Player   string         `json:"player"`
	Level    int            `json:"level"`
	Target   int            `json:"target"`
	Moves    bridge.Counter `json:"moves"`
	Scores   bridge.Counter `json:"scores"`
	Phase    Phase          `json:"phase"`
	GameOver bool           `json:"gameOver"`
	Board    board.Snapshot `json:"board"`
	Chain    []uint64       `json:"chain"`
	Muted    bool           `json:"muted"`
}

// LevelResult is published when a level ends.
type LevelResult struct {
	Level  int `json:"level"`
	Score  int `json:"score"`
	Target int `json:"target"`
	Total  int `json:"total"`
	Moves  int `json:"moves"`
}
