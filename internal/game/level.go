// internal/game/level.go
//
// Level generation and win/loss detection.
//
// targetScore = (level-1)*scaleFactor(level) + rand[180,360] + 120
// moveBudget  = rand[12,24] + moveBoost(targetScore) + level/4
//
// Level 1 therefore always targets 300..480.

package game

import (
	"github.com/robalobadob/chainpop/apps/go-server/internal/board"
	"github.com/robalobadob/chainpop/apps/go-server/internal/difficulty"
)

const (
	targetRandMin = 180
	targetRandMax = 360
	targetBase    = 120
	movesRandMin  = 12
	movesRandMax  = 24
	levelsPerMove = 4
)

// randInt returns a value in [lo, hi].
func randInt(r board.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

// ConfigureLevel computes the configuration and fresh counters for level,
// adding the carried moves and score on top. The target is drawn before the
// move budget because the budget depends on it.
func ConfigureLevel(level int, carry Carry, curve difficulty.Curve, r board.Rand) (LevelConfig, Progress) {
	if level < 1 {
		level = 1
	}
	target := (level-1)*curve.ScaleFactor(level) + randInt(r, targetRandMin, targetRandMax) + targetBase
	budget := randInt(r, movesRandMin, movesRandMax) + curve.MoveBoost(target) + level/levelsPerMove

	cfg := LevelConfig{Level: level, TargetScore: target, MoveBudget: budget}
	moves := budget + carry.LeftoverMoves
	p := Progress{
		ScoreCurrent: 0,
		ScoreTotal:   carry.CumulativeScore,
		MovesCurrent: moves,
		MovesTotal:   moves,
		Level:        level,
		Phase:        PhasePlaying,
	}
	return cfg, p
}

// Outcome is the result of a status check.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLoss
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	}
	return "none"
}

// Evaluate checks win before loss, so reaching the target on the last move
// counts as a win.
func Evaluate(p Progress, cfg LevelConfig) Outcome {
	switch {
	case p.ScoreCurrent >= cfg.TargetScore:
		return OutcomeWin
	case p.MovesCurrent <= 0:
		return OutcomeLoss
	}
	return OutcomeNone
}

// NextCarry is what a won level hands to the next one: unspent moves roll
// forward and the level's score joins the running total.
func NextCarry(p Progress) Carry {
	return Carry{
		LeftoverMoves:   p.MovesCurrent,
		CumulativeScore: p.ScoreTotal + p.ScoreCurrent,
	}
}
