package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/robalobadob/chainpop/apps/go-server/internal/difficulty"
	"github.com/robalobadob/chainpop/apps/go-server/internal/randtest"
)

func TestConfigureLevelExact(t *testing.T) {
	cases := []struct {
		name       string
		level      int
		carry      Carry
		script     []int
		wantTarget int
		wantBudget int
		wantMoves  int
	}{
		{"level 1 low", 1, Carry{}, []int{0, 0}, 300, 12, 12},
		{"level 1 high", 1, Carry{}, []int{180, 12}, 480, 24, 24},
		{"level 4 adds a move", 4, Carry{}, []int{0, 0}, 660, 12 + 3 + 1, 16},
		{"late scale", 9, Carry{}, []int{0, 0}, 8*100 + 300, 12 + 5 + 2, 19},
		{"carried moves", 2, Carry{LeftoverMoves: 5, CumulativeScore: 310}, []int{60, 3}, 120 + 240 + 120, 15, 20},
		{"level clamps to 1", 0, Carry{}, []int{0, 0}, 300, 12, 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, p := ConfigureLevel(tc.level, tc.carry, difficulty.Default(), randtest.NewSeq(tc.script...))
			assert.Equal(t, tc.wantTarget, cfg.TargetScore)
			assert.Equal(t, tc.wantBudget, cfg.MoveBudget)
			assert.Equal(t, tc.wantMoves, p.MovesTotal)
			assert.Equal(t, p.MovesTotal, p.MovesCurrent)
			assert.Equal(t, 0, p.ScoreCurrent)
			assert.Equal(t, tc.carry.CumulativeScore, p.ScoreTotal)
			assert.Equal(t, cfg.Level, p.Level)
			assert.Equal(t, PhasePlaying, p.Phase)
			assert.False(t, p.GameOver)
		})
	}
}

func TestLevelOneTargetRange(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 2000; i++ {
		cfg, p := ConfigureLevel(1, Carry{}, difficulty.Default(), r)
		assert.GreaterOrEqual(t, cfg.TargetScore, 300)
		assert.LessOrEqual(t, cfg.TargetScore, 480)
		assert.GreaterOrEqual(t, cfg.MoveBudget, 12)
		assert.LessOrEqual(t, cfg.MoveBudget, 24)
		assert.Equal(t, cfg.MoveBudget, p.MovesTotal)
	}
}

func TestConfigureLevelRepeatable(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	carry := Carry{LeftoverMoves: 4, CumulativeScore: 1000}
	for i := 0; i < 50; i++ {
		cfg, p := ConfigureLevel(6, carry, difficulty.Default(), r)
		assert.Equal(t, 0, p.ScoreCurrent)
		assert.Equal(t, p.MovesTotal, p.MovesCurrent)
		assert.Equal(t, cfg.MoveBudget+4, p.MovesTotal)
		assert.Equal(t, 1000, p.ScoreTotal)
	}
}

func TestEvaluate(t *testing.T) {
	cfg := LevelConfig{Level: 1, TargetScore: 300}
	cases := []struct {
		name  string
		score int
		moves int
		want  Outcome
	}{
		{"playing", 120, 4, OutcomeNone},
		{"exact target", 300, 5, OutcomeWin},
		{"over target", 340, 1, OutcomeWin},
		{"win on last move", 300, 0, OutcomeWin},
		{"out of moves", 299, 0, OutcomeLoss},
		{"negative moves", 10, -1, OutcomeLoss},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(Progress{ScoreCurrent: tc.score, MovesCurrent: tc.moves}, cfg)
			assert.Equal(t, tc.want, got, got.String())
		})
	}
}

func TestEvaluateGuards(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 1))
	for i := 0; i < 500; i++ {
		cfg := LevelConfig{TargetScore: 300 + r.IntN(200)}
		p := Progress{ScoreCurrent: r.IntN(600), MovesCurrent: r.IntN(10) - 2}
		switch Evaluate(p, cfg) {
		case OutcomeWin:
			assert.GreaterOrEqual(t, p.ScoreCurrent, cfg.TargetScore)
		case OutcomeLoss:
			assert.LessOrEqual(t, p.MovesCurrent, 0)
			assert.Less(t, p.ScoreCurrent, cfg.TargetScore)
		}
	}
}

func TestNextCarry(t *testing.T) {
	c := NextCarry(Progress{ScoreCurrent: 320, ScoreTotal: 900, MovesCurrent: 5})
	assert.Equal(t, Carry{LeftoverMoves: 5, CumulativeScore: 1220}, c)
}
