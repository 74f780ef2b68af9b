// internal/difficulty/curve.go
//
// Difficulty curve for level generation.
// Responsibilities:
//   - scaleFactor(level): per-level growth of the score target. Large for early
//     levels, smaller from a threshold level on.
//   - moveBoost(target): extra moves granted when a target is large.
//
// The default curve is plain Go; a Lua script can replace it (see lua.go).

package difficulty

// Curve shapes how targets and move budgets grow with the level.
type Curve interface {
	ScaleFactor(level int) int
	MoveBoost(target int) int
}

const (
	earlyScale     = 120
	lateScale      = 100
	lateLevelStart = 8
)

// boostStep grants Moves extra moves once a target reaches Target.
type boostStep struct {
	Target int
	Moves  int
}

// Ordered from the largest target down; the first match wins.
var defaultBoosts = []boostStep{
	{Target: 1500, Moves: 8},
	{Target: 1000, Moves: 5},
	{Target: 600, Moves: 3},
}

type defaultCurve struct{}

// Default returns the built-in curve.
func Default() Curve { return defaultCurve{} }

func (defaultCurve) ScaleFactor(level int) int {
	if level < lateLevelStart {
		return earlyScale
	}
	return lateScale
}

func (defaultCurve) MoveBoost(target int) int {
	for _, s := range defaultBoosts {
		if target >= s.Target {
			return s.Moves
		}
	}
	return 0
}
