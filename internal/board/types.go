// internal/board/types.go
//
// Core type definitions for the puzzle board.
// Defines:
//   - Color: a palette entry and its score value.
//   - Token: one colored unit occupying a cell, with a stable identity.
//   - Rand: the injectable random source shared by the board and the level
//     controller.

package board

// Color names a palette entry. The string form is what the renderer and the
// persisted snapshots see.
type Color string

const (
	Red    Color = "red"
	Blue   Color = "blue"
	Green  Color = "green"
	Yellow Color = "yellow"
	Purple Color = "purple"
	Orange Color = "orange"
)

// Palette is the fixed set of colors drawn from when filling cells.
var Palette = []Color{Red, Blue, Green, Yellow, Purple, Orange}

// colorValues maps a color to its raw value; a cleared token is worth value/5.
var colorValues = map[Color]int{
	Red:    10,
	Blue:   15,
	Green:  20,
	Yellow: 25,
	Purple: 30,
	Orange: 40,
}

// fallbackValue applies to colors missing from the table.
const fallbackValue = 5

// Value returns the raw value of c.
func Value(c Color) int {
	if v, ok := colorValues[c]; ok {
		return v
	}
	return fallbackValue
}

// Points is the score contributed by clearing one token of color c.
func Points(c Color) int { return Value(c) / 5 }

// Token is a single colored unit on the board.
//
// ID is unique for the lifetime of a Board and never reused, so two tokens of
// the same color in different cells are always distinguishable. Row and Col
// always mirror the cell the token currently occupies.
type Token struct {
	ID    uint64 `json:"id"`
	Color Color  `json:"color"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
}

// IsZero reports whether t is the empty-cell placeholder.
func (t Token) IsZero() bool { return t.ID == 0 }

// Rand is the random source used for colors, cluster placement and level
// generation. *math/rand/v2.Rand satisfies it.
type Rand interface {
	// IntN returns a value in [0, n). n is always > 0.
	IntN(n int) int
}
