// internal/board/layout.go
//
// Pixel geometry of the board.
// Responsibilities:
//   - Center a rows × cols grid in the canvas.
//   - Map cells to token centers and pointer pixels back to cells.
//   - Euclidean distance used by the connection threshold.

package board

import "math"

// Pixel geometry of the rendered grid. Pointer coordinates from the UI are
// mapped back to cells through a Layout, and the connection threshold compares
// distances between token centers.
const (
	DefaultSpacing = 42.0
	DefaultRadius  = 17.5
	DefaultWidth   = 360.0
	DefaultHeight  = 420.0
)

// Point is a position in canvas pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Layout centers a rows × cols grid in a width × height canvas.
type Layout struct {
	Rows    int
	Cols    int
	Width   float64
	Height  float64
	Spacing float64
	Radius  float64
}

// NewLayout returns a layout with the default spacing and token radius.
func NewLayout(rows, cols int, width, height float64) Layout {
	return Layout{
		Rows:    rows,
		Cols:    cols,
		Width:   width,
		Height:  height,
		Spacing: DefaultSpacing,
		Radius:  DefaultRadius,
	}
}

func (l Layout) offsets() (float64, float64) {
	ox := (l.Width - float64(l.Cols-1)*l.Spacing) / 2
	oy := (l.Height - float64(l.Rows-1)*l.Spacing) / 2
	return ox, oy
}

// Center returns the pixel center of (row, col).
func (l Layout) Center(row, col int) Point {
	ox, oy := l.offsets()
	return Point{
		X: float64(col)*l.Spacing + ox,
		Y: float64(row)*l.Spacing + oy,
	}
}

// Hit maps a pointer position to the cell whose token disc contains it.
func (l Layout) Hit(x, y float64) (row, col int, ok bool) {
	ox, oy := l.offsets()
	col = int(math.Round((x - ox) / l.Spacing))
	row = int(math.Round((y - oy) / l.Spacing))
	if row < 0 || row >= l.Rows || col < 0 || col >= l.Cols {
		return 0, 0, false
	}
	if Distance(l.Center(row, col), Point{X: x, Y: y}) > l.Radius {
		return 0, 0, false
	}
	return row, col, true
}
