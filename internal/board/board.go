// internal/board/board.go
//
// Grid model for a single level.
// Responsibilities:
//   - Own the rows × cols cells and hand out token identities.
//   - Fill cells with random colors and stamp guaranteed clusters.
//   - Remove tokens, collapse columns under gravity and refill holes.
//
// Notes:
//   - A Board is built fresh for every level; nothing here is carried over.
//   - Not safe for concurrent use; the owning game serializes access.

package board

import "fmt"

const (
	DefaultRows = 9
	DefaultCols = 8
)

// Board is a fixed-size grid of cells stored row-major. An empty cell holds
// the zero Token.
type Board struct {
	rows   int
	cols   int
	cells  []Token
	nextID uint64
	rnd    Rand
}

// New returns an empty rows × cols board drawing randomness from rnd.
func New(rows, cols int, rnd Rand) (*Board, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("board: invalid size %dx%d", rows, cols)
	}
	if rnd == nil {
		return nil, fmt.Errorf("board: nil random source")
	}
	return &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]Token, rows*cols),
		rnd:   rnd,
	}, nil
}

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Board) Cols() int { return b.cols }

func (b *Board) inBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

func (b *Board) index(row, col int) int { return row*b.cols + col }

// At returns the token at (row, col). ok is false for empty or out-of-bounds
// cells.
func (b *Board) At(row, col int) (Token, bool) {
	if !b.inBounds(row, col) {
		return Token{}, false
	}
	t := b.cells[b.index(row, col)]
	return t, !t.IsZero()
}

// Contains reports whether t is still on the board at its recorded cell.
func (b *Board) Contains(t Token) bool {
	cur, ok := b.At(t.Row, t.Col)
	return ok && cur.ID == t.ID
}

// place creates a fresh token of color c at (row, col).
func (b *Board) place(row, col int, c Color) Token {
	b.nextID++
	t := Token{ID: b.nextID, Color: c, Row: row, Col: col}
	b.cells[b.index(row, col)] = t
	return t
}

func (b *Board) randomColor() Color {
	return Palette[b.rnd.IntN(len(Palette))]
}

// FillRandom assigns every cell a new token with an independently random
// color, replacing whatever was there.
func (b *Board) FillRandom() {
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			b.place(row, col, b.randomColor())
		}
	}
}

// Remove empties the cell holding t. It reports false when that cell no
// longer holds the same token.
func (b *Board) Remove(t Token) bool {
	if !b.Contains(t) {
		return false
	}
	b.cells[b.index(t.Row, t.Col)] = Token{}
	return true
}

// ApplyGravity collapses every column downward. Survivors keep their relative
// vertical order and their stored Row follows the move.
func (b *Board) ApplyGravity() {
	for col := 0; col < b.cols; col++ {
		dst := b.rows - 1
		for row := b.rows - 1; row >= 0; row-- {
			t := b.cells[b.index(row, col)]
			if t.IsZero() {
				continue
			}
			if row != dst {
				b.cells[b.index(row, col)] = Token{}
				t.Row = dst
				b.cells[b.index(dst, col)] = t
			}
			dst--
		}
	}
}

// Refill creates a new random token in every empty cell and returns them in
// row-major order.
func (b *Board) Refill() []Token {
	var created []Token
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			if b.cells[b.index(row, col)].IsZero() {
				created = append(created, b.place(row, col, b.randomColor()))
			}
		}
	}
	return created
}

// EmptyCount returns the number of empty cells.
func (b *Board) EmptyCount() int {
	n := 0
	for _, t := range b.cells {
		if t.IsZero() {
			n++
		}
	}
	return n
}

// Tokens returns a copy of every token in row-major order.
func (b *Board) Tokens() []Token {
	out := make([]Token, 0, len(b.cells))
	for _, t := range b.cells {
		if !t.IsZero() {
			out = append(out, t)
		}
	}
	return out
}

// Column returns the token IDs of col from top to bottom, skipping empties.
func (b *Board) Column(col int) []uint64 {
	var ids []uint64
	for row := 0; row < b.rows; row++ {
		if t := b.cells[b.index(row, col)]; !t.IsZero() {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Snapshot is the renderer-facing view of a board.
type Snapshot struct {
	Rows   int     `json:"rows"`
	Cols   int     `json:"cols"`
	Tokens []Token `json:"tokens"`
}

// Snapshot captures the current board.
func (b *Board) Snapshot() Snapshot {
	return Snapshot{Rows: b.rows, Cols: b.cols, Tokens: b.Tokens()}
}
