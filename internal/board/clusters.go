// internal/board/clusters.go
//
// Playability re-seeding.
// A random fill alone often leaves few 3+ same-color groups, so after every
// fill or refill the board stamps a handful of small same-color shapes at
// random anchors. It biases toward solvable boards; it proves nothing.

package board

// Shape is a set of (row, col) offsets from a cluster anchor.
type Shape [][2]int

// Shapes are the cluster patterns stamped by AssertPlayability.
var Shapes = []Shape{
	{{0, 0}, {0, 1}, {0, 2}},         // horizontal triple
	{{0, 0}, {1, 0}, {2, 0}},         // vertical triple
	{{0, 0}, {0, 1}, {1, 0}},         // L
	{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, // square
	{{0, 0}, {0, 1}, {0, 2}, {1, 1}}, // T
}

const (
	minClusters   = 8
	extraClusters = 4 // 8..11 clusters per pass
)

// Cluster records one stamped shape.
type Cluster struct {
	Color Color
	Shape int
	Row   int
	Col   int
}

// AssertPlayability stamps 8–11 same-color clusters over the current colors
// and returns what it stamped. Cells that fall outside the grid are skipped;
// empty cells inside a cluster receive a fresh token.
func (b *Board) AssertPlayability() []Cluster {
	n := minClusters + b.rnd.IntN(extraClusters)
	out := make([]Cluster, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, b.stampCluster())
	}
	return out
}

func (b *Board) stampCluster() Cluster {
	c := b.randomColor()
	row := b.rnd.IntN(anchorSpan(b.rows))
	col := b.rnd.IntN(anchorSpan(b.cols))
	shape := b.rnd.IntN(len(Shapes))

	for _, off := range Shapes[shape] {
		r, cc := row+off[0], col+off[1]
		if !b.inBounds(r, cc) {
			continue
		}
		i := b.index(r, cc)
		if b.cells[i].IsZero() {
			b.place(r, cc, c)
			continue
		}
		b.cells[i].Color = c
	}
	return Cluster{Color: c, Shape: shape, Row: row, Col: col}
}

// anchorSpan is the number of anchor positions along an axis of length n.
func anchorSpan(n int) int {
	if n > 2 {
		return n - 2
	}
	return 1
}
