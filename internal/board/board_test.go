package board

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/chainpop/apps/go-server/internal/randtest"
)

func newTestBoard(t *testing.T, rows, cols int, seed uint64) *Board {
	t.Helper()
	b, err := New(rows, cols, rand.New(rand.NewPCG(seed, seed+1)))
	require.NoError(t, err)
	return b
}

// checkPositions asserts every token's stored position matches its cell.
func checkPositions(t *testing.T, b *Board) {
	t.Helper()
	for row := 0; row < b.Rows(); row++ {
		for col := 0; col < b.Cols(); col++ {
			if tok, ok := b.At(row, col); ok {
				assert.Equal(t, row, tok.Row, "token %d row", tok.ID)
				assert.Equal(t, col, tok.Col, "token %d col", tok.ID)
			}
		}
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(0, 8, randtest.Const(0))
	assert.Error(t, err)
	_, err = New(9, 8, nil)
	assert.Error(t, err)
}

func TestNewBoardIsEmpty(t *testing.T) {
	b := newTestBoard(t, DefaultRows, DefaultCols, 1)
	assert.Equal(t, 72, b.EmptyCount())
	_, ok := b.At(0, 0)
	assert.False(t, ok)
	_, ok = b.At(-1, 3)
	assert.False(t, ok)
	_, ok = b.At(9, 0)
	assert.False(t, ok)
}

func TestFillRandomFillsEveryCell(t *testing.T) {
	b := newTestBoard(t, DefaultRows, DefaultCols, 2)
	b.FillRandom()
	b.AssertPlayability()

	assert.Equal(t, 0, b.EmptyCount())
	assert.Len(t, b.Tokens(), 72)
	checkPositions(t, b)

	seen := map[uint64]bool{}
	for _, tok := range b.Tokens() {
		assert.False(t, seen[tok.ID], "duplicate id %d", tok.ID)
		seen[tok.ID] = true
		assert.Contains(t, Palette, tok.Color)
	}
}

func TestRemoveRequiresSameToken(t *testing.T) {
	b := newTestBoard(t, 3, 3, 3)
	b.FillRandom()
	tok, ok := b.At(1, 1)
	require.True(t, ok)

	stale := tok
	stale.ID++
	assert.False(t, b.Remove(stale))
	assert.True(t, b.Remove(tok))
	assert.False(t, b.Remove(tok), "second remove is a no-op")
	assert.Equal(t, 1, b.EmptyCount())
}

func TestGravityPreservesColumnOrder(t *testing.T) {
	for seed := uint64(0); seed < 25; seed++ {
		b := newTestBoard(t, DefaultRows, DefaultCols, seed)
		b.FillRandom()
		r := rand.New(rand.NewPCG(seed, 99))

		// knock out a random subset of cells
		for _, tok := range b.Tokens() {
			if r.IntN(3) == 0 {
				require.True(t, b.Remove(tok))
			}
		}
		before := make([][]uint64, b.Cols())
		for col := range before {
			before[col] = b.Column(col)
		}

		b.ApplyGravity()
		checkPositions(t, b)
		for col := 0; col < b.Cols(); col++ {
			assert.Equal(t, before[col], b.Column(col), "column %d order", col)
			// survivors sit at the bottom
			survivors := len(before[col])
			for row := 0; row < b.Rows(); row++ {
				_, ok := b.At(row, col)
				assert.Equal(t, row >= b.Rows()-survivors, ok, "cell %d,%d", row, col)
			}
		}

		created := b.Refill()
		assert.Equal(t, 0, b.EmptyCount())
		checkPositions(t, b)
		for _, tok := range created {
			assert.True(t, b.Contains(tok))
		}
	}
}

func TestRefillAssignsFreshIDs(t *testing.T) {
	b := newTestBoard(t, 2, 2, 4)
	b.FillRandom()
	old, _ := b.At(0, 0)
	require.True(t, b.Remove(old))

	created := b.Refill()
	require.Len(t, created, 1)
	assert.NotEqual(t, old.ID, created[0].ID)
	assert.Equal(t, 0, created[0].Row)
	assert.Equal(t, 0, created[0].Col)
}

func TestAssertPlayabilityClusterCount(t *testing.T) {
	for extra := 0; extra < extraClusters; extra++ {
		// first value picks the cluster count, the rest are cycled through
		b, err := New(DefaultRows, DefaultCols, randtest.NewSeq(extra))
		require.NoError(t, err)
		b.FillRandom()
		assert.Len(t, b.AssertPlayability(), minClusters+extra)
	}
}

func TestAssertPlayabilityStampsShape(t *testing.T) {
	// count=8, then one cluster: color=purple(4), row=2, col=3, shape=T(4);
	// remaining clusters all land on red at (0,0) horizontal.
	seq := randtest.NewSeq()
	b, err := New(DefaultRows, DefaultCols, seq)
	require.NoError(t, err)
	b.FillRandom() // empty script: every cell red
	seq.Push(0, 4, 2, 3, 4)
	clusters := b.AssertPlayability()
	require.NotEmpty(t, clusters)

	assert.Equal(t, Cluster{Color: Purple, Shape: 4, Row: 2, Col: 3}, clusters[0])
	for _, cell := range [][2]int{{2, 3}, {2, 4}, {2, 5}, {3, 4}} {
		tok, ok := b.At(cell[0], cell[1])
		require.True(t, ok)
		assert.Equal(t, Purple, tok.Color, "cell %v", cell)
	}
}

func TestAssertPlayabilityOnTinyBoard(t *testing.T) {
	b := newTestBoard(t, 2, 2, 5)
	b.FillRandom()
	assert.NotPanics(t, func() { b.AssertPlayability() })
	assert.Equal(t, 0, b.EmptyCount())
	checkPositions(t, b)
}

func TestPoints(t *testing.T) {
	assert.Equal(t, 2, Points(Red))
	assert.Equal(t, 3, Points(Blue))
	assert.Equal(t, 8, Points(Orange))
	assert.Equal(t, 1, Points(Color("teal")))
}
