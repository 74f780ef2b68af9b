package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/chainpop/apps/go-server/internal/board"
	"github.com/robalobadob/chainpop/apps/go-server/internal/randtest"
)

// redBoard returns a full board where every token is red (value 10).
func redBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.New(board.DefaultRows, board.DefaultCols, randtest.Const(0))
	require.NoError(t, err)
	b.FillRandom()
	b.AssertPlayability()
	return b
}

func row0(t *testing.T, b *board.Board, n int) []board.Token {
	t.Helper()
	chain := make([]board.Token, 0, n)
	for col := 0; col < n; col++ {
		tk, ok := b.At(0, col)
		require.True(t, ok)
		chain = append(chain, tk)
	}
	return chain
}

func TestResolveRedTriple(t *testing.T) {
	b := redBoard(t)
	p := Progress{MovesCurrent: 12, MovesTotal: 12}
	chain := row0(t, b, 3)

	res, ok := Resolve(b, chain, &p)
	require.True(t, ok)
	assert.Equal(t, 6, res.Points, "3 × floor(10/5)")
	assert.Equal(t, 6, p.ScoreCurrent)
	assert.Equal(t, 11, p.MovesCurrent)
	assert.Equal(t, 12, p.MovesTotal)
	assert.Equal(t, board.Red, res.Color)
	assert.Len(t, res.Cleared, 3)
	assert.Len(t, res.Refilled, 3)
	assert.Equal(t, 8, res.Clusters)

	assert.Equal(t, 0, b.EmptyCount())
	for _, tk := range chain {
		assert.False(t, b.Contains(tk), "cleared token %d still on board", tk.ID)
	}
}

func TestResolveShortChain(t *testing.T) {
	b := redBoard(t)
	p := Progress{MovesCurrent: 3}
	_, ok := Resolve(b, row0(t, b, 2), &p)
	assert.False(t, ok)
	assert.Equal(t, 3, p.MovesCurrent)
	assert.Equal(t, 0, p.ScoreCurrent)
}

func TestResolveCostsOneMoveAtAnyLength(t *testing.T) {
	for _, n := range []int{3, 4, 8, 20, 72} {
		b := redBoard(t)
		p := Progress{MovesCurrent: 10}
		chain := b.Tokens()[:n]

		res, ok := Resolve(b, chain, &p)
		require.True(t, ok)
		assert.Equal(t, 9, p.MovesCurrent, "length %d", n)
		assert.Equal(t, 2*n, res.Points, "linear in length %d", n)
		assert.Equal(t, 0, b.EmptyCount())
	}
}

func TestResolveMixedColors(t *testing.T) {
	chain := []board.Token{
		tok(1, board.Orange, 0, 0),
		tok(2, board.Orange, 0, 1),
		tok(3, board.Orange, 0, 2),
		tok(4, board.Orange, 1, 2),
	}
	assert.Equal(t, 32, ChainPoints(chain))
}

func TestResolveKeepsPositions(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		r := rand.New(rand.NewPCG(seed, 3))
		b, err := board.New(board.DefaultRows, board.DefaultCols, r)
		require.NoError(t, err)
		b.FillRandom()

		p := Progress{MovesCurrent: 5}
		chain := []board.Token{}
		for _, tk := range b.Tokens() {
			if r.IntN(4) == 0 {
				chain = append(chain, tk)
			}
		}
		if len(chain) < MinChain {
			continue
		}
		_, ok := Resolve(b, chain, &p)
		require.True(t, ok)
		assert.Equal(t, 0, b.EmptyCount())
		for row := 0; row < b.Rows(); row++ {
			for col := 0; col < b.Cols(); col++ {
				tk, ok := b.At(row, col)
				require.True(t, ok)
				assert.Equal(t, row, tk.Row)
				assert.Equal(t, col, tk.Col)
			}
		}
	}
}

func TestResolveRefilledMatchesBoard(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		r := rand.New(rand.NewPCG(seed, 11))
		b, err := board.New(board.DefaultRows, board.DefaultCols, r)
		require.NoError(t, err)
		b.FillRandom()
		b.AssertPlayability()

		p := Progress{MovesCurrent: 5}
		res, ok := Resolve(b, b.Tokens()[:10], &p)
		require.True(t, ok)
		require.Len(t, res.Refilled, 10)
		for _, tk := range res.Refilled {
			cur, ok := b.At(tk.Row, tk.Col)
			require.True(t, ok)
			assert.Equal(t, cur, tk, "seed %d cell (%d,%d)", seed, tk.Row, tk.Col)
		}
	}
}
