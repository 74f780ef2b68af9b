package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/chainpop/apps/go-server/internal/board"
)

var testLayout = board.NewLayout(board.DefaultRows, board.DefaultCols, board.DefaultWidth, board.DefaultHeight)

func tok(id uint64, c board.Color, row, col int) board.Token {
	return board.Token{ID: id, Color: c, Row: row, Col: col}
}

func TestSessionPressStartsDrawing(t *testing.T) {
	s := NewSession(testLayout)
	assert.Equal(t, Idle, s.State())

	a := tok(1, board.Red, 0, 0)
	require.True(t, s.Press(a))
	assert.Equal(t, Drawing, s.State())
	assert.Equal(t, board.Red, s.Color())
	assert.Equal(t, []board.Token{a}, s.Chain())

	assert.False(t, s.Press(tok(2, board.Blue, 0, 1)), "press while drawing")
	assert.Equal(t, board.Red, s.Color())
	assert.False(t, NewSession(testLayout).Press(board.Token{}), "press on empty cell")
}

func TestSessionEnterRules(t *testing.T) {
	a := tok(1, board.Red, 4, 3)
	cases := []struct {
		name string
		u    board.Token
		want EnterResult
	}{
		{"orthogonal neighbor", tok(2, board.Red, 4, 4), Appended},
		{"diagonal neighbor", tok(2, board.Red, 5, 4), Appended},
		{"two cells away", tok(2, board.Red, 4, 5), Rejected},
		{"far jump", tok(2, board.Red, 0, 0), Rejected},
		{"other color", tok(2, board.Blue, 4, 4), Ignored},
		{"same token", a, Ignored},
		{"empty cell", board.Token{}, Ignored},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession(testLayout)
			require.True(t, s.Press(a))
			got := s.Enter(tc.u)
			assert.Equal(t, tc.want, got, got.String())
			if got == Appended {
				assert.Len(t, s.Chain(), 2)
			} else {
				assert.Len(t, s.Chain(), 1)
			}
		})
	}
}

func TestSessionEnterWhileIdle(t *testing.T) {
	s := NewSession(testLayout)
	assert.Equal(t, Ignored, s.Enter(tok(1, board.Red, 0, 0)))
	assert.Empty(t, s.Chain())
}

func TestSessionSameColorDifferentIdentity(t *testing.T) {
	s := NewSession(testLayout)
	a := tok(1, board.Red, 0, 0)
	twin := tok(9, board.Red, 0, 1) // same color, different token
	require.True(t, s.Press(a))
	assert.Equal(t, Appended, s.Enter(twin))
	assert.Equal(t, []uint64{1, 9}, s.ChainIDs())
}

func TestSessionBacktrack(t *testing.T) {
	a := tok(1, board.Green, 0, 0)
	b := tok(2, board.Green, 0, 1)
	c := tok(3, board.Green, 0, 2)

	s := NewSession(testLayout)
	require.True(t, s.Press(a))
	require.Equal(t, Appended, s.Enter(b))
	require.Equal(t, Appended, s.Enter(c))

	assert.Equal(t, Backtracked, s.Enter(b))
	assert.Equal(t, []uint64{1, 2}, s.ChainIDs())

	// hovering the new tail again changes nothing
	assert.Equal(t, Ignored, s.Enter(b))
	assert.Equal(t, []uint64{1, 2}, s.ChainIDs())

	assert.Equal(t, Backtracked, s.Enter(a))
	assert.Equal(t, []uint64{1}, s.ChainIDs())

	// a single-entry chain has nothing to backtrack to
	assert.Equal(t, Ignored, s.Enter(a))
	assert.Equal(t, []uint64{1}, s.ChainIDs())

	// the undone token can be chained again
	assert.Equal(t, Appended, s.Enter(b))
	assert.Equal(t, []uint64{1, 2}, s.ChainIDs())
}

func TestSessionRelease(t *testing.T) {
	s := NewSession(testLayout)
	assert.Nil(t, s.Release(), "release while idle")

	require.True(t, s.Press(tok(1, board.Red, 0, 0)))
	require.Equal(t, Appended, s.Enter(tok(2, board.Red, 0, 1)))
	assert.Nil(t, s.Release(), "two tokens is too short")
	assert.Equal(t, Idle, s.State())
	assert.Empty(t, s.Chain())

	require.True(t, s.Press(tok(1, board.Red, 0, 0)))
	require.Equal(t, Appended, s.Enter(tok(2, board.Red, 0, 1)))
	require.Equal(t, Appended, s.Enter(tok(3, board.Red, 1, 2)))
	chain := s.Release()
	assert.Len(t, chain, 3)
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, board.Color(""), s.Color())
}

// TestSessionChainInvariant drags randomly over random boards and checks
// every accepted chain.
func TestSessionChainInvariant(t *testing.T) {
	for seed := uint64(0); seed < 40; seed++ {
		r := rand.New(rand.NewPCG(seed, 17))
		b, err := board.New(board.DefaultRows, board.DefaultCols, r)
		require.NoError(t, err)
		b.FillRandom()
		b.AssertPlayability()

		s := NewSession(testLayout)
		start, _ := b.At(r.IntN(b.Rows()), r.IntN(b.Cols()))
		require.True(t, s.Press(start))
		for step := 0; step < 200; step++ {
			u, ok := b.At(r.IntN(b.Rows()), r.IntN(b.Cols()))
			require.True(t, ok)
			s.Enter(u)
		}

		chain := s.Chain()
		seen := map[uint64]bool{}
		for i, tk := range chain {
			assert.Equal(t, start.Color, tk.Color)
			assert.False(t, seen[tk.ID], "duplicate %d", tk.ID)
			seen[tk.ID] = true
			if i > 0 {
				prev := chain[i-1]
				d := board.Distance(testLayout.Center(prev.Row, prev.Col), testLayout.Center(tk.Row, tk.Col))
				assert.Less(t, d, ConnectThreshold)
			}
		}
	}
}
