// internal/game/resolve.go
//
// Resolution Engine: clear → compact → refill → re-seed.
//
// Every chained token scores floor(value/5) for its color; there is no length
// bonus. A finished chain always costs exactly one move.

package game

import "github.com/robalobadob/chainpop/apps/go-server/internal/board"

// Resolution describes one resolved chain for the rendering collaborator.
type Resolution struct {
	Color    board.Color   `json:"color"`
	Points   int           `json:"points"`
	Cleared  []board.Token `json:"cleared"`
	Refilled []board.Token `json:"refilled"`
	Clusters int           `json:"clusters"`
}

// ChainPoints sums the per-token score of chain.
func ChainPoints(chain []board.Token) int {
	pts := 0
	for _, t := range chain {
		pts += board.Points(t.Color)
	}
	return pts
}

// Resolve applies a finished chain to b and p. Chains shorter than MinChain
// are rejected (ok=false) without touching either.
func Resolve(b *board.Board, chain []board.Token, p *Progress) (res Resolution, ok bool) {
	if len(chain) < MinChain {
		return Resolution{}, false
	}

	res.Color = chain[0].Color
	res.Points = ChainPoints(chain)
	p.ScoreCurrent += res.Points
	p.MovesCurrent--

	res.Cleared = make([]board.Token, 0, len(chain))
	for _, t := range chain {
		if b.Remove(t) {
			res.Cleared = append(res.Cleared, t)
		}
	}

	b.ApplyGravity()
	res.Refilled = b.Refill()
	res.Clusters = len(b.AssertPlayability())

	// reseeding recolors cells in place; report refilled tokens as they now are
	for i, t := range res.Refilled {
		if cur, ok := b.At(t.Row, t.Col); ok {
			res.Refilled[i] = cur
		}
	}
	return res, true
}
