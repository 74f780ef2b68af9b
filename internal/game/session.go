// internal/game/session.go
//
// Connection Session: turns one drag gesture into an ordered chain.
//
// States: Idle → (press on token) → Drawing → (release) → Idle.
// While Drawing, entering a token is checked in this order:
//  1. second-to-last chain entry → backtrack (drop the last entry)
//  2. already in the chain       → ignored
//  3. different color            → ignored
//  4. too far from the last one  → rejected
//  5. otherwise                  → appended
//
// Tokens are compared by ID; two cells can share a color.

package game

import "github.com/robalobadob/chainpop/apps/go-server/internal/board"

// ConnectThreshold is the maximum center distance (exclusive) between chained
// tokens. With 42px spacing it admits orthogonal (42) and diagonal (≈59.4)
// neighbors and rejects two-cell jumps (84).
const ConnectThreshold = 80.0

// MinChain is the shortest chain that resolves on release.
const MinChain = 3

// SessionState is Idle or Drawing.
type SessionState int

const (
	Idle SessionState = iota
	Drawing
)

// EnterResult reports how Enter treated a token.
type EnterResult int

const (
	Ignored EnterResult = iota
	Appended
	Backtracked
	Rejected
)

func (r EnterResult) String() string {
	switch r {
	case Appended:
		return "appended"
	case Backtracked:
		return "backtracked"
	case Rejected:
		return "rejected"
	}
	return "ignored"
}

// Session is the transient state of a single drag.
type Session struct {
	layout    board.Layout
	threshold float64

	state SessionState
	color board.Color
	chain []board.Token
}

// NewSession returns an idle session measuring distances on layout.
func NewSession(layout board.Layout) *Session {
	return &Session{layout: layout, threshold: ConnectThreshold}
}

// State returns Idle or Drawing.
func (s *Session) State() SessionState { return s.state }

// Color returns the chain color; empty while Idle.
func (s *Session) Color() board.Color { return s.color }

// Chain returns a copy of the current chain.
func (s *Session) Chain() []board.Token {
	return append([]board.Token(nil), s.chain...)
}

// ChainIDs returns the IDs of the current chain in order.
func (s *Session) ChainIDs() []uint64 {
	ids := make([]uint64, len(s.chain))
	for i, t := range s.chain {
		ids[i] = t.ID
	}
	return ids
}

// Press starts a chain at t. It is ignored unless the session is Idle.
func (s *Session) Press(t board.Token) bool {
	if s.state != Idle || t.IsZero() {
		return false
	}
	s.state = Drawing
	s.color = t.Color
	s.chain = []board.Token{t}
	return true
}

// Enter offers u as the next chain entry.
func (s *Session) Enter(u board.Token) EnterResult {
	if s.state != Drawing || u.IsZero() {
		return Ignored
	}
	n := len(s.chain)
	if n >= 2 && s.chain[n-2].ID == u.ID {
		s.chain = s.chain[:n-1]
		return Backtracked
	}
	for _, t := range s.chain {
		if t.ID == u.ID {
			return Ignored
		}
	}
	if u.Color != s.color {
		return Ignored
	}
	last := s.chain[n-1]
	if board.Distance(s.layout.Center(u.Row, u.Col), s.layout.Center(last.Row, last.Col)) >= s.threshold {
		return Rejected
	}
	s.chain = append(s.chain, u)
	return Appended
}

// Release ends the drag. It returns the chain when it is long enough to
// resolve, nil otherwise; the session is Idle afterwards either way.
func (s *Session) Release() []board.Token {
	if s.state != Drawing {
		return nil
	}
	chain := s.chain
	s.Reset()
	if len(chain) < MinChain {
		return nil
	}
	return chain
}

// Reset discards any drag in progress.
func (s *Session) Reset() {
	s.state = Idle
	s.color = ""
	s.chain = nil
}
