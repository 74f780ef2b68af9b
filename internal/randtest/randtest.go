// Package randtest provides scripted random sources for deterministic tests.
package randtest

// Seq replays a fixed sequence of values. Each value is reduced modulo n so a
// script never produces an out-of-range result; once exhausted it returns 0.
type Seq struct {
	vals []int
	pos  int
}

// NewSeq returns a Seq that yields vals in order.
func NewSeq(vals ...int) *Seq { return &Seq{vals: vals} }

// IntN implements board.Rand.
func (s *Seq) IntN(n int) int {
	if s.pos >= len(s.vals) {
		return 0
	}
	v := s.vals[s.pos]
	s.pos++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Push appends more values to the script.
func (s *Seq) Push(vals ...int) { s.vals = append(s.vals, vals...) }

// Used reports how many values have been consumed.
func (s *Seq) Used() int { return s.pos }

// Const always returns the same value modulo n.
type Const int

// IntN implements board.Rand.
func (c Const) IntN(n int) int {
	v := int(c)
	if v < 0 {
		v = -v
	}
	return v % n
}
