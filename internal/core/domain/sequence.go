package domain

import "sync/atomic"

// Sequence is a monotonically increasing identifier source. It is
// injected into the constructors that need one (bookings, payments)
// instead of living in package-level state, so tests can isolate or
// reseed it. Values are never reused or reset.
type Sequence struct {
	n atomic.Int64
}

// NewSequence returns a Sequence whose first Next call yields start.
func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.n.Store(start - 1)
	return s
}

// Next reserves and returns the next value.
func (s *Sequence) Next() int64 {
	return s.n.Add(1)
}

// Current returns the most recently issued value without advancing.
func (s *Sequence) Current() int64 {
	return s.n.Load()
}
