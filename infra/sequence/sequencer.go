package sequence

import "sync/atomic"

// Sequencer hands out strictly monotonic ids. Each book instance owns its
// own sequencer, so separate books never collide.
type Sequencer struct {
	next atomic.Uint64
}

// New creates a sequencer whose first Next() returns start.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the current id and advances. Ids are never reused within a
// sequencer's lifetime.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1) - 1
}

// Current returns the id the next call to Next will hand out.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}
