package chain

// Set holds one chain per material for a single submodel, plus the pool of
// overflow segments shared by those chains. Not safe for concurrent use.
type Set struct {
	chains []Chain
	budget int
	free   []*segment

	allocated int // overflow segments ever created
}

// NewSet creates n empty chains in LIFO mode. A non-positive budget selects
// DefaultMaxVerts.
func NewSet(n, budget int) *Set {
	if budget <= 0 {
		budget = DefaultMaxVerts
	}
	s := &Set{
		chains: make([]Chain, n),
		budget: budget,
	}
	for i := range s.chains {
		s.chains[i].set = s
	}
	return s
}

// Len returns the number of chains.
func (s *Set) Len() int {
	return len(s.chains)
}

// Budget returns the per-segment vertex budget.
func (s *Set) Budget() int {
	return s.budget
}

// Chain returns the chain of material id.
func (s *Set) Chain(id int) *Chain {
	return &s.chains[id]
}

// Reset empties every chain for a pass whose chains are walked LIFO.
func (s *Set) Reset() {
	for i := range s.chains {
		s.chains[i].reset(OrderLIFO)
	}
}

// ResetReverse empties every chain for a pass whose chains keep submission
// order, as transparent surfaces need.
func (s *Set) ResetReverse() {
	for i := range s.chains {
		s.chains[i].reset(OrderFIFO)
	}
}

// Discard ends a pass: every chain is marked consumed and any overflow
// segments not yet walked go back to the pool.
func (s *Set) Discard() {
	for i := range s.chains {
		c := &s.chains[i]
		c.release()
		c.state = StateConsumed
	}
}

// Pooled returns the number of idle overflow segments.
func (s *Set) Pooled() int {
	return len(s.free)
}

// Allocated returns the number of overflow segments created so far.
func (s *Set) Allocated() int {
	return s.allocated
}

func (s *Set) get() *segment {
	if n := len(s.free); n > 0 {
		seg := s.free[n-1]
		s.free = s.free[:n-1]
		return seg
	}
	s.allocated++
	return &segment{}
}

func (s *Set) put(seg *segment) {
	seg.reset()
	s.free = append(s.free, seg)
}
