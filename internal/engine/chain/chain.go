// Package chain builds per-material batches of surfaces for one render pass.
//
// Each material owns a Chain. Surfaces are appended during visibility
// traversal and the chain is walked once, destructively, when drawing. A
// chain is split into segments whose vertex count stays below a fixed budget
// so a single segment always fits one GPU buffer.
package chain

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// DefaultMaxVerts is the vertex budget of one segment.
const DefaultMaxVerts = 65536

// Chain errors.
var (
	ErrSurfaceTooLarge = errors.New("surface exceeds chain vertex budget")
	ErrOrderMismatch   = errors.New("append order does not match chain reset mode")
	ErrConsumed        = errors.New("chain already consumed")
)

// Surface is the chain's view of a drawable surface.
type Surface struct {
	ID       int32 // index into the model's surface array
	NumVerts int32 // polygon vertex count; fewer than 3 means nothing to draw
}

// Order selects how a chain is walked.
type Order int

const (
	// OrderLIFO walks the most recently added surface first.
	OrderLIFO Order = iota
	// OrderFIFO walks surfaces in submission order.
	OrderFIFO
)

// State tracks a chain through one pass.
type State int

const (
	StateEmpty State = iota
	StateFilling
	StateOverflowed
	StateConsumed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFilling:
		return "filling"
	case StateOverflowed:
		return "overflowed"
	case StateConsumed:
		return "consumed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type segment struct {
	numVerts   int
	numIndices int
	surfs      []int32 // submission order
}

func (s *segment) reset() {
	s.numVerts = 0
	s.numIndices = 0
	s.surfs = s.surfs[:0]
}

// Batch is one segment of a chain, ready to draw.
type Batch struct {
	// Surfaces in draw order. Only valid until the iterator advances.
	Surfaces   []int32
	NumVerts   int
	NumIndices int
}

// Chain is the per-pass batch of one material.
type Chain struct {
	// Totals across every segment, for sizing buffers before the walk.
	NumVerts   int
	NumIndices int

	set      *Set
	order    Order
	state    State
	head     segment    // first segment, owned by the chain
	overflow []*segment // later segments in allocation order
}

// State returns the chain's position in the pass lifecycle.
func (c *Chain) State() State {
	return c.state
}

// Order returns the walk order chosen at reset.
func (c *Chain) Order() Order {
	return c.order
}

// Segments returns the number of segments holding surfaces.
func (c *Chain) Segments() int {
	if c.state == StateEmpty || c.state == StateConsumed {
		return 0
	}
	return 1 + len(c.overflow)
}

func (c *Chain) current() *segment {
	if n := len(c.overflow); n > 0 {
		return c.overflow[n-1]
	}
	return &c.head
}

// AddSurf prepends s to the chain; the walk visits it before earlier surfaces.
func (c *Chain) AddSurf(s Surface) error {
	return c.add(s, OrderLIFO)
}

// AddSurfTail appends s to the chain; the walk visits surfaces in submission
// order. The chain must have been reset with Set.ResetReverse.
func (c *Chain) AddSurfTail(s Surface) error {
	return c.add(s, OrderFIFO)
}

func (c *Chain) add(s Surface, order Order) error {
	if c.state == StateConsumed {
		return ErrConsumed
	}
	if c.order != order {
		return fmt.Errorf("%w: chain is %s", ErrOrderMismatch, c.order)
	}
	if s.NumVerts < 3 {
		return nil
	}

	n := int(s.NumVerts)
	if n >= c.set.budget {
		return fmt.Errorf("%w: surface %d has %d vertices, budget %d", ErrSurfaceTooLarge, s.ID, n, c.set.budget)
	}

	seg := c.current()
	if seg.numVerts+n >= c.set.budget {
		seg = c.set.get()
		c.overflow = append(c.overflow, seg)
		c.state = StateOverflowed
	} else if c.state == StateEmpty {
		c.state = StateFilling
	}

	indices := (n - 2) * 3
	seg.surfs = append(seg.surfs, s.ID)
	seg.numVerts += n
	seg.numIndices += indices
	c.NumVerts += n
	c.NumIndices += indices
	return nil
}

// Batches walks the chain once, one Batch per segment. LIFO chains yield the
// newest segment first, FIFO chains the first-filled one. Each overflow
// segment is released as soon as it has been yielded; stopping early releases
// the rest. Later calls yield nothing until the chain is reset.
func (c *Chain) Batches() iter.Seq[Batch] {
	return func(yield func(Batch) bool) {
		if c.state == StateConsumed {
			return
		}
		c.state = StateConsumed
		defer c.release()

		emit := func(seg *segment) bool {
			if len(seg.surfs) == 0 {
				return true
			}
			if c.order == OrderLIFO {
				slices.Reverse(seg.surfs)
			}
			return yield(Batch{Surfaces: seg.surfs, NumVerts: seg.numVerts, NumIndices: seg.numIndices})
		}

		if c.order == OrderFIFO {
			if !emit(&c.head) {
				return
			}
			for i, seg := range c.overflow {
				ok := emit(seg)
				c.set.put(seg)
				c.overflow[i] = nil
				if !ok {
					return
				}
			}
			return
		}

		for i := len(c.overflow) - 1; i >= 0; i-- {
			seg := c.overflow[i]
			ok := emit(seg)
			c.set.put(seg)
			c.overflow[i] = nil
			if !ok {
				return
			}
		}
		emit(&c.head)
	}
}

// release returns every remaining overflow segment to the set.
func (c *Chain) release() {
	for i, seg := range c.overflow {
		if seg != nil {
			c.set.put(seg)
			c.overflow[i] = nil
		}
	}
	c.overflow = c.overflow[:0]
	c.head.reset()
}

func (c *Chain) reset(order Order) {
	c.release()
	c.NumVerts = 0
	c.NumIndices = 0
	c.order = order
	c.state = StateEmpty
}

func (o Order) String() string {
	if o == OrderFIFO {
		return "fifo"
	}
	return "lifo"
}
