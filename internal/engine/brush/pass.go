package brush

import (
	"fmt"
	"iter"

	"github.com/Faultbox/brushgl/internal/engine/chain"
	"github.com/Faultbox/brushgl/internal/engine/lightmap"
	"github.com/Faultbox/brushgl/internal/engine/material"
)

// DrawBatch is one draw call: a run of surfaces sharing a material.
type DrawBatch struct {
	chain.Batch

	Class           material.Class
	Material        int
	Texture         int
	LightmapBlock   int
	LightmapTexture lightmap.TextureHandle // zero when unlit or not yet created

	// Totals of the whole chain the batch came from.
	ChainVerts   int
	ChainIndices int
}

// Pass collects the visible surfaces of one submodel for a frame. Only one
// pass per submodel may be open at a time.
type Pass struct {
	r     *Resource
	sub   int
	set   *chain.Set
	order chain.Order
	ended bool
}

// BeginPass opens a pass over submodel sub. With reverse set, every chain
// keeps submission order, as back-to-front transparent passes need.
func (r *Resource) BeginPass(sub int, reverse bool) (*Pass, error) {
	if sub < 0 || sub >= len(r.submodels) {
		return nil, fmt.Errorf("%w: %d of %d", ErrBadSubmodel, sub, len(r.submodels))
	}
	st := &r.submodels[sub]
	if st.active {
		return nil, fmt.Errorf("%w: submodel %d", ErrPassActive, sub)
	}

	order := chain.OrderLIFO
	if reverse {
		order = chain.OrderFIFO
		st.chains.ResetReverse()
	} else {
		st.chains.Reset()
	}
	st.active = true

	return &Pass{r: r, sub: sub, set: st.chains, order: order}, nil
}

// Submodel returns the submodel the pass draws.
func (p *Pass) Submodel() int {
	return p.sub
}

// Add queues surface surf under the material current at the given animation
// frame. Surfaces without geometry are ignored. The surface must belong to the
// pass's submodel.
func (p *Pass) Add(surf, frame int, alternate bool) error {
	if p.ended {
		return ErrPassEnded
	}
	r := p.r
	if surf < 0 || surf >= len(r.lights) {
		return fmt.Errorf("%w: surface %d of %d", ErrBadSurface, surf, len(r.lights))
	}
	if owner := r.owner[surf]; owner != p.sub {
		return fmt.Errorf("%w: surface %d belongs to submodel %d, pass draws %d", ErrBadSurface, surf, owner, p.sub)
	}
	base := r.lights[surf].Material
	if base < 0 {
		return nil
	}

	id := r.materials.Resolve(base, frame, alternate)
	s := chain.Surface{ID: int32(surf), NumVerts: int32(r.level.Surfaces[surf].NumEdges())}
	c := p.set.Chain(id)
	if p.order == chain.OrderFIFO {
		return c.AddSurfTail(s)
	}
	return c.AddSurf(s)
}

// Batches walks every chain in material order, which is class order. Each
// chain is consumed as it is walked.
func (p *Pass) Batches() iter.Seq[DrawBatch] {
	return p.batches(0, p.r.materials.Len())
}

// ClassBatches walks only the chains of class c.
func (p *Pass) ClassBatches(c material.Class) iter.Seq[DrawBatch] {
	first, end := p.r.materials.Class(c)
	return p.batches(first, end)
}

func (p *Pass) batches(first, end int) iter.Seq[DrawBatch] {
	return func(yield func(DrawBatch) bool) {
		if p.ended {
			return
		}
		reg := p.r.materials
		for id := first; id < end; id++ {
			c := p.set.Chain(id)
			if c.State() != chain.StateFilling && c.State() != chain.StateOverflowed {
				continue
			}
			m := reg.Material(id)
			db := DrawBatch{
				Class:         reg.ClassOf(id),
				Material:      id,
				Texture:       m.Texture,
				LightmapBlock: m.LightmapBlock,
				ChainVerts:    c.NumVerts,
				ChainIndices:  c.NumIndices,
			}
			if m.LightmapBlock != material.NoLightmap {
				db.LightmapTexture = p.r.atlas.Block(m.LightmapBlock).Texture
			}
			for b := range c.Batches() {
				db.Batch = b
				if !yield(db) {
					return
				}
			}
		}
	}
}

// End closes the pass, returning unwalked segments to the pool.
func (p *Pass) End() {
	if p.ended {
		return
	}
	p.ended = true
	p.set.Discard()
	p.r.submodels[p.sub].active = false
}
