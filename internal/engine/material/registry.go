package material

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/brushgl/internal/logger"
)

// Registry is the finished, read-only material set of a brush model.
type Registry struct {
	materials  []Material
	classes    []Class
	index      [NumClasses + 1]int
	animations []Animation
	animated   map[int]int // material id -> animations index
}

// Len returns the number of materials.
func (r *Registry) Len() int {
	return len(r.materials)
}

// Material returns material id.
func (r *Registry) Material(id int) Material {
	return r.materials[id]
}

// Materials returns the material array. Callers must not modify it.
func (r *Registry) Materials() []Material {
	return r.materials
}

// ClassOf returns the class material id belongs to.
func (r *Registry) ClassOf(id int) Class {
	return r.classes[id]
}

// Index returns the first material id of every class; the final entry is the
// total material count.
func (r *Registry) Index() [NumClasses + 1]int {
	return r.index
}

// Class returns the half-open id range [first, end) of class c.
func (r *Registry) Class(c Class) (first, end int) {
	return r.index[c], r.index[c+1]
}

// Animations returns the registered animations.
func (r *Registry) Animations() []Animation {
	return r.animations
}

// Animated reports whether id has an animation.
func (r *Registry) Animated(id int) bool {
	_, ok := r.animated[id]
	return ok
}

// Resolve returns the material to draw for id at the given animation frame.
// The alternate cycle is used when requested and present.
func (r *Registry) Resolve(id, frame int, alternate bool) int {
	i, ok := r.animated[id]
	if !ok {
		return id
	}
	anim := &r.animations[i]
	if alternate && len(anim.Alt) > 0 {
		return anim.Alt[cycleIndex(frame, len(anim.Alt))]
	}
	if len(anim.Frames) == 0 {
		return id
	}
	return anim.Frames[cycleIndex(frame, len(anim.Frames))]
}

// cycleIndex returns frame mod n in [0, n).
func cycleIndex(frame, n int) int {
	i := frame % n
	if i < 0 {
		i += n
	}
	return i
}

// Builder assembles a Registry. Classes must be filled in order.
type Builder struct {
	capacity int
	current  Class
	dedup    map[Material]int // current class only
	reg      *Registry
	finished bool
}

// NewBuilder returns a builder whose animations may hold up to capacity
// frames and capacity alternate frames. Non-positive capacity selects the default.
func NewBuilder(capacity int) *Builder {
	if capacity <= 0 {
		capacity = DefaultAnimationCapacity
	}
	return &Builder{
		capacity: capacity,
		current:  ClassSky,
		dedup:    make(map[Material]int),
		reg:      &Registry{animated: make(map[int]int)},
	}
}

// Capacity returns the per-animation frame limit.
func (b *Builder) Capacity() int {
	return b.capacity
}

// advance closes every class before c.
func (b *Builder) advance(c Class) {
	for b.current < c {
		b.current++
		b.reg.index[b.current] = len(b.reg.materials)
		clear(b.dedup)
	}
}

// Add returns the id of m within class c, appending it if the class does not
// hold it yet. Identical pairings in different classes get different ids.
func (b *Builder) Add(c Class, m Material) (int, error) {
	if b.finished {
		return 0, ErrFinished
	}
	if c < 0 || c >= NumClasses {
		return 0, fmt.Errorf("%w: %s", ErrClassOrder, c)
	}
	if c < b.current {
		return 0, fmt.Errorf("%w: %s after %s", ErrClassOrder, c, b.current)
	}
	b.advance(c)

	if id, ok := b.dedup[m]; ok {
		return id, nil
	}
	id := len(b.reg.materials)
	b.reg.materials = append(b.reg.materials, m)
	b.reg.classes = append(b.reg.classes, c)
	b.dedup[m] = id
	return id, nil
}

// AddAnimation records the frame cycles of base. Adding the same cycles for
// a base twice is a no-op.
func (b *Builder) AddAnimation(base int, frames, alt []int) error {
	if b.finished {
		return ErrFinished
	}
	if base < 0 || base >= len(b.reg.materials) {
		return fmt.Errorf("%w: %d", ErrBadMaterial, base)
	}
	if len(frames) > b.capacity || len(alt) > b.capacity {
		return fmt.Errorf("%w: material %d has %d frames and %d alternates, capacity %d",
			ErrAnimationCapacity, base, len(frames), len(alt), b.capacity)
	}
	for _, id := range slices.Concat(frames, alt) {
		if id < 0 || id >= len(b.reg.materials) {
			return fmt.Errorf("%w: frame %d of material %d", ErrBadMaterial, id, base)
		}
	}

	if i, ok := b.reg.animated[base]; ok {
		prev := b.reg.animations[i]
		if slices.Equal(prev.Frames, frames) && slices.Equal(prev.Alt, alt) {
			return nil
		}
		return fmt.Errorf("%w: %d", ErrDuplicateAnimation, base)
	}

	b.reg.animated[base] = len(b.reg.animations)
	b.reg.animations = append(b.reg.animations, Animation{
		Material: base,
		Frames:   slices.Clone(frames),
		Alt:      slices.Clone(alt),
	})
	return nil
}

// Finish closes the remaining classes and returns the registry.
func (b *Builder) Finish() (*Registry, error) {
	if b.finished {
		return nil, ErrFinished
	}
	b.advance(NumClasses)
	b.finished = true

	logger.Debug("materials built",
		zap.Int("materials", len(b.reg.materials)),
		zap.Int("animations", len(b.reg.animations)),
		zap.Ints("classIndex", b.reg.index[:]),
	)
	return b.reg, nil
}
