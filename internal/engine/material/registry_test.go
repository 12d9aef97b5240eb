package material

import (
	"errors"
	"math"
	"testing"
)

func TestBuilder_ClassIndex(t *testing.T) {
	b := NewBuilder(0)

	adds := []struct {
		class Class
		mat   Material
		want  int
	}{
		{ClassSky, Material{Texture: 0, LightmapBlock: NoLightmap}, 0},
		{ClassBase, Material{Texture: 1, LightmapBlock: 0}, 1},
		{ClassBase, Material{Texture: 1, LightmapBlock: 1}, 2},
		{ClassBase, Material{Texture: 1, LightmapBlock: 0}, 1}, // dedup
		{ClassFence, Material{Texture: 2, LightmapBlock: 0}, 3},
		{ClassLiquid, Material{Texture: 3, LightmapBlock: NoLightmap}, 4},
		{ClassLiquid, Material{Texture: 3, LightmapBlock: NoLightmap}, 4},
	}
	for i, a := range adds {
		id, err := b.Add(a.class, a.mat)
		if err != nil {
			t.Fatalf("add %d failed: %v", i, err)
		}
		if id != a.want {
			t.Errorf("add %d: expected id %d, got %d", i, a.want, id)
		}
	}

	reg, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	want := [NumClasses + 1]int{0, 1, 3, 3, 4, 4, 5}
	if reg.Index() != want {
		t.Errorf("expected index %v, got %v", want, reg.Index())
	}
	if reg.Len() != 5 {
		t.Errorf("expected 5 materials, got %d", reg.Len())
	}

	first, end := reg.Class(ClassBase)
	if first != 1 || end != 3 {
		t.Errorf("expected base range [1,3), got [%d,%d)", first, end)
	}
	first, end = reg.Class(ClassFullbright)
	if first != end {
		t.Errorf("expected empty fullbright class, got [%d,%d)", first, end)
	}
	if reg.ClassOf(3) != ClassFence {
		t.Errorf("expected material 3 in fence class, got %s", reg.ClassOf(3))
	}
}

func TestBuilder_IndexInvariant(t *testing.T) {
	b := NewBuilder(0)
	// Skip classes entirely and revisit texture pairings across classes.
	for tex := range 4 {
		b.Add(ClassBase, Material{Texture: tex, LightmapBlock: tex % 2})
	}
	for tex := range 4 {
		b.Add(ClassFenceFullbright, Material{Texture: tex, LightmapBlock: tex % 2})
	}

	reg, _ := b.Finish()
	index := reg.Index()
	for i := 1; i < len(index); i++ {
		if index[i] < index[i-1] {
			t.Fatalf("index not non-decreasing: %v", index)
		}
	}
	if index[NumClasses] != reg.Len() {
		t.Errorf("final index %d != material count %d", index[NumClasses], reg.Len())
	}
	// Same pairing in another class is a separate material.
	if reg.Len() != 8 {
		t.Errorf("expected 8 materials, got %d", reg.Len())
	}
}

func TestBuilder_ClassOrder(t *testing.T) {
	b := NewBuilder(0)
	if _, err := b.Add(ClassFence, Material{Texture: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.Add(ClassBase, Material{Texture: 2}); !errors.Is(err, ErrClassOrder) {
		t.Errorf("expected ErrClassOrder, got %v", err)
	}
	if _, err := b.Add(NumClasses, Material{}); !errors.Is(err, ErrClassOrder) {
		t.Errorf("expected ErrClassOrder for invalid class, got %v", err)
	}
}

func TestBuilder_Finished(t *testing.T) {
	b := NewBuilder(0)
	b.Finish()
	if _, err := b.Add(ClassBase, Material{}); !errors.Is(err, ErrFinished) {
		t.Errorf("expected ErrFinished, got %v", err)
	}
	if _, err := b.Finish(); !errors.Is(err, ErrFinished) {
		t.Errorf("expected ErrFinished, got %v", err)
	}
}

func buildAnimated(t *testing.T, frames, alt int) (*Registry, int) {
	t.Helper()
	b := NewBuilder(0)
	var frameIDs, altIDs []int
	for i := range frames {
		id, _ := b.Add(ClassBase, Material{Texture: 10 + i, LightmapBlock: 0})
		frameIDs = append(frameIDs, id)
	}
	for i := range alt {
		id, _ := b.Add(ClassBase, Material{Texture: 20 + i, LightmapBlock: 0})
		altIDs = append(altIDs, id)
	}
	base := frameIDs[0]
	if err := b.AddAnimation(base, frameIDs, altIDs); err != nil {
		t.Fatalf("AddAnimation failed: %v", err)
	}
	reg, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	return reg, base
}

func TestResolve(t *testing.T) {
	b := NewBuilder(0)
	for tex := 10; tex <= 12; tex++ {
		b.Add(ClassBase, Material{Texture: tex})
	}
	// Material ids 10, 11, 12 as frames of a base with id 10.
	for i := 3; i < 13; i++ {
		b.Add(ClassBase, Material{Texture: 100 + i})
	}
	if err := b.AddAnimation(10, []int{10, 11, 12}, nil); err != nil {
		t.Fatalf("AddAnimation failed: %v", err)
	}
	reg, _ := b.Finish()

	if got := reg.Resolve(10, 7, false); got != 11 {
		t.Errorf("frame 7 of [10 11 12]: expected 11, got %d", got)
	}
	if got := reg.Resolve(10, 7, true); got != 11 {
		t.Errorf("alternate without alt cycle should use frames, got %d", got)
	}
	if got := reg.Resolve(3, 7, false); got != 3 {
		t.Errorf("non-animated material should resolve to itself, got %d", got)
	}
}

func TestResolve_NegativeFrames(t *testing.T) {
	reg, base := buildAnimated(t, 3, 2)

	tests := []struct {
		frame     int
		alternate bool
		want      int
	}{
		{-1, false, 2},
		{-3, false, 0},
		{-4, false, 2},
		{math.MinInt, false, 1},
		{-1, true, 4},
		{math.MinInt, true, 3},
		{math.MaxInt, false, 1},
	}
	for _, tt := range tests {
		if got := reg.Resolve(base, tt.frame, tt.alternate); got != tt.want {
			t.Errorf("Resolve(frame=%d, alt=%v) = %d, want %d", tt.frame, tt.alternate, got, tt.want)
		}
	}
}

func TestResolve_Alternate(t *testing.T) {
	reg, base := buildAnimated(t, 4, 2)

	tests := []struct {
		frame     int
		alternate bool
		want      int
	}{
		{0, false, 0},
		{5, false, 1},
		{3, false, 3},
		{0, true, 4},
		{3, true, 5},
	}
	for _, tt := range tests {
		if got := reg.Resolve(base, tt.frame, tt.alternate); got != tt.want {
			t.Errorf("Resolve(frame=%d, alt=%v) = %d, want %d", tt.frame, tt.alternate, got, tt.want)
		}
	}
	if !reg.Animated(base) || reg.Animated(4) {
		t.Error("only the base material should be animated")
	}
}

func TestAddAnimation_Capacity(t *testing.T) {
	b := NewBuilder(2)
	for tex := range 3 {
		b.Add(ClassBase, Material{Texture: tex})
	}

	if err := b.AddAnimation(0, []int{0, 1, 2}, nil); !errors.Is(err, ErrAnimationCapacity) {
		t.Errorf("expected ErrAnimationCapacity for frames, got %v", err)
	}
	if err := b.AddAnimation(0, []int{0}, []int{0, 1, 2}); !errors.Is(err, ErrAnimationCapacity) {
		t.Errorf("expected ErrAnimationCapacity for alternates, got %v", err)
	}
	if err := b.AddAnimation(0, []int{0, 1}, []int{2}); err != nil {
		t.Errorf("animation at capacity should succeed: %v", err)
	}
}

func TestAddAnimation_DefaultCapacity(t *testing.T) {
	b := NewBuilder(0)
	if b.Capacity() != DefaultAnimationCapacity {
		t.Fatalf("expected capacity %d, got %d", DefaultAnimationCapacity, b.Capacity())
	}
	var frames []int
	for tex := range 11 {
		id, _ := b.Add(ClassBase, Material{Texture: tex})
		frames = append(frames, id)
	}
	if err := b.AddAnimation(0, frames, nil); !errors.Is(err, ErrAnimationCapacity) {
		t.Errorf("expected 11 frames to exceed capacity, got %v", err)
	}
	if err := b.AddAnimation(0, frames[:10], nil); err != nil {
		t.Errorf("10 frames should fit: %v", err)
	}
}

func TestAddAnimation_Validation(t *testing.T) {
	b := NewBuilder(0)
	b.Add(ClassBase, Material{Texture: 0})
	b.Add(ClassBase, Material{Texture: 1})

	if err := b.AddAnimation(5, nil, nil); !errors.Is(err, ErrBadMaterial) {
		t.Errorf("expected ErrBadMaterial for base, got %v", err)
	}
	if err := b.AddAnimation(0, []int{0, 9}, nil); !errors.Is(err, ErrBadMaterial) {
		t.Errorf("expected ErrBadMaterial for frame, got %v", err)
	}
	if err := b.AddAnimation(0, []int{0, 1}, nil); err != nil {
		t.Fatalf("AddAnimation failed: %v", err)
	}
	if err := b.AddAnimation(0, []int{0, 1}, nil); err != nil {
		t.Errorf("repeating an identical animation should succeed: %v", err)
	}
	if err := b.AddAnimation(0, []int{1, 0}, nil); !errors.Is(err, ErrDuplicateAnimation) {
		t.Errorf("expected ErrDuplicateAnimation, got %v", err)
	}
}
