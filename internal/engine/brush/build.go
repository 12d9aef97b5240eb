package brush

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/brushgl/internal/engine/chain"
	"github.com/Faultbox/brushgl/internal/engine/lightmap"
	"github.com/Faultbox/brushgl/internal/engine/material"
	"github.com/Faultbox/brushgl/internal/logger"
	"github.com/Faultbox/brushgl/pkg/formats"
)

// animGroup lists the textures of one animation, indexed by frame number.
type animGroup struct {
	frames []int
	alt    []int
}

// Build creates the render resources of level. lit may be nil. Any error
// aborts the build; no partially built resource is returned.
func Build(level *Level, lit *formats.LIT, opts Options) (*Resource, error) {
	r, err := build(level, lit, opts)
	if err != nil {
		logger.Error("brush model build failed", zap.String("model", level.Name), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrBuild, level.Name, err)
	}

	logger.Info("brush model built",
		zap.String("model", level.Name),
		zap.Stringer("resource", r.ID),
		zap.Int("surfaces", len(level.Surfaces)),
		zap.Int("submodels", len(r.submodels)),
		zap.Int("materials", r.materials.Len()),
		zap.Int("animations", len(r.materials.Animations())),
		zap.Int("lightmapBlocks", r.atlas.NumBlocks()),
	)
	return r, nil
}

func build(level *Level, lit *formats.LIT, opts Options) (*Resource, error) {
	atlas, err := lightmap.NewAtlas(opts.Lightmap)
	if err != nil {
		return nil, err
	}

	r := &Resource{
		ID:         uuid.New(),
		level:      level,
		lit:        lit,
		overbright: opts.Overbright,
		atlas:      atlas,
		lights:     make([]SurfaceLight, len(level.Surfaces)),
		scratch:    newLightScratch(opts.Lightmap),
	}

	if err := r.validate(); err != nil {
		return nil, err
	}
	if err := r.assignOwners(); err != nil {
		return nil, err
	}

	order := r.surfaceOrder()
	if err := r.allocateLightmaps(order); err != nil {
		return nil, err
	}
	if err := r.buildMaterials(order, opts.AnimationCapacity); err != nil {
		return nil, err
	}
	r.buildSubmodels(opts.MaxVerts)

	return r, nil
}

func (r *Resource) validate() error {
	for i := range r.level.Surfaces {
		s := &r.level.Surfaces[i]
		if s.Texture < 0 || s.Texture >= len(r.level.Textures) {
			return fmt.Errorf("%w: surface %d references texture %d of %d",
				ErrBadSurface, i, s.Texture, len(r.level.Textures))
		}
	}
	return nil
}

// submodelList returns the level's submodels; a level without any is one
// world submodel holding every surface.
func (r *Resource) submodelList() []Submodel {
	if len(r.level.Submodels) == 0 {
		return []Submodel{{FirstSurface: 0, NumSurfaces: len(r.level.Surfaces)}}
	}
	return r.level.Submodels
}

func (r *Resource) assignOwners() error {
	r.owner = make([]int, len(r.level.Surfaces))
	for i := range r.owner {
		r.owner[i] = -1
	}
	for sub, m := range r.submodelList() {
		if m.FirstSurface < 0 || m.NumSurfaces < 0 || m.FirstSurface+m.NumSurfaces > len(r.level.Surfaces) {
			return fmt.Errorf("%w: submodel %d covers surfaces %d..%d of %d",
				ErrBadSubmodel, sub, m.FirstSurface, m.FirstSurface+m.NumSurfaces, len(r.level.Surfaces))
		}
		for i := m.FirstSurface; i < m.FirstSurface+m.NumSurfaces; i++ {
			// A later submodel takes over surfaces an earlier one also lists.
			r.owner[i] = sub
		}
	}
	return nil
}

// surfaceOrder sorts drawable surfaces by texture so surfaces sharing a
// texture land in the same lightmap blocks and share materials.
func (r *Resource) surfaceOrder() []int {
	order := make([]int, 0, len(r.level.Surfaces))
	for i := range r.level.Surfaces {
		if r.level.Surfaces[i].HasPoly() {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(r.level.Surfaces[a].Texture, r.level.Surfaces[b].Texture)
	})
	return order
}

func (r *Resource) allocateLightmaps(order []int) error {
	for i := range r.lights {
		r.lights[i] = SurfaceLight{Material: -1, Block: material.NoLightmap}
	}

	styles := NewLightStyles()
	cfg := r.atlas.Config()
	for _, i := range order {
		s := &r.level.Surfaces[i]
		if !r.level.Textures[s.Texture].Lightmapped() {
			continue
		}

		mins, extents := calcExtents(s)
		if err := checkExtents(i, extents, cfg.BlockWidth, cfg.BlockHeight); err != nil {
			return err
		}
		w, h := lightmapSize(extents)

		block, x, y, err := r.atlas.Allocate(w, h)
		if err != nil {
			return fmt.Errorf("surface %d: %w", i, err)
		}

		r.lights[i] = SurfaceLight{
			Material:    -1,
			Block:       block,
			S:           x,
			T:           y,
			Width:       w,
			Height:      h,
			TextureMins: mins,
			Extents:     extents,
		}
		if err := r.buildSurfaceLight(i, styles); err != nil {
			return err
		}
	}
	return nil
}

// animGroups collects animated textures by base name.
func (r *Resource) animGroups() (map[int]*animGroup, error) {
	byName := make(map[string]*animGroup)
	byTexture := make(map[int]*animGroup)

	for i := range r.level.Textures {
		base, frame, alt, ok := material.ParseAnimName(r.level.Textures[i].Name)
		if !ok {
			continue
		}
		g := byName[base]
		if g == nil {
			g = &animGroup{}
			byName[base] = g
		}
		cycle := &g.frames
		if alt {
			cycle = &g.alt
		}
		for len(*cycle) <= frame {
			*cycle = append(*cycle, -1)
		}
		if (*cycle)[frame] != -1 {
			return nil, fmt.Errorf("%w: %q frame %d defined twice", ErrBadAnimation, base, frame)
		}
		(*cycle)[frame] = i
		byTexture[i] = g
	}

	for base, g := range byName {
		for _, cycle := range [][]int{g.frames, g.alt} {
			for f, tex := range cycle {
				if tex == -1 {
					return nil, fmt.Errorf("%w: %q missing frame %d", ErrBadAnimation, base, f)
				}
			}
		}
	}
	return byTexture, nil
}

func (r *Resource) buildMaterials(order []int, capacity int) error {
	groups, err := r.animGroups()
	if err != nil {
		return err
	}

	byClass := make([][]int, material.NumClasses)
	for _, i := range order {
		c := r.level.Textures[r.level.Surfaces[i].Texture].Class()
		byClass[c] = append(byClass[c], i)
	}

	b := material.NewBuilder(capacity)
	for c := material.ClassSky; c < material.NumClasses; c++ {
		for _, i := range byClass[c] {
			sl := &r.lights[i]
			tex := r.level.Surfaces[i].Texture

			id, err := b.Add(c, material.Material{Texture: tex, LightmapBlock: sl.Block})
			if err != nil {
				return err
			}
			sl.Material = id

			g := groups[tex]
			if g == nil {
				continue
			}
			frames, err := addCycle(b, c, g.frames, sl.Block)
			if err != nil {
				return err
			}
			alt, err := addCycle(b, c, g.alt, sl.Block)
			if err != nil {
				return err
			}
			if err := b.AddAnimation(id, frames, alt); err != nil {
				return fmt.Errorf("texture %q: %w", r.level.Textures[tex].Name, err)
			}
		}
	}

	reg, err := b.Finish()
	if err != nil {
		return err
	}
	r.materials = reg
	return nil
}

// addCycle registers the material of every frame texture on the given block.
func addCycle(b *material.Builder, c material.Class, textures []int, block int) ([]int, error) {
	if len(textures) > b.Capacity() {
		return nil, fmt.Errorf("%w: %d frames, capacity %d", material.ErrAnimationCapacity, len(textures), b.Capacity())
	}
	ids := make([]int, 0, len(textures))
	for _, tex := range textures {
		id, err := b.Add(c, material.Material{Texture: tex, LightmapBlock: block})
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *Resource) buildSubmodels(maxVerts int) {
	subs := r.submodelList()
	r.submodels = make([]submodelState, len(subs))

	for sub := range subs {
		st := &r.submodels[sub]
		st.chains = chain.NewSet(r.materials.Len(), maxVerts)
		st.chains.Discard()
	}

	for i := range r.level.Surfaces {
		sub := r.owner[i]
		s := &r.level.Surfaces[i]
		if sub < 0 || !s.HasPoly() {
			continue
		}
		st := &r.submodels[sub]
		switch r.level.Textures[s.Texture].Class() {
		case material.ClassSky:
			st.drawSky = true
			if sub > 0 {
				r.maxSkyPolyVerts = max(r.maxSkyPolyVerts, s.NumEdges())
			}
		case material.ClassLiquid:
			if !slices.Contains(st.turbTextures, s.Texture) {
				st.turbTextures = append(st.turbTextures, s.Texture)
			}
		}
	}
	for sub := range r.submodels {
		slices.Sort(r.submodels[sub].turbTextures)
	}
}
