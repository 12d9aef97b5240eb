package brush

import (
	"iter"

	"github.com/google/uuid"

	"github.com/Faultbox/brushgl/internal/config"
	"github.com/Faultbox/brushgl/internal/engine/chain"
	"github.com/Faultbox/brushgl/internal/engine/lightmap"
	"github.com/Faultbox/brushgl/internal/engine/material"
	"github.com/Faultbox/brushgl/pkg/formats"
)

// Options controls how a resource is built.
type Options struct {
	Lightmap          lightmap.Config
	MaxVerts          int // vertex budget per chain segment
	AnimationCapacity int
	Overbright        bool
}

// DefaultOptions returns the classic engine limits.
func DefaultOptions() Options {
	return Options{
		Lightmap:          lightmap.DefaultConfig(),
		MaxVerts:          chain.DefaultMaxVerts,
		AnimationCapacity: material.DefaultAnimationCapacity,
		Overbright:        true,
	}
}

// OptionsFromConfig maps the user configuration onto build options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Lightmap: lightmap.Config{
			BlockWidth:  cfg.Lightmap.BlockWidth,
			BlockHeight: cfg.Lightmap.BlockHeight,
			MaxBlocks:   cfg.Lightmap.MaxBlocks,
		},
		MaxVerts:          cfg.Batch.MaxVerts,
		AnimationCapacity: cfg.Materials.AnimationCapacity,
		Overbright:        cfg.Lightmap.Overbright,
	}
}

// submodelState is the per-submodel render state.
type submodelState struct {
	chains       *chain.Set
	drawSky      bool
	turbTextures []int
	active       bool // a pass is open
}

// Resource is everything the renderer needs to draw one brush model. It is
// built once at load time and released with the model.
type Resource struct {
	ID uuid.UUID

	level      *Level
	lit        *formats.LIT
	overbright bool

	atlas     *lightmap.Atlas
	materials *material.Registry
	lights    []SurfaceLight
	owner     []int // surface -> submodel, -1 if none
	submodels []submodelState

	maxSkyPolyVerts int
	scratch         *lightScratch
}

// Name returns the level name.
func (r *Resource) Name() string {
	return r.level.Name
}

// Atlas returns the lightmap pages.
func (r *Resource) Atlas() *lightmap.Atlas {
	return r.atlas
}

// Materials returns the material registry.
func (r *Resource) Materials() *material.Registry {
	return r.materials
}

// MaterialIndex returns the first material id of every class.
func (r *Resource) MaterialIndex() [material.NumClasses + 1]int {
	return r.materials.Index()
}

// SurfaceCount returns the number of surfaces in the level.
func (r *Resource) SurfaceCount() int {
	return len(r.lights)
}

// SurfaceLight returns the render record of surface i.
func (r *Resource) SurfaceLight(i int) SurfaceLight {
	return r.lights[i]
}

// NumSubmodels returns the number of submodels with their own chains.
func (r *Resource) NumSubmodels() int {
	return len(r.submodels)
}

// Chains returns the chain set of submodel sub.
func (r *Resource) Chains(sub int) *chain.Set {
	return r.submodels[sub].chains
}

// SubmodelSurfaces yields the surfaces drawn by submodel sub, in order.
func (r *Resource) SubmodelSurfaces(sub int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if sub < 0 || sub >= len(r.submodels) {
			return
		}
		m := r.submodelList()[sub]
		for i := m.FirstSurface; i < m.FirstSurface+m.NumSurfaces; i++ {
			if r.owner[i] == sub && !yield(i) {
				return
			}
		}
	}
}

// DrawSky reports whether submodel sub has sky surfaces.
func (r *Resource) DrawSky(sub int) bool {
	return r.submodels[sub].drawSky
}

// TurbTextures returns the liquid textures used by submodel sub.
func (r *Resource) TurbTextures(sub int) []int {
	return r.submodels[sub].turbTextures
}

// MaxSubmodelSkyPolyVerts returns the largest sky polygon on any submodel
// other than the world, for sizing the sky vertex buffer.
func (r *Resource) MaxSubmodelSkyPolyVerts() int {
	return r.maxSkyPolyVerts
}

// CreateTextures allocates a GPU texture for every lightmap block.
func (r *Resource) CreateTextures(backend lightmap.TextureBackend) error {
	return r.atlas.CreateTextures(backend)
}

// Upload pushes every modified lightmap block to its texture.
func (r *Resource) Upload(backend lightmap.TextureBackend) (int, error) {
	return r.atlas.Upload(backend)
}
