// Package brush builds the render resources of a brush model: lightmap atlas
// pages, the classified material set, and per-submodel material chains.
package brush

import (
	"errors"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/brushgl/internal/engine/material"
)

// Build and pass errors.
var (
	ErrBuild        = errors.New("brush model build failed")
	ErrBadSurface   = errors.New("malformed surface")
	ErrBadExtents   = errors.New("bad surface extents")
	ErrBadAnimation = errors.New("malformed texture animation")
	ErrBadSubmodel  = errors.New("bad submodel")
	ErrPassActive   = errors.New("render pass already active")
	ErrPassEnded    = errors.New("render pass ended")
)

const (
	// MaxLightStyles is the number of light styles a surface can blend.
	MaxLightStyles = 4
	// StyleNone terminates a surface's style list.
	StyleNone = 255
	// LightmapScale is the number of texels covered by one light sample.
	LightmapScale = 16
)

// Texture is a level texture as the loader describes it.
type Texture struct {
	Name       string
	Width      int
	Height     int
	Fullbright bool // has fullbright palette entries
}

// baseName strips an animation prefix.
func (t *Texture) baseName() string {
	base, _, _, _ := material.ParseAnimName(t.Name)
	return strings.ToLower(base)
}

// Class returns the material class surfaces with this texture are drawn in.
func (t *Texture) Class() material.Class {
	name := t.baseName()
	switch {
	case strings.HasPrefix(name, "sky"):
		return material.ClassSky
	case strings.HasPrefix(name, "*"):
		return material.ClassLiquid
	case strings.HasPrefix(name, "{"):
		if t.Fullbright {
			return material.ClassFenceFullbright
		}
		return material.ClassFence
	case t.Fullbright:
		return material.ClassFullbright
	}
	return material.ClassBase
}

// Lightmapped reports whether surfaces with this texture carry light samples.
func (t *Texture) Lightmapped() bool {
	c := t.Class()
	return c != material.ClassSky && c != material.ClassLiquid
}

// Surface is one polygon of the level as the loader describes it. Renderer
// state for the surface lives in a SurfaceLight record with the same index.
type Surface struct {
	Texture     int
	Vertices    []mgl32.Vec3  // polygon outline; fewer than 3 means nothing to draw
	TexVecs     [2]mgl32.Vec4 // s and t projections: xyz axis, w offset
	LightOffset int           // first sample in the level lighting, -1 for none
	Styles      [MaxLightStyles]uint8
}

// HasPoly reports whether the surface has renderable geometry.
func (s *Surface) HasPoly() bool {
	return len(s.Vertices) >= 3
}

// NumEdges returns the polygon's vertex count.
func (s *Surface) NumEdges() int {
	return len(s.Vertices)
}

// Submodel is a contiguous run of surfaces drawn with its own transform.
// Submodel 0 is the world.
type Submodel struct {
	FirstSurface int
	NumSurfaces  int
}

// Level is the loaded geometry a resource is built from.
type Level struct {
	Name      string
	Textures  []Texture
	Surfaces  []Surface
	Submodels []Submodel
	Lighting  []byte // monochrome light samples
}

// SurfaceLight is the renderer's extension record for one surface.
type SurfaceLight struct {
	Material    int // base material id, -1 when the surface is never drawn
	Block       int // lightmap block, material.NoLightmap when unlit
	S, T        int // sample origin inside the block
	Width       int // samples per row
	Height      int // sample rows
	TextureMins [2]int
	Extents     [2]int
	CachedLight [MaxLightStyles]int
}

// LightStyles holds the current 8.8 fixed-point brightness of every style.
type LightStyles [256]int

// NormalLight is the brightness of an unanimated style.
const NormalLight = 256

// NewLightStyles returns styles all at normal brightness.
func NewLightStyles() *LightStyles {
	var ls LightStyles
	for i := range ls {
		ls[i] = NormalLight
	}
	return &ls
}
