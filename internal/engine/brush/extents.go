package brush

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// texCoord projects v onto one texture axis.
func texCoord(v mgl32.Vec3, axis mgl32.Vec4) float32 {
	return v.Dot(axis.Vec3()) + axis.W()
}

// calcExtents computes a surface's texture-space bounds snapped to the light
// sample grid.
func calcExtents(s *Surface) (mins, extents [2]int) {
	lo := [2]float32{math32.MaxFloat32, math32.MaxFloat32}
	hi := [2]float32{-math32.MaxFloat32, -math32.MaxFloat32}

	for _, v := range s.Vertices {
		for j := range 2 {
			val := texCoord(v, s.TexVecs[j])
			lo[j] = math32.Min(lo[j], val)
			hi[j] = math32.Max(hi[j], val)
		}
	}

	for j := range 2 {
		bmin := int(math32.Floor(lo[j] / LightmapScale))
		bmax := int(math32.Ceil(hi[j] / LightmapScale))
		mins[j] = bmin * LightmapScale
		extents[j] = (bmax - bmin) * LightmapScale
	}
	return mins, extents
}

// lightmapSize returns the sample grid of a surface with the given extents.
func lightmapSize(extents [2]int) (w, h int) {
	return extents[0]/LightmapScale + 1, extents[1]/LightmapScale + 1
}

// checkExtents rejects surfaces whose light samples cannot fit one block.
func checkExtents(i int, extents [2]int, blockW, blockH int) error {
	w, h := lightmapSize(extents)
	if extents[0] < 0 || extents[1] < 0 || w > blockW || h > blockH {
		return fmt.Errorf("%w: surface %d spans %dx%d samples, block is %dx%d",
			ErrBadExtents, i, w, h, blockW, blockH)
	}
	return nil
}

// LightmapUV returns the lightmap atlas coordinates of vertex v of surface i.
// Coordinates address sample centers.
func (r *Resource) LightmapUV(i, v int) [2]float32 {
	s := &r.level.Surfaces[i]
	sl := &r.lights[i]
	if sl.Block < 0 {
		return [2]float32{}
	}
	vert := s.Vertices[v]

	var texel [2]float32
	origin := [2]int{sl.S, sl.T}
	for j := range 2 {
		c := texCoord(vert, s.TexVecs[j]) - float32(sl.TextureMins[j])
		texel[j] = c/LightmapScale + float32(origin[j]) + 0.5
	}
	return r.atlas.UV(texel[0], texel[1])
}
