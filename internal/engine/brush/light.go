package brush

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/brushgl/internal/engine/lightmap"
	"github.com/Faultbox/brushgl/internal/logger"
)

// lightScratch holds the per-build accumulation buffers, sized for one block.
type lightScratch struct {
	blocklights []int
	rgba        []byte
}

func newLightScratch(cfg lightmap.Config) *lightScratch {
	n := cfg.BlockWidth * cfg.BlockHeight
	return &lightScratch{
		blocklights: make([]int, n*3),
		rgba:        make([]byte, n*lightmap.BytesPerPixel),
	}
}

// hasLightData reports whether the level carries any light samples at all.
// Levels without them are drawn fully lit.
func (r *Resource) hasLightData() bool {
	return len(r.level.Lighting) > 0 || r.lit != nil
}

// accumulate adds n samples starting at offset, scaled by an 8.8 factor.
func (r *Resource) accumulate(dst []int, offset, n, scale int) error {
	if r.lit != nil {
		rgb, err := r.lit.SurfaceSamples(offset, n)
		if err != nil {
			return err
		}
		for i, c := range rgb {
			dst[i] += int(c) * scale
		}
		return nil
	}

	if offset < 0 || offset+n > len(r.level.Lighting) {
		return fmt.Errorf("%w: light samples %d..%d of %d", ErrBadSurface, offset, offset+n, len(r.level.Lighting))
	}
	for i, c := range r.level.Lighting[offset : offset+n] {
		v := int(c) * scale
		dst[i*3] += v
		dst[i*3+1] += v
		dst[i*3+2] += v
	}
	return nil
}

// buildSurfaceLight blends surface i's styles into its atlas region.
func (r *Resource) buildSurfaceLight(i int, styles *LightStyles) error {
	s := &r.level.Surfaces[i]
	sl := &r.lights[i]
	size := sl.Width * sl.Height

	bl := r.scratch.blocklights[:size*3]
	clear(bl)

	switch {
	case !r.hasLightData():
		for j := range bl {
			bl[j] = 255 * NormalLight
		}
	case s.LightOffset >= 0:
		for m, style := range s.Styles {
			if style == StyleNone {
				break
			}
			scale := styles[style]
			sl.CachedLight[m] = scale
			if err := r.accumulate(bl, s.LightOffset+m*size, size, scale); err != nil {
				return fmt.Errorf("surface %d style %d: %w", i, m, err)
			}
		}
	}

	// Overbright keeps one bit of headroom; the shader doubles it back.
	shift := 7
	if r.overbright {
		shift = 8
	}

	out := r.scratch.rgba[:size*lightmap.BytesPerPixel]
	for j := range size {
		out[j*4] = clampLight(bl[j*3] >> shift)
		out[j*4+1] = clampLight(bl[j*3+1] >> shift)
		out[j*4+2] = clampLight(bl[j*3+2] >> shift)
		out[j*4+3] = 255
	}

	rect := lightmap.Rect{X: sl.S, Y: sl.T, W: sl.Width, H: sl.Height}
	return r.atlas.Write(sl.Block, rect, out)
}

func clampLight(v int) byte {
	if v > 255 {
		return 255
	}
	return byte(v)
}

// stale reports whether surface i was built with different style values.
func (r *Resource) stale(i int, styles *LightStyles) bool {
	s := &r.level.Surfaces[i]
	for m, style := range s.Styles {
		if style == StyleNone {
			break
		}
		if r.lights[i].CachedLight[m] != styles[style] {
			return true
		}
	}
	return false
}

// Relight rebuilds every lightmapped surface whose styles changed since it
// was last built and marks the touched regions for upload. It must not run
// while Upload is in progress. Returns the number of surfaces rebuilt.
func (r *Resource) Relight(styles *LightStyles) (int, error) {
	if !r.hasLightData() {
		return 0, nil
	}

	rebuilt := 0
	for i := range r.lights {
		sl := &r.lights[i]
		if sl.Block < 0 || r.level.Surfaces[i].LightOffset < 0 || !r.stale(i, styles) {
			continue
		}
		if err := r.buildSurfaceLight(i, styles); err != nil {
			return rebuilt, err
		}
		rebuilt++
	}

	if rebuilt > 0 {
		logger.Debug("surfaces relit",
			zap.Stringer("resource", r.ID),
			zap.Int("surfaces", rebuilt),
		)
	}
	return rebuilt, nil
}
