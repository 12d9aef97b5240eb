package texture

import (
	"image"

	"github.com/Faultbox/brushgl/internal/engine/lightmap"
)

// BlockImage copies a lightmap page into an RGBA image. With opaque set the
// alpha channel is forced to 255 so unused texels show as black.
func BlockImage(b *lightmap.Block, opaque bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pixels)
	if opaque {
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 255
		}
	}
	return img
}

// Crop returns the part of img covered by r.
func Crop(img *image.RGBA, r lightmap.Rect) *image.RGBA {
	return img.SubImage(image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)).(*image.RGBA)
}
