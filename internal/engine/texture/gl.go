// Package texture provides GPU texture storage for lightmap pages and image
// conversion for inspecting them.
package texture

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/brushgl/internal/engine/lightmap"
	"github.com/Faultbox/brushgl/internal/logger"
)

// ErrTextureCreate is returned when the driver hands back no texture name.
var ErrTextureCreate = errors.New("texture creation failed")

// GLBackend stores lightmap pages as RGBA8 textures. It requires a current
// OpenGL 4.1 context on the calling goroutine.
type GLBackend struct {
	textures []uint32
}

// NewGLBackend loads the OpenGL entry points and returns a backend with no
// textures. Must be called after the context is created.
func NewGLBackend() (*GLBackend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)
	return &GLBackend{}, nil
}

// Len returns the number of textures created.
func (b *GLBackend) Len() int {
	return len(b.textures)
}

// CreateTexture allocates uninitialised storage for a w x h page.
func (b *GLBackend) CreateTexture(w, h int) (lightmap.TextureHandle, error) {
	var texID uint32
	gl.GenTextures(1, &texID)
	if texID == 0 {
		return 0, ErrTextureCreate
	}
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	b.textures = append(b.textures, texID)
	return lightmap.TextureHandle(texID), nil
}

// UpdateTexture uploads rect of a page whose rows are stride texels wide.
func (b *GLBackend) UpdateTexture(tex lightmap.TextureHandle, rect lightmap.Rect, stride int, pixels []byte) error {
	if rect.Empty() {
		return nil
	}
	start := (rect.Y*stride + rect.X) * lightmap.BytesPerPixel
	end := ((rect.Y+rect.H-1)*stride + rect.X + rect.W) * lightmap.BytesPerPixel
	if start < 0 || end > len(pixels) {
		return fmt.Errorf("%w: %s outside %d-byte page", lightmap.ErrBadRegion, rect, len(pixels))
	}

	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(stride))
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(rect.X), int32(rect.Y), int32(rect.W), int32(rect.H),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[start]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("glTexSubImage2D: error 0x%x", code)
	}
	return nil
}

// Delete releases every texture the backend created.
func (b *GLBackend) Delete() {
	if len(b.textures) > 0 {
		gl.DeleteTextures(int32(len(b.textures)), &b.textures[0])
	}
	b.textures = nil
}
