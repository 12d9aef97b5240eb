package lightmap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/brushgl/internal/logger"
)

// CreateTextures gives every page without a texture a GPU texture and marks
// the whole page dirty so the next Upload sends it in full.
func (a *Atlas) CreateTextures(backend TextureBackend) error {
	for i, b := range a.blocks {
		if b.Texture != 0 {
			continue
		}
		tex, err := backend.CreateTexture(b.Width, b.Height)
		if err != nil {
			return fmt.Errorf("creating texture for lightmap block %d: %w", i, err)
		}
		b.Texture = tex
		if err := a.MarkDirty(i, Rect{W: b.Width, H: b.Height}); err != nil {
			return err
		}
	}
	return nil
}

// Upload sends the dirty region of every modified page and flushes it.
// A page stays modified if its upload fails.
func (a *Atlas) Upload(backend TextureBackend) (int, error) {
	uploaded := 0
	for i := range a.Modified() {
		b := a.blocks[i]
		if b.Texture == 0 {
			return uploaded, fmt.Errorf("%w: block %d", ErrNoTexture, i)
		}
		if err := backend.UpdateTexture(b.Texture, b.dirty, b.Width, b.Pixels); err != nil {
			return uploaded, fmt.Errorf("uploading lightmap block %d: %w", i, err)
		}
		logger.Debug("lightmap block uploaded",
			zap.Int("block", i),
			zap.Stringer("rect", b.dirty),
		)
		if _, _, err := a.Flush(i); err != nil {
			return uploaded, err
		}
		uploaded++
	}
	return uploaded, nil
}
