package lightmap

import (
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/Faultbox/brushgl/internal/logger"
)

// Atlas owns the lightmap pages of one brush model resource.
// It is not safe for concurrent use.
type Atlas struct {
	cfg    Config
	blocks []*Block
}

// NewAtlas creates an empty atlas. Pages are added on demand by Allocate.
func NewAtlas(cfg Config) (*Atlas, error) {
	if cfg.BlockWidth <= 0 || cfg.BlockHeight <= 0 || cfg.MaxBlocks <= 0 {
		return nil, fmt.Errorf("%w: %dx%d, max %d", ErrBadBlockSize, cfg.BlockWidth, cfg.BlockHeight, cfg.MaxBlocks)
	}
	return &Atlas{cfg: cfg}, nil
}

// Config returns the page configuration.
func (a *Atlas) Config() Config {
	return a.cfg
}

// NumBlocks returns the number of pages in use.
func (a *Atlas) NumBlocks() int {
	return len(a.blocks)
}

// Block returns page i, or nil if out of range.
func (a *Atlas) Block(i int) *Block {
	if i < 0 || i >= len(a.blocks) {
		return nil
	}
	return a.blocks[i]
}

// Allocate reserves a width x height region. Existing pages are tried first,
// in order; a new page is opened only when none of them fits.
func (a *Atlas) Allocate(width, height int) (block, x, y int, err error) {
	if width <= 0 || height <= 0 {
		return 0, 0, 0, fmt.Errorf("%w: %dx%d", ErrBadRegion, width, height)
	}
	if width > a.cfg.BlockWidth || height > a.cfg.BlockHeight {
		return 0, 0, 0, fmt.Errorf("%w: %dx%d exceeds %dx%d page", ErrAtlasFull,
			width, height, a.cfg.BlockWidth, a.cfg.BlockHeight)
	}

	for i, b := range a.blocks {
		if x, y, ok := b.alloc(width, height); ok {
			return i, x, y, nil
		}
	}

	if len(a.blocks) >= a.cfg.MaxBlocks {
		return 0, 0, 0, fmt.Errorf("%w: %d pages in use, %dx%d requested", ErrAtlasFull,
			len(a.blocks), width, height)
	}

	b := newBlock(a.cfg.BlockWidth, a.cfg.BlockHeight)
	a.blocks = append(a.blocks, b)
	logger.Debug("lightmap block opened",
		zap.Int("block", len(a.blocks)-1),
		zap.Int("width", b.Width),
		zap.Int("height", b.Height),
	)

	x, y, _ = b.alloc(width, height)
	return len(a.blocks) - 1, x, y, nil
}

// MarkDirty adds rect to the block's pending upload region.
func (a *Atlas) MarkDirty(block int, rect Rect) error {
	b := a.Block(block)
	if b == nil {
		return fmt.Errorf("%w: %d", ErrBadBlock, block)
	}
	if !b.Contains(rect) {
		return fmt.Errorf("%w: %s", ErrBadRegion, rect)
	}
	b.dirty = b.dirty.Union(rect)
	b.modified = true
	return nil
}

// Write copies RGBA texels into rect and marks it dirty.
// rgba holds rect.W*rect.H texels in row order.
func (a *Atlas) Write(block int, rect Rect, rgba []byte) error {
	b := a.Block(block)
	if b == nil {
		return fmt.Errorf("%w: %d", ErrBadBlock, block)
	}
	if !b.Contains(rect) {
		return fmt.Errorf("%w: %s", ErrBadRegion, rect)
	}
	rowBytes := rect.W * BytesPerPixel
	if len(rgba) < rowBytes*rect.H {
		return fmt.Errorf("%w: %d bytes for %s", ErrBadRegion, len(rgba), rect)
	}

	for row := range rect.H {
		dst := ((rect.Y+row)*b.Width + rect.X) * BytesPerPixel
		copy(b.Pixels[dst:dst+rowBytes], rgba[row*rowBytes:(row+1)*rowBytes])
	}
	return a.MarkDirty(block, rect)
}

// Flush hands the page's pixels and dirty region to the upload consumer and
// clears the modified state. The returned buffer is the page's own storage.
func (a *Atlas) Flush(block int) ([]byte, Rect, error) {
	b := a.Block(block)
	if b == nil {
		return nil, Rect{}, fmt.Errorf("%w: %d", ErrBadBlock, block)
	}
	dirty := b.dirty
	b.dirty = Rect{}
	b.modified = false
	return b.Pixels, dirty, nil
}

// Modified yields the indices of pages with pending changes.
func (a *Atlas) Modified() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, b := range a.blocks {
			if b.modified && !yield(i) {
				return
			}
		}
	}
}

// Used returns the total allocated area across all pages.
func (a *Atlas) Used() int {
	total := 0
	for _, b := range a.blocks {
		total += b.used
	}
	return total
}

// UV converts a texel-space position to normalized page coordinates.
func (a *Atlas) UV(s, t float32) [2]float32 {
	return [2]float32{s / float32(a.cfg.BlockWidth), t / float32(a.cfg.BlockHeight)}
}
