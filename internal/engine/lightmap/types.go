// Package lightmap packs per-surface light samples into fixed-size atlas pages
// and tracks which parts of each page need to be re-uploaded.
package lightmap

import (
	"errors"
	"fmt"
)

// BytesPerPixel is the size of one RGBA lightmap texel.
const BytesPerPixel = 4

// Atlas errors.
var (
	ErrAtlasFull    = errors.New("lightmap atlas full")
	ErrBadBlock     = errors.New("lightmap block index out of range")
	ErrBadRegion    = errors.New("lightmap region outside block")
	ErrNoTexture    = errors.New("lightmap block has no texture")
	ErrBadBlockSize = errors.New("invalid lightmap block size")
)

// Config sizes the atlas pages.
type Config struct {
	BlockWidth  int
	BlockHeight int
	MaxBlocks   int
}

// DefaultConfig matches the classic 256x256 lightmap page.
func DefaultConfig() Config {
	return Config{BlockWidth: 256, BlockHeight: 256, MaxBlocks: 64}
}

// Rect is an axis-aligned pixel rectangle inside a block.
type Rect struct {
	X, Y int
	W, H int
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Overlaps reports whether r and o share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Area returns the number of pixels covered.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

// String returns the rectangle as "WxH+X+Y".
func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.W, r.H, r.X, r.Y)
}

// TextureHandle is an opaque GPU texture name. Zero means none.
type TextureHandle uint32

// TextureBackend creates and updates the GPU textures backing atlas pages.
type TextureBackend interface {
	// CreateTexture allocates an RGBA texture of the given size.
	CreateTexture(width, height int) (TextureHandle, error)
	// UpdateTexture uploads rect from pixels, a buffer whose rows are stride pixels wide.
	UpdateTexture(tex TextureHandle, rect Rect, stride int, pixels []byte) error
}
