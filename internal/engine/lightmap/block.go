package lightmap

// Block is one atlas page. Surfaces reference it by index.
type Block struct {
	Width   int
	Height  int
	Pixels  []byte // RGBA, Width*Height*BytesPerPixel
	Texture TextureHandle

	allocated []int // skyline: next free row per column
	used      int   // allocated pixels
	dirty     Rect
	modified  bool
}

func newBlock(width, height int) *Block {
	return &Block{
		Width:     width,
		Height:    height,
		Pixels:    make([]byte, width*height*BytesPerPixel),
		allocated: make([]int, width),
	}
}

// alloc finds the lowest row at which a w-wide run of columns has room for h
// rows, preferring the leftmost run on ties.
func (b *Block) alloc(w, h int) (x, y int, ok bool) {
	best := b.Height
	x = -1
	for i := 0; i+w <= b.Width; i++ {
		best2 := 0
		j := 0
		for ; j < w; j++ {
			if b.allocated[i+j] >= best {
				break
			}
			if b.allocated[i+j] > best2 {
				best2 = b.allocated[i+j]
			}
		}
		if j == w {
			x = i
			best = best2
		}
	}

	if x < 0 || best+h > b.Height {
		return 0, 0, false
	}

	for i := range w {
		b.allocated[x+i] = best + h
	}
	b.used += w * h
	return x, best, true
}

// Modified reports whether the block has pixels waiting for upload.
func (b *Block) Modified() bool {
	return b.modified
}

// Dirty returns the region changed since the last flush.
func (b *Block) Dirty() Rect {
	return b.dirty
}

// Used returns the number of allocated pixels.
func (b *Block) Used() int {
	return b.used
}

// Contains reports whether r lies entirely inside the block.
func (b *Block) Contains(r Rect) bool {
	return !r.Empty() && r.X >= 0 && r.Y >= 0 && r.X+r.W <= b.Width && r.Y+r.H <= b.Height
}
