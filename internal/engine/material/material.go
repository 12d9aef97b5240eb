// Package material assigns deduplicated (texture, lightmap block) material ids
// to brush surfaces, grouped into classes ordered to minimize GPU state changes.
package material

import (
	"errors"
	"fmt"
)

// Registry errors.
var (
	ErrClassOrder         = errors.New("material class visited out of order")
	ErrAnimationCapacity  = errors.New("texture animation exceeds frame capacity")
	ErrBadMaterial        = errors.New("material id out of range")
	ErrDuplicateAnimation = errors.New("material already animated")
	ErrFinished           = errors.New("material builder already finished")
)

// DefaultAnimationCapacity is the historical per-animation frame limit.
const DefaultAnimationCapacity = 10

// Class orders materials for drawing: opaque first, blended last.
type Class int

const (
	ClassSky            Class = iota // sky textures
	ClassBase                        // world textures, lightmapped
	ClassFullbright                  // world textures with fullbright mask
	ClassFence                       // alpha-tested textures, lightmapped
	ClassFenceFullbright             // alpha-tested textures with fullbright mask
	ClassLiquid                      // water, lava, slime
	NumClasses
)

var classNames = [NumClasses]string{"sky", "base", "fullbright", "fence", "fence-fullbright", "liquid"}

// String returns the class name.
func (c Class) String() string {
	if c < 0 || c >= NumClasses {
		return fmt.Sprintf("class(%d)", int(c))
	}
	return classNames[c]
}

// NoLightmap is the lightmap block of surfaces drawn without light data.
const NoLightmap = -1

// Material identifies one GPU draw state.
type Material struct {
	Texture       int
	LightmapBlock int
}

// Animation lists the materials an animated base material cycles through.
type Animation struct {
	Material int
	Frames   []int
	Alt      []int
}
