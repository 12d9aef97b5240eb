package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/brushgl/internal/engine/brush"
)

// sceneFile is the YAML description of a level that pack builds.
type sceneFile struct {
	Name         string          `yaml:"name"`
	LIT          string          `yaml:"lit"`           // colored lighting, relative to the scene
	LightingFile string          `yaml:"lighting_file"` // raw monochrome samples, relative to the scene
	Textures     []sceneTexture  `yaml:"textures"`
	Surfaces     []sceneSurface  `yaml:"surfaces"`
	Submodels    []sceneSubmodel `yaml:"submodels"`
}

type sceneTexture struct {
	Name       string `yaml:"name"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullbright bool   `yaml:"fullbright"`
}

type sceneSurface struct {
	Texture     int         `yaml:"texture"`
	Vertices    [][]float32 `yaml:"vertices"`
	S           []float32   `yaml:"s"`
	T           []float32   `yaml:"t"`
	LightOffset *int        `yaml:"light_offset"`
	Styles      []int       `yaml:"styles"`
}

type sceneSubmodel struct {
	First int `yaml:"first"`
	Count int `yaml:"count"`
}

// loadScene reads a scene file and resolves its relative paths against dir.
func loadScene(path string) (*sceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc sceneFile
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(path)
	}

	dir := filepath.Dir(path)
	if sc.LIT != "" && !filepath.IsAbs(sc.LIT) {
		sc.LIT = filepath.Join(dir, sc.LIT)
	}
	if sc.LightingFile != "" && !filepath.IsAbs(sc.LightingFile) {
		sc.LightingFile = filepath.Join(dir, sc.LightingFile)
	}
	return &sc, nil
}

// level converts the scene into loader output.
func (sc *sceneFile) level() (*brush.Level, error) {
	lv := &brush.Level{
		Name:     sc.Name,
		Textures: make([]brush.Texture, len(sc.Textures)),
		Surfaces: make([]brush.Surface, len(sc.Surfaces)),
	}

	for i, t := range sc.Textures {
		lv.Textures[i] = brush.Texture{Name: t.Name, Width: t.Width, Height: t.Height, Fullbright: t.Fullbright}
	}

	for i, s := range sc.Surfaces {
		surf, err := s.surface()
		if err != nil {
			return nil, fmt.Errorf("surface %d: %w", i, err)
		}
		lv.Surfaces[i] = surf
	}

	for _, m := range sc.Submodels {
		lv.Submodels = append(lv.Submodels, brush.Submodel{FirstSurface: m.First, NumSurfaces: m.Count})
	}

	if sc.LightingFile != "" {
		data, err := os.ReadFile(sc.LightingFile)
		if err != nil {
			return nil, fmt.Errorf("reading lighting: %w", err)
		}
		lv.Lighting = data
	}
	return lv, nil
}

func (s *sceneSurface) surface() (brush.Surface, error) {
	out := brush.Surface{
		Texture:     s.Texture,
		LightOffset: -1,
		Styles:      [brush.MaxLightStyles]uint8{brush.StyleNone, brush.StyleNone, brush.StyleNone, brush.StyleNone},
	}
	if s.LightOffset != nil {
		out.LightOffset = *s.LightOffset
	}

	for j, v := range s.Vertices {
		if len(v) != 3 {
			return out, fmt.Errorf("vertex %d has %d components", j, len(v))
		}
		out.Vertices = append(out.Vertices, mgl32.Vec3{v[0], v[1], v[2]})
	}

	for j, axis := range [][]float32{s.S, s.T} {
		if len(axis) != 4 {
			return out, fmt.Errorf("texture axis %d has %d components", j, len(axis))
		}
		out.TexVecs[j] = mgl32.Vec4{axis[0], axis[1], axis[2], axis[3]}
	}

	if len(s.Styles) > brush.MaxLightStyles {
		return out, fmt.Errorf("%d light styles, at most %d", len(s.Styles), brush.MaxLightStyles)
	}
	for j, st := range s.Styles {
		if st < 0 || st > brush.StyleNone {
			return out, fmt.Errorf("light style %d out of range", st)
		}
		out.Styles[j] = uint8(st)
	}
	return out, nil
}
