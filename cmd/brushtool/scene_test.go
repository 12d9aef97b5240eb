package main

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/Faultbox/brushgl/internal/engine/brush"
	"github.com/Faultbox/brushgl/internal/engine/material"
)

const testScene = `
name: box
lighting_file: box.raw
textures:
  - name: wall
  - name: sky1
surfaces:
  - texture: 0
    vertices: [[0, 0, 0], [32, 0, 0], [32, 32, 0], [0, 32, 0]]
    s: [1, 0, 0, 0]
    t: [0, 1, 0, 0]
    light_offset: 0
    styles: [0]
  - texture: 1
    vertices: [[0, 0, 64], [32, 0, 64], [32, 32, 64]]
    s: [1, 0, 0, 0]
    t: [0, 1, 0, 0]
`

func writeScene(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "box.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write scene: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "box.raw"), slices.Repeat([]byte{100}, 9), 0644); err != nil {
		t.Fatalf("failed to write lighting: %v", err)
	}
	return path
}

func TestLoadScene(t *testing.T) {
	path := writeScene(t, testScene)

	sc, err := loadScene(path)
	if err != nil {
		t.Fatalf("loadScene failed: %v", err)
	}
	if sc.LightingFile != filepath.Join(filepath.Dir(path), "box.raw") {
		t.Errorf("expected lighting path resolved against scene dir, got %s", sc.LightingFile)
	}

	level, err := sc.level()
	if err != nil {
		t.Fatalf("level failed: %v", err)
	}
	if len(level.Surfaces) != 2 || len(level.Lighting) != 9 {
		t.Fatalf("unexpected level: %d surfaces, %d samples", len(level.Surfaces), len(level.Lighting))
	}

	lit := level.Surfaces[0]
	if lit.LightOffset != 0 || lit.Styles != [brush.MaxLightStyles]uint8{0, 255, 255, 255} {
		t.Errorf("unexpected light setup: offset %d styles %v", lit.LightOffset, lit.Styles)
	}
	if sky := level.Surfaces[1]; sky.LightOffset != -1 || sky.NumEdges() != 3 {
		t.Errorf("unexpected sky surface: offset %d, %d edges", sky.LightOffset, sky.NumEdges())
	}

	res, err := brush.Build(level, nil, brush.DefaultOptions())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if first, end := res.Materials().Class(material.ClassSky); end-first != 1 {
		t.Errorf("expected one sky material, got %d", end-first)
	}
}

func TestLoadSceneDefaultsName(t *testing.T) {
	path := writeScene(t, "textures: []\n")

	sc, err := loadScene(path)
	if err != nil {
		t.Fatalf("loadScene failed: %v", err)
	}
	if sc.Name != "box.yaml" {
		t.Errorf("expected name from file, got %q", sc.Name)
	}
}

func TestSceneSurfaceErrors(t *testing.T) {
	tests := map[string]sceneSurface{
		"short vertex": {Vertices: [][]float32{{0, 0}}, S: []float32{1, 0, 0, 0}, T: []float32{0, 1, 0, 0}},
		"short axis":   {S: []float32{1, 0, 0}, T: []float32{0, 1, 0, 0}},
		"many styles":  {S: []float32{1, 0, 0, 0}, T: []float32{0, 1, 0, 0}, Styles: []int{0, 1, 2, 3, 4}},
		"bad style":    {S: []float32{1, 0, 0, 0}, T: []float32{0, 1, 0, 0}, Styles: []int{300}},
	}
	for name, s := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := s.surface(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadSceneMissing(t *testing.T) {
	_, err := loadScene(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
