package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Lightmap.BlockWidth != 256 || cfg.Lightmap.BlockHeight != 256 {
		t.Errorf("expected 256x256 lightmap blocks, got %dx%d", cfg.Lightmap.BlockWidth, cfg.Lightmap.BlockHeight)
	}
	if cfg.Lightmap.MaxBlocks != 64 {
		t.Errorf("expected 64 max blocks, got %d", cfg.Lightmap.MaxBlocks)
	}
	if cfg.Batch.MaxVerts != 65536 {
		t.Errorf("expected max verts 65536, got %d", cfg.Batch.MaxVerts)
	}
	if cfg.Materials.AnimationCapacity != 10 {
		t.Errorf("expected animation capacity 10, got %d", cfg.Materials.AnimationCapacity)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Lightmap.BlockWidth = 0
	cfg.Batch.MaxVerts = 2
	cfg.Materials.AnimationCapacity = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"block size", "max_verts", "animation_capacity"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
	if strings.Contains(err.Error(), "max_blocks") {
		t.Errorf("max_blocks is valid but was reported: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
lightmap:
  block_width: 128
  block_height: 64
  max_blocks: 8
  overbright: false

batch:
  max_verts: 4096

materials:
  animation_capacity: 16

data:
  lit_path: "maps/e1m1.lit"

logging:
  level: "debug"
  log_file: "brushgl.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Lightmap.BlockWidth != 128 || cfg.Lightmap.BlockHeight != 64 {
		t.Errorf("expected 128x64 blocks, got %dx%d", cfg.Lightmap.BlockWidth, cfg.Lightmap.BlockHeight)
	}
	if cfg.Lightmap.MaxBlocks != 8 {
		t.Errorf("expected 8 max blocks, got %d", cfg.Lightmap.MaxBlocks)
	}
	if cfg.Lightmap.Overbright {
		t.Error("expected overbright to be false")
	}
	if cfg.Batch.MaxVerts != 4096 {
		t.Errorf("expected max verts 4096, got %d", cfg.Batch.MaxVerts)
	}
	if cfg.Materials.AnimationCapacity != 16 {
		t.Errorf("expected animation capacity 16, got %d", cfg.Materials.AnimationCapacity)
	}
	if cfg.Data.LitPath != "maps/e1m1.lit" {
		t.Errorf("expected lit path maps/e1m1.lit, got %s", cfg.Data.LitPath)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "brushgl.log" {
		t.Errorf("expected log file 'brushgl.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
lightmap:
  block_width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Batch.MaxVerts = 1024
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Batch.MaxVerts != 1024 {
		t.Errorf("expected max verts 1024 after reload, got %d", loaded.Batch.MaxVerts)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "max verts flag",
			setup: func() { *flagMaxVerts = 64 },
			verify: func(cfg *Config) {
				if cfg.Batch.MaxVerts != 64 {
					t.Errorf("expected max verts 64, got %d", cfg.Batch.MaxVerts)
				}
			},
			teardown: func() { *flagMaxVerts = 0 },
		},
		{
			name:  "block size flag",
			setup: func() { *flagBlockSize = 512 },
			verify: func(cfg *Config) {
				if cfg.Lightmap.BlockWidth != 512 || cfg.Lightmap.BlockHeight != 512 {
					t.Errorf("expected 512x512 blocks, got %dx%d", cfg.Lightmap.BlockWidth, cfg.Lightmap.BlockHeight)
				}
			},
			teardown: func() { *flagBlockSize = 0 },
		},
		{
			name:  "animation capacity flag",
			setup: func() { *flagAnimCapacity = 20 },
			verify: func(cfg *Config) {
				if cfg.Materials.AnimationCapacity != 20 {
					t.Errorf("expected animation capacity 20, got %d", cfg.Materials.AnimationCapacity)
				}
			},
			teardown: func() { *flagAnimCapacity = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
lightmap:
  block_width: 128
  block_height: 128
batch:
  max_verts: 2048
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagMaxVerts = 512
	defer func() {
		*flagConfig = ""
		*flagMaxVerts = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Flag beats file.
	if cfg.Batch.MaxVerts != 512 {
		t.Errorf("expected max verts 512 from flag, got %d", cfg.Batch.MaxVerts)
	}
	// File beats default.
	if cfg.Lightmap.BlockWidth != 128 {
		t.Errorf("expected block width 128 from file, got %d", cfg.Lightmap.BlockWidth)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("batch:\n  max_verts: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject max_verts 1")
	}
}
