// Package config handles renderer configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Config holds all settings for the surface batching subsystem.
type Config struct {
	Lightmap  LightmapConfig `yaml:"lightmap"`
	Batch     BatchConfig    `yaml:"batch"`
	Materials MaterialConfig `yaml:"materials"`
	Data      DataConfig     `yaml:"data"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// LightmapConfig holds lightmap atlas settings.
type LightmapConfig struct {
	BlockWidth  int  `yaml:"block_width"`
	BlockHeight int  `yaml:"block_height"`
	MaxBlocks   int  `yaml:"max_blocks"`
	Overbright  bool `yaml:"overbright"` // halve stored light and double it in the shader
}

// BatchConfig holds material chain settings.
type BatchConfig struct {
	MaxVerts int `yaml:"max_verts"` // vertex budget of one chain segment
}

// MaterialConfig holds material registry settings.
type MaterialConfig struct {
	AnimationCapacity int `yaml:"animation_capacity"` // frames (and alternate frames) per animation
}

// DataConfig holds data file paths.
type DataConfig struct {
	LitPath string `yaml:"lit_path"` // colored lighting file, optional
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Lightmap: LightmapConfig{
			BlockWidth:  256,
			BlockHeight: 256,
			MaxBlocks:   64,
			Overbright:  true,
		},
		Batch: BatchConfig{
			MaxVerts: 65536,
		},
		Materials: MaterialConfig{
			AnimationCapacity: 10,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every setting that cannot be used to build a model.
func (c *Config) Validate() error {
	var err error
	if c.Lightmap.BlockWidth <= 0 || c.Lightmap.BlockHeight <= 0 {
		err = multierr.Append(err, fmt.Errorf("lightmap block size must be positive, got %dx%d",
			c.Lightmap.BlockWidth, c.Lightmap.BlockHeight))
	}
	if c.Lightmap.MaxBlocks <= 0 {
		err = multierr.Append(err, fmt.Errorf("lightmap max_blocks must be positive, got %d", c.Lightmap.MaxBlocks))
	}
	// A triangle fan needs three vertices; anything smaller can never hold a surface.
	if c.Batch.MaxVerts < 4 {
		err = multierr.Append(err, fmt.Errorf("batch max_verts must be at least 4, got %d", c.Batch.MaxVerts))
	}
	if c.Materials.AnimationCapacity <= 0 {
		err = multierr.Append(err, fmt.Errorf("materials animation_capacity must be positive, got %d",
			c.Materials.AnimationCapacity))
	}
	return err
}
