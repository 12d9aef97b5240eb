package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagMaxVerts     = flag.Int("max-verts", 0, "Vertex budget per material chain segment")
	flagBlockSize    = flag.Int("block-size", 0, "Lightmap block width and height")
	flagAnimCapacity = flag.Int("anim-capacity", 0, "Maximum frames per texture animation")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMaxVerts > 0 {
		cfg.Batch.MaxVerts = *flagMaxVerts
	}
	if *flagBlockSize > 0 {
		cfg.Lightmap.BlockWidth = *flagBlockSize
		cfg.Lightmap.BlockHeight = *flagBlockSize
	}
	if *flagAnimCapacity > 0 {
		cfg.Materials.AnimationCapacity = *flagAnimCapacity
	}
}
