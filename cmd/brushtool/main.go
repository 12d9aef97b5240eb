// brushtool is a CLI utility for inspecting brush model render resources.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/brushgl/internal/config"
	"github.com/Faultbox/brushgl/internal/engine/brush"
	"github.com/Faultbox/brushgl/internal/engine/material"
	"github.com/Faultbox/brushgl/internal/engine/texture"
	"github.com/Faultbox/brushgl/internal/engine/window"
	"github.com/Faultbox/brushgl/internal/logger"
	"github.com/Faultbox/brushgl/pkg/formats"
)

func main() {
	config.ParseFlags()
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	// config writes a fresh file, so it must work even when the current one is broken.
	if command == "config" {
		cmdConfig(args)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cmdErr error
	switch command {
	case "lit":
		cmdErr = cmdLIT(args)
	case "pack":
		cmdErr = cmdPack(cfg, args)
	case "upload":
		cmdErr = cmdUpload(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		logger.Sync()
		os.Exit(1)
	}

	if cmdErr != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(cmdErr))
		fmt.Fprintf(os.Stderr, "Error: %v\n", cmdErr)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`brushtool - brush model lightmap and material utility

Usage:
  brushtool [flags] <command> [options]

Commands:
  lit <file.lit>                 Show colored lighting file information
  pack [options] <scene.yaml>    Build a scene and report atlas and materials
  upload [options] <scene.yaml>  Build a scene and upload its lightmaps to OpenGL
  config <path>                  Write the default configuration

Flags:
  -config <path>       Config file
  -debug               Debug logging
  -block-size <n>      Lightmap block width and height
  -max-verts <n>       Vertex budget per chain segment
  -anim-capacity <n>   Frames per texture animation

Examples:
  brushtool lit maps/e1m1.lit
  brushtool pack -o ./atlas -frame 3 scene.yaml
  brushtool upload -style 0=512 scene.yaml
  brushtool -block-size 128 pack scene.yaml`)
}

func cmdConfig(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: brushtool config <path>")
		os.Exit(1)
	}
	if err := config.Default().SaveTo(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", args[0])
}

func cmdLIT(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: brushtool lit <file.lit>")
	}
	lf, err := readLIT(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("File:    %s\n", args[0])
	fmt.Printf("Version: %d\n", lf.Version)
	fmt.Printf("Samples: %d\n", lf.NumSamples())
	return nil
}

func readLIT(path string) (*formats.LIT, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lf, err := formats.ParseLIT(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lf, nil
}

// buildScene loads a scene file and builds its resource.
func buildScene(cfg *config.Config, path string) (*brush.Resource, error) {
	sc, err := loadScene(path)
	if err != nil {
		return nil, err
	}
	level, err := sc.level()
	if err != nil {
		return nil, err
	}

	litPath := sc.LIT
	if litPath == "" {
		litPath = cfg.Data.LitPath
	}
	var lf *formats.LIT
	if litPath != "" {
		if lf, err = readLIT(litPath); err != nil {
			return nil, err
		}
	}

	return brush.Build(level, lf, brush.OptionsFromConfig(cfg))
}

func cmdPack(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	outDir := fs.String("o", "", "Write each lightmap block as BMP to this directory")
	frame := fs.Int("frame", 0, "Animation frame used for the draw listing")
	alternate := fs.Bool("alt", false, "Use alternate animation cycles")
	reverse := fs.Bool("fifo", false, "Keep submission order in chains")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: brushtool pack [options] <scene.yaml>")
	}

	res, err := buildScene(cfg, fs.Arg(0))
	if err != nil {
		return err
	}

	printAtlas(res)
	printMaterials(res)
	if err := printDraws(res, *frame, *alternate, *reverse); err != nil {
		return err
	}

	if *outDir != "" {
		return dumpBlocks(res, *outDir)
	}
	return nil
}

func printAtlas(res *brush.Resource) {
	atlas := res.Atlas()
	cfg := atlas.Config()
	capacity := atlas.NumBlocks() * cfg.BlockWidth * cfg.BlockHeight

	fmt.Printf("Model:     %s (%s)\n", res.Name(), res.ID)
	fmt.Printf("Blocks:    %d of %d (%dx%d)\n", atlas.NumBlocks(), cfg.MaxBlocks, cfg.BlockWidth, cfg.BlockHeight)
	if capacity > 0 {
		fmt.Printf("Coverage:  %.1f%%\n", 100*float64(atlas.Used())/float64(capacity))
	}
	fmt.Printf("Submodels: %d\n", res.NumSubmodels())
	fmt.Println()
}

func printMaterials(res *brush.Resource) {
	reg := res.Materials()
	fmt.Println("Materials by class:")
	for c := material.ClassSky; c < material.NumClasses; c++ {
		first, end := reg.Class(c)
		fmt.Printf("  %-18s %d\n", c, end-first)
		for id := first; id < end; id++ {
			m := reg.Material(id)
			anim := ""
			if reg.Animated(id) {
				anim = " animated"
			}
			fmt.Printf("    #%-4d texture %-4d lightmap %d%s\n", id, m.Texture, m.LightmapBlock, anim)
		}
	}
	fmt.Println()
}

// printDraws queues every submodel's own surfaces and lists the batches a
// frame would draw.
func printDraws(res *brush.Resource, frame int, alternate, reverse bool) error {
	for sub := range res.NumSubmodels() {
		p, err := res.BeginPass(sub, reverse)
		if err != nil {
			return err
		}
		for i := range res.SubmodelSurfaces(sub) {
			if err := p.Add(i, frame, alternate); err != nil {
				p.End()
				return err
			}
		}

		fmt.Printf("Submodel %d (sky=%v, turb=%v):\n", sub, res.DrawSky(sub), res.TurbTextures(sub))
		for db := range p.Batches() {
			fmt.Printf("  %-18s material %-4d %3d surfaces %5d verts %5d indices\n",
				db.Class, db.Material, len(db.Surfaces), db.NumVerts, db.NumIndices)
		}
		p.End()
	}
	fmt.Println()
	return nil
}

func dumpBlocks(res *brush.Resource, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	atlas := res.Atlas()
	for i := range atlas.NumBlocks() {
		img := texture.BlockImage(atlas.Block(i), true)
		path := filepath.Join(outDir, fmt.Sprintf("%s_lightmap%02d.bmp", res.Name(), i))

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = bmp.Encode(f, img)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("Extracted: %s\n", path)
	}
	return nil
}

func cmdUpload(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	var overrides styleFlag
	fs.Var(&overrides, "style", "Relight with style=value after the first upload (repeatable)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: brushtool upload [options] <scene.yaml>")
	}

	res, err := buildScene(cfg, fs.Arg(0))
	if err != nil {
		return err
	}

	win, err := window.New(window.Config{Title: "brushtool", Width: 64, Height: 64, Hidden: true})
	if err != nil {
		return err
	}
	defer win.Close()

	backend, err := texture.NewGLBackend()
	if err != nil {
		return err
	}
	defer backend.Delete()

	if err := res.CreateTextures(backend); err != nil {
		return err
	}
	n, err := res.Upload(backend)
	if err != nil {
		return err
	}
	fmt.Printf("Textures:  %d\n", backend.Len())
	fmt.Printf("Uploaded:  %d blocks\n", n)

	if len(overrides) == 0 {
		return nil
	}

	styles := brush.NewLightStyles()
	for _, o := range overrides {
		styles[o.style] = o.value
	}
	relit, err := res.Relight(styles)
	if err != nil {
		return err
	}
	n, err = res.Upload(backend)
	if err != nil {
		return err
	}
	fmt.Printf("Relit:     %d surfaces, %d blocks uploaded\n", relit, n)
	return nil
}
