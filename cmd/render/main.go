package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mvp-renderer/internal/batch"
	"mvp-renderer/internal/config"
	"mvp-renderer/internal/mesh"
	"mvp-renderer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	frames := flag.Int("frames", 0, "Number of turntable frames (default: 1)")
	step := flag.Float64("step", 0, "Model Y rotation per frame in degrees (default: 360/frames)")
	tex := flag.String("texture", "", "Texture name looked up in render.texture_dir")
	top := flag.Bool("top", false, "Force top view")
	ortho := flag.Bool("ortho", false, "Use orthographic projection")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir: *outputDir,
		Texture:   *tex,
		Workers:   *workers,
		Frames:    *frames,
		StepDeg:   *step,
		TopView:   *top,
		Ortho:     *ortho,
	})

	// Scene
	cube := mesh.Cube(200)
	cube.TexName = cfg.Render.Texture
	meshes := []mesh.Mesh{cube}
	if cfg.Render.Grid {
		grid := mesh.Grid(1200, 12)
		for i := range grid.Verts {
			grid.Verts[i][1] = -100
		}
		meshes = append(meshes, grid)
	}

	texIndex := texture.BuildIndex(cfg.Render.TextureDir)
	texCache := texture.NewCache(texIndex)
	if cfg.Render.Texture != "" {
		if _, ok := texIndex.ResolvePath(cfg.Render.Texture); !ok {
			fmt.Fprintf(os.Stderr, "Warning: texture %q not found in %q, using checker\n", cfg.Render.Texture, cfg.Render.TextureDir)
		}
	}

	state := cfg.FrameState()
	states := batch.Frames(state, cfg.Render.Frames, cfg.Render.StepDeg)

	fmt.Printf("MVP turntable renderer → WebP (%s)\n", state.Mode())
	fmt.Printf("Frames: %d, Step: %.1f°, Workers: %d\n", len(states), cfg.Render.StepDeg, cfg.Render.Workers)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())
	fmt.Printf("Output: %s\n", cfg.Render.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir:   cfg.Render.OutputDir,
		Display:     cfg.DisplayParameters(),
		Meshes:      meshes,
		Textures:    texCache,
		Fallback:    texture.Checker(256, 8),
		Supersample: cfg.Render.Supersample,
		Workers:     cfg.Render.Workers,
	}, states)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())
	for _, f := range texCache.Failures() {
		fmt.Fprintf(os.Stderr, "Warning: %v (checker used)\n", f.Err)
	}

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(results))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Image, e.Error)
		}
	}

	// Write manifest
	if manifestPath, err := writeManifest(cfg.Render.OutputDir, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func writeManifest(outDir string, results []batch.Result) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outDir, "manifest.json")
	if err := batch.WriteManifest(path, results); err != nil {
		return "", err
	}
	return path, nil
}
