package main

import (
	"flag"
	"fmt"
	"os"

	"mvp-renderer/internal/config"
	"mvp-renderer/internal/mathutil"
	"mvp-renderer/internal/mesh"
	"mvp-renderer/internal/transform"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	top := flag.Bool("top", false, "Force top view")
	ortho := flag.Bool("ortho", false, "Use orthographic projection")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{TopView: *top, Ortho: *ortho})

	disp := cfg.DisplayParameters()
	state := cfg.FrameState()
	eng := transform.New(disp)
	eng.Update(state)

	fmt.Printf("Display: %dx%d px, pitch %.4g, viewing distance %.4g\n",
		disp.CanvasWidth, disp.CanvasHeight, disp.PixelPitch, disp.DistanceScreenViewer)
	fmt.Printf("Mode: %s, clip [%.4g, %.4g]\n", state.Mode(), state.ClipNear, state.ClipFar)
	if state.Mode() == transform.ModeOrthographic {
		f := eng.OrthographicFrustum()
		fmt.Printf("Frustum: l=%.4g r=%.4g t=%.4g b=%.4g\n", f.Left, f.Right, f.Top, f.Bottom)
	} else {
		f := eng.PerspectiveFrustum(state.ClipNear)
		fmt.Printf("Frustum (near plane): l=%.4g r=%.4g t=%.4g b=%.4g\n", f.Left, f.Right, f.Top, f.Bottom)
	}

	bad := false
	for _, m := range []struct {
		name string
		mat  mathutil.Mat4
	}{
		{"Model", eng.Model()},
		{"View", eng.View()},
		{"Projection", eng.Projection()},
	} {
		printMat(m.name, m.mat)
		if !m.mat.IsFinite() {
			fmt.Printf("  WARNING: %s matrix has NaN/Inf entries\n", m.name)
			bad = true
		}
	}

	// Where the unit cube corners land in NDC
	fmt.Println("Cube corners (NDC):")
	mvp := eng.MVP()
	cube := mesh.Cube(2)
	seen := map[mathutil.Vec3]bool{}
	for _, v := range cube.Verts {
		if seen[v] {
			continue
		}
		seen[v] = true
		clip := mvp.MulPoint(v)
		ndc := clip.PerspectiveDivide()
		fmt.Printf("  (%+.0f %+.0f %+.0f) -> (%+.4f %+.4f %+.4f) w=%.4g\n", v[0], v[1], v[2], ndc[0], ndc[1], ndc[2], clip[3])
	}

	if bad {
		os.Exit(1)
	}
}

func printMat(name string, m mathutil.Mat4) {
	fmt.Printf("%s:\n", name)
	for r := 0; r < 4; r++ {
		row := m.Row(r)
		fmt.Printf("  [% 12.6g % 12.6g % 12.6g % 12.6g]\n", row[0], row[1], row[2], row[3])
	}
}
