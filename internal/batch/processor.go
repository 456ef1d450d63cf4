package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"mvp-renderer/internal/mesh"
	"mvp-renderer/internal/postprocess"
	"mvp-renderer/internal/raster"
	"mvp-renderer/internal/texture"
	"mvp-renderer/internal/transform"

	"github.com/HugoSmits86/nativewebp"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	Display     transform.DisplayParameters
	Meshes      []mesh.Mesh
	Textures    texture.Resolver
	Fallback    *image.NRGBA
	Width       int // output size; canvas size when zero
	Height      int
	Supersample int
	Workers     int
	Quiet       bool // suppress progress lines
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Index     int
	Rotation  float64 // model Y rotation, degrees
	Mode      string
	Image     string // path relative to OutputDir
	Triangles int
	Drawn     int
	Success   bool
	Error     string
}

// Frames returns n copies of base with the model Y rotation stepped by stepDeg.
func Frames(base transform.FrameState, n int, stepDeg float64) []transform.FrameState {
	states := make([]transform.FrameState, n)
	for i := range states {
		s := base
		s.ModelRotation[1] = base.ModelRotation[1] + float64(i)*stepDeg
		states[i] = s
	}
	return states
}

// Run renders all states using a worker pool. Each worker owns its engine.
func Run(cfg Config, states []transform.FrameState) []Result {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Supersample < 1 {
		cfg.Supersample = 1
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = cfg.Display.CanvasWidth, cfg.Display.CanvasHeight
	}

	total := len(states)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 && !cfg.Quiet {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, total, rate)
				}
			}
		}
	}()

	frameChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eng := transform.New(cfg.Display)
			for idx := range frameChan {
				results[idx] = renderFrame(cfg, eng, idx, states[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range states {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

func renderFrame(cfg Config, eng *transform.Engine, idx int, state transform.FrameState) Result {
	res := Result{
		Index:    idx,
		Rotation: state.ModelRotation[1],
		Mode:     state.Mode().String(),
		Image:    fmt.Sprintf("frame_%04d.webp", idx),
	}

	eng.Update(state)
	if !eng.MVP().IsFinite() {
		// Still rendered: every triangle is rejected and the frame comes out empty.
		res.Error = "non-finite transform (degenerate viewer or frustum)"
	}

	img, st := raster.RenderFrame(eng, cfg.Meshes, raster.Options{
		Width:    cfg.Width * cfg.Supersample,
		Height:   cfg.Height * cfg.Supersample,
		Textures: cfg.Textures,
		Fallback: cfg.Fallback,
	})
	res.Triangles, res.Drawn = st.Triangles, st.Drawn

	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.Width, cfg.Height)
	}

	outPath := filepath.Join(cfg.OutputDir, res.Image)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}
	if err := writeWebP(outPath, img); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = res.Error == ""
	return res
}

func writeWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("WebP encode: %w", err)
	}
	return f.Close()
}
