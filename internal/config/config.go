package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"mvp-renderer/internal/mathutil"
	"mvp-renderer/internal/transform"

	"github.com/pelletier/go-toml/v2"
)

// Config holds display geometry, the initial frame state and render settings.
type Config struct {
	Display Display `json:"display" toml:"display"`
	State   State   `json:"state" toml:"state"`
	Render  Render  `json:"render" toml:"render"`
}

// Display mirrors transform.DisplayParameters.
type Display struct {
	CanvasWidth          int     `json:"canvas_width" toml:"canvas_width"`
	CanvasHeight         int     `json:"canvas_height" toml:"canvas_height"`
	PixelPitch           float64 `json:"pixel_pitch" toml:"pixel_pitch"`
	DistanceScreenViewer float64 `json:"distance_screen_viewer" toml:"distance_screen_viewer"`
}

// State mirrors transform.FrameState. Perspective is a pointer so an omitted
// key defaults to true.
type State struct {
	ModelTranslation [3]float64 `json:"model_translation" toml:"model_translation"`
	ModelRotation    [3]float64 `json:"model_rotation" toml:"model_rotation"`
	ViewerPosition   [3]float64 `json:"viewer_position" toml:"viewer_position"`
	ViewerTarget     [3]float64 `json:"viewer_target" toml:"viewer_target"`
	ClipNear         float64    `json:"clip_near" toml:"clip_near"`
	ClipFar          float64    `json:"clip_far" toml:"clip_far"`
	TopView          bool       `json:"top_view" toml:"top_view"`
	Perspective      *bool      `json:"perspective" toml:"perspective"`
}

// Render holds output settings for the reference renderer.
type Render struct {
	OutputDir   string  `json:"output_dir" toml:"output_dir"`
	TextureDir  string  `json:"texture_dir" toml:"texture_dir"`
	Texture     string  `json:"texture" toml:"texture"`
	Supersample int     `json:"supersample" toml:"supersample"`
	Workers     int     `json:"workers" toml:"workers"`
	Frames      int     `json:"frames" toml:"frames"`
	StepDeg     float64 `json:"step_deg" toml:"step_deg"`
	Grid        bool    `json:"grid" toml:"grid"`
}

// Load reads a config file. Files ending in .toml are decoded as TOML,
// anything else as JSON. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	Texture   string
	Workers   int
	Frames    int
	StepDeg   float64
	TopView   bool
	Ortho     bool
}

// Resolve applies CLI overrides and fills any unset fields with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.Render.OutputDir = flags.OutputDir
	}
	if flags.Texture != "" {
		c.Render.Texture = flags.Texture
	}
	if flags.Workers > 0 {
		c.Render.Workers = flags.Workers
	}
	if flags.Frames > 0 {
		c.Render.Frames = flags.Frames
	}
	if flags.StepDeg != 0 {
		c.Render.StepDeg = flags.StepDeg
	}
	if flags.TopView {
		c.State.TopView = true
	}
	if flags.Ortho {
		persp := false
		c.State.Perspective = &persp
	}

	// Display defaults
	if c.Display.CanvasWidth <= 0 {
		c.Display.CanvasWidth = 800
	}
	if c.Display.CanvasHeight <= 0 {
		c.Display.CanvasHeight = 600
	}
	if c.Display.PixelPitch <= 0 {
		c.Display.PixelPitch = 0.311
	}
	if c.Display.DistanceScreenViewer <= 0 {
		c.Display.DistanceScreenViewer = 500
	}

	// Viewer defaults. Only an all-zero pair means "not configured"; any other
	// coincident eye and target is passed through and yields a NaN view.
	if c.State.ViewerPosition == ([3]float64{}) && c.State.ViewerTarget == ([3]float64{}) {
		c.State.ViewerPosition = [3]float64{0, 0, 800}
		c.State.ViewerTarget = [3]float64{}
	}
	if c.State.ClipNear <= 0 {
		c.State.ClipNear = 1
	}
	if c.State.ClipFar <= 0 {
		c.State.ClipFar = 10000
	}
	if c.State.Perspective == nil {
		persp := true
		c.State.Perspective = &persp
	}

	// Render defaults
	if c.Render.OutputDir == "" {
		c.Render.OutputDir = "renders"
	}
	if c.Render.Supersample <= 0 {
		c.Render.Supersample = 2
	}
	if c.Render.Workers <= 0 {
		c.Render.Workers = runtime.NumCPU()
	}
	if c.Render.Frames <= 0 {
		c.Render.Frames = 1
	}
	if c.Render.StepDeg == 0 {
		c.Render.StepDeg = 360 / float64(c.Render.Frames)
	}
}

// DisplayParameters converts the display section for the transform engine.
func (c Config) DisplayParameters() transform.DisplayParameters {
	return transform.DisplayParameters{
		CanvasWidth:          c.Display.CanvasWidth,
		CanvasHeight:         c.Display.CanvasHeight,
		PixelPitch:           c.Display.PixelPitch,
		DistanceScreenViewer: c.Display.DistanceScreenViewer,
	}
}

// FrameState converts the state section. Call Resolve first.
func (c Config) FrameState() transform.FrameState {
	persp := c.State.Perspective == nil || *c.State.Perspective
	return transform.FrameState{
		ModelTranslation: mathutil.Vec3(c.State.ModelTranslation),
		ModelRotation:    mathutil.Vec3(c.State.ModelRotation),
		ViewerPosition:   mathutil.Vec3(c.State.ViewerPosition),
		ViewerTarget:     mathutil.Vec3(c.State.ViewerTarget),
		ClipNear:         c.State.ClipNear,
		ClipFar:          c.State.ClipFar,
		TopView:          c.State.TopView,
		PerspectiveMat:   persp,
	}
}
