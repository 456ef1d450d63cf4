package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"mvp-renderer/internal/mathutil"
	"mvp-renderer/internal/mesh"
	"mvp-renderer/internal/texture"
	"mvp-renderer/internal/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	return Config{
		OutputDir: t.TempDir(),
		Display: transform.DisplayParameters{
			CanvasWidth:          40,
			CanvasHeight:         30,
			PixelPitch:           6.22,
			DistanceScreenViewer: 500,
		},
		Meshes:      []mesh.Mesh{mesh.Cube(200)},
		Fallback:    texture.Checker(16, 4),
		Supersample: 2,
		Workers:     2,
		Quiet:       true,
	}
}

func baseState() transform.FrameState {
	return transform.FrameState{
		ModelRotation:  mathutil.Vec3{15, 10, 0},
		ViewerPosition: mathutil.Vec3{0, 0, 800},
		ClipNear:       1,
		ClipFar:        10000,
		PerspectiveMat: true,
	}
}

func TestFrames(t *testing.T) {
	states := Frames(baseState(), 4, 90)
	require.Len(t, states, 4)
	for i, s := range states {
		assert.Equal(t, 10+float64(i)*90, s.ModelRotation[1])
		assert.Equal(t, 15.0, s.ModelRotation[0])
	}
	assert.Empty(t, Frames(baseState(), 0, 10))
}

func TestRunWritesFrames(t *testing.T) {
	cfg := testConfig(t)
	results := Run(cfg, Frames(baseState(), 3, 120))

	require.Len(t, results, 3)
	for i, r := range results {
		assert.True(t, r.Success, r.Error)
		assert.Equal(t, i, r.Index)
		assert.Equal(t, "perspective", r.Mode)
		assert.Equal(t, 12, r.Triangles)
		assert.Greater(t, r.Drawn, 0)

		info, err := os.Stat(filepath.Join(cfg.OutputDir, r.Image))
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	manifest := filepath.Join(cfg.OutputDir, "manifest.json")
	require.NoError(t, WriteManifest(manifest, results))

	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "frame_0002.webp", entries[2].Image)
	assert.Equal(t, 250.0, entries[2].Rotation)
}

func TestRunModes(t *testing.T) {
	cfg := testConfig(t)
	top := baseState()
	top.TopView = true
	ortho := baseState()
	ortho.PerspectiveMat = false

	results := Run(cfg, []transform.FrameState{top, ortho})
	require.Len(t, results, 2)
	assert.Equal(t, "top", results[0].Mode)
	assert.Equal(t, "orthographic", results[1].Mode)
	assert.True(t, results[0].Success, results[0].Error)
	assert.True(t, results[1].Success, results[1].Error)
}

func TestRunDegenerateState(t *testing.T) {
	cfg := testConfig(t)
	s := baseState()
	s.ViewerTarget = s.ViewerPosition

	results := Run(cfg, []transform.FrameState{s})
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "non-finite")
	assert.Equal(t, 0, results[0].Drawn)

	manifest := filepath.Join(cfg.OutputDir, "manifest.json")
	require.NoError(t, WriteManifest(manifest, results))
	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}
