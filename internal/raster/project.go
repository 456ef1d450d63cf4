package raster

import (
	"math"

	"mvp-renderer/internal/mathutil"
)

// Viewport is the pixel rectangle NDC [-1,1]² maps onto.
type Viewport struct {
	Width, Height int
}

// ToScreen maps NDC x,y to pixel coordinates with y pointing down.
func (vp Viewport) ToScreen(ndc mathutil.Vec3) (float64, float64) {
	return (ndc[0] + 1) / 2 * float64(vp.Width), (1 - ndc[1]) / 2 * float64(vp.Height)
}

// Projected holds per-vertex screen positions. Z is -ndc.z so that larger
// values are nearer. InvW is 1/clip.w, used for perspective-correct UVs.
// OK[i] is false when the vertex is behind the eye (w <= 0), outside the
// depth range, or produced a non-finite result.
type Projected struct {
	X, Y, Z, InvW []float64
	OK            []bool
}

// ProjectVertices transforms object-space vertices by mvp and maps them to the
// viewport.
func ProjectVertices(mvp mathutil.Mat4, verts []mathutil.Vec3, vp Viewport) Projected {
	n := len(verts)
	p := Projected{
		X:    make([]float64, n),
		Y:    make([]float64, n),
		Z:    make([]float64, n),
		InvW: make([]float64, n),
		OK:   make([]bool, n),
	}

	for i, v := range verts {
		clip := mvp.MulPoint(v)
		if !(clip[3] > 0) {
			continue
		}
		ndc := clip.PerspectiveDivide()
		if !finite(ndc) || ndc[2] < -1 || ndc[2] > 1 {
			continue
		}
		p.X[i], p.Y[i] = vp.ToScreen(ndc)
		p.Z[i] = -ndc[2]
		p.InvW[i] = 1 / clip[3]
		p.OK[i] = true
	}
	return p
}

func finite(v mathutil.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
