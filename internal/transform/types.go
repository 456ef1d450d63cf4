package transform

import "mvp-renderer/internal/mathutil"

// DisplayParameters describes the physical display. Fixed for the engine's lifetime.
type DisplayParameters struct {
	CanvasWidth          int     // pixels
	CanvasHeight         int     // pixels
	PixelPitch           float64 // physical size of one pixel
	DistanceScreenViewer float64 // physical distance from viewer to screen, same unit as PixelPitch
}

// HalfWidth returns half the physical canvas width.
func (d DisplayParameters) HalfWidth() float64 {
	return float64(d.CanvasWidth) * d.PixelPitch / 2
}

// HalfHeight returns half the physical canvas height.
func (d DisplayParameters) HalfHeight() float64 {
	return float64(d.CanvasHeight) * d.PixelPitch / 2
}

// FrameState is the per-frame input owned by the caller.
//
// ModelRotation is in degrees; only X and Y are applied.
// ViewerPosition must differ from ViewerTarget and ClipFar > ClipNear > 0;
// neither is checked.
type FrameState struct {
	ModelTranslation mathutil.Vec3
	ModelRotation    mathutil.Vec3
	ViewerPosition   mathutil.Vec3
	ViewerTarget     mathutil.Vec3
	ClipNear         float64
	ClipFar          float64
	TopView          bool
	PerspectiveMat   bool
}

// ProjectionMode is the view/projection branch Update takes for a state.
type ProjectionMode int

const (
	ModePerspective ProjectionMode = iota
	ModeOrthographic
	ModeTopView
)

func (m ProjectionMode) String() string {
	switch m {
	case ModePerspective:
		return "perspective"
	case ModeOrthographic:
		return "orthographic"
	case ModeTopView:
		return "top"
	}
	return "unknown"
}

// Mode reports which branch Update will take. TopView wins over PerspectiveMat.
func (s FrameState) Mode() ProjectionMode {
	if s.TopView {
		return ModeTopView
	}
	if s.PerspectiveMat {
		return ModePerspective
	}
	return ModeOrthographic
}

// Frustum holds the near-plane extents passed to the projection functions.
type Frustum struct {
	Left, Right, Top, Bottom float64
}

// symmetric builds a frustum centred on the view axis.
func symmetric(halfW, halfH float64) Frustum {
	return Frustum{Left: -halfW, Right: halfW, Top: halfH, Bottom: -halfH}
}
