// Package transform computes the model, view and projection matrices for one
// rendered frame from display geometry and viewer state.
package transform

import "mvp-renderer/internal/mathutil"

// TopViewMatrix is the fixed view used when FrameState.TopView is set:
// camera 1500 units above the origin looking straight down.
var TopViewMatrix = mathutil.Mat4{
	1, 0, 0, 0,
	0, 0, -1, 0,
	0, 1, 0, -1500,
	0, 0, 0, 1,
}

// Top view clip planes, independent of FrameState.
const (
	TopViewNear = 1.0
	TopViewFar  = 10000.0
)

var worldUp = mathutil.Vec3{0, 1, 0}

// Engine holds the display parameters and the last computed matrices.
// Update is not safe for concurrent use; give each goroutine its own Engine.
type Engine struct {
	disp       DisplayParameters
	model      mathutil.Mat4
	view       mathutil.Mat4
	projection mathutil.Mat4
}

// New returns an engine with identity matrices.
func New(disp DisplayParameters) *Engine {
	return &Engine{
		disp:       disp,
		model:      mathutil.Mat4Identity(),
		view:       mathutil.Mat4Identity(),
		projection: mathutil.Mat4Identity(),
	}
}

func (e *Engine) Display() DisplayParameters { return e.disp }

func (e *Engine) Model() mathutil.Mat4 { return e.model }

func (e *Engine) View() mathutil.Mat4 { return e.view }

func (e *Engine) Projection() mathutil.Mat4 { return e.projection }

// MVP returns Projection × View × Model.
func (e *Engine) MVP() mathutil.Mat4 {
	return mathutil.Mat4Mul(e.projection, mathutil.Mat4Mul(e.view, e.model))
}

// ComputeModelTransform returns T × (Rx × Ry). There is no Z rotation.
func ComputeModelTransform(s FrameState) mathutil.Mat4 {
	rx := mathutil.RotX4(mathutil.Deg2Rad(s.ModelRotation[0]))
	ry := mathutil.RotY4(mathutil.Deg2Rad(s.ModelRotation[1]))
	return mathutil.Mat4Mul(mathutil.Translate(s.ModelTranslation), mathutil.Mat4Mul(rx, ry))
}

// ComputeViewTransform returns R × Tr where R changes basis to the camera frame
// and Tr moves the eye to the origin. The up vector is fixed at +Y; a vertical
// view direction yields NaN.
func ComputeViewTransform(s FrameState) mathutil.Mat4 {
	eye := s.ViewerPosition
	zc := eye.Sub(s.ViewerTarget).Normalize()
	xc := worldUp.Cross(zc).Normalize()
	yc := zc.Cross(xc)

	rot := mathutil.Mat4{
		xc[0], xc[1], xc[2], 0,
		yc[0], yc[1], yc[2], 0,
		zc[0], zc[1], zc[2], 0,
		0, 0, 0, 1,
	}
	return mathutil.Mat4Mul(rot, mathutil.Translate(eye.Scale(-1)))
}

// ComputePerspectiveTransform maps the off-axis frustum
// [left,right]×[bottom,top]×[-near,-far] to the canonical clip volume.
func ComputePerspectiveTransform(left, right, top, bottom, near, far float64) mathutil.Mat4 {
	return mathutil.Mat4{
		2 * near / (right - left), 0, (right + left) / (right - left), 0,
		0, 2 * near / (top - bottom), (top + bottom) / (top - bottom), 0,
		0, 0, -(far + near) / (far - near), -2 * far * near / (far - near),
		0, 0, -1, 0,
	}
}

// ComputeOrthographicTransform maps the box [left,right]×[bottom,top]×[-near,-far]
// to the canonical clip volume.
func ComputeOrthographicTransform(left, right, top, bottom, near, far float64) mathutil.Mat4 {
	return mathutil.Mat4{
		2 / (right - left), 0, 0, -(right + left) / (right - left),
		0, 2 / (top - bottom), 0, -(top + bottom) / (top - bottom),
		0, 0, -2 / (far - near), -(far + near) / (far - near),
		0, 0, 0, 1,
	}
}

// PerspectiveFrustum scales the physical screen by clipNear / DistanceScreenViewer
// so the frustum matches the screen at the design viewing distance.
func (e *Engine) PerspectiveFrustum(clipNear float64) Frustum {
	k := clipNear / e.disp.DistanceScreenViewer
	return symmetric(e.disp.HalfWidth()*k, e.disp.HalfHeight()*k)
}

// OrthographicFrustum is the physical screen size.
func (e *Engine) OrthographicFrustum() Frustum {
	return symmetric(e.disp.HalfWidth(), e.disp.HalfHeight())
}

// Update recomputes all three matrices for one frame.
func (e *Engine) Update(s FrameState) {
	e.model = ComputeModelTransform(s)

	switch s.Mode() {
	case ModeTopView:
		e.view = TopViewMatrix
		f := e.PerspectiveFrustum(s.ClipNear)
		e.projection = ComputePerspectiveTransform(f.Left, f.Right, f.Top, f.Bottom, TopViewNear, TopViewFar)
	case ModePerspective:
		e.view = ComputeViewTransform(s)
		f := e.PerspectiveFrustum(s.ClipNear)
		e.projection = ComputePerspectiveTransform(f.Left, f.Right, f.Top, f.Bottom, s.ClipNear, s.ClipFar)
	default:
		e.view = ComputeViewTransform(s)
		f := e.OrthographicFrustum()
		e.projection = ComputeOrthographicTransform(f.Left, f.Right, f.Top, f.Bottom, s.ClipNear, s.ClipFar)
	}
}
