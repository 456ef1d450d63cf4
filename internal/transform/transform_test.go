package transform

import (
	"testing"

	"mvp-renderer/internal/mathutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-6

func isIdentity(m mathutil.Mat4) bool {
	return m.ApproxEqual(mathutil.Mat4Identity(), 1e-8)
}

var testDisplay = DisplayParameters{
	CanvasWidth:          800,
	CanvasHeight:         600,
	PixelPitch:           0.5,
	DistanceScreenViewer: 500,
}

func assertMat4InDelta(t *testing.T, want, have mathutil.Mat4, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDeltaf(t, want[i], have[i], delta, "element [%d][%d]", i/4, i%4)
	}
}

func assertVec3InDelta(t *testing.T, want, have mathutil.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDeltaf(t, want[i], have[i], delta, "component %d", i)
	}
}

func baseState() FrameState {
	return FrameState{
		ViewerPosition: mathutil.Vec3{0, 0, 800},
		ClipNear:       1,
		ClipFar:        10000,
		PerspectiveMat: true,
	}
}

func TestModelTransformIdentity(t *testing.T) {
	m := ComputeModelTransform(FrameState{})
	assert.True(t, isIdentity(m), "have %v", m)
}

func TestModelTransformRotationOrder(t *testing.T) {
	s := FrameState{ModelRotation: mathutil.Vec3{30, 45, 90}}
	want := mathutil.Mat4Mul(mathutil.RotX4(mathutil.Deg2Rad(30)), mathutil.RotY4(mathutil.Deg2Rad(45)))
	assertMat4InDelta(t, want, ComputeModelTransform(s), tol)

	// Ry·Rx is a different matrix for these angles.
	other := mathutil.Mat4Mul(mathutil.RotY4(mathutil.Deg2Rad(45)), mathutil.RotX4(mathutil.Deg2Rad(30)))
	assert.False(t, other.ApproxEqual(ComputeModelTransform(s), tol))
}

func TestModelTransformTranslationAppliedLast(t *testing.T) {
	s := FrameState{
		ModelTranslation: mathutil.Vec3{10, -20, 30},
		ModelRotation:    mathutil.Vec3{0, 90, 0},
	}
	m := ComputeModelTransform(s)

	// Ry(90) sends +X to -Z, then the translation is added.
	p := m.MulPoint(mathutil.Vec3{1, 0, 0})
	assertVec3InDelta(t, mathutil.Vec3{10, -20, 29}, mathutil.Vec3{p[0], p[1], p[2]}, tol)
	assert.InDelta(t, 1.0, p[3], tol)
}

func TestViewTransformBasis(t *testing.T) {
	s := FrameState{
		ViewerPosition: mathutil.Vec3{0, 0, 5},
		ViewerTarget:   mathutil.Vec3{0, 0, 0},
	}
	v := ComputeViewTransform(s)

	want := mathutil.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, -5,
		0, 0, 0, 1,
	}
	assertMat4InDelta(t, want, v, tol)

	eye := v.MulPoint(s.ViewerPosition)
	assertVec3InDelta(t, mathutil.Vec3{}, mathutil.Vec3{eye[0], eye[1], eye[2]}, tol)
	assert.InDelta(t, 1.0, eye[3], tol)
}

func TestViewTransformTargetOnNegativeZ(t *testing.T) {
	s := FrameState{
		ViewerPosition: mathutil.Vec3{3, 4, -7},
		ViewerTarget:   mathutil.Vec3{-2, 1, 6},
	}
	v := ComputeViewTransform(s)

	dist := s.ViewerPosition.Sub(s.ViewerTarget).Len()
	p := v.MulPoint(s.ViewerTarget)
	assertVec3InDelta(t, mathutil.Vec3{0, 0, -dist}, mathutil.Vec3{p[0], p[1], p[2]}, tol)

	// Rows of the rotation part are orthonormal.
	for i := 0; i < 3; i++ {
		ri := v.Row(i)
		a := mathutil.Vec3{ri[0], ri[1], ri[2]}
		assert.InDelta(t, 1.0, a.Len(), tol)
		for j := i + 1; j < 3; j++ {
			rj := v.Row(j)
			assert.InDelta(t, 0.0, a.Dot(mathutil.Vec3{rj[0], rj[1], rj[2]}), tol)
		}
	}
}

func TestViewTransformDegenerate(t *testing.T) {
	same := FrameState{ViewerPosition: mathutil.Vec3{1, 2, 3}, ViewerTarget: mathutil.Vec3{1, 2, 3}}
	assert.False(t, ComputeViewTransform(same).IsFinite())

	vertical := FrameState{ViewerPosition: mathutil.Vec3{0, 10, 0}}
	assert.False(t, ComputeViewTransform(vertical).IsFinite())
}

func TestPerspectiveClosedForm(t *testing.T) {
	l, r, top, b, n, f := -1.0, 1.0, 1.0, -1.0, 1.0, 100.0
	m := ComputePerspectiveTransform(l, r, top, b, n, f)

	want := mathutil.Mat4{
		2 * n / (r - l), 0, (r + l) / (r - l), 0,
		0, 2 * n / (top - b), (top + b) / (top - b), 0,
		0, 0, -(f + n) / (f - n), -2 * f * n / (f - n),
		0, 0, -1, 0,
	}
	assertMat4InDelta(t, want, m, 1e-12)

	assert.InDelta(t, 1.0, m.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0, m.At(1, 1), 1e-12)
	assert.InDelta(t, -101.0/99.0, m.At(2, 2), 1e-12)
	assert.InDelta(t, -200.0/99.0, m.At(2, 3), 1e-12)
	assert.Equal(t, -1.0, m.At(3, 2))
	assert.Equal(t, 0.0, m.At(3, 3))
}

func TestPerspectiveFrustumBoundary(t *testing.T) {
	l, r, top, b, n, f := -2.0, 3.0, 1.5, -0.5, 2.0, 50.0
	m := ComputePerspectiveTransform(l, r, top, b, n, f)
	k := f / n

	tests := []struct {
		name  string
		point mathutil.Vec3
		want  mathutil.Vec3
	}{
		{"near right top", mathutil.Vec3{r, top, -n}, mathutil.Vec3{1, 1, -1}},
		{"near left bottom", mathutil.Vec3{l, b, -n}, mathutil.Vec3{-1, -1, -1}},
		{"far right bottom", mathutil.Vec3{r * k, b * k, -f}, mathutil.Vec3{1, -1, 1}},
		{"far left top", mathutil.Vec3{l * k, top * k, -f}, mathutil.Vec3{-1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ndc := m.MulPoint(tt.point).PerspectiveDivide()
			assertVec3InDelta(t, tt.want, ndc, 1e-9)
		})
	}
}

func TestOrthographicNearCorner(t *testing.T) {
	m := ComputeOrthographicTransform(-1, 1, 1, -1, 1, 100)

	p := m.MulPoint(mathutil.Vec3{-1, 1, -1})
	assert.InDelta(t, 1.0, p[3], tol)
	assertVec3InDelta(t, mathutil.Vec3{-1, 1, -1}, mathutil.Vec3{p[0], p[1], p[2]}, tol)

	p = m.MulPoint(mathutil.Vec3{1, -1, -100})
	assertVec3InDelta(t, mathutil.Vec3{1, -1, 1}, mathutil.Vec3{p[0], p[1], p[2]}, tol)

	assert.Equal(t, [4]float64{0, 0, 0, 1}, m.Row(3))
}

func TestProjectionDegenerateFrustum(t *testing.T) {
	assert.False(t, ComputePerspectiveTransform(1, 1, 1, -1, 1, 100).IsFinite())
	assert.False(t, ComputeOrthographicTransform(-1, 1, 1, 1, 1, 100).IsFinite())
	assert.False(t, ComputeOrthographicTransform(-1, 1, 1, -1, 5, 5).IsFinite())
}

func TestNewEngineIdentity(t *testing.T) {
	e := New(testDisplay)
	assert.True(t, isIdentity(e.Model()))
	assert.True(t, isIdentity(e.View()))
	assert.True(t, isIdentity(e.Projection()))
	assert.Equal(t, testDisplay, e.Display())
}

func TestFrustumScaling(t *testing.T) {
	e := New(testDisplay)

	// 800 px * 0.5 / 2 = 200; 600 px * 0.5 / 2 = 150.
	assert.Equal(t, Frustum{Left: -200, Right: 200, Top: 150, Bottom: -150}, e.OrthographicFrustum())

	f := e.PerspectiveFrustum(10)
	assert.InDelta(t, 4.0, f.Right, tol)
	assert.InDelta(t, -4.0, f.Left, tol)
	assert.InDelta(t, 3.0, f.Top, tol)
	assert.InDelta(t, -3.0, f.Bottom, tol)
}

func TestUpdateTopViewIgnoresViewer(t *testing.T) {
	e := New(testDisplay)

	for _, eye := range []mathutil.Vec3{{0, 0, 800}, {-50, 300, 12}, {5, 5, 5}} {
		s := baseState()
		s.TopView = true
		s.ViewerPosition = eye
		s.ViewerTarget = mathutil.Vec3{1, 2, 3}
		e.Update(s)
		assert.Equal(t, TopViewMatrix, e.View())
	}
}

func TestUpdateTopViewFixedClipPlanes(t *testing.T) {
	e := New(testDisplay)
	s := baseState()
	s.TopView = true
	s.ClipNear = 10
	s.ClipFar = 20
	s.PerspectiveMat = false
	e.Update(s)

	f := e.PerspectiveFrustum(10)
	want := ComputePerspectiveTransform(f.Left, f.Right, f.Top, f.Bottom, TopViewNear, TopViewFar)
	assert.Equal(t, want, e.Projection())
	assert.Equal(t, [4]float64{0, 0, -1, 0}, e.Projection().Row(3))
}

func TestUpdateProjectionToggle(t *testing.T) {
	e := New(testDisplay)
	s := baseState()

	e.Update(s)
	persp := e.Projection()
	assert.Equal(t, [4]float64{0, 0, -1, 0}, persp.Row(3))
	f := e.PerspectiveFrustum(s.ClipNear)
	assert.Equal(t, ComputePerspectiveTransform(f.Left, f.Right, f.Top, f.Bottom, s.ClipNear, s.ClipFar), persp)

	s.PerspectiveMat = false
	e.Update(s)
	ortho := e.Projection()
	assert.Equal(t, [4]float64{0, 0, 0, 1}, ortho.Row(3))
	f = e.OrthographicFrustum()
	assert.Equal(t, ComputeOrthographicTransform(f.Left, f.Right, f.Top, f.Bottom, s.ClipNear, s.ClipFar), ortho)
}

func TestUpdateOverwrites(t *testing.T) {
	e := New(testDisplay)
	s := baseState()
	s.ModelTranslation = mathutil.Vec3{1, 2, 3}
	s.ModelRotation = mathutil.Vec3{10, 20, 0}
	e.Update(s)

	assert.Equal(t, ComputeModelTransform(s), e.Model())
	assert.Equal(t, ComputeViewTransform(s), e.View())

	s = baseState()
	e.Update(s)
	assert.True(t, isIdentity(e.Model()))
}

func TestMVPCentreMapsToOrigin(t *testing.T) {
	e := New(testDisplay)
	e.Update(baseState())

	mvp := e.MVP()
	require.True(t, mvp.IsFinite())
	ndc := mvp.MulPoint(mathutil.Vec3{}).PerspectiveDivide()
	assert.InDelta(t, 0.0, ndc[0], tol)
	assert.InDelta(t, 0.0, ndc[1], tol)
	assert.True(t, ndc[2] > -1 && ndc[2] < 1, "depth %v outside clip volume", ndc[2])
}

func TestUpdateDegenerateStatePropagatesNaN(t *testing.T) {
	e := New(testDisplay)
	s := baseState()
	s.ViewerTarget = s.ViewerPosition
	e.Update(s)
	assert.False(t, e.View().IsFinite())
	assert.True(t, e.Projection().IsFinite())
}

func TestMode(t *testing.T) {
	assert.Equal(t, ModePerspective, FrameState{PerspectiveMat: true}.Mode())
	assert.Equal(t, ModeOrthographic, FrameState{}.Mode())
	assert.Equal(t, ModeTopView, FrameState{TopView: true}.Mode())
	assert.Equal(t, ModeTopView, FrameState{TopView: true, PerspectiveMat: true}.Mode())
	assert.Equal(t, "orthographic", ModeOrthographic.String())
	assert.Equal(t, "top", ModeTopView.String())
}
