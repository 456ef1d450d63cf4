package mathutil

import (
	"math"

	"github.com/zooyer/golib/xmath"
)

// Mat4 is a 4×4 matrix stored row-major: [r0c0, r0c1, r0c2, r0c3, r1c0, ...].
// Vectors are columns, so a point transforms as M × v.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// At returns the element at row r, column c.
func (m Mat4) At(r, c int) float64 {
	return m[r*4+c]
}

// Row returns row r.
func (m Mat4) Row(r int) [4]float64 {
	return [4]float64{m[r*4], m[r*4+1], m[r*4+2], m[r*4+3]}
}

// MulVec4 returns M × v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3]*v[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7]*v[3],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11]*v[3],
		m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]*v[3],
	}
}

// MulPoint transforms a 3D point (w=1) and keeps the homogeneous result.
func (m Mat4) MulPoint(v Vec3) Vec4 {
	return m.MulVec4(Vec4{v[0], v[1], v[2], 1})
}

// IsFinite reports whether no element is NaN or ±Inf.
func (m Mat4) IsFinite() bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ApproxEqual compares element-wise within eps.
func (m Mat4) ApproxEqual(n Mat4, eps float64) bool {
	for i := range m {
		if !xmath.Equal(m[i], n[i], eps) {
			return false
		}
	}
	return true
}
