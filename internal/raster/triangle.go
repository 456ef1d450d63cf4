package raster

import (
	"image"
	"math"
)

// Surface describes how a triangle is coloured.
type Surface struct {
	Tex      *image.NRGBA // nil: use Base
	UVs      [][2]float64
	InvW     []float64 // per-vertex 1/w indexed like px; nil: affine UVs
	Base     [4]uint8
	Shade    float64 // flat lighting scalar for the face
	Lighting *LightConfig
}

// RasterizeTriangle rasterizes one screen-space triangle with texture mapping
// and a z-buffer. Larger pz is nearer.
//
// This is the HOT PATH and does not allocate in the pixel loop.
func RasterizeTriangle(fb *FrameBuffer, px, py, pz []float64, vi, ti [3]int, s *Surface) {
	nv := len(px)
	for _, i := range vi {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[vi[0]], py[vi[0]], pz[vi[0]]
	x1, y1, z1 := px[vi[1]], py[vi[1]], pz[vi[1]]
	x2, y2, z2 := px[vi[2]], py[vi[2]], pz[vi[2]]

	hasUV := s.Tex != nil
	for _, i := range ti {
		if i < 0 || i >= len(s.UVs) {
			hasUV = false
			break
		}
	}

	// UVs are interpolated as u/w, v/w and 1/w, which are linear in screen space.
	q0, q1, q2 := 1.0, 1.0, 1.0
	if len(s.InvW) == nv {
		q0, q1, q2 = s.InvW[vi[0]], s.InvW[vi[1]], s.InvW[vi[2]]
	}

	var u0, v0, u1, v1, u2, v2 float64
	if hasUV {
		u0, v0 = s.UVs[ti[0]][0]*q0, s.UVs[ti[0]][1]*q0
		u1, v1 = s.UVs[ti[1]][0]*q1, s.UVs[ti[1]][1]*q1
		u2, v2 = s.UVs[ti[2]][0]*q2, s.UVs[ti[2]][1]*q2
	}

	// Bounding box clipped to the framebuffer
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	// Pixel centres
	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			cr, cg, cb, ca := s.Base[0], s.Base[1], s.Base[2], s.Base[3]
			if hasUV {
				q := w0*q0 + w1*q1 + w2*q2
				cr, cg, cb, ca = SampleTexture(s.Tex, (w0*u0+w1*u1+w2*u2)/q, (w0*v0+w1*v1+w2*v2)/q)
			}

			// Skip transparent texels
			if ca < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			if s.Lighting != nil {
				cr, cg, cb = s.Lighting.shadeTexel(cr, cg, cb, s.Shade)
			}
			fb.Color[pxIdx] = cr
			fb.Color[pxIdx+1] = cg
			fb.Color[pxIdx+2] = cb
			fb.Color[pxIdx+3] = ca
		}
	}
}
