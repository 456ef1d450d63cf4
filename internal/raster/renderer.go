package raster

import (
	"image"

	"mvp-renderer/internal/mathutil"
	"mvp-renderer/internal/mesh"
	"mvp-renderer/internal/texture"
	"mvp-renderer/internal/transform"
)

// Options controls one RenderFrame call.
type Options struct {
	Width, Height int
	Textures      texture.Resolver // may be nil
	Fallback      *image.NRGBA     // used when a mesh texture does not resolve; may be nil
	Lighting      *LightConfig     // nil: DefaultLightConfig
}

// Stats counts what happened to the triangles of one frame.
type Stats struct {
	Triangles int
	Drawn     int
	Clipped   int // rejected because a vertex left the clip volume
}

// RenderFrame draws meshes with the engine's current matrices into a new
// transparent NRGBA image. Triangles with any vertex outside the clip volume
// are dropped whole; there is no polygon clipping.
func RenderFrame(eng *transform.Engine, meshes []mesh.Mesh, opt Options) (*image.NRGBA, Stats) {
	fb := NewFrameBuffer(opt.Width, opt.Height)
	vp := Viewport{Width: opt.Width, Height: opt.Height}

	lc := opt.Lighting
	if lc == nil {
		def := DefaultLightConfig()
		lc = &def
	}

	model := eng.Model()
	mvp := eng.MVP()

	var st Stats
	for _, m := range meshes {
		if len(m.Verts) == 0 {
			continue
		}
		proj := ProjectVertices(mvp, m.Verts, vp)

		world := make([]mathutil.Vec3, len(m.Verts))
		for i, v := range m.Verts {
			p := model.MulPoint(v)
			world[i] = mathutil.Vec3{p[0], p[1], p[2]}
		}

		s := Surface{
			UVs:      m.UVs,
			InvW:     proj.InvW,
			Base:     [4]uint8{160, 160, 170, 255},
			Lighting: lc,
		}
		if opt.Textures != nil && m.TexName != "" {
			s.Tex = opt.Textures.Resolve(m.TexName)
		}
		if s.Tex == nil {
			s.Tex = opt.Fallback
		}

		for _, tri := range m.Tris {
			st.Triangles++
			if !visible(proj.OK, tri.VI) {
				st.Clipped++
				continue
			}
			a, b, c := world[tri.VI[0]], world[tri.VI[1]], world[tri.VI[2]]
			n := b.Sub(a).Cross(c.Sub(a))
			if n.Len() < 1e-12 {
				continue
			}
			s.Shade = lc.ComputeShade(n.Normalize())
			RasterizeTriangle(fb, proj.X, proj.Y, proj.Z, tri.VI, tri.TI, &s)
			st.Drawn++
		}
	}

	return fb.Image(), st
}

func visible(ok []bool, vi [3]int) bool {
	for _, i := range vi {
		if i < 0 || i >= len(ok) || !ok[i] {
			return false
		}
	}
	return true
}
