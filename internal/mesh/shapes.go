package mesh

import "mvp-renderer/internal/mathutil"

// cube faces: outward normal axis, then the two in-plane axes (u, v).
var cubeFaces = [6][3]mathutil.Vec3{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

var quadUVs = [4][2]float64{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

// Cube returns an axis-aligned cube of edge length size centred at the origin,
// four vertices per face so every face carries a full [0,1] UV square.
func Cube(size float64) Mesh {
	h := size / 2
	m := Mesh{
		Name:  "cube",
		Verts: make([]mathutil.Vec3, 0, 24),
		UVs:   make([][2]float64, 0, 4),
		Tris:  make([]Tri, 0, 12),
	}
	m.UVs = append(m.UVs, quadUVs[:]...)

	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		c := n.Scale(h)
		base := len(m.Verts)
		m.Verts = append(m.Verts,
			c.Sub(u.Scale(h)).Sub(v.Scale(h)),
			c.Add(u.Scale(h)).Sub(v.Scale(h)),
			c.Add(u.Scale(h)).Add(v.Scale(h)),
			c.Sub(u.Scale(h)).Add(v.Scale(h)),
		)
		m.Tris = append(m.Tris,
			Tri{VI: [3]int{base, base + 1, base + 2}, TI: [3]int{0, 1, 2}},
			Tri{VI: [3]int{base, base + 2, base + 3}, TI: [3]int{0, 2, 3}},
		)
	}
	return m
}

// Grid returns a flat square on the XZ plane (y = 0) of edge length size,
// split into cells×cells quads.
func Grid(size float64, cells int) Mesh {
	if cells < 1 {
		cells = 1
	}
	m := Mesh{Name: "grid"}
	step := size / float64(cells)
	h := size / 2

	for j := 0; j <= cells; j++ {
		for i := 0; i <= cells; i++ {
			m.Verts = append(m.Verts, mathutil.Vec3{-h + float64(i)*step, 0, -h + float64(j)*step})
			m.UVs = append(m.UVs, [2]float64{float64(i) / float64(cells), float64(j) / float64(cells)})
		}
	}

	row := cells + 1
	for j := 0; j < cells; j++ {
		for i := 0; i < cells; i++ {
			a := j*row + i
			b := a + 1
			c := a + row + 1
			d := a + row
			m.Tris = append(m.Tris,
				Tri{VI: [3]int{a, d, c}, TI: [3]int{a, d, c}},
				Tri{VI: [3]int{a, c, b}, TI: [3]int{a, c, b}},
			)
		}
	}
	return m
}
