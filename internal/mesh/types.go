package mesh

import (
	"math"

	"mvp-renderer/internal/mathutil"
)

// Tri is one triangle: VI indexes Verts, TI indexes UVs.
type Tri struct {
	VI [3]int
	TI [3]int
}

// Mesh is an indexed triangle list in object space.
type Mesh struct {
	Name    string
	Verts   []mathutil.Vec3
	UVs     [][2]float64
	Tris    []Tri
	TexName string
}

// Bounds returns the axis-aligned bounding box of the vertices.
// An empty mesh returns +Inf/-Inf bounds.
func (m Mesh) Bounds() (min, max mathutil.Vec3) {
	min = mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range m.Verts {
		for k := 0; k < 3; k++ {
			if v[k] < min[k] {
				min[k] = v[k]
			}
			if v[k] > max[k] {
				max[k] = v[k]
			}
		}
	}
	return min, max
}
