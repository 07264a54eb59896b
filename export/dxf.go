package export

import (
	"github.com/yofu/dxf"
)

// WriteDXF writes every live interior tetrahedron's six edges (those
// not incident to a bootstrap universe corner) as 3D LINE entities on
// an "edges" layer and every vertex as a POINT on a "sites" layer, for
// inspection in any CAD viewer.
func WriteDXF(path string, src MeshSource) error {
	d := dxf.NewDrawing()
	d.AddLayer("edges", dxf.DefaultColor, dxf.DefaultLineType, true)
	d.AddLayer("sites", dxf.DefaultColor, dxf.DefaultLineType, true)
	d.ChangeLayer("edges")

	type edge struct{ a, b int }
	edges := [6]edge{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}

	seen := map[[6]float64]bool{}
	for _, t := range src.AllTetrahedron() {
		if !t.Live() {
			continue
		}
		if _, ok := t.CenterSphere(); !ok {
			continue // touches a bootstrap universe corner
		}
		corners := t.NeighborVertex()
		var pts [4][3]float64
		for i, c := range corners {
			pts[i] = [3]float64{c.X(), c.Y(), c.Z()}
		}
		for _, e := range edges {
			a, b := pts[e.a], pts[e.b]
			key := [6]float64{a[0], a[1], a[2], b[0], b[1], b[2]}
			rev := [6]float64{b[0], b[1], b[2], a[0], a[1], a[2]}
			if seen[key] || seen[rev] {
				continue
			}
			seen[key] = true
			d.Line(a[0], a[1], a[2], b[0], b[1], b[2])
		}
	}

	d.ChangeLayer("sites")
	for _, v := range src.AllVertex() {
		d.Point(v.X(), v.Y(), v.Z())
	}

	return d.SaveAs(path)
}
