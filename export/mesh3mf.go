package export

import (
	"os"

	"github.com/hpinc/go3mf"
)

// WriteMesh3MF writes the union of every live interior tetrahedron's
// (those not incident to a bootstrap universe corner) four triangular
// faces as a single 3MF mesh object - a solid (if
// non-manifold, since interior faces are shared by two tetrahedra and
// therefore doubled) suitable for loading into a slicer or CAD viewer
// that wants to see the tessellation as printable geometry.
func WriteMesh3MF(path string, src MeshSource) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	m := new(go3mf.Mesh)

	lookup := map[[3]float64]uint32{}
	addVertex := func(p [3]float64) uint32 {
		if id, ok := lookup[p]; ok {
			return id
		}
		id := uint32(len(m.Vertices.Vertex))
		m.Vertices.Vertex = append(m.Vertices.Vertex, go3mf.Point3D{float32(p[0]), float32(p[1]), float32(p[2])})
		lookup[p] = id
		return id
	}

	type face struct{ a, b, c int }
	faces := [4]face{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}

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
		for _, fc := range faces {
			ia := addVertex(pts[fc.a])
			ib := addVertex(pts[fc.b])
			ic := addVertex(pts[fc.c])
			m.Triangles.Triangle = append(m.Triangles.Triangle, go3mf.Triangle{V1: ia, V2: ib, V3: ic})
		}
	}

	model := new(go3mf.Model)
	obj := &go3mf.Object{ID: 1, Mesh: m}
	model.Resources.Objects = append(model.Resources.Objects, obj)
	model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: obj.ID})

	enc := go3mf.NewEncoder(f)
	return enc.Encode(model)
}
