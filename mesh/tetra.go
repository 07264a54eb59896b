// Package mesh implements the incremental 3D Delaunay tetrahedralization
// builder: point location, 1->4 vertex insertion, the 2->3/3->2 bistellar
// flip cascade, and on-demand per-vertex Voronoi statistics.
//
// The mesh is a cyclic graph of tetrahedron records referring to vertex
// records and to each other. Rather than an owned pointer graph, both
// are held in arenas (builder.go) with stable int32 indices, so freed
// slots can be reused after their last live reference is repatched.
package mesh

import "github.com/chanzylazer/voronoi3d/predicate"

// Vec is the point/vector value used by the mesh, re-exported from the
// predicate package so callers never need to import it directly.
type Vec = predicate.Vec

// Ordinal positions of a tetrahedron's four vertices/neighbors. Neighbor
// at ordinal X is the tetrahedron sharing the face opposite vertex X.
const (
	OrdA = 0
	OrdB = 1
	OrdC = 2
	OrdD = 3
)

// vertRef indexes Builder.verts; -1 means "no vertex".
type vertRef int32

// tetRef indexes Builder.tets; -1 means "no tetrahedron".
type tetRef int32

const (
	noVert vertRef = -1
	noTet  tetRef  = -1
)

// tetrahedron is four vertex references in ordinal positions A,B,C,D and
// four face-neighbor references, where neighbor[x] is the tetrahedron
// across the face opposite vertex x (or noTet at the mesh boundary,
// i.e. on the outer faces of the bootstrap universe tetrahedron).
//
// Orientation invariant: leftOfPlane(v[A],v[B],v[C],v[D]) > 0.
type tetrahedron struct {
	v        [4]vertRef
	n        [4]tetRef
	live     bool
	centerOK bool
	center   Vec
}

// ordinalOf returns the ordinal at which other is this tetrahedron's
// neighbor, or -1 if other is not a neighbor. Panics (invariant
// violation) if called on a dead tetrahedron.
func (t *tetrahedron) ordinalOf(other tetRef) int {
	if !t.live {
		panic("mesh: ordinalOf on dead tetrahedron")
	}
	for i, nb := range t.n {
		if nb == other {
			return i
		}
	}
	return -1
}

// vertexOrdinal returns the ordinal of vr among this tetrahedron's
// vertices, or -1 if vr is not one of them.
func (t *tetrahedron) vertexOrdinal(vr vertRef) int {
	for i, v := range t.v {
		if v == vr {
			return i
		}
	}
	return -1
}

// ringTable[f] lists, for the face opposite ordinal f, the three
// remaining vertex ordinals in the cyclic order that is clockwise as
// seen from the incident vertex f itself - equivalently, leftOfPlane applied
// to the ring followed by vertex f is always positive. A query point is
// outside this face exactly when leftOfPlane of the ring followed by
// the point is negative (locate.go). A fixed constant table derived
// once from the orientation invariant rather than recomputed per call.
var ringTable = [4][3]int{
	{OrdB, OrdD, OrdC}, // face opposite A
	{OrdA, OrdC, OrdD}, // face opposite B
	{OrdA, OrdD, OrdB}, // face opposite C
	{OrdA, OrdB, OrdC}, // face opposite D
}
