package mesh

import "github.com/chanzylazer/voronoi3d/predicate"

// orientedFace is a transient (tetrahedron, face ordinal) view: it
// derives the adjacent tetrahedron, its opposing vertex, and the three
// ring vertices of the face without allocating - a small value type
// passed by value rather than heap-allocated.
type orientedFace struct {
	b *Builder
	t tetRef
	f int
}

func (b *Builder) face(t tetRef, f int) orientedFace {
	return orientedFace{b: b, t: t, f: f}
}

func (of orientedFace) tet() *tetrahedron { return &of.b.tets[of.t] }

// incidentVertex is the vertex this face is opposite, i.e. T.vertex(f).
func (of orientedFace) incidentVertex() vertRef {
	return of.tet().v[of.f]
}

// adjacent returns the neighbor tetrahedron across this face, or noTet
// if there is none.
func (of orientedFace) adjacent() tetRef {
	return of.tet().n[of.f]
}

// adjacentVertex returns the vertex of the neighbor tetrahedron opposite
// the shared face, or noVert if there is no neighbor.
func (of orientedFace) adjacentVertex() vertRef {
	n := of.adjacent()
	if n == noTet {
		return noVert
	}
	nt := &of.b.tets[n]
	ord := nt.ordinalOf(of.t)
	if ord < 0 {
		panic("mesh: adjacency invariant broken")
	}
	return nt.v[ord]
}

// getVertex returns the i-th ring vertex (i in 0..2), in the cyclic
// order that is clockwise as seen from the incident tetrahedron's side
// (LeftOfPlane of the ring followed by the incident vertex is positive).
func (of orientedFace) getVertex(i int) vertRef {
	return of.tet().v[ringTable[of.f][i]]
}

// ring returns all three ring vertices at once.
func (of orientedFace) ring() [3]vertRef {
	return [3]vertRef{of.getVertex(0), of.getVertex(1), of.getVertex(2)}
}

// notRegular is true when the adjacent vertex lies strictly inside the
// circumsphere of the incident tetrahedron - i.e. this face currently
// violates the Delaunay property and must be flipped away.
func (of orientedFace) notRegular() bool {
	adj := of.adjacentVertex()
	if adj == noVert {
		return false
	}
	t := of.tet()
	b := of.b
	a, bb, c, d := b.vert(t.v[OrdA]), b.vert(t.v[OrdB]), b.vert(t.v[OrdC]), b.vert(t.v[OrdD])
	e := b.vert(adj)
	return predicate.InSphere(b.scratch, a, bb, c, d, e) > 0
}

// isReflex tests the ring edge opposite ring vertex i, i.e. the hinge
// between ring[(i+1)%3] and ring[(i+2)%3]: it is reflex when the
// adjacent vertex lies on the opposite side of the plane through
// (incident, ring[i+1], ring[i+2]) from ring[i], or on that plane,
// meaning the reconstructed bipyramid {incident, ring..., adjacent} is concave
// across that hinge and a 2->3 flip cannot make this face simplicial.
// The indexing matches flip32: a reflex at i names ring[i] as the
// flip's axis vertex, and the shared third tetrahedron sits across the
// face opposite ring[i].
func (of orientedFace) isReflex(i int) bool {
	b := of.b
	ring := of.ring()
	j := (i + 1) % 3
	k := (i + 2) % 3

	incident := b.vert(of.incidentVertex())
	adjacent := b.vert(of.adjacentVertex())
	ri, rj, rk := b.vert(ring[i]), b.vert(ring[j]), b.vert(ring[k])

	s1 := predicate.LeftOfPlane(b.scratch, incident, rj, rk, adjacent)
	s2 := predicate.LeftOfPlane(b.scratch, incident, rj, rk, ri)
	if s1 == 0 {
		return true
	}
	return (s1 > 0) != (s2 > 0)
}
