package mesh

import "github.com/chanzylazer/voronoi3d/predicate"

// permTable[entryFace] lists the six permutations of {0,1,2} used to
// pick the order in which the three non-entry faces of a tetrahedron
// are tested during the location walk, so the entry face (the one just
// crossed from) is never re-tested and no permutation is biased toward
// always trying the same face first.
var permTable = [4][6][3]int{}

func init() {
	perms := [6][3]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2},
		{1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	for entry := 0; entry < 4; entry++ {
		others := make([]int, 0, 3)
		for f := 0; f < 4; f++ {
			if f != entry {
				others = append(others, f)
			}
		}
		for p, perm := range perms {
			permTable[entry][p] = [3]int{others[perm[0]], others[perm[1]], others[perm[2]]}
		}
	}
}

// locate walks from start to the tetrahedron strictly enclosing p. At
// each step after the first it tests the three non-entry faces (in one
// of six permutation orders chosen uniformly at random, so the walk
// cannot cycle on degenerate configurations) and crosses to the first
// face whose outward orientation places p outside the current
// tetrahedron. The very first tetrahedron wasn't entered by crossing
// any face - start may be an arbitrary hint (b.last, or the
// accelerator's nearest-site guess) - so all four of its faces are
// tested instead of excluding one.
func (b *Builder) locate(p Vec, start tetRef) tetRef {
	cur := start
	entry := -1 // no face has been crossed yet
	for {
		t := &b.tets[cur]
		var order []int
		if entry < 0 {
			order = []int{0, 1, 2, 3}
		} else {
			perm := permTable[entry][b.rng.Intn(6)]
			order = perm[:]
		}
		moved := false
		for _, f := range order {
			if b.outside(cur, f, p) {
				next := t.n[f]
				if next == noTet {
					// Only the universe boundary has no neighbor, and
					// the universe is built large enough that no real
					// insertion ever reaches it.
					b.invariantf("locate walked off the mesh")
				}
				entry = b.tets[next].ordinalOf(cur)
				cur = next
				moved = true
				break
			}
		}
		if !moved {
			return cur
		}
	}
}

// outside reports whether p lies outside tetrahedron t across face f,
// i.e. on the opposite side from the tetrahedron's interior.
func (b *Builder) outside(t tetRef, f int, p Vec) bool {
	tt := &b.tets[t]
	face := ringTable[f]
	a := b.vert(tt.v[face[0]])
	c := b.vert(tt.v[face[1]])
	d := b.vert(tt.v[face[2]])
	// leftOfPlane(ring..., t's own vertex f) is always positive by
	// construction (ringTable's orientation); p is outside this face
	// when it falls on the opposite, negative side of that same plane.
	return predicate.LeftOfPlane(b.scratch, a, c, d, p) < 0
}
