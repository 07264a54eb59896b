package mesh

import "fmt"

// Insert adds a new site at (x,y,z) and returns its insertion index
// (same as SizeVertex()-1 afterward), or an error if the point
// coincides exactly with an existing vertex.
func (b *Builder) Insert(x, y, z float64) (int, error) {
	return b.InsertVec(Vec{x, y, z})
}

// InsertVec is Insert taking a Vec directly.
//
// An exact duplicate of an existing vertex is rejected with an error
// rather than perturbed silently (DESIGN.md), since a silent perturbation would make insertion
// non-reproducible even under a fixed RNG seed.
func (b *Builder) InsertVec(p Vec) (int, error) {
	b.bumpCheck()

	start := b.locateSeed(p)
	t := b.locate(p, start)
	if b.coincidesWithCorner(t, p) {
		return -1, fmt.Errorf("mesh: insert: point %v coincides with an existing vertex", p)
	}

	v := b.allocVertex(p, false)
	faces := b.insertOneToFour(t, v)

	stack := append([]orientedFaceRef(nil), faces...)
	var lastTet tetRef = noTet
	for len(stack) > 0 {
		ref := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !b.tets[ref.t].live {
			continue
		}
		newFaces, flipped := b.tryFlip(ref, v)
		if flipped {
			stack = append(stack, newFaces...)
			if len(newFaces) > 0 {
				lastTet = newFaces[0].t
			}
		}
	}

	if lastTet != noTet && b.tets[lastTet].live {
		b.last = lastTet
	} else if h := b.verts[v].hint; h != noTet && b.tets[h].live {
		b.last = h
	} else {
		b.last = b.findIncidentTet(v)
		b.verts[v].hint = b.last
	}

	b.order = append(b.order, v)
	if b.accel != nil {
		b.accel.Insert([3]float64{p.X, p.Y, p.Z}, int32(v))
	}
	return len(b.order) - 1, nil
}

// coincidesWithCorner reports whether p is bit-identical to one of the
// four corners of the tetrahedron it would be inserted into - the only
// cheap, exact check available without a full mesh-wide lookup, and
// sufficient given the bootstrap universe guarantees every real point
// lies strictly inside a single tetrahedron whose corners are either
// the universe or previously inserted sites.
func (b *Builder) coincidesWithCorner(t tetRef, p Vec) bool {
	for _, vr := range b.tets[t].v {
		q := b.verts[vr].p
		if q.X == p.X && q.Y == p.Y && q.Z == p.Z {
			return true
		}
	}
	return false
}
