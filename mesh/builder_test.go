package mesh

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chanzylazer/voronoi3d/predicate"
)

func insertAll(t *testing.T, b *Builder, pts [][3]float64) {
	t.Helper()
	for i, p := range pts {
		if _, err := b.Insert(p[0], p[1], p[2]); err != nil {
			t.Fatalf("insert %d %v: %v", i, p, err)
		}
	}
}

// liveTets returns every live tetrahedron reference in the arena.
func liveTets(b *Builder) []tetRef {
	var out []tetRef
	for i := range b.tets {
		if b.tets[i].live {
			out = append(out, tetRef(i))
		}
	}
	return out
}

func TestSingleInsertionProducesFourTets(t *testing.T) {
	b := New()
	idx, err := b.Insert(0.1, 0.2, 0.3)
	require.NoError(t, err)
	require.Equal(t, 0, idx)
	require.Equal(t, 1, b.SizeVertex())

	live := liveTets(b)
	require.Len(t, live, 4, "1->4 flip should leave exactly four tetrahedra")

	v := b.GetVertex(0)
	require.Equal(t, 0.1, v.X())
	require.Equal(t, 0.2, v.Y())
	require.Equal(t, 0.3, v.Z())
}

func TestOrientationInvariantHolds(t *testing.T) {
	b := New()
	insertAll(t, b, cubeCorners())
	requireOrientationInvariant(t, b)
}

func requireOrientationInvariant(t *testing.T, b *Builder) {
	t.Helper()
	for _, tr := range liveTets(b) {
		tt := &b.tets[tr]
		a, bb, c, d := b.vert(tt.v[OrdA]), b.vert(tt.v[OrdB]), b.vert(tt.v[OrdC]), b.vert(tt.v[OrdD])
		if got := predicate.LeftOfPlane(b.scratch, a, bb, c, d); got <= 0 {
			t.Fatalf("tetrahedron %d violates orientation invariant: LeftOfPlane = %v", tr, got)
		}
	}
}

func TestMutualAdjacencyInvariantHolds(t *testing.T) {
	b := New()
	insertAll(t, b, cubeCorners())
	requireMutualAdjacency(t, b)
}

func requireMutualAdjacency(t *testing.T, b *Builder) {
	t.Helper()
	for _, tr := range liveTets(b) {
		tt := &b.tets[tr]
		for f, n := range tt.n {
			if n == noTet {
				for _, k := range ringTable[f] {
					require.True(t, b.verts[tt.v[k]].universe, "tetrahedron %d face %d has no neighbor but is not a bootstrap hull face", tr, f)
				}
				continue
			}
			nt := &b.tets[n]
			require.True(t, nt.live, "neighbor %d of %d is dead", n, tr)
			ord := nt.ordinalOf(tr)
			require.GreaterOrEqual(t, ord, 0, "neighbor %d does not reciprocate adjacency to %d", n, tr)
		}
	}
}

func TestDelaunayInvariantHolds(t *testing.T) {
	b := New()
	insertAll(t, b, cubeCorners())
	requireDelaunay(t, b)
}

// requireDelaunay checks, for every live tetrahedron, that its
// circumsphere contains no real (non-universe) vertex other than its
// own four corners - the global empty-circumsphere property restated
// per-tetrahedron.
func requireDelaunay(t *testing.T, b *Builder) {
	t.Helper()
	for _, tr := range liveTets(b) {
		tt := &b.tets[tr]
		a, bb, c, d := b.vert(tt.v[OrdA]), b.vert(tt.v[OrdB]), b.vert(tt.v[OrdC]), b.vert(tt.v[OrdD])
		for _, vr := range b.order {
			if vr == tt.v[OrdA] || vr == tt.v[OrdB] || vr == tt.v[OrdC] || vr == tt.v[OrdD] {
				continue
			}
			e := b.vert(vr)
			got := predicate.InSphere(b.scratch, a, bb, c, d, e)
			require.LessOrEqual(t, got, 0.0, "vertex %d strictly inside circumsphere of tetrahedron %d", vr, tr)
		}
	}
}

func TestCubeCornersFullInvariantSuite(t *testing.T) {
	b := New()
	insertAll(t, b, cubeCorners())
	require.Equal(t, 8, b.SizeVertex())
	requireOrientationInvariant(t, b)
	requireMutualAdjacency(t, b)
	requireDelaunay(t, b)
}

func TestCospherishFivePoints(t *testing.T) {
	// Five vertices of an octahedron: all five lie on the unit sphere
	// about the origin, a classic near-degenerate cosphericality stress
	// case.
	b := New()
	insertAll(t, b, [][3]float64{
		{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1},
	})
	requireOrientationInvariant(t, b)
	requireMutualAdjacency(t, b)
}

func TestNearlyCollinearInsertion(t *testing.T) {
	b := New()
	insertAll(t, b, [][3]float64{
		{0, 0, 0}, {1, 1e-12, 0}, {2, -1e-12, 0}, {1, 0, 1},
	})
	requireOrientationInvariant(t, b)
	requireMutualAdjacency(t, b)
}

func TestInsertRejectsExactDuplicate(t *testing.T) {
	b := New()
	_, err := b.Insert(1, 2, 3)
	require.NoError(t, err)
	_, err = b.Insert(1, 2, 3)
	require.Error(t, err)
}

func TestInsertionOrderIsPreserved(t *testing.T) {
	b := New()
	pts := cubeCorners()
	insertAll(t, b, pts)
	for i, p := range pts {
		v := b.GetVertex(i)
		require.Equal(t, p[0], v.X())
		require.Equal(t, p[1], v.Y())
		require.Equal(t, p[2], v.Z())
	}
}

func TestReproducibleWithFixedSeed(t *testing.T) {
	pts := randomPoints(40, 7)

	b1 := NewSeeded(rand.New(rand.NewSource(42)))
	insertAll(t, b1, pts)
	b2 := NewSeeded(rand.New(rand.NewSource(42)))
	insertAll(t, b2, pts)

	require.Equal(t, tetSignature(b1), tetSignature(b2))
}

// tetSignature reduces a built mesh to a comparable fingerprint: each
// live tetrahedron's corner coordinates, in arena order. Two builds
// from the same seed and insertion sequence allocate identically, so
// the arenas line up slot for slot.
func tetSignature(b *Builder) [][4][3]float64 {
	var sigs [][4][3]float64
	for _, tr := range liveTets(b) {
		tt := &b.tets[tr]
		var corners [4][3]float64
		for i, vr := range tt.v {
			p := b.vert(vr)
			corners[i] = [3]float64{p.X, p.Y, p.Z}
		}
		sigs = append(sigs, corners)
	}
	return sigs
}

func cubeCorners() [][3]float64 {
	var pts [][3]float64
	for _, x := range []float64{0, 1} {
		for _, y := range []float64{0, 1} {
			for _, z := range []float64{0, 1} {
				pts = append(pts, [3]float64{x, y, z})
			}
		}
	}
	return pts
}

func randomPoints(n int, seed int64) [][3]float64 {
	rng := rand.New(rand.NewSource(seed))
	pts := make([][3]float64, n)
	for i := range pts {
		pts[i] = [3]float64{rng.Float64() * 10, rng.Float64() * 10, rng.Float64() * 10}
	}
	return pts
}
