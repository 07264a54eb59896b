package mesh

import (
	"fmt"
	"math/rand"

	"github.com/chanzylazer/voronoi3d/index"
	"github.com/chanzylazer/voronoi3d/internal/diag"
	"github.com/chanzylazer/voronoi3d/predicate"
)

// universeExtent places the four bootstrap corners far enough outside
// any realistic working domain that every real insertion lies strictly
// inside the initial mesh. The corner directions are asymmetric, which
// does not keep inserted points off every plane through two corners:
// corners 0 and 3 both lie on the plane y = x/2, which holds the z axis.
const universeExtent = 2 * (1 << 30)

// Builder incrementally maintains the Delaunay tetrahedralization of an
// inserted point set and derives per-site Voronoi statistics on demand.
// A Builder is owned by exactly one goroutine; distinct
// Builders are fully independent.
type Builder struct {
	tets  []tetrahedron
	verts []vertex

	freeTets  []tetRef
	freeVerts []vertRef

	last  tetRef
	check uint64

	rng     *rand.Rand
	scratch *predicate.Scratch
	sink    diag.Sink

	order []vertRef // insertion order, universe corners excluded

	accel *index.Accelerator // optional; nil means "seed from b.last only"

	areaThresholdRel    float64
	areaThresholdAbs    float64
	areaAbsActive       bool
	lengthThresholdRel  float64
	lengthThresholdAbs  float64
	lengthAbsActive     bool
	indexLength         int
	noWarn              bool
}

// New returns a Builder driven by a default RNG with the fixed seed 1.
func New() *Builder {
	return NewSeeded(rand.New(rand.NewSource(1)))
}

// NewSeeded returns a Builder driven by an explicit RNG, required for
// reproducible insertion sequences.
func NewSeeded(rng *rand.Rand) *Builder {
	b := &Builder{
		rng:         rng,
		scratch:     predicate.NewScratch(),
		sink:        diag.Stderr(),
		indexLength: 9,
		last:        noTet,
	}
	b.bootstrap()
	return b
}

// bootstrap creates the single "universe" tetrahedron every real
// insertion will be located inside.
func (b *Builder) bootstrap() {
	e := float64(universeExtent)
	corners := [4]Vec{
		{-e, -e * 0.5, -e * 0.25},
		{e * 1.5, -e * 0.75, -e * 0.125},
		{0, e * 1.25, -e * 0.625},
		{e * 0.25, e * 0.125, e * 1.75},
	}
	vr := [4]vertRef{}
	for i, c := range corners {
		vr[i] = b.allocVertex(c, true)
	}
	t := b.allocTet(vr[0], vr[1], vr[2], vr[3])
	// Self-orient: swap the last two corners if the bootstrap tet
	// happens to come out negatively oriented for this extent choice.
	if predicate.LeftOfPlane(b.scratch, corners[0], corners[1], corners[2], corners[3]) < 0 {
		b.tets[t].v[OrdC], b.tets[t].v[OrdD] = b.tets[t].v[OrdD], b.tets[t].v[OrdC]
	}
	b.tets[t].n = [4]tetRef{noTet, noTet, noTet, noTet}
	b.last = t
	for _, v := range vr {
		b.verts[v].hint = t
	}
}

// vert returns the coordinates of a vertex reference.
func (b *Builder) vert(vr vertRef) Vec { return b.verts[vr].p }

func (b *Builder) allocVertex(p Vec, universe bool) vertRef {
	if n := len(b.freeVerts); n > 0 {
		vr := b.freeVerts[n-1]
		b.freeVerts = b.freeVerts[:n-1]
		b.verts[vr] = vertex{p: p, hint: noTet, universe: universe}
		return vr
	}
	b.verts = append(b.verts, vertex{p: p, hint: noTet, universe: universe})
	return vertRef(len(b.verts) - 1)
}

func (b *Builder) allocTet(a, bb, c, d vertRef) tetRef {
	nt := tetrahedron{v: [4]vertRef{a, bb, c, d}, n: [4]tetRef{noTet, noTet, noTet, noTet}, live: true}
	if n := len(b.freeTets); n > 0 {
		tr := b.freeTets[n-1]
		b.freeTets = b.freeTets[:n-1]
		b.tets[tr] = nt
		return tr
	}
	b.tets = append(b.tets, nt)
	return tetRef(len(b.tets) - 1)
}

// freeTet marks a tetrahedron dead and releases its slot for reuse.
// Callers must have already repatched every live reference to it.
func (b *Builder) freeTet(t tetRef) {
	b.tets[t].live = false
	b.freeTets = append(b.freeTets, t)
}

// patch sets t's neighbor at ordinal f to n, and if n is live, sets n's
// reciprocal neighbor back to t - maintaining the adjacency invariant
// in one call. The reciprocal ordinal on n is found by
// matching vertex identity (the ordinal of the one vertex of n that is
// not among t's face-f vertices), not by any prior neighbor pointer, so
// patch works whether or not n already knew about t.
func (b *Builder) patch(t tetRef, f int, n tetRef) {
	b.tets[t].n[f] = n
	if n == noTet {
		return
	}
	face := ringTable[f]
	tv := b.tets[t].v
	faceVerts := [3]vertRef{tv[face[0]], tv[face[1]], tv[face[2]]}

	nt := &b.tets[n]
	for i := 0; i < 4; i++ {
		if nt.v[i] != faceVerts[0] && nt.v[i] != faceVerts[1] && nt.v[i] != faceVerts[2] {
			nt.n[i] = t
			return
		}
	}
	b.invariantf("patch: %v shares no face with its claimed neighbor", t)
}

// newOrientedTet allocates a tetrahedron from four vertex references,
// swapping the last two if the natural order is negatively oriented so
// every constructed tetrahedron satisfies the orientation invariant
// by construction rather than by a per-flip sign proof.
func (b *Builder) newOrientedTet(v0, v1, v2, v3 vertRef) tetRef {
	p0, p1, p2, p3 := b.vert(v0), b.vert(v1), b.vert(v2), b.vert(v3)
	if predicate.LeftOfPlane(b.scratch, p0, p1, p2, p3) < 0 {
		v2, v3 = v3, v2
	}
	return b.allocTet(v0, v1, v2, v3)
}

// bumpCheck advances the epoch counter that invalidates cached
// statistics after any structural mutation.
func (b *Builder) bumpCheck() {
	b.check++
}

//-----------------------------------------------------------------------------
// Configuration

// AreaThreshold sets a coordination-area cutoff relative to a site's
// total Voronoi surface area; it disables AreaThresholdAbs.
func (b *Builder) AreaThreshold(r float64) *Builder {
	b.areaThresholdRel = r
	b.areaAbsActive = false
	return b
}

// AreaThresholdAbs sets an absolute coordination-area cutoff; it
// disables AreaThreshold.
func (b *Builder) AreaThresholdAbs(a float64) *Builder {
	b.areaThresholdAbs = a
	b.areaAbsActive = true
	return b
}

// LengthThreshold sets a Voronoi-ring edge-collapse cutoff relative to
// |V-W|; it disables LengthThresholdAbs.
func (b *Builder) LengthThreshold(r float64) *Builder {
	b.lengthThresholdRel = r
	b.lengthAbsActive = false
	return b
}

// LengthThresholdAbs sets an absolute edge-collapse cutoff; it disables
// LengthThreshold.
func (b *Builder) LengthThresholdAbs(a float64) *Builder {
	b.lengthThresholdAbs = a
	b.lengthAbsActive = true
	return b
}

// IndexLength sets the Voronoi-index histogram bucket count (L >= 1,
// default 9).
func (b *Builder) IndexLength(l int) *Builder {
	if l < 1 {
		l = 1
	}
	b.indexLength = l
	return b
}

// NoWarning suppresses diagnostic output for incomplete Voronoi cells
// and out-of-range histogram indices.
func (b *Builder) NoWarning(flag bool) *Builder {
	b.noWarn = flag
	return b
}

// Sink installs a custom diagnostic sink, replacing the default
// stderr writer.
func (b *Builder) Sink(s diag.Sink) *Builder {
	b.sink = s
	return b
}

// UseAccelerator turns on (or off) nearest-site seeding for the
// point-location walk. With it enabled, InsertVec starts its walk from
// the tetrahedron hinted by the nearest already-inserted site rather
// than always from the tetrahedron touched by the previous insertion,
// which keeps the walk short for insertion orders that jump around the
// domain instead of sweeping through it.
func (b *Builder) UseAccelerator(on bool) *Builder {
	if on && b.accel == nil {
		b.accel = index.New()
		for _, vr := range b.order {
			p := b.vert(vr)
			b.accel.Insert([3]float64{p.X, p.Y, p.Z}, int32(vr))
		}
	} else if !on {
		b.accel = nil
	}
	return b
}

// locateSeed returns the tetrahedron to start the next location walk
// from: the accelerator's nearest-site hint when enabled, else b.last.
func (b *Builder) locateSeed(p Vec) tetRef {
	if b.accel == nil {
		return b.last
	}
	hint, ok := b.accel.Nearest([3]float64{p.X, p.Y, p.Z})
	if !ok {
		return b.last
	}
	if t := b.verts[vertRef(hint)].hint; t != noTet && b.tets[t].live {
		return t
	}
	return b.last
}

func (b *Builder) warnf(format string, args ...interface{}) {
	if b.noWarn {
		return
	}
	b.sink.Warnf(format, args...)
}

func (b *Builder) invariantf(format string, args ...interface{}) {
	panic(fmt.Sprintf("mesh: invariant violation: "+format, args...))
}

//-----------------------------------------------------------------------------
// Query surface

// SizeVertex returns the number of real (non-universe) inserted
// vertices.
func (b *Builder) SizeVertex() int { return len(b.order) }

// GetVertex returns the handle for the i-th inserted vertex, in
// insertion order.
func (b *Builder) GetVertex(i int) *VertexView {
	return &VertexView{b: b, ref: b.order[i]}
}

// AllVertex returns handles for every inserted vertex, in insertion
// order.
func (b *Builder) AllVertex() []*VertexView {
	out := make([]*VertexView, len(b.order))
	for i, vr := range b.order {
		out[i] = &VertexView{b: b, ref: vr}
	}
	return out
}

// GetTetrahedron returns a handle onto the builder's current
// walk-hint tetrahedron (the last one produced by insertion or flip),
// a cheap entry point for callers who want to traverse the mesh
// themselves via TetView.NeighborTetrahedron rather than materializing
// AllTetrahedron.
func (b *Builder) GetTetrahedron() *TetView {
	return &TetView{b: b, ref: b.last}
}

// AllTetrahedron returns handles for every live tetrahedron, including
// the ones still incident to universe corners.
func (b *Builder) AllTetrahedron() []*TetView {
	out := make([]*TetView, 0, len(b.tets))
	for i := range b.tets {
		if b.tets[i].live {
			out = append(out, &TetView{b: b, ref: tetRef(i)})
		}
	}
	return out
}
