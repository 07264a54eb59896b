package mesh

import (
	"math"

	"github.com/chanzylazer/voronoi3d/predicate"
)

// voronoiFace holds the per-neighbor quantities accumulated while
// walking the ring of tetrahedra around one Delaunay edge (v,w).
//
// unclosed is set when the ring walk hit a dead end (or an undefined
// circumcenter) and the face geometry could not be measured at all;
// touchesUniverse is set when the ring closed but passed through a
// tetrahedron incident to a bootstrap corner, meaning the face extends
// out to the universe's (finite but enormous) circumcenters and its
// area/volume contribution is dominated by the bootstrap extent rather
// than the local site geometry.
type voronoiFace struct {
	neighbor        vertRef
	tetNum          int
	area            float64
	dis             float64
	unclosed        bool
	touchesUniverse bool
}

// computeStats derives every Voronoi-cell quantity for vr and stores it
// in the vertex's cache under the builder's current check stamp.
func (b *Builder) computeStats(vr vertRef) {
	vtx := &b.verts[vr]
	if vtx.statStamp == b.check && vtx.hint != noTet {
		return
	}

	start := vtx.hint
	if start == noTet || !b.tets[start].live || b.tets[start].vertexOrdinal(vr) < 0 {
		start = b.findIncidentTet(vr)
		vtx.hint = start
	}

	incidentTets, edgeSeeds := b.neighborhood(vr, start)

	faces := make([]voronoiFace, 0, len(edgeSeeds))
	for _, es := range edgeSeeds {
		faces = append(faces, b.edgeFace(vr, es.neighbor, es.tet))
	}

	var surface float64
	for _, f := range faces {
		if !f.unclosed {
			surface += f.area
		}
	}

	areaThresh := func(f voronoiFace) bool {
		if b.areaAbsActive {
			return f.area > b.areaThresholdAbs
		}
		return f.area > b.areaThresholdRel*surface
	}

	stats := cellStats{index: make([]int, b.indexLength)}
	var volume float64
	neighborVerts := make([]vertRef, 0, len(faces))
	neighborTets := make([]tetRef, 0, len(incidentTets))
	neighborTets = append(neighborTets, incidentTets...)

	for _, f := range faces {
		if f.unclosed {
			stats.incomplete = true
			if !b.noWarn {
				b.warnf("vertex %v: Voronoi face toward a neighbor could not be closed, skipped", vr)
			}
			continue
		}
		if f.touchesUniverse {
			stats.incomplete = true
		}
		volume += f.area * f.dis / 6
		if areaThresh(f) {
			stats.coordination++
			neighborVerts = append(neighborVerts, f.neighbor)
			bucket := f.tetNum
			if bucket > b.indexLength {
				bucket = b.indexLength
				if !b.noWarn {
					b.warnf("vertex %v: Voronoi face ring length %d exceeds indexLength %d, clamped", vr, f.tetNum, b.indexLength)
				}
			}
			if bucket < 1 {
				bucket = 1
			}
			stats.index[bucket-1]++
		}
	}

	stats.surfaceArea = surface
	stats.atomicVolume = volume
	stats.neighborVertex = neighborVerts
	stats.neighborTet = neighborTets
	stats.cavityRadius = b.cavityRadius(vr, incidentTets)

	vtx.stats = stats
	vtx.statStamp = b.check
}

// findIncidentTet scans the arena for any live tetrahedron containing
// vr. Only used when a vertex's cached hint has gone stale without ever
// being refreshed by a flip, which should not happen in normal
// operation but is handled defensively.
func (b *Builder) findIncidentTet(vr vertRef) tetRef {
	for i := range b.tets {
		if b.tets[i].live && b.tets[i].vertexOrdinal(vr) >= 0 {
			return tetRef(i)
		}
	}
	b.invariantf("vertex %v has no incident live tetrahedron", vr)
	return noTet
}

// edgeSeed names one candidate neighbor site and a tetrahedron incident
// to the Delaunay edge toward it, from which the edge's ring walk
// starts.
type edgeSeed struct {
	neighbor vertRef
	tet      tetRef
}

// neighborhood performs a DFS from start through face-neighbors,
// visiting every live tetrahedron incident to vr. It returns every such
// tetrahedron and, for each candidate neighbor site found (the non-vr,
// non-universe corners), one seed tetrahedron to start that edge's ring
// walk from. Seeds come back in DFS discovery order, which is a
// function of the mesh alone, so statistics derived from them are
// reproducible run to run.
func (b *Builder) neighborhood(vr vertRef, start tetRef) ([]tetRef, []edgeSeed) {
	visited := map[tetRef]bool{}
	seen := map[vertRef]bool{}
	var seeds []edgeSeed
	var incident []tetRef

	stack := []tetRef{start}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[t] || !b.tets[t].live {
			continue
		}
		visited[t] = true
		tt := &b.tets[t]
		if tt.vertexOrdinal(vr) < 0 {
			continue
		}
		incident = append(incident, t)

		for _, w := range tt.v {
			if w == vr {
				continue
			}
			if b.verts[w].universe {
				continue
			}
			if !seen[w] {
				seen[w] = true
				seeds = append(seeds, edgeSeed{neighbor: w, tet: t})
			}
		}
		for _, n := range tt.n {
			if n != noTet && !visited[n] {
				stack = append(stack, n)
			}
		}
	}
	return incident, seeds
}

// edgeFace walks the ring of tetrahedra around Delaunay edge (vr,w)
// starting from seed, accumulating the Voronoi face quantities between
// sites vr and w. Ring tetrahedra incident to a bootstrap corner still
// contribute their circumcenters - finite, far outside the working
// domain - so boundary cells come out huge but measurable rather than
// being dropped; the face is only skipped outright when the ring cannot
// close or a circumcenter is undefined.
func (b *Builder) edgeFace(vr, w vertRef, seed tetRef) voronoiFace {
	ring, closed := b.edgeRing(vr, w, seed)
	vp := b.vert(vr)
	wp := b.vert(w)
	dis := math.Hypot(math.Hypot(vp.X-wp.X, vp.Y-wp.Y), vp.Z-wp.Z)

	if !closed {
		return voronoiFace{neighbor: w, dis: dis, unclosed: true}
	}

	touches := false
	centers := make([]Vec, 0, len(ring))
	for _, t := range ring {
		if b.touchesUniverse(t) {
			touches = true
		}
		c, ok := b.tetCenter(t)
		if !ok {
			return voronoiFace{neighbor: w, dis: dis, unclosed: true}
		}
		centers = append(centers, c)
	}

	kept := b.collapseShortEdges(centers, dis)
	area := fanArea(kept)

	return voronoiFace{neighbor: w, tetNum: len(kept), area: area, dis: dis, touchesUniverse: touches}
}

// touchesUniverse reports whether t has a bootstrap corner among its
// vertices.
func (b *Builder) touchesUniverse(t tetRef) bool {
	for _, vr := range b.tets[t].v {
		if b.verts[vr].universe {
			return true
		}
	}
	return false
}

// collapseShortEdges drops a trailing polygon vertex whenever the edge
// to it from the last kept vertex is shorter than the active length
// threshold (relative to |V-W|, or absolute).
func (b *Builder) collapseShortEdges(centers []Vec, edgeLen float64) []Vec {
	if len(centers) == 0 {
		return centers
	}
	kept := centers[:1:1]
	for i := 1; i < len(centers); i++ {
		last := kept[len(kept)-1]
		d := dist(last, centers[i])
		var thresh float64
		if b.lengthAbsActive {
			thresh = b.lengthThresholdAbs
		} else {
			thresh = b.lengthThresholdRel * edgeLen
		}
		if d < thresh {
			continue
		}
		kept = append(kept, centers[i])
	}
	return kept
}

func fanArea(poly []Vec) float64 {
	if len(poly) < 3 {
		return 0
	}
	var total float64
	for i := 1; i < len(poly)-1; i++ {
		total += predicate.Area(poly[0], poly[i], poly[i+1])
	}
	return total
}

func dist(a, b Vec) float64 {
	return math.Hypot(math.Hypot(a.X-b.X, a.Y-b.Y), a.Z-b.Z)
}

// edgeRing walks around Delaunay edge (v,w) starting at seed, returning
// the cyclic sequence of incident tetrahedra and whether the walk
// closed back on itself (false means it hit a dead end - an
// incomplete cell).
func (b *Builder) edgeRing(v, w vertRef, seed tetRef) ([]tetRef, bool) {
	const safety = 1 << 16
	ring := []tetRef{seed}
	prev := noTet
	cur := seed
	for {
		next, ok := b.nextAroundEdge(v, w, cur, prev)
		if !ok {
			return ring, false
		}
		if next == seed {
			return ring, true
		}
		prev = cur
		cur = next
		ring = append(ring, cur)
		if len(ring) > safety {
			return ring, false
		}
	}
}

// nextAroundEdge returns the tetrahedron opposite prev in the ring of
// tetrahedra sharing edge (v,w) and containing cur, i.e.
// getNeighbor(V,W,prev).
func (b *Builder) nextAroundEdge(v, w vertRef, cur, prev tetRef) (tetRef, bool) {
	tt := &b.tets[cur]
	var others [2]int
	idx := 0
	for i, x := range tt.v {
		if x != v && x != w {
			others[idx] = i
			idx++
		}
	}
	c1 := tt.n[others[0]]
	c2 := tt.n[others[1]]
	switch {
	case prev == noTet:
		if c1 != noTet {
			return c1, true
		}
		return c2, c2 != noTet
	case c1 == prev:
		return c2, c2 != noTet
	case c2 == prev:
		return c1, c1 != noTet
	default:
		return noTet, false
	}
}

// tetCenter returns the circumcenter of t, or ok=false only when the
// four corners are coplanar and no circumcenter exists. Tetrahedra
// incident to a bootstrap corner get a real (far-away) circumcenter
// here; callers that must not see those use interiorTetCenter instead.
func (b *Builder) tetCenter(t tetRef) (Vec, bool) {
	tt := &b.tets[t]
	if tt.centerOK {
		return tt.center, true
	}
	a, bb, c, d := b.vert(tt.v[OrdA]), b.vert(tt.v[OrdB]), b.vert(tt.v[OrdC]), b.vert(tt.v[OrdD])
	center, ok := predicate.CenterSphere(b.scratch, a, bb, c, d)
	if ok {
		tt.center, tt.centerOK = center, true
	}
	return center, ok
}

// interiorTetCenter is tetCenter restricted to tetrahedra whose corners
// are all real sites; a tetrahedron touching the bootstrap universe
// reports ok=false.
func (b *Builder) interiorTetCenter(t tetRef) (Vec, bool) {
	if b.touchesUniverse(t) {
		return Vec{}, false
	}
	return b.tetCenter(t)
}

// cavityRadius returns the distance from vr to the farthest circumcenter
// among its incident interior tetrahedra; tetrahedra touching the
// bootstrap universe are excluded so a boundary site's radius reflects
// its real local cavity rather than the bootstrap extent.
func (b *Builder) cavityRadius(vr vertRef, incident []tetRef) float64 {
	p := b.vert(vr)
	var maxR float64
	for _, t := range incident {
		c, ok := b.interiorTetCenter(t)
		if !ok {
			continue
		}
		if d := dist(p, c); d > maxR {
			maxR = d
		}
	}
	return maxR
}
