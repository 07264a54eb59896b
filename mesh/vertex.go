package mesh

// vertex is a 3D point plus a back-reference to one adjacent
// tetrahedron, used to seed traversals, and a lazily-computed Voronoi
// statistics cache.
//
// Invariant: if hint is live, it contains this vertex as one of its
// four corners. Whenever a flip invalidates hint, the operation that
// discovers a replacement incident tetrahedron refreshes it (flip.go).
type vertex struct {
	p         Vec
	hint      tetRef
	universe  bool // one of the four bootstrap corners, never a real site
	statStamp uint64
	stats     cellStats
}

// cellStats holds the per-vertex Voronoi-cell quantities derived by
// voronoi.go; statStamp above says whether this copy is fresh relative
// to Builder.check.
type cellStats struct {
	neighborVertex []vertRef
	neighborTet    []tetRef
	coordination   int
	surfaceArea    float64
	atomicVolume   float64
	cavityRadius   float64
	index          []int
	incomplete     bool
}
