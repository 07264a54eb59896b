// Package index provides an optional spatial accelerator that seeds the
// mesh builder's point-location walk from the nearest previously
// inserted site instead of always walking from the last one, which
// matters once the mesh has enough points that "last" and "next" can be
// far apart. It wraps an R-tree for nearest-neighbor lookups.
package index

import "github.com/dhconnelly/rtreego"

const (
	dim         = 3
	minChildren = 2
	maxChildren = 5
)

// site is the Spatial payload stored in the tree: a near-degenerate
// box around p, carrying the caller's opaque hint.
type site struct {
	p    rtreego.Point
	hint int32
}

func (s *site) Bounds() *rtreego.Rect {
	return s.p.ToRect(1e-9)
}

// Accelerator is a nearest-neighbor index over inserted sites, keyed by
// position, each carrying an int32 hint (the mesh builder stores a
// vertex reference there).
type Accelerator struct {
	tree *rtreego.Rtree
	n    int
}

// New returns an empty Accelerator.
func New() *Accelerator {
	return &Accelerator{tree: rtreego.NewTree(dim, minChildren, maxChildren)}
}

// Insert records p with the given hint.
func (a *Accelerator) Insert(p [3]float64, hint int32) {
	a.tree.Insert(&site{p: rtreego.Point{p[0], p[1], p[2]}, hint: hint})
	a.n++
}

// Nearest returns the hint of the closest recorded site to p, or
// ok=false if the accelerator is empty.
func (a *Accelerator) Nearest(p [3]float64) (hint int32, ok bool) {
	if a.n == 0 {
		return 0, false
	}
	q := rtreego.Point{p[0], p[1], p[2]}
	nearest := a.tree.NearestNeighbor(q)
	if nearest == nil {
		return 0, false
	}
	return nearest.(*site).hint, true
}

// Len returns the number of recorded sites.
func (a *Accelerator) Len() int { return a.n }
