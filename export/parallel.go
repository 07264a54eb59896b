package export

import (
	"runtime"
	"sort"
	"sync"

	"github.com/chanzylazer/voronoi3d/mesh"
)

// tetBatch is one unit of parallel work: compute the cross-section
// segment (if any) for each tetrahedron in tets, writing results into
// the corresponding slot of out (nil where the tetrahedron does not
// cross the slice plane or touches the bootstrap universe).
//
// This mirrors the teacher's render/march3.go evalRoutines pattern
// (a bounded pool of goroutines draining a work channel, one
// *sync.WaitGroup per submitted batch) generalized from per-point SDF
// evaluation to per-tetrahedron slice-segment extraction.
type tetBatch struct {
	tets   []*mesh.TetView
	zSlice float64
	out    []*segment
	wg     *sync.WaitGroup
}

var tetBatchCh = make(chan tetBatch, 64)
var tetRoutinesOnce sync.Once

// tetRoutines lazily starts runtime.NumCPU() worker goroutines draining
// tetBatchCh, exactly as evalRoutines starts one per CPU draining
// evalProcessCh. Started once per process on first use rather than per
// call, since the workers simply idle on an empty channel otherwise.
func tetRoutines() {
	tetRoutinesOnce.Do(func() {
		for i := 0; i < runtime.NumCPU(); i++ {
			go func() {
				for b := range tetBatchCh {
					for i, t := range b.tets {
						b.out[i] = tetSegment(t, b.zSlice)
					}
					b.wg.Done()
				}
			}()
		}
	})
}

// parallelSliceSegments is sliceSegments' concurrent counterpart: it
// fans the live, non-universe tetrahedra out across tetRoutines'
// worker pool in fixed-size batches and collects the per-tetrahedron
// segments, deduplicating shared interior edges exactly as
// sliceSegments does.
//
// Safe to call from export's own goroutines, since it only reads from
// src (a built, read-only mesh.Builder) and never mutates it.
func parallelSliceSegments(src MeshSource, zSlice float64) []segment {
	tetRoutines()

	all := src.AllTetrahedron()
	var live []*mesh.TetView
	for _, t := range all {
		if !t.Live() {
			continue
		}
		if _, ok := t.CenterSphere(); !ok {
			continue
		}
		live = append(live, t)
	}
	if len(live) == 0 {
		return nil
	}

	const batchSize = 256
	results := make([]*segment, len(live))
	var wg sync.WaitGroup
	for start := 0; start < len(live); start += batchSize {
		end := start + batchSize
		if end > len(live) {
			end = len(live)
		}
		wg.Add(1)
		tetBatchCh <- tetBatch{tets: live[start:end], zSlice: zSlice, out: results[start:end], wg: &wg}
	}
	wg.Wait()

	seen := map[[2]float64]bool{}
	var segs []segment
	for _, s := range results {
		if s == nil {
			continue
		}
		key := [2]float64{s.x1 + s.x2, s.y1 + s.y2}
		if seen[key] {
			continue
		}
		seen[key] = true
		segs = append(segs, *s)
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i].x1 < segs[j].x1 })
	return segs
}

// tetSegment computes the single cross-section segment where t's six
// edges cross plane z=zSlice, or nil if it doesn't cross in exactly two
// places (the non-degenerate case for a tetrahedron properly straddling
// the plane).
func tetSegment(t *mesh.TetView, zSlice float64) *segment {
	edges := [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	corners := t.NeighborVertex()
	var pts [4][3]float64
	for i, c := range corners {
		pts[i] = [3]float64{c.X(), c.Y(), c.Z()}
	}
	var cross [][2]float64
	for _, e := range edges {
		pa, pb := pts[e[0]], pts[e[1]]
		da, db := pa[2]-zSlice, pb[2]-zSlice
		if (da > 0) == (db > 0) || da == db {
			continue
		}
		frac := da / (da - db)
		x := pa[0] + frac*(pb[0]-pa[0])
		y := pa[1] + frac*(pb[1]-pa[1])
		cross = append(cross, [2]float64{x, y})
	}
	if len(cross) != 2 {
		return nil
	}
	return &segment{cross[0][0], cross[0][1], cross[1][0], cross[1][1]}
}
