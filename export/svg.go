// Package export renders a built mesh to diagnostic external formats:
// an SVG or rasterized PNG cross-section slice, a DXF wireframe, and a
// 3MF solid mesh.
package export

import (
	"io"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/chanzylazer/voronoi3d/mesh"
)

// MeshSource is the read surface export needs from a built mesh; it is
// satisfied by *mesh.Builder.
type MeshSource interface {
	AllTetrahedron() []*mesh.TetView
	AllVertex() []*mesh.VertexView
}

// segment is one Delaunay edge clipped against a Z slice plane, in
// slice-plane (X,Y) coordinates.
type segment struct {
	x1, y1, x2, y2 float64
}

// sliceSegments collects every tetrahedron edge that crosses plane
// z=zSlice, linearly interpolating the crossing point. Degenerate
// tetrahedra entirely on one side of the plane contribute nothing.
func sliceSegments(src MeshSource, zSlice float64) []segment {
	type edge struct{ a, b int }
	edges := [6]edge{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}

	var segs []segment
	seen := map[[2]float64]bool{}
	for _, t := range src.AllTetrahedron() {
		if !t.Live() {
			continue
		}
		if _, ok := t.CenterSphere(); !ok {
			// Touches a bootstrap universe corner; its coordinates are
			// far outside the real domain and would swamp the slice.
			continue
		}
		corners := t.NeighborVertex()
		var pts [4][3]float64
		for i, c := range corners {
			pts[i] = [3]float64{c.X(), c.Y(), c.Z()}
		}
		var cross [][2]float64
		for _, e := range edges {
			pa, pb := pts[e.a], pts[e.b]
			da, db := pa[2]-zSlice, pb[2]-zSlice
			if (da > 0) == (db > 0) {
				continue
			}
			if da == db {
				continue
			}
			frac := da / (da - db)
			x := pa[0] + frac*(pb[0]-pa[0])
			y := pa[1] + frac*(pb[1]-pa[1])
			cross = append(cross, [2]float64{x, y})
		}
		if len(cross) != 2 {
			continue
		}
		key := [2]float64{cross[0][0] + cross[1][0], cross[0][1] + cross[1][1]}
		if seen[key] {
			continue
		}
		seen[key] = true
		segs = append(segs, segment{cross[0][0], cross[0][1], cross[1][0], cross[1][1]})
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i].x1 < segs[j].x1 })
	return segs
}

// WriteSVGSlice renders the cross-section of the mesh at z=zSlice as an
// SVG line drawing scaled into a width x height viewport, plus a dot for
// every site in the slice plane.
func WriteSVGSlice(w io.Writer, src MeshSource, zSlice float64, width, height int) {
	canvas := svg.New(w)
	canvas.Start(width, height)
	defer canvas.End()

	segs := sliceSegments(src, zSlice)
	minX, minY, maxX, maxY := bounds(segs)
	sx, sy, ox, oy := fitTransform(minX, minY, maxX, maxY, width, height)

	canvas.Rect(0, 0, width, height, "fill:white")
	for _, s := range segs {
		x1, y1 := sx*s.x1+ox, sy*s.y1+oy
		x2, y2 := sx*s.x2+ox, sy*s.y2+oy
		canvas.Line(int(x1), int(y1), int(x2), int(y2), "stroke:black;stroke-width:1")
	}
	for _, v := range src.AllVertex() {
		if abs(v.Z()-zSlice) > 1e-6 {
			continue
		}
		x, y := sx*v.X()+ox, sy*v.Y()+oy
		canvas.Circle(int(x), int(y), 2, "fill:red")
	}
}

func bounds(segs []segment) (minX, minY, maxX, maxY float64) {
	if len(segs) == 0 {
		return -1, -1, 1, 1
	}
	minX, minY = segs[0].x1, segs[0].y1
	maxX, maxY = segs[0].x1, segs[0].y1
	for _, s := range segs {
		for _, p := range [2][2]float64{{s.x1, s.y1}, {s.x2, s.y2}} {
			if p[0] < minX {
				minX = p[0]
			}
			if p[0] > maxX {
				maxX = p[0]
			}
			if p[1] < minY {
				minY = p[1]
			}
			if p[1] > maxY {
				maxY = p[1]
			}
		}
	}
	return
}

// fitTransform returns the scale/offset that maps [minX,maxX]x[minY,maxY]
// into a width x height viewport with a 5% margin, Y flipped since SVG
// grows downward.
func fitTransform(minX, minY, maxX, maxY float64, width, height int) (sx, sy, ox, oy float64) {
	const margin = 0.9
	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	sx = margin * float64(width) / spanX
	sy = -margin * float64(height) / spanY
	ox = float64(width)*(1-margin)/2 - sx*minX
	oy = float64(height)*(1+margin)/2 - sy*minY
	return
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
