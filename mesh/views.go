package mesh

// VertexView is a read handle onto one inserted site and its derived
// Voronoi cell. Statistics are computed lazily on first access and
// cached until the next structural mutation of the owning Builder.
type VertexView struct {
	b   *Builder
	ref vertRef
}

// Coordinates returns the site's position.
func (v *VertexView) Coordinates() Vec { return v.b.vert(v.ref) }

func (v *VertexView) X() float64 { return v.Coordinates().X }
func (v *VertexView) Y() float64 { return v.Coordinates().Y }
func (v *VertexView) Z() float64 { return v.Coordinates().Z }

func (v *VertexView) ensure() cellStats {
	v.b.computeStats(v.ref)
	return v.b.verts[v.ref].stats
}

// Coordination is the number of Voronoi faces whose area passes the
// active area threshold.
func (v *VertexView) Coordination() int { return v.ensure().coordination }

// SurfaceArea is the total area of this site's Voronoi cell, including
// faces below the coordination threshold.
func (v *VertexView) SurfaceArea() float64 { return v.ensure().surfaceArea }

// AtomicVolume is the sum of pyramid volumes from the site to each of
// its Voronoi faces.
func (v *VertexView) AtomicVolume() float64 { return v.ensure().atomicVolume }

// CavityRadius is the distance from the site to the farthest
// circumcenter among its incident tetrahedra, leaving out those that
// touch a bootstrap universe corner.
func (v *VertexView) CavityRadius() float64 { return v.ensure().cavityRadius }

// Index returns the Voronoi-index histogram: bucket i holds the number
// of counted faces whose ring has i+1 tetrahedra (the last bucket
// absorbs any ring longer than IndexLength).
func (v *VertexView) Index() []int {
	s := v.ensure()
	out := make([]int, len(s.index))
	copy(out, s.index)
	return out
}

// Incomplete reports whether this cell touches the bootstrap universe -
// at least one of its Voronoi faces either extends out to the bootstrap
// circumcenters or could not be closed at all - so its area and volume
// are dominated by the bootstrap extent rather than the local geometry.
func (v *VertexView) Incomplete() bool { return v.ensure().incomplete }

// NeighborVertex returns the views of every site across a counted
// Voronoi face.
func (v *VertexView) NeighborVertex() []*VertexView {
	s := v.ensure()
	out := make([]*VertexView, len(s.neighborVertex))
	for i, ref := range s.neighborVertex {
		out[i] = &VertexView{b: v.b, ref: ref}
	}
	return out
}

// NeighborTetrahedron returns the views of every live tetrahedron
// incident to this site.
func (v *VertexView) NeighborTetrahedron() []*TetView {
	s := v.ensure()
	out := make([]*TetView, len(s.neighborTet))
	for i, ref := range s.neighborTet {
		out[i] = &TetView{b: v.b, ref: ref}
	}
	return out
}

// TetView is a read handle onto one live tetrahedron.
type TetView struct {
	b   *Builder
	ref tetRef
}

// Live reports whether this tetrahedron is still part of the mesh; a
// handle retained across a mutation can go stale.
func (t *TetView) Live() bool { return t.b.tets[t.ref].live }

// CenterSphere returns the tetrahedron's circumcenter, or ok=false if
// it is incident to a bootstrap universe corner.
func (t *TetView) CenterSphere() (Vec, bool) {
	return t.b.interiorTetCenter(t.ref)
}

// NeighborVertex returns the views of the four corner vertices, in
// ordinal order A,B,C,D.
func (t *TetView) NeighborVertex() [4]*VertexView {
	tt := &t.b.tets[t.ref]
	var out [4]*VertexView
	for i, vr := range tt.v {
		out[i] = &VertexView{b: t.b, ref: vr}
	}
	return out
}

// NeighborTetrahedron returns the views of the four face-adjacent
// tetrahedra, in ordinal order; an entry is nil where there is no
// neighbor (a face on the outer hull of the bootstrap universe).
func (t *TetView) NeighborTetrahedron() [4]*TetView {
	tt := &t.b.tets[t.ref]
	var out [4]*TetView
	for i, nr := range tt.n {
		if nr == noTet {
			continue
		}
		out[i] = &TetView{b: t.b, ref: nr}
	}
	return out
}
