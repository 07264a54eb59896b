package mesh

import "gonum.org/v1/gonum/stat"

// Summary holds population-level statistics derived from every
// inserted site's per-vertex quantities, the kind of roll-up a caller
// typically wants after building a whole configuration rather than
// reading site-by-site.
type Summary struct {
	Sites int

	MeanCoordination float64
	VarCoordination  float64

	MeanAtomicVolume float64
	VarAtomicVolume  float64

	MeanCavityRadius float64

	Incomplete int // sites whose cell touches the bootstrap universe
}

// Summarize computes a Summary over every vertex currently in b,
// weighting every site equally. It uses gonum's stat package for the
// mean/variance reduction rather than a hand-rolled accumulator.
func (b *Builder) Summarize() Summary {
	n := len(b.order)
	out := Summary{Sites: n}
	if n == 0 {
		return out
	}

	coord := make([]float64, n)
	vol := make([]float64, n)
	radius := make([]float64, n)

	for i, vr := range b.order {
		v := VertexView{b: b, ref: vr}
		s := v.ensure()
		coord[i] = float64(s.coordination)
		vol[i] = s.atomicVolume
		radius[i] = s.cavityRadius
		if s.incomplete {
			out.Incomplete++
		}
	}

	out.MeanCoordination, out.VarCoordination = stat.MeanVariance(coord, nil)
	out.MeanAtomicVolume, out.VarAtomicVolume = stat.MeanVariance(vol, nil)
	out.MeanCavityRadius = stat.Mean(radius, nil)
	return out
}
