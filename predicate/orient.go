package predicate

import "gonum.org/v1/gonum/spatial/r3"

// Vec is the point/vector value type used throughout this module. It is
// gonum's plain [3]float64 wrapper rather than a bespoke type: the
// lightweight vector arithmetic this package needs is exactly what
// gonum.org/v1/gonum/spatial/r3 already provides.
type Vec = r3.Vec

func absV(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// LeftOfPlane returns the determinant (A-D)·((B-D)×(C-D)), whose sign
// tells where D lies relative to the oriented plane through A, B, C:
// positive when A, B, C appear clockwise as seen from D, negative when
// they appear counterclockwise, zero when D is on the plane. For
// A=(0,0,0), B=(1,0,0), C=(0,1,0) a point with z > 0 gives a negative
// value. The magnitude approximates the true determinant (a rounded
// double evaluation on the fast path; to within the expansion's own
// rounding on the exact path) but is not itself certified - only the
// sign is guaranteed correct.
func LeftOfPlane(s *Scratch, a, b, c, d Vec) float64 {
	adx := a.X - d.X
	ady := a.Y - d.Y
	adz := a.Z - d.Z
	bdx := b.X - d.X
	bdy := b.Y - d.Y
	bdz := b.Z - d.Z
	cdx := c.X - d.X
	cdy := c.Y - d.Y
	cdz := c.Z - d.Z

	bdxcdy := bdx * cdy
	cdxbdy := cdx * bdy
	cdxady := cdx * ady
	adxcdy := adx * cdy
	adxbdy := adx * bdy
	bdxady := bdx * ady

	det := adz*(bdxcdy-cdxbdy) + bdz*(cdxady-adxcdy) + cdz*(adxbdy-bdxady)

	permanent := (absV(bdxcdy)+absV(cdxbdy))*absV(adz) +
		(absV(cdxady)+absV(adxcdy))*absV(bdz) +
		(absV(adxbdy)+absV(bdxady))*absV(cdz)
	errBound := o3dErrBound * permanent

	if det > errBound || det < -errBound {
		return det
	}
	return leftOfPlaneExact(s, a, b, c, d)
}

// leftOfPlaneExact recomputes the 3x3 determinant with exact expansion
// arithmetic when the floating-point filter in LeftOfPlane cannot
// certify the sign.
func leftOfPlaneExact(s *Scratch, a, b, c, d Vec) float64 {
	s.reset()

	adxhi, adxlo := twoDiff(a.X, d.X)
	adyhi, adylo := twoDiff(a.Y, d.Y)
	adzhi, adzlo := twoDiff(a.Z, d.Z)
	bdxhi, bdxlo := twoDiff(b.X, d.X)
	bdyhi, bdylo := twoDiff(b.Y, d.Y)
	bdzhi, bdzlo := twoDiff(b.Z, d.Z)
	cdxhi, cdxlo := twoDiff(c.X, d.X)
	cdyhi, cdylo := twoDiff(c.Y, d.Y)
	cdzhi, cdzlo := twoDiff(c.Z, d.Z)

	// Cross-product components of (B-D) x (C-D), each an exact
	// expansion formed from the 2x2 minor of two length-2 expansions:
	// two 8-component twoTwoProducts merged, so up to 16 components.
	bcX := s.alloc(16)
	nbc := minor2x2(s, bdyhi, bdylo, bdzhi, bdzlo, cdyhi, cdylo, cdzhi, cdzlo, bcX)
	caX := s.alloc(16)
	nca := minor2x2(s, bdzhi, bdzlo, bdxhi, bdxlo, cdzhi, cdzlo, cdxhi, cdxlo, caX)
	abX := s.alloc(16)
	nab := minor2x2(s, bdxhi, bdxlo, bdyhi, bdylo, cdxhi, cdxlo, cdyhi, cdylo, abX)

	// det = (A-D) . ((B-D) x (C-D))
	t1 := s.alloc(4 * nbc)
	n1 := dotTerm(s, adxhi, adxlo, bcX[:nbc], t1)
	t2 := s.alloc(4 * nca)
	n2 := dotTerm(s, adyhi, adylo, caX[:nca], t2)
	t3 := s.alloc(4 * nab)
	n3 := dotTerm(s, adzhi, adzlo, abX[:nab], t3)

	sum1 := s.alloc(n1 + n2)
	ns1 := expansionSumZeroElimFast(t1[:n1], t2[:n2], sum1)
	final := s.alloc(ns1 + n3)
	nf := expansionSumZeroElimFast(sum1[:ns1], t3[:n3], final)

	return expansionEstimate(final[:nf])
}

// minor2x2 computes the exact 2x2 minor (ahi+alo)*(dhi+dlo) -
// (bhi+blo)*(chi+clo), writing a zero-eliminated expansion into out
// (capacity >= 16: the two 8-component products merge without
// cancellation in the worst case) and returning its length. Used for
// each component of a cross product of two difference vectors.
func minor2x2(s *Scratch, ahi, alo, bhi, blo, chi, clo, dhi, dlo float64, out []float64) int {
	p := s.alloc(8)
	np := twoTwoProduct(ahi, alo, dhi, dlo, p)
	q := s.alloc(8)
	nq := twoTwoProduct(bhi, blo, chi, clo, q)
	for i := 0; i < nq; i++ {
		q[i] = -q[i]
	}
	return expansionSumZeroElimFast(p[:np], q[:nq], out)
}

// dotTerm multiplies the two-term expansion (ahi,alo) by expansion e,
// writing the zero-eliminated result into out (capacity >= 4*len(e):
// each scale yields up to 2*len(e) components and the merge preserves
// both) via the scale-by-hi / scale-by-lo / sum decomposition, the only
// expansion-times-expansion combinator this package builds from.
func dotTerm(s *Scratch, ahi, alo float64, e []float64, out []float64) int {
	hiPart := s.alloc(2 * len(e))
	nHi := scaleExpansionZeroElim(e, ahi, hiPart)
	loPart := s.alloc(2 * len(e))
	nLo := scaleExpansionZeroElim(e, alo, loPart)
	return expansionSumZeroElimFast(hiPart[:nHi], loPart[:nLo], out)
}

// expansionSign returns the sign of a nonoverlapping, magnitude-sorted
// expansion: the highest-magnitude (last) component carries the sign of
// the whole sum, or 0 if the expansion is empty (exact zero).
func expansionSign(e []float64) float64 {
	if len(e) == 0 {
		return 0
	}
	last := e[len(e)-1]
	if last > 0 {
		return 1
	}
	if last < 0 {
		return -1
	}
	return 0
}

// expansionEstimate sums a nonoverlapping expansion's components in
// increasing order of magnitude, the same "estimate" Shewchuk's own
// exact predicates return as their final result: since the components
// are nonoverlapping and sorted, the rounding error of this plain
// double summation is negligible next to the dominant (last) term, so
// the result's sign still matches expansionSign while its magnitude
// approximates the expansion's true exact value - unlike expansionSign,
// which discards magnitude entirely. Returns 0 for an empty expansion
// (exact zero).
func expansionEstimate(e []float64) float64 {
	if len(e) == 0 {
		return 0
	}
	sum := e[0]
	for _, v := range e[1:] {
		sum += v
	}
	return sum
}
