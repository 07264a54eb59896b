// Package predicate implements exact-arithmetic geometric predicates for
// the 3D Delaunay builder: leftOfPlane (orientation), inSphere, a
// circumsphere-center estimator, and a triangle-area helper.
//
// Each predicate first evaluates a fast floating-point estimate with an
// a-priori error bound (per Shewchuk, "Adaptive Precision Floating-Point
// Arithmetic and Fast Robust Geometric Predicates"); when the estimate
// falls inside the uncertainty interval, it falls back to an exact
// result built from nonoverlapping floating-point expansions. The
// expansion kernel in this file supplies the primitives that pipeline
// is built from.
package predicate

// An expansion is a slice of float64 components, increasing in
// magnitude and pairwise nonoverlapping, whose unrounded sum equals the
// exact value it represents. Zero components are never emitted
// ("zero elimination"): the algebraic sum of a shorter expansion is the
// same value as a longer one with zero terms removed.
//
// Expansions are produced and consumed within a single predicate call
// and are always carved out of a per-call Scratch arena (scratch.go);
// none of the functions in this file allocate.

// split breaks a into a high part and low part such that hi+lo == a and
// hi fits in the top half of the mantissa. This is the building block
// every exact product in this package is derived from.
func split(a float64) (hi, lo float64) {
	c := splitter * a
	bigA := c - a
	hi = c - bigA
	lo = a - hi
	return hi, lo
}

// twoSum computes a+b as the nonoverlapping pair (hi, lo) with
// hi+lo == a+b exactly, for arbitrary a, b.
func twoSum(a, b float64) (hi, lo float64) {
	hi = a + b
	bv := hi - a
	av := hi - bv
	br := b - bv
	ar := a - av
	lo = ar + br
	return hi, lo
}

// twoSumFast is twoSum specialized for the case |a| >= |b|; it saves two
// subtractions over the general case.
func twoSumFast(a, b float64) (hi, lo float64) {
	hi = a + b
	bv := hi - a
	lo = b - bv
	return hi, lo
}

// twoDiff computes a-b as the nonoverlapping pair (hi, lo) with
// hi+lo == a-b exactly.
func twoDiff(a, b float64) (hi, lo float64) {
	hi = a - b
	bv := a - hi
	av := hi + bv
	br := bv - b
	ar := a - av
	lo = ar + br
	return hi, lo
}

// twoProduct computes a*b as the nonoverlapping pair (hi, lo) with
// hi+lo == a*b exactly, splitting both operands.
func twoProduct(a, b float64) (hi, lo float64) {
	hi = a * b
	ahi, alo := split(a)
	bhi, blo := split(b)
	err1 := hi - ahi*bhi
	err2 := err1 - alo*bhi
	err3 := err2 - ahi*blo
	lo = alo*blo - err3
	return hi, lo
}

// twoProduct1Presplit is twoProduct when b's split (bhi, blo) is already
// known, saving one split call on a hot path that reuses b.
func twoProduct1Presplit(a, b, bhi, blo float64) (hi, lo float64) {
	hi = a * b
	ahi, alo := split(a)
	err1 := hi - ahi*bhi
	err2 := err1 - alo*bhi
	err3 := err2 - ahi*blo
	lo = alo*blo - err3
	return hi, lo
}

// twoProduct2Presplit is twoProduct when both operands' splits are
// already known.
func twoProduct2Presplit(a, ahi, alo, b, bhi, blo float64) (hi, lo float64) {
	hi = a * b
	err1 := hi - ahi*bhi
	err2 := err1 - alo*bhi
	err3 := err2 - ahi*blo
	lo = alo*blo - err3
	return hi, lo
}

// twoTwoProduct computes the exact product of two length-2 expansions
// (a1,a0) and (b1,b0), i.e. (a1+a0)*(b1+b0), writing the zero-eliminated
// result (at most 8 nonoverlapping components) into x and returning how
// many were written. x must have capacity at least 8.
//
// The four partial products a1*b1, a1*b0, a0*b1, a0*b0 are each exact
// two-term expansions (twoProduct); summing them pairwise with
// expansionSumZeroElimFast, which is exact for nonoverlapping inputs,
// gives the exact sum without needing a dedicated carry-save network.
func twoTwoProduct(a1, a0, b1, b0 float64, x []float64) int {
	a1hi, a1lo := split(a1)
	a0hi, a0lo := split(a0)
	b1hi, b1lo := split(b1)
	b0hi, b0lo := split(b0)

	p11hi, p11lo := twoProduct2Presplit(a1, a1hi, a1lo, b1, b1hi, b1lo)
	p10hi, p10lo := twoProduct2Presplit(a1, a1hi, a1lo, b0, b0hi, b0lo)
	p01hi, p01lo := twoProduct2Presplit(a0, a0hi, a0lo, b1, b1hi, b1lo)
	p00hi, p00lo := twoProduct2Presplit(a0, a0hi, a0lo, b0, b0hi, b0lo)

	var tmp1, tmp2 [4]float64
	n1 := expansionSumZeroElimFast([]float64{p11lo, p11hi}, []float64{p10lo, p10hi}, tmp1[:])
	n2 := expansionSumZeroElimFast([]float64{p01lo, p01hi}, []float64{p00lo, p00hi}, tmp2[:])
	return expansionSumZeroElimFast(tmp1[:n1], tmp2[:n2], x)
}

// scaleExpansionZeroElim multiplies expansion e (length n) by scalar b,
// writing the zero-eliminated result into h (which must have capacity
// at least 2n) and returning the number of components written.
//
// This is the streaming algorithm from Shewchuk's paper: it keeps a
// running carry q and emits each nonzero low-order component as it is
// produced, in increasing order of magnitude.
func scaleExpansionZeroElim(e []float64, b float64, h []float64) int {
	if len(e) == 0 {
		return 0
	}
	bhi, blo := split(b)
	q, hh := twoProduct1Presplit(e[0], b, bhi, blo)
	m := 0
	if hh != 0 {
		h[m] = hh
		m++
	}
	for i := 1; i < len(e); i++ {
		prodhi, prodlo := twoProduct1Presplit(e[i], b, bhi, blo)
		sum, errSum := twoSum(q, prodlo)
		if errSum != 0 {
			h[m] = errSum
			m++
		}
		q, hh = twoSumFast(prodhi, sum)
		if hh != 0 {
			h[m] = hh
			m++
		}
	}
	if q != 0 {
		h[m] = q
		m++
	}
	return m
}

// expansionSumZeroElimFast merges two expansions e and f (both
// nonoverlapping, increasing in magnitude) into h, eliminating zero
// components. h must have capacity at least len(e)+len(f).
//
// The merge interleaves components of e and f in order of increasing
// magnitude using a running carry, per Shewchuk's fast-expansion-sum.
func expansionSumZeroElimFast(e, f []float64, h []float64) int {
	ne, nf := len(e), len(f)
	if ne == 0 {
		return copyNonzero(f, h)
	}
	if nf == 0 {
		return copyNonzero(e, h)
	}

	ei, fi := 0, 0
	var enow, fnow float64
	enow, fnow = e[0], f[0]

	var q float64
	if absF(fnow) > absF(enow) {
		q = enow
		ei++
	} else {
		q = fnow
		fi++
	}
	m := 0
	if ei < ne && fi < nf {
		var qq float64
		if absF(f[fi]) > absF(e[ei]) {
			enow = e[ei]
			q, qq = twoSumFast(enow, q)
			ei++
		} else {
			fnow = f[fi]
			q, qq = twoSumFast(fnow, q)
			fi++
		}
		if qq != 0 {
			h[m] = qq
			m++
		}
		for ei < ne && fi < nf {
			if absF(f[fi]) > absF(e[ei]) {
				enow = e[ei]
				q, qq = twoSum(q, enow)
				ei++
			} else {
				fnow = f[fi]
				q, qq = twoSum(q, fnow)
				fi++
			}
			if qq != 0 {
				h[m] = qq
				m++
			}
		}
	}
	for ei < ne {
		var qq float64
		q, qq = twoSum(q, e[ei])
		ei++
		if qq != 0 {
			h[m] = qq
			m++
		}
	}
	for fi < nf {
		var qq float64
		q, qq = twoSum(q, f[fi])
		fi++
		if qq != 0 {
			h[m] = qq
			m++
		}
	}
	if q != 0 || m == 0 {
		h[m] = q
		m++
	}
	return m
}

func copyNonzero(src, dst []float64) int {
	n := 0
	for _, v := range src {
		if v != 0 {
			dst[n] = v
			n++
		}
	}
	return n
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
