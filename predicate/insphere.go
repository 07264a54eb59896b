package predicate

// InSphere assumes LeftOfPlane(a,b,c,d) > 0 (a,b,c,d in CCW order) and
// returns a value whose sign answers whether e lies strictly inside
// (positive), strictly outside (negative), or exactly on (zero) the
// sphere through a, b, c, d.
func InSphere(s *Scratch, a, b, c, d, e Vec) float64 {
	aex := a.X - e.X
	aey := a.Y - e.Y
	aez := a.Z - e.Z
	bex := b.X - e.X
	bey := b.Y - e.Y
	bez := b.Z - e.Z
	cex := c.X - e.X
	cey := c.Y - e.Y
	cez := c.Z - e.Z
	dex := d.X - e.X
	dey := d.Y - e.Y
	dez := d.Z - e.Z

	ab := aex*bey - bex*aey
	bc := bex*cey - cex*bey
	cd := cex*dey - dex*cey
	da := dex*aey - aex*dey
	ac := aex*cey - cex*aey
	bd := bex*dey - dex*bey

	abc := aez*bc - bez*ac + cez*ab
	bcd := bez*cd - cez*bd + dez*bc
	cda := cez*da + dez*ac + aez*cd
	dab := dez*ab + aez*bd + bez*da

	alift := aex*aex + aey*aey + aez*aez
	blift := bex*bex + bey*bey + bez*bez
	clift := cex*cex + cey*cey + cez*cez
	dlift := dex*dex + dey*dey + dez*dez

	det := (dlift*abc - clift*dab) + (blift*cda - alift*bcd)

	permanent := absV(dlift)*(absV(aez)*absV(bc)+absV(bez)*absV(ac)+absV(cez)*absV(ab)) +
		absV(clift)*(absV(dez)*absV(ab)+absV(aez)*absV(bd)+absV(bez)*absV(da)) +
		absV(blift)*(absV(cez)*absV(da)+absV(dez)*absV(ac)+absV(aez)*absV(cd)) +
		absV(alift)*(absV(bez)*absV(cd)+absV(cez)*absV(bd)+absV(dez)*absV(bc))
	errBound := insErrBound * permanent

	if det > errBound || det < -errBound {
		return det
	}
	return inSphereExact(s, a, b, c, d, e)
}

// inSphereExact recomputes the lifted 4x4 determinant with exact
// expansion arithmetic: the six 2x2 (x,y) minors of the pairwise
// differences are formed as expansions, scaled by the z-components
// (head and tail) of the remaining points to build the four
// signed triple products, then each triple product is multiplied by
// the lifted (x^2+y^2+z^2) expansion of the point it excludes and the
// four results combined with alternating sign.
func inSphereExact(s *Scratch, a, b, c, d, e Vec) float64 {
	s.reset()

	aexhi, aexlo := twoDiff(a.X, e.X)
	aeyhi, aeylo := twoDiff(a.Y, e.Y)
	aezhi, aezlo := twoDiff(a.Z, e.Z)
	bexhi, bexlo := twoDiff(b.X, e.X)
	beyhi, beylo := twoDiff(b.Y, e.Y)
	bezhi, bezlo := twoDiff(b.Z, e.Z)
	cexhi, cexlo := twoDiff(c.X, e.X)
	ceyhi, ceylo := twoDiff(c.Y, e.Y)
	cezhi, cezlo := twoDiff(c.Z, e.Z)
	dexhi, dexlo := twoDiff(d.X, e.X)
	deyhi, deylo := twoDiff(d.Y, e.Y)
	dezhi, dezlo := twoDiff(d.Z, e.Z)

	abBuf := s.alloc(16)
	nab := minor2x2(s, aexhi, aexlo, aeyhi, aeylo, bexhi, bexlo, beyhi, beylo, abBuf)
	bcBuf := s.alloc(16)
	nbc := minor2x2(s, bexhi, bexlo, beyhi, beylo, cexhi, cexlo, ceyhi, ceylo, bcBuf)
	cdBuf := s.alloc(16)
	ncd := minor2x2(s, cexhi, cexlo, ceyhi, ceylo, dexhi, dexlo, deyhi, deylo, cdBuf)
	daBuf := s.alloc(16)
	nda := minor2x2(s, dexhi, dexlo, deyhi, deylo, aexhi, aexlo, aeyhi, aeylo, daBuf)
	acBuf := s.alloc(16)
	nac := minor2x2(s, aexhi, aexlo, aeyhi, aeylo, cexhi, cexlo, ceyhi, ceylo, acBuf)
	bdBuf := s.alloc(16)
	nbd := minor2x2(s, bexhi, bexlo, beyhi, beylo, dexhi, dexlo, deyhi, deylo, bdBuf)

	ab, bc, cd, da, ac, bd := abBuf[:nab], bcBuf[:nbc], cdBuf[:ncd], daBuf[:nda], acBuf[:nac], bdBuf[:nbd]

	abc := tripleProduct(s, aezhi, aezlo, bc, bezhi, bezlo, ac, true, cezhi, cezlo, ab, false)
	bcd := tripleProduct(s, bezhi, bezlo, cd, cezhi, cezlo, bd, true, dezhi, dezlo, bc, false)
	cda := tripleProduct(s, cezhi, cezlo, da, dezhi, dezlo, ac, false, aezhi, aezlo, cd, false)
	dab := tripleProduct(s, dezhi, dezlo, ab, aezhi, aezlo, bd, false, bezhi, bezlo, da, false)

	alift := liftExpansion(s, aexhi, aexlo, aeyhi, aeylo, aezhi, aezlo)
	blift := liftExpansion(s, bexhi, bexlo, beyhi, beylo, bezhi, bezlo)
	clift := liftExpansion(s, cexhi, cexlo, ceyhi, ceylo, cezhi, cezlo)
	dlift := liftExpansion(s, dexhi, dexlo, deyhi, deylo, dezhi, dezlo)

	t1 := expansionProduct(s, dlift, abc)
	t2 := expansionProduct(s, clift, dab)
	for i := range t2 {
		t2[i] = -t2[i]
	}
	t3 := expansionProduct(s, blift, cda)
	t4 := expansionProduct(s, alift, bcd)
	for i := range t4 {
		t4[i] = -t4[i]
	}

	sum1 := s.alloc(len(t1) + len(t2))
	n1 := expansionSumZeroElimFast(t1, t2, sum1)
	sum2 := s.alloc(len(t3) + len(t4))
	n2 := expansionSumZeroElimFast(t3, t4, sum2)
	final := s.alloc(n1 + n2)
	nf := expansionSumZeroElimFast(sum1[:n1], sum2[:n2], final)

	return expansionSign(final[:nf])
}

// tripleProduct computes e1*m1 +/- e2*m2 +/- e3*m3 where each e_i is a
// two-term expansion and each m_i a minor expansion, matching the
// abc/bcd/cda/dab combinations in InSphere. sub1 negates the second
// term; sub2 optionally negates the third, matching the cofactor sign
// pattern of whichever face determinant is being assembled.
func tripleProduct(s *Scratch, e1hi, e1lo float64, m1 []float64, e2hi, e2lo float64, m2 []float64, sub1 bool, e3hi, e3lo float64, m3 []float64, sub2 bool) []float64 {
	d1 := s.alloc(4*len(m1) + 4)
	n1 := dotTerm(s, e1hi, e1lo, m1, d1)
	d2 := s.alloc(4*len(m2) + 4)
	n2 := dotTerm(s, e2hi, e2lo, m2, d2)
	d3 := s.alloc(4*len(m3) + 4)
	n3 := dotTerm(s, e3hi, e3lo, m3, d3)

	if sub1 {
		for i := 0; i < n2; i++ {
			d2[i] = -d2[i]
		}
	}
	if sub2 {
		for i := 0; i < n3; i++ {
			d3[i] = -d3[i]
		}
	}

	sum := s.alloc(n1 + n2)
	ns := expansionSumZeroElimFast(d1[:n1], d2[:n2], sum)
	out := s.alloc(ns + n3)
	no := expansionSumZeroElimFast(sum[:ns], d3[:n3], out)
	return out[:no]
}

// liftExpansion computes the exact expansion for x^2+y^2+z^2 given the
// (hi,lo) two-term expansions of x, y, z.
func liftExpansion(s *Scratch, xhi, xlo, yhi, ylo, zhi, zlo float64) []float64 {
	xx := s.alloc(8)
	nxx := twoTwoProduct(xhi, xlo, xhi, xlo, xx)
	yy := s.alloc(8)
	nyy := twoTwoProduct(yhi, ylo, yhi, ylo, yy)
	zz := s.alloc(8)
	nzz := twoTwoProduct(zhi, zlo, zhi, zlo, zz)

	sum1 := s.alloc(nxx + nyy)
	n1 := expansionSumZeroElimFast(xx[:nxx], yy[:nyy], sum1)
	out := s.alloc(n1 + nzz)
	n2 := expansionSumZeroElimFast(sum1[:n1], zz[:nzz], out)
	return out[:n2]
}

// expansionProduct computes the exact product of two arbitrary-length
// expansions e and f by scaling e by each component of f and summing
// the results - the only way to multiply two long expansions using
// the scale/sum combinators this package is built from.
func expansionProduct(s *Scratch, e, f []float64) []float64 {
	if len(e) == 0 || len(f) == 0 {
		return nil
	}
	acc := s.alloc(2 * len(e))
	nAcc := scaleExpansionZeroElim(e, f[0], acc)
	for i := 1; i < len(f); i++ {
		term := s.alloc(2 * len(e))
		nTerm := scaleExpansionZeroElim(e, f[i], term)
		merged := s.alloc(nAcc + nTerm)
		nMerged := expansionSumZeroElimFast(acc[:nAcc], term[:nTerm], merged)
		acc, nAcc = merged, nMerged
	}
	return acc[:nAcc]
}
