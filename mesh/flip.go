package mesh

// insertOneToFour splits the enclosing tetrahedron t around new vertex
// v into four tetrahedra {(A,B,C,V), (A,D,B,V), (A,C,D,V), (B,D,C,V)},
// wires them as neighbors across the three faces through V, patches the
// four original external faces, deletes t, and returns the four new
// candidate faces (the ones opposite v) for the caller's flip stack.
func (b *Builder) insertOneToFour(t tetRef, v vertRef) []orientedFaceRef {
	old := b.tets[t]
	a, bb, c, d := old.v[OrdA], old.v[OrdB], old.v[OrdC], old.v[OrdD]
	extN := old.n

	t0 := b.newOrientedTet(a, bb, c, v) // opposite D
	t1 := b.newOrientedTet(a, d, bb, v) // opposite C
	t2 := b.newOrientedTet(a, c, d, v)  // opposite B
	t3 := b.newOrientedTet(bb, d, c, v) // opposite A

	b.freeTet(t)

	// Patch the external faces back to their original neighbors. In
	// each new tetrahedron the external face is the one opposite v.
	b.patch(t0, faceOpposite(t0, v, b), extN[OrdD])
	b.patch(t1, faceOpposite(t1, v, b), extN[OrdC])
	b.patch(t2, faceOpposite(t2, v, b), extN[OrdB])
	b.patch(t3, faceOpposite(t3, v, b), extN[OrdA])

	// Wire the four new tetrahedra to each other across the three
	// internal faces meeting at v.
	b.wireInternal(t0, t1, t2, t3)

	b.refreshHint(a, t0)
	b.refreshHint(bb, t0)
	b.refreshHint(c, t0)
	b.refreshHint(d, t1)
	b.verts[v].hint = t0

	return []orientedFaceRef{
		{t0, faceOpposite(t0, v, b)},
		{t1, faceOpposite(t1, v, b)},
		{t2, faceOpposite(t2, v, b)},
		{t3, faceOpposite(t3, v, b)},
	}
}

// wireInternal finds, for every pair of the four new tetrahedra, the
// face they share (the one opposite the vertex neither has in common
// with the other pair) and patches it. Since each new tetrahedron
// shares exactly two vertices plus v with each of the other three, the
// shared face is identified by vertex-set matching rather than by
// positional convention.
func (b *Builder) wireInternal(ts ...tetRef) {
	for i := 0; i < len(ts); i++ {
		for j := i + 1; j < len(ts); j++ {
			fi, fj, ok := sharedFace(b, ts[i], ts[j])
			if ok {
				b.patch(ts[i], fi, ts[j])
				b.patch(ts[j], fj, ts[i])
			}
		}
	}
}

// sharedFace reports the ordinal on each of t1, t2 whose opposite face
// is exactly the three vertices the two tetrahedra have in common, if
// they share exactly three vertices.
func sharedFace(b *Builder, t1, t2 tetRef) (f1, f2 int, ok bool) {
	v1, v2 := b.tets[t1].v, b.tets[t2].v
	shared := 0
	var only1, only2 int = -1, -1
	for i, x := range v1 {
		found := false
		for _, y := range v2 {
			if x == y {
				found = true
				break
			}
		}
		if found {
			shared++
		} else {
			only1 = i
		}
	}
	if shared != 3 {
		return 0, 0, false
	}
	for i, y := range v2 {
		found := false
		for _, x := range v1 {
			if x == y {
				found = true
				break
			}
		}
		if !found {
			only2 = i
		}
	}
	return only1, only2, true
}

// faceOpposite returns the ordinal of vr within tetrahedron t.
func faceOpposite(t tetRef, vr vertRef, b *Builder) int {
	ord := b.tets[t].vertexOrdinal(vr)
	if ord < 0 {
		b.invariantf("faceOpposite: vertex not in tetrahedron")
	}
	return ord
}

func (b *Builder) refreshHint(vr vertRef, t tetRef) {
	b.verts[vr].hint = t
}

// orientedFaceRef names a pending candidate face on the flip stack.
type orientedFaceRef struct {
	t tetRef
	f int
}

//-----------------------------------------------------------------------------
// tryFlip

// tryFlip evaluates the face named by ref and, if it is non-regular,
// attempts a flip chosen by the number of reflex ring edges: none gives
// a 2->3 flip, exactly one gives a 3->2 flip when a third tetrahedron
// shares that edge, and two or more give no flip.
// It returns the new candidate faces to push (those whose adjacent
// tetrahedron exists, among the faces of the newly-created tetrahedra
// that are incident to v) and whether a flip actually happened.
func (b *Builder) tryFlip(ref orientedFaceRef, v vertRef) ([]orientedFaceRef, bool) {
	if !b.tets[ref.t].live {
		return nil, false
	}
	of := b.face(ref.t, ref.f)
	if !of.notRegular() {
		return nil, false
	}

	r := 0
	reflex := [3]bool{}
	for i := 0; i < 3 && r < 2; i++ {
		reflex[i] = of.isReflex(i)
		if reflex[i] {
			r++
		}
	}
	if r >= 2 {
		return nil, false
	}

	switch r {
	case 0:
		return b.flip23(ref, v)
	case 1:
		idx := 0
		for i, rf := range reflex {
			if rf {
				idx = i
				break
			}
		}
		return b.flip32(ref, idx, v)
	}
	return nil, false
}

// flip23 replaces the two tetrahedra sharing face ref with three new
// ones, each incident to edge (top,bot) and two consecutive ring
// vertices, then cleans up any resulting degenerate pair.
func (b *Builder) flip23(ref orientedFaceRef, v vertRef) ([]orientedFaceRef, bool) {
	of := b.face(ref.t, ref.f)
	top := of.incidentVertex()
	bot := of.adjacentVertex()
	ring := of.ring()
	tOld, tpOld := ref.t, of.adjacent()

	extT := b.tets[tOld].n
	extTp := b.tets[tpOld].n

	news := make([]tetRef, 3)
	for i := 0; i < 3; i++ {
		news[i] = b.newOrientedTet(top, ring[i], ring[(i+1)%3], bot)
	}

	b.freeTet(tOld)
	b.freeTet(tpOld)

	// Patch external faces: the face of news[i] opposite ring[(i+2)%3]
	// (i.e. the one containing top, ring[i], ring[(i+1)%3]) borders
	// whichever external tetrahedron used to sit across the old face
	// containing the same three vertices on the top or bottom side.
	for i := 0; i < 3; i++ {
		extTop := findExternalAcross(b, extT, tOld, top, ring[i], ring[(i+1)%3])
		extBot := findExternalAcross(b, extTp, tpOld, bot, ring[i], ring[(i+1)%3])
		patchFaceContaining(b, news[i], top, ring[i], ring[(i+1)%3], extTop)
		patchFaceContaining(b, news[i], bot, ring[i], ring[(i+1)%3], extBot)
	}
	b.wireInternal(news[0], news[1], news[2])

	b.refreshHint(top, news[0])
	b.refreshHint(bot, news[0])
	for i := 0; i < 3; i++ {
		b.refreshHint(ring[i], news[i])
	}

	survivors := b.removeAnyDegenerateTetrahedronPair(news)
	return b.linkFaces(survivors, v), true
}

// linkFaces collects, for each live tetrahedron in ts that contains v,
// its face opposite v - the link faces of v that a flip has just
// rebuilt and that must therefore be re-tested for regularity - keeping
// only those with an adjacent tetrahedron to test against.
func (b *Builder) linkFaces(ts []tetRef, v vertRef) []orientedFaceRef {
	var out []orientedFaceRef
	for _, t := range ts {
		if !b.tets[t].live {
			continue
		}
		f := b.tets[t].vertexOrdinal(v)
		if f < 0 {
			continue
		}
		if b.tets[t].n[f] != noTet {
			out = append(out, orientedFaceRef{t, f})
		}
	}
	return out
}

// findExternalAcross looks through a tetrahedron's original four
// neighbors for the one that was reached across the face {a,b,c} and
// returns it, or noTet if none of the four faces matches (which can
// happen legitimately - that face simply has no external neighbor, e.g.
// it bordered the other tetrahedron in the flip instead).
func findExternalAcross(b *Builder, ext [4]tetRef, self tetRef, a, bvx, c vertRef) tetRef {
	t := &b.tets[self]
	for f := 0; f < 4; f++ {
		face := ringTable[f]
		fv := [3]vertRef{t.v[face[0]], t.v[face[1]], t.v[face[2]]}
		if containsAll(fv, a, bvx, c) {
			return ext[f]
		}
	}
	return noTet
}

func containsAll(fv [3]vertRef, want ...vertRef) bool {
	for _, w := range want {
		found := false
		for _, x := range fv {
			if x == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// patchFaceContaining patches t's face opposite the one vertex of t not
// in {a,b,c} to ext.
func patchFaceContaining(b *Builder, t tetRef, a, bvx, c vertRef, ext tetRef) {
	tt := &b.tets[t]
	for i := 0; i < 4; i++ {
		face := ringTable[i]
		fv := [3]vertRef{tt.v[face[0]], tt.v[face[1]], tt.v[face[2]]}
		if containsAll(fv, a, bvx, c) {
			b.patch(t, i, ext)
			return
		}
	}
}

// flip32 undoes a reflex edge shared by three tetrahedra: T (named by
// ref), its neighbor T' across the face, and T'' across the reflex
// edge's third tetrahedron. It only fires if that third tetrahedron
// exists; otherwise the face remains pending.
func (b *Builder) flip32(ref orientedFaceRef, reflexIdx int, v vertRef) ([]orientedFaceRef, bool) {
	of := b.face(ref.t, ref.f)
	ring := of.ring()
	top := of.incidentVertex()
	bot := of.adjacentVertex()
	x := ring[reflexIdx]

	// The ordinal of x within T names the third tetrahedron across the
	// reflex edge; the flip is only valid when T' sees the same third
	// tetrahedron across its own face opposite x, i.e. the three of them
	// genuinely share the edge (top,bot). Otherwise the face stays
	// pending for a later flip to resolve.
	tOld, tpOld := ref.t, of.adjacent()
	xOrd := b.tets[tOld].vertexOrdinal(x)
	tpp := b.tets[tOld].n[xOrd]
	if tpp == noTet {
		return nil, false
	}
	xOrdP := b.tets[tpOld].vertexOrdinal(x)
	if xOrdP < 0 || b.tets[tpOld].n[xOrdP] != tpp {
		return nil, false
	}

	y := top
	z := bot
	others := [2]vertRef{ring[(reflexIdx+1)%3], ring[(reflexIdx+2)%3]}
	extAll := map[tetRef][4]tetRef{
		tOld:  b.tets[tOld].n,
		tpOld: b.tets[tpOld].n,
		tpp:   b.tets[tpp].n,
	}

	var news [2]tetRef
	for i, top2 := range others {
		n0 := b.newOrientedTet(x, y, z, top2)
		news[i] = n0
	}

	b.freeTet(tOld)
	b.freeTet(tpOld)
	b.freeTet(tpp)

	b.wireInternal(news[0], news[1])

	for _, t := range []tetRef{tOld, tpOld, tpp} {
		ext := extAll[t]
		for f := 0; f < 4; f++ {
			if ext[f] == noTet {
				continue
			}
			face := ringTable[f]
			tv := b.tets[t].v // already freed, but slot retains old values until reused
			fv := [3]vertRef{tv[face[0]], tv[face[1]], tv[face[2]]}
			for _, n := range news {
				patchFaceContaining(b, n, fv[0], fv[1], fv[2], ext[f])
			}
		}
	}

	b.refreshHint(x, news[0])
	b.refreshHint(y, news[0])
	b.refreshHint(z, news[0])
	b.refreshHint(others[0], news[0])
	b.refreshHint(others[1], news[1])

	return b.linkFaces(news[:], v), true
}

// removeAnyDegenerateTetrahedronPair scans the given tetrahedra for a
// pair that shares two distinct faces with each other (a zero-volume
// sliver produced by the flip that just ran) and, if found, removes
// both, repatching their remaining ("far") neighbors directly to each
// other. Returns the surviving tetrahedra among the input set.
func (b *Builder) removeAnyDegenerateTetrahedronPair(ts []tetRef) []tetRef {
	for _, t := range ts {
		if !b.tets[t].live {
			continue
		}
		tt := &b.tets[t]
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				n := tt.n[i]
				if n == noTet || n != tt.n[j] {
					continue
				}
				b.collapseDegeneratePair(t, n, i, j)
				break
			}
		}
	}

	out := make([]tetRef, 0, len(ts))
	for _, t := range ts {
		if b.tets[t].live {
			out = append(out, t)
		}
	}
	return out
}

// collapseDegeneratePair removes t and its degenerate partner n, which
// share faces i and j of t (and therefore all four of t's vertices,
// since two distinct faces of a tetrahedron already cover all four
// corners). The two remaining ("far") faces of t, at the other two
// ordinals, are repatched directly to the matching far neighbor of n,
// identified by vertex identity rather than ordinal position.
func (b *Builder) collapseDegeneratePair(t, n tetRef, i, j int) {
	p, q := -1, -1
	for f := 0; f < 4; f++ {
		if f != i && f != j {
			if p < 0 {
				p = f
			} else {
				q = f
			}
		}
	}

	tv := b.tets[t].v
	// survivor[0] is the tetrahedron joined across t's face opposite
	// tv[p] (so it contains tv[i], tv[j], tv[q] but not tv[p]);
	// survivor[1] is joined across the face opposite tv[q] (contains
	// tv[i], tv[j], tv[p] but not tv[q]).
	survivor := [2]tetRef{noTet, noTet}
	for idx, far := range [2]int{p, q} {
		farVertex := tv[far]
		farNeighbor := b.tets[t].n[far]
		// Find n's ordinal whose vertex equals farVertex; n's neighbor
		// there is the one to join farNeighbor to.
		nv := b.tets[n].v
		matchOrd := -1
		for k, x := range nv {
			if x == farVertex {
				matchOrd = k
				break
			}
		}
		if matchOrd < 0 {
			continue
		}
		otherFar := b.tets[n].n[matchOrd]
		joinAcross(b, farNeighbor, t, otherFar, n)
		if farNeighbor != noTet {
			survivor[idx] = farNeighbor
		} else {
			survivor[idx] = otherFar
		}
	}

	b.freeTet(t)
	b.freeTet(n)

	// Refresh to a live neighbor that still contains vr; the far
	// neighbors just joined are guaranteed candidates, falling back to
	// noTet only if neither side of the relevant join survived.
	refresh := func(vr vertRef, candidates ...tetRef) {
		if b.verts[vr].hint != t && b.verts[vr].hint != n {
			return
		}
		for _, c := range candidates {
			if c != noTet {
				b.verts[vr].hint = c
				return
			}
		}
		b.verts[vr].hint = noTet
	}
	refresh(tv[i], survivor[0], survivor[1])
	refresh(tv[j], survivor[0], survivor[1])
	refresh(tv[p], survivor[1])
	refresh(tv[q], survivor[0])
}

// joinAcross makes a and c mutual neighbors, replacing their references
// to the two tetrahedra (oldA, oldC) being deleted. If a or c is itself
// noTet (the far side bordered nothing), there is nothing to join.
func joinAcross(b *Builder, a, oldA, c, oldC tetRef) {
	if a == noTet || c == noTet {
		return
	}
	at := &b.tets[a]
	if ord := at.ordinalOf(oldA); ord >= 0 {
		at.n[ord] = c
	}
	ct := &b.tets[c]
	if ord := ct.ordinalOf(oldC); ord >= 0 {
		ct.n[ord] = a
	}
}
