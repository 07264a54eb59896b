package predicate

import "math"

// CenterSphere returns the circumcenter of the sphere through a, b, c,
// d. It is a numerical estimate, not an exact result: only InSphere
// needs to be exactly signed, and the circumcenter is only ever used
// as a Voronoi-vertex coordinate for statistics, where a double's
// worth of precision is sufficient.
//
// The caller must ensure LeftOfPlane(a,b,c,d) > 0 (CCW order); ok is
// false when the four points are coplanar and no circumcenter exists.
func CenterSphere(s *Scratch, a, b, c, d Vec) (center Vec, ok bool) {
	denom := LeftOfPlane(s, a, b, c, d)
	if denom == 0 {
		return Vec{}, false
	}
	scale := 0.5 / denom

	adx := a.X - d.X
	ady := a.Y - d.Y
	adz := a.Z - d.Z
	bdx := b.X - d.X
	bdy := b.Y - d.Y
	bdz := b.Z - d.Z
	cdx := c.X - d.X
	cdy := c.Y - d.Y
	cdz := c.Z - d.Z

	ads := adx*adx + ady*ady + adz*adz
	bds := bdx*bdx + bdy*bdy + bdz*bdz
	cds := cdx*cdx + cdy*cdy + cdz*cdz

	x := d.X + scale*(ads*(bdy*cdz-cdy*bdz)+bds*(cdy*adz-ady*cdz)+cds*(ady*bdz-bdy*adz))
	y := d.Y + scale*(ads*(bdz*cdx-cdz*bdx)+bds*(cdz*adx-adz*cdx)+cds*(adz*bdx-bdz*adx))
	z := d.Z + scale*(ads*(bdx*cdy-cdx*bdy)+bds*(cdx*ady-adx*cdy)+cds*(adx*bdy-bdx*ady))

	return Vec{x, y, z}, true
}

// Area returns the nonnegative area of triangle (a,b,c): half the norm
// of the cross product of its two edge vectors.
func Area(a, b, c Vec) float64 {
	ux, uy, uz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	vx, vy, vz := c.X-a.X, c.Y-a.Y, c.Z-a.Z

	cx := uy*vz - uz*vy
	cy := uz*vx - ux*vz
	cz := ux*vy - uy*vx

	return 0.5 * math.Sqrt(cx*cx+cy*cy+cz*cz)
}
