// Package geometry holds the small amount of 3D vector math shared by the
// embedding, force field and measurement code.
package geometry

import "math"

// Vec3 is a point or direction in Cartesian space, in Å.
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross returns a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Norm() float64   { return math.Sqrt(a.Dot(a)) }
func (a Vec3) Norm2() float64  { return a.Dot(a) }
func (a Vec3) IsFinite() bool  { return isFinite(a.X) && isFinite(a.Y) && isFinite(a.Z) }
func isFinite(f float64) bool  { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Unit returns a normalised copy of a, or the zero vector when |a| is zero.
func (a Vec3) Unit() Vec3 {
	n := a.Norm()
	if n == 0 {
		return Vec3{}
	}
	return a.Scale(1 / n)
}

// Distance returns |a - b|.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Norm()
}

// Angle returns the angle a-b-c at vertex b, in degrees. Coincident points
// yield 0.
func Angle(a, b, c Vec3) float64 {
	u := a.Sub(b)
	v := c.Sub(b)
	nu, nv := u.Norm(), v.Norm()
	if nu == 0 || nv == 0 {
		return 0
	}
	cos := clamp(u.Dot(v)/(nu*nv), -1, 1)
	return math.Acos(cos) * 180 / math.Pi
}

// Dihedral returns the signed torsion a-b-c-d in degrees, in (-180, 180].
// Degenerate (collinear) input yields 0.
func Dihedral(a, b, c, d Vec3) float64 {
	b1 := b.Sub(a)
	b2 := c.Sub(b)
	b3 := d.Sub(c)
	n1 := b1.Cross(b2)
	n2 := b2.Cross(b3)
	if n1.Norm() == 0 || n2.Norm() == 0 || b2.Norm() == 0 {
		return 0
	}
	m1 := n1.Cross(b2.Unit())
	x := n1.Dot(n2)
	y := m1.Dot(n2)
	deg := math.Atan2(y, x) * 180 / math.Pi
	// m1 = n1 × b̂2 gives the opposite of the IUPAC sign convention.
	deg = -deg
	if deg <= -180 {
		deg += 360
	}
	return deg
}

// Centroid returns the arithmetic mean of pts, or the origin for no points.
func Centroid(pts []Vec3) Vec3 {
	if len(pts) == 0 {
		return Vec3{}
	}
	var c Vec3
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Round rounds x half-to-even at the given number of decimals.
func Round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(x*p) / p
}

//Personal.AI order the ending
