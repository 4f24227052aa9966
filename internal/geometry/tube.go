package geometry

import "math"

const (
	// DegenerateEpsilon is the distance below which two tube endpoints are
	// considered coincident.
	DegenerateEpsilon = 0.001
	// DegenerateOffset is added to the second endpoint's Y when the two
	// endpoints coincide.
	DegenerateOffset = 0.1
	// Tension is the fixed tension of the uniform Catmull-Rom variant.
	Tension = 0.5
	// Centripetal is the knot exponent used by Route.
	Centripetal = 0.5
	// TubeRadius is the default delivery tube radius.
	TubeRadius = 0.04

	lengthDivisions = 200
)

// DefaultTubePoints is the S-shaped route used when no usable control points
// are supplied.
var DefaultTubePoints = []Vec3{
	{0, 2.2, 0},
	{0.4, 2.7, 0},
	{1.3, 2.7, 0},
	{1.9, 1.6, 0},
	{2.4, 0.9, 0},
}

// Path is a parametric curve usable for tube extrusion.
type Path interface {
	// Point returns the position at t in [0, 1].
	Point(t float64) Vec3
	// Length is the arc length of the path.
	Length() float64
}

// Route builds the delivery tube path through the given control points.
//
// Fewer than two points fall back to DefaultTubePoints. Two coincident points
// have the second raised by DegenerateOffset so the path never has zero
// length. Two points give a straight line, three or more a centripetal
// Catmull-Rom curve through every point.
func Route(points []Vec3) Path {
	switch {
	case len(points) < 2:
		return NewCatmullRom(DefaultTubePoints, Centripetal)
	case len(points) == 2:
		a, b := points[0], points[1]
		if a.Distance(b) < DegenerateEpsilon {
			b.Y += DegenerateOffset
		}
		return Line{A: a, B: b}
	default:
		return NewCatmullRom(points, Centripetal)
	}
}

// Samples evaluates n+1 evenly spaced parameter values along p.
func Samples(p Path, n int) []Vec3 {
	if n < 1 {
		n = 1
	}
	out := make([]Vec3, n+1)
	for i := 0; i <= n; i++ {
		out[i] = p.Point(float64(i) / float64(n))
	}
	return out
}

// Line is a straight segment from A to B.
type Line struct {
	A, B Vec3
}

func (l Line) Point(t float64) Vec3 { return l.A.Lerp(l.B, t) }
func (l Line) Length() float64      { return l.A.Distance(l.B) }

// CatmullRom is an open Catmull-Rom spline. Alpha 0 is the uniform variant
// (shaped by Tension), 0.5 centripetal, 1 chordal.
type CatmullRom struct {
	Points []Vec3
	Alpha  float64
}

func NewCatmullRom(points []Vec3, alpha float64) *CatmullRom {
	pts := make([]Vec3, len(points))
	copy(pts, points)
	return &CatmullRom{Points: pts, Alpha: alpha}
}

// Point evaluates the curve. Ends are extrapolated by mirroring the first and
// last segments.
func (c *CatmullRom) Point(t float64) Vec3 {
	n := len(c.Points)
	switch n {
	case 0:
		return Vec3{}
	case 1:
		return c.Points[0]
	}
	t = math.Max(0, math.Min(1, t))

	p := float64(n-1) * t
	i := int(math.Floor(p))
	w := p - float64(i)
	if i >= n-1 {
		i = n - 2
		w = 1
	}

	p1, p2 := c.Points[i], c.Points[i+1]
	var p0, p3 Vec3
	if i > 0 {
		p0 = c.Points[i-1]
	} else {
		p0 = p1.Scale(2).Sub(p2)
	}
	if i+2 < n {
		p3 = c.Points[i+2]
	} else {
		p3 = p2.Scale(2).Sub(p1)
	}

	if c.Alpha == 0 {
		return Vec3{
			uniformCubic(p0.X, p1.X, p2.X, p3.X).at(w),
			uniformCubic(p0.Y, p1.Y, p2.Y, p3.Y).at(w),
			uniformCubic(p0.Z, p1.Z, p2.Z, p3.Z).at(w),
		}
	}

	dt0 := math.Pow(p0.Distance(p1), c.Alpha)
	dt1 := math.Pow(p1.Distance(p2), c.Alpha)
	dt2 := math.Pow(p2.Distance(p3), c.Alpha)
	// repeated points
	if dt1 < 1e-4 {
		dt1 = 1
	}
	if dt0 < 1e-4 {
		dt0 = dt1
	}
	if dt2 < 1e-4 {
		dt2 = dt1
	}
	return Vec3{
		nonuniformCubic(p0.X, p1.X, p2.X, p3.X, dt0, dt1, dt2).at(w),
		nonuniformCubic(p0.Y, p1.Y, p2.Y, p3.Y, dt0, dt1, dt2).at(w),
		nonuniformCubic(p0.Z, p1.Z, p2.Z, p3.Z, dt0, dt1, dt2).at(w),
	}
}

// Length approximates the arc length by summing chords.
func (c *CatmullRom) Length() float64 {
	total := 0.0
	prev := c.Point(0)
	for i := 1; i <= lengthDivisions; i++ {
		cur := c.Point(float64(i) / lengthDivisions)
		total += cur.Distance(prev)
		prev = cur
	}
	return total
}

type cubic struct{ c0, c1, c2, c3 float64 }

func (c cubic) at(t float64) float64 {
	t2 := t * t
	return c.c0 + c.c1*t + c.c2*t2 + c.c3*t2*t
}

// hermite builds the cubic from endpoints x0, x1 and tangents t0, t1.
func hermite(x0, x1, t0, t1 float64) cubic {
	return cubic{
		c0: x0,
		c1: t0,
		c2: -3*x0 + 3*x1 - 2*t0 - t1,
		c3: 2*x0 - 2*x1 + t0 + t1,
	}
}

func uniformCubic(x0, x1, x2, x3 float64) cubic {
	return hermite(x1, x2, Tension*(x2-x0), Tension*(x3-x1))
}

func nonuniformCubic(x0, x1, x2, x3, dt0, dt1, dt2 float64) cubic {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	return hermite(x1, x2, t1*dt1, t2*dt1)
}
