package geometry

import "math"

const (
	// RingRadius is the radius of the tripod's support ring.
	RingRadius = 0.6
	// LegInset tucks the top of each leg under the ring.
	LegInset = 0.05
	// LegRadius is the thickness of a leg cylinder.
	LegRadius = 0.03
	// RingTube is the thickness of the ring torus.
	RingTube = 0.04
	// MaxLegAngle is the exclusive upper bound for a leg splay angle.
	MaxLegAngle = 1.5
)

// Leg is one computed tripod leg. Position is the midpoint of Top and Bottom,
// Rotation maps a unit cylinder along +Y onto the bottom->top direction.
type Leg struct {
	Azimuth  float64
	Top      Vec3
	Bottom   Vec3
	Length   float64
	Radius   float64
	Position Vec3
	Rotation Vec3
}

// Transform returns the leg as a cylinder transform (unit height scaled to
// Length, order YXZ).
func (l Leg) Transform() Transform {
	return Transform{
		Position: l.Position,
		Rotation: l.Rotation,
		Scale:    Vec3{l.Radius, l.Length, l.Radius},
		Order:    "YXZ",
	}
}

// TripodLegs places the three legs of a tripod stand at azimuths 0, 120 and
// 240 degrees.
//
// Preconditions: height > 0 and 0 <= legAngle < MaxLegAngle. The tangent
// diverges near pi/2, so callers clamp with ClampLegAngle first.
func TripodLegs(height, legAngle float64) [3]Leg {
	var legs [3]Leg
	length := height / math.Cos(legAngle)
	xTop := RingRadius - LegInset
	xBottom := xTop + height*math.Tan(legAngle)

	for i := range legs {
		az := float64(i) * 2 * math.Pi / 3
		top := Vec3{xTop, height, 0}.RotateY(az)
		bottom := Vec3{xBottom, 0, 0}.RotateY(az)
		legs[i] = Leg{
			Azimuth:  az,
			Top:      top,
			Bottom:   bottom,
			Length:   length,
			Radius:   LegRadius,
			Position: top.Add(bottom).Scale(0.5),
			Rotation: Vec3{0, az, legAngle},
		}
	}
	return legs
}

// ClampLegAngle forces a leg angle into [0, MaxLegAngle).
func ClampLegAngle(a float64) float64 {
	if math.IsNaN(a) || a < 0 {
		return 0
	}
	if a >= MaxLegAngle {
		return math.Nextafter(MaxLegAngle, 0)
	}
	return a
}

// TripodRing is the torus transform of the support ring at the given height.
// The torus lies in the XZ plane.
func TripodRing(height float64) Transform {
	return Transform{
		Position: Vec3{0, height, 0},
		Rotation: Vec3{math.Pi / 2, 0, 0},
		Scale:    Vec3{RingRadius, RingRadius, RingTube},
		Order:    "XYZ",
	}
}
