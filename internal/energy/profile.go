// Package energy models the potential energy along a reaction coordinate and
// places the live marker on the plotted profile.
package energy

const (
	// Baseline is the plot height of reactants and products.
	Baseline = 0.1
	// Band is the vertical extent of the plot above Baseline that maps an
	// activation energy of 1.
	Band = 0.8
)

// Point is a position in normalized plot coordinates, both axes in [0, 1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Profile is the energy curve of one reaction.
type Profile struct {
	ActivationEnergy float64
}

func New(activationEnergy float64) Profile {
	return Profile{ActivationEnergy: activationEnergy}
}

// Energy is a piecewise-linear climb to the activation energy at progress 0.5
// and a symmetric descent back to 0.
//
// Products land on the same baseline as reactants. This does not model
// exothermic or endothermic reactions.
func (p Profile) Energy(progress float64) float64 {
	ea := p.ActivationEnergy
	if progress < 0.5 {
		return progress * 2 * ea
	}
	return ea - (progress-0.5)*2*ea
}

// Marker is the live marker position for the given progress.
func (p Profile) Marker(progress float64) Point {
	return Point{X: progress, Y: Baseline + p.Energy(progress)*Band}
}

// Peak is the plot height at the transition state.
func (p Profile) Peak() float64 {
	return Baseline + p.ActivationEnergy*Band
}

// Curve evaluates the decorative background curve at t in [0, 1]: a
// quadratic Bezier whose apex coincides with the marker peak.
func (p Profile) Curve(t float64) Point {
	ctrl := Point{X: 0.5, Y: Baseline + 2*p.ActivationEnergy*Band}
	u := 1 - t
	return Point{
		X: 2*u*t*ctrl.X + t*t,
		Y: u*u*Baseline + 2*u*t*ctrl.Y + t*t*Baseline,
	}
}

// CurveSamples returns n+1 points along the background curve.
func (p Profile) CurveSamples(n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, n+1)
	for i := range pts {
		pts[i] = p.Curve(float64(i) / float64(n))
	}
	return pts
}

// Series returns n+1 energy values sampled uniformly over progress, for
// terminal plots.
func (p Profile) Series(n int) []float64 {
	if n < 1 {
		n = 1
	}
	out := make([]float64, n+1)
	for i := range out {
		out[i] = p.Energy(float64(i) / float64(n))
	}
	return out
}
