package scene

import (
	"math"

	"github.com/san-kum/chemscene/internal/geometry"
	"github.com/san-kum/chemscene/internal/reaction"
)

const (
	particleRadius = 0.08
	atomRadius     = 0.25
	hydrogenRadius = 0.16
	bondRadius     = 0.04
	bondLength     = 0.45
	moleculeGap    = 1.1
)

var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// Quantize rounds progress down to one of steps levels; progress 1 stays 1.
func Quantize(progress float64, steps int) float64 {
	if steps < 1 {
		steps = 1
	}
	return math.Floor(progress*float64(steps)) / float64(steps)
}

// particleCount is a step function of progress: reactant clouds shrink and
// product clouds grow one level at a time.
func particleCount(a reaction.Apparatus, progress float64, steps int) int {
	full := float64(cloudSize(a))
	q := Quantize(progress, steps)
	if a.Side == reaction.ProductSide {
		return int(math.Round(full * q))
	}
	return int(math.Round(full * (1 - q)))
}

func cloudSize(a reaction.Apparatus) int {
	switch {
	case a.Max <= 0:
		return DefaultParticleMax
	case a.Max > MaxParticles:
		return MaxParticles
	}
	return a.Max
}

// molecules is the per-species layout count, bounded for records that
// skipped validation.
func molecules(s reaction.Species) int {
	return min(s.Count, reaction.MaxSpeciesCount)
}

// particles places count particles inside a ball. Slot i always sits at the
// same position, so particles do not jump when the count changes. Species are
// assigned round-robin weighted by stoichiometric count.
func particles(a reaction.Apparatus, species []reaction.Species, count int) []Instance {
	if count <= 0 {
		return nil
	}
	size := cloudSize(a)
	if size < count {
		size = count
	}
	radius := a.Radius
	if radius <= 0 {
		radius = DefaultCloudRadius
	}

	var weighted []reaction.Species
	for _, s := range species {
		for n := 0; n < molecules(s); n++ {
			weighted = append(weighted, s)
		}
	}
	if len(weighted) == 0 {
		weighted = species
	}

	out := make([]Instance, count)
	for i := range out {
		s := weighted[i%len(weighted)]
		out[i] = Instance{
			Label:    s.Symbol,
			Position: ballPoint(i, size).Scale(radius),
			Radius:   particleRadius,
			Color:    speciesColor(s),
		}
	}
	return out
}

// ballPoint is the i-th of n points spread through the unit ball along a
// golden-angle spiral.
func ballPoint(i, n int) geometry.Vec3 {
	f := (float64(i) + 0.5) / float64(n)
	y := 1 - 2*f
	ring := math.Sqrt(1 - y*y)
	theta := float64(i) * goldenAngle
	r := math.Cbrt(f)
	return geometry.Vec3{X: math.Cos(theta) * ring, Y: y, Z: math.Sin(theta) * ring}.Scale(r)
}

// atoms lays out every molecule of the given species in a row along X. Within
// a molecule the first atom sits at the center and the rest are spread on a
// circle around it, each bonded to the center.
func atoms(species []reaction.Species) ([]Instance, []Part) {
	type molecule struct {
		symbol string
		atoms  []reaction.Atom
	}
	var mols []molecule
	for _, s := range species {
		parsed, err := reaction.ParseFormula(s.Symbol)
		if err != nil {
			parsed = []reaction.Atom{{Element: s.Symbol}}
		}
		for n := 0; n < molecules(s); n++ {
			mols = append(mols, molecule{symbol: s.Symbol, atoms: parsed})
		}
	}

	var instances []Instance
	var bonds []Part
	offset := -float64(len(mols)-1) * moleculeGap / 2
	for m, mol := range mols {
		center := geometry.Vec3{X: offset + float64(m)*moleculeGap}
		instances = append(instances, atomInstance(mol.atoms[0].Element, center))
		others := mol.atoms[1:]
		for k, at := range others {
			phi := math.Pi/2 + 2*math.Pi*float64(k)/float64(len(others))
			dir := geometry.Vec3{X: math.Cos(phi), Y: math.Sin(phi)}
			pos := center.Add(dir.Scale(bondLength))
			instances = append(instances, atomInstance(at.Element, pos))
			bonds = append(bonds, Part{
				Name:  mol.symbol + "-bond",
				Shape: Cylinder,
				Transform: geometry.Transform{
					Position: center.Add(pos).Scale(0.5),
					Rotation: geometry.Vec3{Z: phi - math.Pi/2},
					Scale:    geometry.Vec3{X: bondRadius, Y: bondLength, Z: bondRadius},
					Order:    "XYZ",
				},
				Radius: bondRadius,
				Color:  "#9e9e9e",
			})
		}
	}
	return instances, bonds
}

func atomInstance(el string, pos geometry.Vec3) Instance {
	r := atomRadius
	if el == "H" {
		r = hydrogenRadius
	}
	return Instance{Label: el, Position: pos, Radius: r, Color: elementColor(el)}
}
