package scene

import (
	"math"
	"sort"

	"github.com/san-kum/chemscene/internal/energy"
	"github.com/san-kum/chemscene/internal/geometry"
	"github.com/san-kum/chemscene/internal/reaction"
)

// Resolver turns a record, a view level and a progress value into a scene
// description. It holds no reference to any record between calls.
type Resolver struct {
	// TubeSegments is the number of samples along a delivery tube path.
	TubeSegments int
}

func New() *Resolver {
	return &Resolver{TubeSegments: DefaultTubeSegments}
}

var defaultResolver = New()

// Resolve uses a resolver with default settings.
func Resolve(rec *reaction.Record, view reaction.ViewLevel, progress float64) *Description {
	return defaultResolver.Resolve(rec, view, progress)
}

// Resolve builds a fresh description. It never fails: missing or invalid
// rules are replaced by DefaultRules for the level, and progress is clamped
// to [0, 1].
func (r *Resolver) Resolve(rec *reaction.Record, view reaction.ViewLevel, progress float64) *Description {
	progress = ClampProgress(progress)

	rules := rec.Rules(view)
	fallback := !Valid(rules)
	if fallback {
		rules = DefaultRules(view)
	}

	d := &Description{
		ReactionID:   rec.ID,
		View:         view,
		Progress:     progress,
		Entities:     make([]Entity, 0, len(rules.Slots)),
		EnergyMarker: energy.New(rec.ActivationEnergy).Marker(progress),
		Fallback:     fallback,

		ActivationEnergy: rec.ActivationEnergy,
	}

	steps := DefaultParticleSteps
	if rules.Particles != nil && rules.Particles.Steps > 0 {
		steps = rules.Particles.Steps
	}

	for _, sl := range rules.Slots {
		e := r.entity(rec, sl, progress, steps)
		d.Entities = append(d.Entities, e)
	}
	applyThresholds(d, rules.Thresholds)
	return d
}

// ClampProgress forces progress into [0, 1]; NaN maps to 0.
func ClampProgress(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Valid reports whether a rule set can be resolved as-is: it has slots, and
// every slot has a name, a known kind and the fields its kind requires.
func Valid(rules *reaction.VisualRules) bool {
	if rules == nil || len(rules.Slots) == 0 {
		return false
	}
	for _, sl := range rules.Slots {
		if sl.Name == "" || !validApparatus(sl.Apparatus) {
			return false
		}
	}
	return true
}

func validApparatus(a reaction.Apparatus) bool {
	if !a.Kind.Known() {
		return false
	}
	switch a.Kind {
	case reaction.Tripod:
		return a.Height > 0 && !math.IsInf(a.Height, 0)
	case reaction.Particles, reaction.Atoms:
		return (a.Side == reaction.ReactantSide || a.Side == reaction.ProductSide) && a.Max >= 0 && a.Max <= MaxParticles
	}
	return true
}

func (r *Resolver) entity(rec *reaction.Record, sl reaction.Slot, progress float64, steps int) Entity {
	a := sl.Apparatus
	scale := geometry.One
	if a.Scale != nil {
		scale = *a.Scale
	}
	e := Entity{
		Slot: sl.Name,
		Kind: a.Kind,
		Transform: geometry.Transform{
			Position: a.Position,
			Rotation: a.Rotation,
			Scale:    scale,
			Order:    "XYZ",
		},
		Material: materialFor(a.Kind, a.Color),
		Visible:  !a.Hidden,
	}

	switch a.Kind {
	case reaction.Tripod:
		e.Parts = tripodParts(a)
	case reaction.DeliveryTube:
		e.Parts = []Part{r.tubePart(a)}
	case reaction.Particles:
		species := sideSpecies(rec, a.Side)
		e.Material = Material{Color: speciesColor(species[0]), Opacity: 1, Shininess: 20}
		e.Instances = particles(a, species, particleCount(a, progress, steps))
	case reaction.Atoms:
		species := sideSpecies(rec, a.Side)
		e.Material = Material{Color: speciesColor(species[0]), Opacity: 1, Shininess: 50}
		e.Instances, e.Parts = atoms(species)
		if a.Side == reaction.ReactantSide {
			e.Visible = e.Visible && progress < NanoSwitch
		} else {
			e.Visible = e.Visible && progress >= NanoSwitch
		}
	}

	if a.Fill != nil {
		e.Parts = append(e.Parts, liquidPart(rec, a.Fill, progress))
	}
	return e
}

func tripodParts(a reaction.Apparatus) []Part {
	angle := geometry.ClampLegAngle(a.LegAngle)
	parts := []Part{{
		Name:      "ring",
		Shape:     Torus,
		Transform: geometry.TripodRing(a.Height),
		Radius:    geometry.RingTube,
	}}
	for i, leg := range geometry.TripodLegs(a.Height, angle) {
		parts = append(parts, Part{
			Name:      legNames[i],
			Shape:     Cylinder,
			Transform: leg.Transform(),
			Radius:    leg.Radius,
		})
	}
	return parts
}

var legNames = [3]string{"leg0", "leg1", "leg2"}

func (r *Resolver) tubePart(a reaction.Apparatus) Part {
	radius := a.Radius
	if radius <= 0 {
		radius = geometry.TubeRadius
	}
	segments := r.TubeSegments
	if segments <= 0 {
		segments = DefaultTubeSegments
	}
	return Part{
		Name:      "path",
		Shape:     Tube,
		Transform: geometry.Identity(),
		Path:      geometry.Samples(geometry.Route(a.Points), segments),
		Radius:    radius,
	}
}

// liquidPart is the contents of a vessel. Its color moves from Fill.From to
// Fill.To with progress; empty colors come from the first reactant and
// product species.
func liquidPart(rec *reaction.Record, f *reaction.Fill, progress float64) Part {
	level := f.Level
	if level <= 0 || level > 1 {
		level = 0.4
	}
	return Part{
		Name:  "liquid",
		Shape: Cylinder,
		Transform: geometry.Transform{
			Position: geometry.Vec3{Y: level / 2},
			Scale:    geometry.Vec3{X: 0.9, Y: level, Z: 0.9},
			Order:    "XYZ",
		},
		Color: blend(f.From, f.To, speciesColor(first(rec.Reactants)), speciesColor(first(rec.Products)), progress),
	}
}

// sideSpecies never returns an empty list, so records that skipped
// validation still resolve.
func sideSpecies(rec *reaction.Record, side reaction.Side) []reaction.Species {
	list := rec.Reactants
	if side == reaction.ProductSide {
		list = rec.Products
	}
	if len(list) == 0 {
		return []reaction.Species{placeholder}
	}
	return list
}

var placeholder = reaction.Species{Symbol: "X", Count: 1}

func first(list []reaction.Species) reaction.Species {
	if len(list) == 0 {
		return placeholder
	}
	return list[0]
}

// applyThresholds runs threshold effects in order of At for every threshold
// progress has reached. Unknown slots and effects are ignored.
func applyThresholds(d *Description, ts []reaction.Threshold) {
	if len(ts) == 0 {
		return
	}
	sorted := make([]reaction.Threshold, len(ts))
	copy(sorted, ts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })

	for _, t := range sorted {
		if d.Progress < t.At {
			break
		}
		for i := range d.Entities {
			e := &d.Entities[i]
			if e.Slot != t.Slot {
				continue
			}
			switch t.Effect {
			case reaction.EffectShow:
				e.Visible = true
			case reaction.EffectHide:
				e.Visible = false
			case reaction.EffectScale:
				if t.Factor > 0 {
					e.Transform.Scale = e.Transform.Scale.Scale(t.Factor)
				}
			}
		}
	}
}
