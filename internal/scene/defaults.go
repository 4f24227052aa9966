package scene

import (
	"github.com/san-kum/chemscene/internal/geometry"
	"github.com/san-kum/chemscene/internal/reaction"
)

const (
	// DefaultParticleSteps is the number of discrete particle-count levels.
	DefaultParticleSteps = 4
	// DefaultParticleMax is the particle count of a full cloud.
	DefaultParticleMax = 30
	// MaxParticles is the largest cloud a rule may ask for. Rules above it
	// are invalid and fall back to the defaults.
	MaxParticles = 500
	// DefaultCloudRadius is the radius of a particle cloud.
	DefaultCloudRadius = 1.2
	// NanoSwitch is the progress at which atom arrangements swap from
	// reactants to products.
	NanoSwitch = 0.5
	// DefaultTubeSegments is the number of samples along a delivery tube.
	DefaultTubeSegments = 64
)

// DefaultRules returns the built-in rule set for a view level. Fill colors are
// left empty and resolved from the record's species.
func DefaultRules(v reaction.ViewLevel) *reaction.VisualRules {
	switch v {
	case reaction.Micro:
		return &reaction.VisualRules{
			Slots: reaction.Slots{
				{Name: "container", Apparatus: reaction.Apparatus{Kind: reaction.Beaker, Scale: &geometry.Vec3{X: 3, Y: 3, Z: 3}}},
				{Name: "reactants", Apparatus: reaction.Apparatus{Kind: reaction.Particles, Side: reaction.ReactantSide, Max: DefaultParticleMax}},
				{Name: "products", Apparatus: reaction.Apparatus{Kind: reaction.Particles, Side: reaction.ProductSide, Max: DefaultParticleMax}},
			},
			Particles: &reaction.ParticleSteps{Steps: DefaultParticleSteps},
		}
	case reaction.Nano:
		return &reaction.VisualRules{
			Slots: reaction.Slots{
				{Name: "reactants", Apparatus: reaction.Apparatus{Kind: reaction.Atoms, Side: reaction.ReactantSide, Position: geometry.Vec3{X: -1.5}}},
				{Name: "products", Apparatus: reaction.Apparatus{Kind: reaction.Atoms, Side: reaction.ProductSide, Position: geometry.Vec3{X: 1.5}}},
			},
		}
	default:
		return &reaction.VisualRules{
			Slots: reaction.Slots{
				{Name: "burner", Apparatus: reaction.Apparatus{Kind: reaction.BunsenBurner}},
				{Name: "tripod", Apparatus: reaction.Apparatus{Kind: reaction.Tripod, Height: 2, LegAngle: 0.15}},
				{Name: "gauze", Apparatus: reaction.Apparatus{Kind: reaction.Gauze, Position: geometry.Vec3{Y: 2}}},
				{Name: "flask", Apparatus: reaction.Apparatus{Kind: reaction.ConicalFlask, Position: geometry.Vec3{Y: 2.05}, Fill: &reaction.Fill{Level: 0.4}}},
				{Name: "delivery", Apparatus: reaction.Apparatus{Kind: reaction.DeliveryTube}},
				{Name: "collector", Apparatus: reaction.Apparatus{Kind: reaction.TestTube, Position: geometry.Vec3{X: 2.4, Y: 0.5}}},
			},
		}
	}
}
