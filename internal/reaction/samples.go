package reaction

import "github.com/san-kum/chemscene/internal/geometry"

// Samples returns the built-in demonstration reactions. Each call returns
// fresh values.
func Samples() []Record {
	return []Record{
		copperCarbonate(),
		{
			ID:       "neutralisation",
			Name:     "Neutralisation",
			Equation: "HCl + NaOH -> NaCl + H2O",
			Reactants: []Species{
				{Symbol: "HCl", Name: "hydrochloric acid", Count: 1, Color: "#9be7ff"},
				{Symbol: "NaOH", Name: "sodium hydroxide", Count: 1, Color: "#c792ea"},
			},
			Products: []Species{
				{Symbol: "NaCl", Name: "sodium chloride", Count: 1, Color: "#e0e0e0"},
				{Symbol: "H2O", Name: "water", Count: 1, Color: "#4fc3f7"},
			},
			ActivationEnergy: 0.2,
		},
		{
			ID:       "magnesium-combustion",
			Name:     "Magnesium combustion",
			Equation: "2Mg + O2 -> 2MgO",
			Reactants: []Species{
				{Symbol: "Mg", Name: "magnesium", Count: 2, Color: "#b0bec5"},
				{Symbol: "O2", Name: "oxygen", Count: 1, Color: "#ef5350"},
			},
			Products: []Species{
				{Symbol: "MgO", Name: "magnesium oxide", Count: 2, Color: "#fafafa"},
			},
			ActivationEnergy: 0.8,
			NanoView: &ViewRules{VisualRules: &VisualRules{
				Slots: Slots{
					{Name: "reactants", Apparatus: Apparatus{Kind: Atoms, Side: ReactantSide, Position: geometry.Vec3{X: -1.5}}},
					{Name: "products", Apparatus: Apparatus{Kind: Atoms, Side: ProductSide, Position: geometry.Vec3{X: 1.5}}},
				},
			}},
		},
	}
}

func copperCarbonate() Record {
	return Record{
		ID:       "copper-carbonate",
		Name:     "Thermal decomposition of copper carbonate",
		Equation: "CuCO3 -> CuO + CO2",
		Reactants: []Species{
			{Symbol: "CuCO3", Name: "copper(II) carbonate", Count: 1, Color: "#3bb273"},
		},
		Products: []Species{
			{Symbol: "CuO", Name: "copper(II) oxide", Count: 1, Color: "#222222"},
			{Symbol: "CO2", Name: "carbon dioxide", Count: 1, Color: "#cfd8dc"},
		},
		ActivationEnergy: 0.6,
		MacroView: &ViewRules{VisualRules: &VisualRules{
			Slots: Slots{
				{Name: "burner", Apparatus: Apparatus{Kind: BunsenBurner}},
				{Name: "tripod", Apparatus: Apparatus{Kind: Tripod, Height: 2, LegAngle: 0.15}},
				{Name: "gauze", Apparatus: Apparatus{Kind: Gauze, Position: geometry.Vec3{Y: 2}}},
				{Name: "tube", Apparatus: Apparatus{
					Kind:     BoilingTube,
					Position: geometry.Vec3{Y: 2.4},
					Rotation: geometry.Vec3{Z: -0.3},
					Fill:     &Fill{From: "#3bb273", To: "#222222", Level: 0.3},
				}},
				{Name: "delivery", Apparatus: Apparatus{Kind: DeliveryTube, Points: []geometry.Vec3{
					{X: 0.2, Y: 3.1},
					{X: 0.8, Y: 3.5},
					{X: 1.8, Y: 3.3},
					{X: 2.6, Y: 2.0},
					{X: 2.8, Y: 1.0},
				}}},
				{Name: "limewater", Apparatus: Apparatus{
					Kind:     TestTube,
					Position: geometry.Vec3{X: 2.8, Y: 0.6},
					Fill:     &Fill{From: "#e8f4ff", To: "#f5f5f0", Level: 0.5},
				}},
			},
			Thresholds: []Threshold{
				{At: 1, Effect: EffectHide, Slot: "burner"},
			},
		}},
		MicroView: &ViewRules{VisualRules: &VisualRules{
			Slots: Slots{
				{Name: "container", Apparatus: Apparatus{Kind: Beaker, Scale: &geometry.Vec3{X: 3, Y: 3, Z: 3}}},
				{Name: "reactants", Apparatus: Apparatus{Kind: Particles, Side: ReactantSide, Max: 40, Radius: 1.2}},
				{Name: "products", Apparatus: Apparatus{Kind: Particles, Side: ProductSide, Max: 40, Radius: 1.2}},
			},
			Particles: &ParticleSteps{Steps: 5},
		}},
	}
}
