package scene

import (
	"math"
	"reflect"
	"testing"

	"github.com/san-kum/chemscene/internal/geometry"
	"github.com/san-kum/chemscene/internal/reaction"
)

func sample(t *testing.T, id string) *reaction.Record {
	t.Helper()
	for _, r := range reaction.Samples() {
		if r.ID == id {
			rec := r
			return &rec
		}
	}
	t.Fatalf("sample %s not found", id)
	return nil
}

func TestResolveIdempotent(t *testing.T) {
	rec := sample(t, "copper-carbonate")
	for _, v := range reaction.Levels {
		for _, p := range []float64{0, 0.25, 0.5, 0.8, 1} {
			a := Resolve(rec, v, p)
			b := Resolve(rec, v, p)
			if !reflect.DeepEqual(a, b) {
				t.Errorf("%s@%.2f: resolutions differ", v, p)
			}
		}
	}
}

func TestResolveDoesNotMutateRecord(t *testing.T) {
	rec := sample(t, "copper-carbonate")
	before := sample(t, "copper-carbonate")
	Resolve(rec, reaction.Macro, 1)
	Resolve(rec, reaction.Micro, 0.6)
	if !reflect.DeepEqual(rec, before) {
		t.Error("record was modified by resolution")
	}
}

func TestResolveFallbackWhenViewAbsent(t *testing.T) {
	rec := sample(t, "neutralisation")
	for _, v := range reaction.Levels {
		d := Resolve(rec, v, 0.5)
		if !d.Fallback {
			t.Errorf("%s: expected fallback", v)
		}
		if len(d.Entities) != len(DefaultRules(v).Slots) {
			t.Errorf("%s: expected %d entities, got %d", v, len(DefaultRules(v).Slots), len(d.Entities))
		}
		for _, e := range d.Entities {
			if e.Slot == "" || e.Kind == "" || e.Material.Color == "" {
				t.Errorf("%s: entity has empty fields: %+v", v, e)
			}
			if e.Transform.Scale == (geometry.Vec3{}) {
				t.Errorf("%s/%s: zero scale", v, e.Slot)
			}
		}
	}
}

func TestResolveFallbackOnInvalidRules(t *testing.T) {
	cases := []struct {
		name  string
		rules *reaction.VisualRules
	}{
		{"empty", &reaction.VisualRules{}},
		{"unknown kind", &reaction.VisualRules{Slots: reaction.Slots{
			{Name: "x", Apparatus: reaction.Apparatus{Kind: "retort"}},
		}}},
		{"tripod without height", &reaction.VisualRules{Slots: reaction.Slots{
			{Name: "tripod", Apparatus: reaction.Apparatus{Kind: reaction.Tripod}},
		}}},
		{"particles without side", &reaction.VisualRules{Slots: reaction.Slots{
			{Name: "p", Apparatus: reaction.Apparatus{Kind: reaction.Particles}},
		}}},
		{"unnamed slot", &reaction.VisualRules{Slots: reaction.Slots{
			{Apparatus: reaction.Apparatus{Kind: reaction.Beaker}},
		}}},
		{"particle cloud above limit", &reaction.VisualRules{Slots: reaction.Slots{
			{Name: "p", Apparatus: reaction.Apparatus{Kind: reaction.Particles, Side: reaction.ReactantSide, Max: 5_000_000}},
		}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := sample(t, "neutralisation")
			rec.SetRules(reaction.Macro, tc.rules)
			d := Resolve(rec, reaction.Macro, 0)
			if !d.Fallback {
				t.Fatal("expected fallback")
			}
			if _, ok := d.Entity("burner"); !ok {
				t.Error("expected default burner entity")
			}
		})
	}
}

func TestResolveEntityOrder(t *testing.T) {
	rec := sample(t, "copper-carbonate")
	d := Resolve(rec, reaction.Macro, 0.3)
	if d.Fallback {
		t.Fatal("unexpected fallback")
	}
	want := rec.Rules(reaction.Macro).Slots.Names()
	var got []string
	for _, e := range d.Entities {
		got = append(got, e.Slot)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}

func TestResolveTripod(t *testing.T) {
	rec := sample(t, "copper-carbonate")
	d := Resolve(rec, reaction.Macro, 0)
	e, ok := d.Entity("tripod")
	if !ok {
		t.Fatal("tripod entity missing")
	}
	if len(e.Parts) != 4 {
		t.Fatalf("expected ring and 3 legs, got %d parts", len(e.Parts))
	}
	if e.Parts[0].Shape != Torus {
		t.Errorf("expected torus ring, got %s", e.Parts[0].Shape)
	}
	want := 2 / math.Cos(0.15)
	for _, p := range e.Parts[1:] {
		if p.Shape != Cylinder {
			t.Errorf("%s: expected cylinder, got %s", p.Name, p.Shape)
		}
		if math.Abs(p.Transform.Scale.Y-want) > 1e-9 {
			t.Errorf("%s: expected length %f, got %f", p.Name, want, p.Transform.Scale.Y)
		}
	}
}

func TestResolveTripodExtremeAngle(t *testing.T) {
	rec := sample(t, "neutralisation")
	rec.SetRules(reaction.Macro, &reaction.VisualRules{Slots: reaction.Slots{
		{Name: "tripod", Apparatus: reaction.Apparatus{Kind: reaction.Tripod, Height: 1, LegAngle: 10}},
	}})
	d := Resolve(rec, reaction.Macro, 0)
	e, _ := d.Entity("tripod")
	for _, p := range e.Parts[1:] {
		l := p.Transform.Scale.Y
		if math.IsNaN(l) || math.IsInf(l, 0) || l <= 0 {
			t.Errorf("%s: bad length %f", p.Name, l)
		}
	}
}

func TestResolveDeliveryTube(t *testing.T) {
	cases := []struct {
		name   string
		points []geometry.Vec3
	}{
		{"default", nil},
		{"single", []geometry.Vec3{{X: 1}}},
		{"coincident", []geometry.Vec3{{X: 1, Y: 1}, {X: 1, Y: 1}}},
		{"curve", []geometry.Vec3{{}, {X: 1, Y: 1}, {X: 2}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := sample(t, "neutralisation")
			rec.SetRules(reaction.Macro, &reaction.VisualRules{Slots: reaction.Slots{
				{Name: "delivery", Apparatus: reaction.Apparatus{Kind: reaction.DeliveryTube, Points: tc.points}},
			}})
			d := Resolve(rec, reaction.Macro, 0)
			if d.Fallback {
				t.Fatal("unexpected fallback")
			}
			e, _ := d.Entity("delivery")
			if len(e.Parts) != 1 {
				t.Fatalf("expected one part, got %d", len(e.Parts))
			}
			path := e.Parts[0].Path
			if len(path) != DefaultTubeSegments+1 {
				t.Fatalf("expected %d samples, got %d", DefaultTubeSegments+1, len(path))
			}
			length := 0.0
			for i := 1; i < len(path); i++ {
				length += path[i].Distance(path[i-1])
			}
			if length <= 0 {
				t.Errorf("expected positive tube length, got %f", length)
			}
		})
	}
}

func TestQuantize(t *testing.T) {
	cases := []struct {
		p     float64
		steps int
		want  float64
	}{
		{0, 4, 0},
		{0.24, 4, 0},
		{0.25, 4, 0.25},
		{0.99, 4, 0.75},
		{1, 4, 1},
		{0.5, 0, 0},
	}
	for _, tc := range cases {
		if got := Quantize(tc.p, tc.steps); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Quantize(%v, %d) = %v, want %v", tc.p, tc.steps, got, tc.want)
		}
	}
}

func TestResolveParticleSteps(t *testing.T) {
	rec := sample(t, "copper-carbonate")

	counts := func(p float64) (int, int) {
		d := Resolve(rec, reaction.Micro, p)
		r, _ := d.Entity("reactants")
		pr, _ := d.Entity("products")
		return len(r.Instances), len(pr.Instances)
	}

	cases := []struct {
		p                   float64
		reactants, products int
	}{
		{0, 40, 0},
		{0.1, 40, 0},
		{0.2, 32, 8},
		{0.39, 32, 8},
		{0.5, 24, 16},
		{1, 0, 40},
	}
	for _, tc := range cases {
		r, p := counts(tc.p)
		if r != tc.reactants || p != tc.products {
			t.Errorf("progress %.2f: expected %d/%d, got %d/%d", tc.p, tc.reactants, tc.products, r, p)
		}
	}
}

func TestResolveParticlesStayPut(t *testing.T) {
	rec := sample(t, "copper-carbonate")
	a, _ := Resolve(rec, reaction.Micro, 0).Entity("reactants")
	b, _ := Resolve(rec, reaction.Micro, 0.5).Entity("reactants")
	for i := range b.Instances {
		if b.Instances[i].Position != a.Instances[i].Position {
			t.Fatalf("particle %d moved", i)
		}
	}
	for _, in := range a.Instances {
		if in.Position.Length() > 1.2+1e-9 {
			t.Errorf("particle outside cloud: %v", in.Position)
		}
	}
}

func TestResolveNanoSwitch(t *testing.T) {
	rec := sample(t, "magnesium-combustion")

	cases := []struct {
		p                   float64
		reactants, products bool
	}{
		{0, true, false},
		{0.49, true, false},
		{0.5, false, true},
		{1, false, true},
	}
	for _, tc := range cases {
		d := Resolve(rec, reaction.Nano, tc.p)
		r, _ := d.Entity("reactants")
		p, _ := d.Entity("products")
		if r.Visible != tc.reactants || p.Visible != tc.products {
			t.Errorf("progress %.2f: expected %v/%v, got %v/%v", tc.p, tc.reactants, tc.products, r.Visible, p.Visible)
		}
	}
}

func TestResolveAtoms(t *testing.T) {
	rec := sample(t, "magnesium-combustion")
	d := Resolve(rec, reaction.Nano, 0)
	r, _ := d.Entity("reactants")
	// 2 Mg + one O2 molecule
	if len(r.Instances) != 4 {
		t.Fatalf("expected 4 atoms, got %d", len(r.Instances))
	}
	if len(r.Parts) != 1 {
		t.Errorf("expected one O-O bond, got %d", len(r.Parts))
	}
	p, _ := d.Entity("products")
	if len(p.Instances) != 4 || len(p.Parts) != 2 {
		t.Errorf("expected 4 atoms and 2 bonds, got %d and %d", len(p.Instances), len(p.Parts))
	}
}

func TestResolveThresholds(t *testing.T) {
	rec := sample(t, "copper-carbonate")

	burner, _ := Resolve(rec, reaction.Macro, 0.99).Entity("burner")
	if !burner.Visible {
		t.Error("burner should be visible before the threshold")
	}
	burner, _ = Resolve(rec, reaction.Macro, 1).Entity("burner")
	if burner.Visible {
		t.Error("burner should be hidden at the threshold")
	}
}

func TestResolveThresholdOrder(t *testing.T) {
	rec := sample(t, "neutralisation")
	rec.SetRules(reaction.Macro, &reaction.VisualRules{
		Slots: reaction.Slots{
			{Name: "jar", Apparatus: reaction.Apparatus{Kind: reaction.GasJar}},
		},
		Thresholds: []reaction.Threshold{
			{At: 0.6, Effect: reaction.EffectShow, Slot: "jar"},
			{At: 0.2, Effect: reaction.EffectHide, Slot: "jar"},
			{At: 0.4, Effect: reaction.EffectScale, Slot: "jar", Factor: 2},
			{At: 0.1, Effect: reaction.EffectHide, Slot: "missing"},
		},
	})

	jar, _ := Resolve(rec, reaction.Macro, 0.5).Entity("jar")
	if jar.Visible {
		t.Error("jar should be hidden at 0.5")
	}
	if jar.Transform.Scale != (geometry.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("expected scale 2, got %v", jar.Transform.Scale)
	}
	jar, _ = Resolve(rec, reaction.Macro, 0.7).Entity("jar")
	if !jar.Visible {
		t.Error("jar should be shown again at 0.7")
	}
}

func TestResolveClampsProgress(t *testing.T) {
	rec := sample(t, "copper-carbonate")
	cases := []struct {
		in, want float64
	}{
		{-1, 0},
		{2, 1},
		{math.NaN(), 0},
		{0.3, 0.3},
	}
	for _, tc := range cases {
		d := Resolve(rec, reaction.Micro, tc.in)
		if d.Progress != tc.want {
			t.Errorf("progress %v: expected %v, got %v", tc.in, tc.want, d.Progress)
		}
	}
	if !reflect.DeepEqual(Resolve(rec, reaction.Micro, 5), Resolve(rec, reaction.Micro, 1)) {
		t.Error("out-of-range progress should resolve like 1")
	}
}

func TestResolveLiquidColor(t *testing.T) {
	rec := sample(t, "copper-carbonate")
	liquid := func(p float64) string {
		e, _ := Resolve(rec, reaction.Macro, p).Entity("tube")
		for _, part := range e.Parts {
			if part.Name == "liquid" {
				return part.Color
			}
		}
		t.Fatal("liquid part missing")
		return ""
	}
	if got := liquid(0); got != "#3bb273" {
		t.Errorf("expected start color #3bb273, got %s", got)
	}
	if got := liquid(1); got != "#222222" {
		t.Errorf("expected end color #222222, got %s", got)
	}
	if mid := liquid(0.5); mid == "#3bb273" || mid == "#222222" {
		t.Errorf("expected blended mid color, got %s", mid)
	}
}

func TestResolveEnergyMarker(t *testing.T) {
	rec := sample(t, "copper-carbonate")
	d := Resolve(rec, reaction.Macro, 0.5)
	if d.EnergyMarker.X != 0.5 {
		t.Errorf("expected marker x 0.5, got %f", d.EnergyMarker.X)
	}
	if math.Abs(d.EnergyMarker.Y-0.58) > 1e-9 {
		t.Errorf("expected marker y 0.58, got %f", d.EnergyMarker.Y)
	}
}

func TestResolveColorOverride(t *testing.T) {
	rec := sample(t, "neutralisation")
	rec.SetRules(reaction.Macro, &reaction.VisualRules{Slots: reaction.Slots{
		{Name: "b", Apparatus: reaction.Apparatus{Kind: reaction.Beaker, Color: "#FF0000"}},
		{Name: "c", Apparatus: reaction.Apparatus{Kind: reaction.Beaker, Color: "nope"}},
	}})
	d := Resolve(rec, reaction.Macro, 0)
	b, _ := d.Entity("b")
	c, _ := d.Entity("c")
	if b.Material.Color != "#ff0000" {
		t.Errorf("expected override #ff0000, got %s", b.Material.Color)
	}
	if c.Material.Color != glass.Color {
		t.Errorf("expected glass color, got %s", c.Material.Color)
	}
}

func TestResolveParticleLimit(t *testing.T) {
	rec := sample(t, "copper-carbonate")
	rec.SetRules(reaction.Micro, &reaction.VisualRules{Slots: reaction.Slots{
		{Name: "cloud", Apparatus: reaction.Apparatus{Kind: reaction.Particles, Side: reaction.ReactantSide, Max: MaxParticles}},
	}})
	d := Resolve(rec, reaction.Micro, 0)
	if d.Fallback {
		t.Fatal("a cloud of MaxParticles should be accepted")
	}
	e, _ := d.Entity("cloud")
	if len(e.Instances) != MaxParticles {
		t.Errorf("expected %d particles, got %d", MaxParticles, len(e.Instances))
	}

	if got := cloudSize(reaction.Apparatus{Max: 5_000_000}); got != MaxParticles {
		t.Errorf("cloud size not capped: %d", got)
	}
}

func TestResolveAtomsBoundsCount(t *testing.T) {
	// records handed straight to the resolver may skip validation
	rec := sample(t, "magnesium-combustion")
	rec.Reactants = []reaction.Species{{Symbol: "Mg", Count: 1_000_000}}
	d := Resolve(rec, reaction.Nano, 0)
	r, _ := d.Entity("reactants")
	if len(r.Instances) != reaction.MaxSpeciesCount {
		t.Errorf("expected %d atoms, got %d", reaction.MaxSpeciesCount, len(r.Instances))
	}

	rec.Reactants = []reaction.Species{{Symbol: "Mg", Count: 1_000_000}}
	d = Resolve(rec, reaction.Micro, 0)
	if _, ok := d.Entity("reactants"); !ok {
		t.Fatal("expected reactant cloud")
	}
}
