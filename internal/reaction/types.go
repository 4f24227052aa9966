package reaction

import (
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/san-kum/chemscene/internal/geometry"
)

type ViewLevel int

const (
	Macro ViewLevel = iota
	Micro
	Nano
)

// Levels lists every view level in zoom order.
var Levels = []ViewLevel{Macro, Micro, Nano}

func (v ViewLevel) String() string {
	switch v {
	case Macro:
		return "macro"
	case Micro:
		return "micro"
	case Nano:
		return "nano"
	}
	return fmt.Sprintf("view(%d)", int(v))
}

// Key is the record field that holds the level's rules.
func (v ViewLevel) Key() string {
	return v.String() + "View"
}

func (v ViewLevel) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *ViewLevel) UnmarshalText(b []byte) error {
	lv, err := ParseViewLevel(string(b))
	if err != nil {
		return err
	}
	*v = lv
	return nil
}

// ParseViewLevel accepts "macro", "MACRO" or the field key "macroView".
func ParseViewLevel(s string) (ViewLevel, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "view")
	for _, v := range Levels {
		if v.String() == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownView, s)
}

type Species struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Count  int    `json:"count" yaml:"count"`
	Color  string `json:"color,omitempty" yaml:"color,omitempty"`
}

// ViewRules is the per-level container. A nil container and a nil
// VisualRules both mean "use the default".
type ViewRules struct {
	VisualRules *VisualRules `json:"visualRules,omitempty" yaml:"visualRules,omitempty"`
}

type Record struct {
	ID               string     `json:"id" yaml:"id"`
	Name             string     `json:"name,omitempty" yaml:"name,omitempty"`
	Equation         string     `json:"equation,omitempty" yaml:"equation,omitempty"`
	Reactants        []Species  `json:"reactants" yaml:"reactants"`
	Products         []Species  `json:"products" yaml:"products"`
	ActivationEnergy float64    `json:"activationEnergy" yaml:"activationEnergy"`
	MacroView        *ViewRules `json:"macroView,omitempty" yaml:"macroView,omitempty"`
	MicroView        *ViewRules `json:"microView,omitempty" yaml:"microView,omitempty"`
	NanoView         *ViewRules `json:"nanoView,omitempty" yaml:"nanoView,omitempty"`
}

// View returns the container for a level, possibly nil.
func (r *Record) View(v ViewLevel) *ViewRules {
	switch v {
	case Macro:
		return r.MacroView
	case Micro:
		return r.MicroView
	case Nano:
		return r.NanoView
	}
	return nil
}

// Rules returns the visual rules for a level, or nil when absent.
func (r *Record) Rules(v ViewLevel) *VisualRules {
	if c := r.View(v); c != nil {
		return c.VisualRules
	}
	return nil
}

// SetRules replaces the whole rules structure of a level, creating the
// container when missing.
func (r *Record) SetRules(v ViewLevel, rules *VisualRules) {
	c := r.View(v)
	if c == nil {
		c = &ViewRules{}
		switch v {
		case Macro:
			r.MacroView = c
		case Micro:
			r.MicroView = c
		case Nano:
			r.NanoView = c
		}
	}
	c.VisualRules = rules
}

// Clone returns a deep copy sharing no memory with r. Nil slices stay nil,
// so the copy is deeply equal to r.
func (r *Record) Clone() (*Record, error) {
	out := &Record{}
	if err := copier.CopyWithOption(out, r, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("reaction: clone %s: %w", r.ID, err)
	}
	if r.Reactants == nil {
		out.Reactants = nil
	}
	if r.Products == nil {
		out.Products = nil
	}
	for _, v := range Levels {
		src, dst := r.View(v), out.View(v)
		switch {
		case src == nil && dst != nil:
			out.clearView(v)
		case src != nil && dst != nil:
			if src.VisualRules == nil {
				dst.VisualRules = nil
			}
			keepNil(dst.VisualRules, src.VisualRules)
		}
	}
	return out, nil
}

// Clone returns a deep copy of the rules with the same nil-ness as r.
func (r *VisualRules) Clone() (*VisualRules, error) {
	if r == nil {
		return nil, nil
	}
	out := &VisualRules{}
	if err := copier.CopyWithOption(out, r, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("reaction: clone rules: %w", err)
	}
	keepNil(out, r)
	return out, nil
}

// keepNil restores the nil slices copier turns into empty ones.
func keepNil(dst, src *VisualRules) {
	if dst == nil || src == nil {
		return
	}
	if src.Slots == nil {
		dst.Slots = nil
	}
	if src.Thresholds == nil {
		dst.Thresholds = nil
	}
	if src.Particles == nil {
		dst.Particles = nil
	}
	if len(dst.Slots) != len(src.Slots) {
		return
	}
	for i := range src.Slots {
		s, d := &src.Slots[i].Apparatus, &dst.Slots[i].Apparatus
		if s.Points == nil {
			d.Points = nil
		}
		if s.Scale == nil {
			d.Scale = nil
		}
		if s.Fill == nil {
			d.Fill = nil
		}
	}
}

func (r *Record) clearView(v ViewLevel) {
	switch v {
	case Macro:
		r.MacroView = nil
	case Micro:
		r.MicroView = nil
	case Nano:
		r.NanoView = nil
	}
}

type Kind string

// Static apparatus: placed by transform only.
const (
	Beaker       Kind = "beaker"
	ConicalFlask Kind = "conical_flask"
	BoilingTube  Kind = "boiling_tube"
	TestTube     Kind = "test_tube"
	BunsenBurner Kind = "bunsen_burner"
	Gauze        Kind = "gauze"
	ClampStand   Kind = "clamp_stand"
	GasJar       Kind = "gas_jar"
	Trough       Kind = "trough"
)

// Computed apparatus and view-specific kinds.
const (
	Tripod       Kind = "tripod"
	DeliveryTube Kind = "delivery_tube"
	Particles    Kind = "particles"
	Atoms        Kind = "atoms"
)

var staticKinds = map[Kind]bool{
	Beaker: true, ConicalFlask: true, BoilingTube: true, TestTube: true,
	BunsenBurner: true, Gauze: true, ClampStand: true, GasJar: true, Trough: true,
}

// IsStatic reports whether the kind has fixed, parameterless geometry.
func (k Kind) IsStatic() bool { return staticKinds[k] }

// Known reports whether the kind is recognised at all.
func (k Kind) Known() bool {
	return k.IsStatic() || k == Tripod || k == DeliveryTube || k == Particles || k == Atoms
}

type Side string

const (
	ReactantSide Side = "reactants"
	ProductSide  Side = "products"
)

// Fill is a liquid whose color moves from From to To as the reaction
// progresses. Level is the fill fraction of the vessel.
type Fill struct {
	From  string  `json:"from" yaml:"from"`
	To    string  `json:"to" yaml:"to"`
	Level float64 `json:"level,omitempty" yaml:"level,omitempty"`
}

// Apparatus is the placement and kind-specific parameters of one slot.
type Apparatus struct {
	Kind     Kind           `json:"kind" yaml:"kind"`
	Position geometry.Vec3  `json:"position" yaml:"position"`
	Rotation geometry.Vec3  `json:"rotation" yaml:"rotation"`
	Scale    *geometry.Vec3 `json:"scale,omitempty" yaml:"scale,omitempty"`
	Hidden   bool           `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Color    string         `json:"color,omitempty" yaml:"color,omitempty"`

	// tripod
	Height   float64 `json:"height,omitempty" yaml:"height,omitempty"`
	LegAngle float64 `json:"legAngle,omitempty" yaml:"legAngle,omitempty"`

	// delivery_tube
	Points []geometry.Vec3 `json:"points,omitempty" yaml:"points,omitempty"`

	// tube thickness, or cloud radius for particles and atoms
	Radius float64 `json:"radius,omitempty" yaml:"radius,omitempty"`

	Fill *Fill `json:"fill,omitempty" yaml:"fill,omitempty"`

	// particles, atoms
	Side Side `json:"side,omitempty" yaml:"side,omitempty"`
	Max  int  `json:"max,omitempty" yaml:"max,omitempty"`
}

// Slot is one named entry of a rules mapping.
type Slot struct {
	Name      string
	Apparatus Apparatus
}

type Effect string

const (
	EffectShow  Effect = "show"
	EffectHide  Effect = "hide"
	EffectScale Effect = "scale"
)

// Threshold applies Effect to Slot once progress reaches At.
type Threshold struct {
	At     float64 `json:"at" yaml:"at"`
	Effect Effect  `json:"effect" yaml:"effect"`
	Slot   string  `json:"slot" yaml:"slot"`
	Factor float64 `json:"factor,omitempty" yaml:"factor,omitempty"`
}

// ParticleSteps quantises particle counts: progress is rounded down to one
// of Steps levels.
type ParticleSteps struct {
	Steps int `json:"steps" yaml:"steps"`
}

type VisualRules struct {
	Slots      Slots          `json:"slots" yaml:"slots"`
	Thresholds []Threshold    `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
	Particles  *ParticleSteps `json:"particles,omitempty" yaml:"particles,omitempty"`
}
