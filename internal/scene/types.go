package scene

import (
	"github.com/san-kum/chemscene/internal/energy"
	"github.com/san-kum/chemscene/internal/geometry"
	"github.com/san-kum/chemscene/internal/reaction"
)

type Shape string

const (
	Cylinder Shape = "cylinder"
	Torus    Shape = "torus"
	Tube     Shape = "tube"
	Sphere   Shape = "sphere"
)

// Material describes how a surface is drawn.
type Material struct {
	Color     string  `json:"color"`
	Opacity   float64 `json:"opacity"`
	Shininess float64 `json:"shininess"`
}

// Part is a computed sub-shape of an entity. Transforms and paths are in the
// entity's local frame.
type Part struct {
	Name      string             `json:"name"`
	Shape     Shape              `json:"shape"`
	Transform geometry.Transform `json:"transform"`
	Path      []geometry.Vec3    `json:"path,omitempty"`
	Radius    float64            `json:"radius,omitempty"`
	Color     string             `json:"color,omitempty"`
}

// Instance is one particle or atom, positioned in the entity's local frame.
type Instance struct {
	Label    string        `json:"label"`
	Position geometry.Vec3 `json:"position"`
	Radius   float64       `json:"radius"`
	Color    string        `json:"color"`
}

// Entity is one drawable slot. Each entity can be drawn on its own.
type Entity struct {
	Slot      string             `json:"slot"`
	Kind      reaction.Kind      `json:"kind"`
	Transform geometry.Transform `json:"transform"`
	Material  Material           `json:"material"`
	Visible   bool               `json:"visible"`
	Parts     []Part             `json:"parts,omitempty"`
	Instances []Instance         `json:"instances,omitempty"`
}

// Description is the resolved scene for one instant. It is rebuilt on every
// resolution and never mutated afterwards.
type Description struct {
	ReactionID   string             `json:"reactionId"`
	View         reaction.ViewLevel `json:"view"`
	Progress     float64            `json:"progress"`
	Entities     []Entity           `json:"entities"`
	EnergyMarker energy.Point       `json:"energyMarker"`
	// ActivationEnergy is the value EnergyMarker was computed from, so a
	// plotted curve can be drawn from the same frame.
	ActivationEnergy float64 `json:"activationEnergy"`
	// Fallback is set when the built-in rules replaced the record's rules.
	Fallback bool `json:"fallback"`
}

// Entity returns the entity for a slot name.
func (d *Description) Entity(slot string) (Entity, bool) {
	for _, e := range d.Entities {
		if e.Slot == slot {
			return e, true
		}
	}
	return Entity{}, false
}
