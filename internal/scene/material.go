package scene

import (
	"hash/fnv"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/chemscene/internal/reaction"
)

var (
	glass = Material{Color: "#d8ecf5", Opacity: 0.35, Shininess: 90}
	metal = Material{Color: "#8a8f98", Opacity: 1, Shininess: 60}
	brass = Material{Color: "#b08d57", Opacity: 1, Shininess: 40}
)

var kindMaterials = map[reaction.Kind]Material{
	reaction.Beaker:       glass,
	reaction.ConicalFlask: glass,
	reaction.BoilingTube:  glass,
	reaction.TestTube:     glass,
	reaction.GasJar:       glass,
	reaction.Trough:       glass,
	reaction.DeliveryTube: glass,
	reaction.Tripod:       metal,
	reaction.Gauze:        metal,
	reaction.ClampStand:   metal,
	reaction.BunsenBurner: brass,
}

// palette colors species without an explicit color.
var palette = []string{"#ef5350", "#42a5f5", "#66bb6a", "#ffca28", "#ab47bc", "#26c6da", "#ff7043", "#8d6e63"}

// elementColors follows the usual CPK conventions for common elements.
var elementColors = map[string]string{
	"H":  "#ffffff",
	"C":  "#505050",
	"N":  "#3050f8",
	"O":  "#ff0d0d",
	"Na": "#ab5cf2",
	"Mg": "#8aff00",
	"Cl": "#1ff01f",
	"S":  "#ffff30",
	"Ca": "#3dff00",
	"Cu": "#c88033",
	"Fe": "#e06633",
}

// materialFor returns the base material of a kind, with an optional color
// override.
func materialFor(k reaction.Kind, override string) Material {
	m, ok := kindMaterials[k]
	if !ok {
		m = Material{Color: "#cccccc", Opacity: 1, Shininess: 30}
	}
	if c, err := colorful.Hex(override); err == nil {
		m.Color = c.Hex()
	}
	return m
}

// hashColor picks a palette color deterministically from a key.
func hashColor(key string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return palette[h.Sum32()%uint32(len(palette))]
}

func speciesColor(s reaction.Species) string {
	if c, err := colorful.Hex(s.Color); err == nil {
		return c.Hex()
	}
	return hashColor(s.Symbol)
}

func elementColor(el string) string {
	if c, ok := elementColors[el]; ok {
		return c
	}
	return hashColor(el)
}

// blend mixes two hex colors in Lab space. Unparseable inputs fall back to
// the respective default.
func blend(from, to, defFrom, defTo string, t float64) string {
	a, err := colorful.Hex(from)
	if err != nil {
		a, _ = colorful.Hex(defFrom)
	}
	b, err := colorful.Hex(to)
	if err != nil {
		b, _ = colorful.Hex(defTo)
	}
	switch {
	case t <= 0:
		return a.Hex()
	case t >= 1:
		return b.Hex()
	}
	return a.BlendLab(b, t).Clamped().Hex()
}
