package viz

import (
	"math"

	"github.com/san-kum/chemscene/internal/geometry"
	"github.com/san-kum/chemscene/internal/reaction"
	"github.com/san-kum/chemscene/internal/scene"
)

const circleSegments = 16

// SceneWireframe outlines every visible entity of a description in world
// space. Static apparatus get a schematic outline per kind; computed parts,
// particles and atoms are drawn from the description itself.
func SceneWireframe(d *scene.Description) *Wireframe {
	w := NewWireframe()
	if d == nil {
		return w
	}
	for _, e := range d.Entities {
		if !e.Visible {
			continue
		}
		world := func(p geometry.Vec3) geometry.Vec3 { return e.Transform.Apply(p) }

		for _, seg := range kindOutline(e.Kind) {
			w.AddEdge(world(seg[0]), world(seg[1]), e.Slot)
		}
		for _, part := range e.Parts {
			local := func(p geometry.Vec3) geometry.Vec3 { return world(part.Transform.Apply(p)) }
			switch part.Shape {
			case scene.Cylinder:
				if part.Name == "liquid" {
					for _, seg := range cylinder(1, -0.5, 0.5) {
						w.AddEdge(local(seg[0]), local(seg[1]), e.Slot)
					}
				} else {
					w.AddEdge(local(geometry.Vec3{Y: -0.5}), local(geometry.Vec3{Y: 0.5}), e.Slot)
				}
			case scene.Torus:
				pts := circleXY(1)
				for i := range pts {
					pts[i] = local(pts[i])
				}
				w.AddPolyline(pts, e.Slot)
			case scene.Tube:
				pts := make([]geometry.Vec3, len(part.Path))
				for i, p := range part.Path {
					pts[i] = local(p)
				}
				w.AddPolyline(pts, e.Slot)
			}
		}
		for _, in := range e.Instances {
			c := world(in.Position)
			w.AddPoint(c, e.Slot)
			if e.Kind == reaction.Atoms {
				pts := circleXY(in.Radius)
				for i := range pts {
					pts[i] = world(in.Position.Add(pts[i]))
				}
				w.AddPolyline(pts, e.Slot)
			}
		}
	}
	return w
}

type segment [2]geometry.Vec3

// kindOutline is a schematic outline of a static apparatus in its local
// frame, base at y = 0.
func kindOutline(k reaction.Kind) []segment {
	switch k {
	case reaction.Beaker:
		return cylinder(0.5, 0, 1)
	case reaction.ConicalFlask:
		return frustum(0.5, 0.15, 0, 0.8, 1.1)
	case reaction.BoilingTube:
		return cylinder(0.15, 0, 1.2)
	case reaction.TestTube:
		return cylinder(0.1, 0, 1)
	case reaction.GasJar:
		return cylinder(0.35, 0, 1.2)
	case reaction.BunsenBurner:
		return append(ring(0.3, 0), cylinder(0.08, 0, 1)...)
	case reaction.Gauze:
		return box(1.2, 0.01, 1.2)
	case reaction.Trough:
		return box(2, 0.6, 1)
	case reaction.ClampStand:
		return append(box(1, 0.05, 0.6), segment{{X: -0.4}, {X: -0.4, Y: 3}})
	}
	return nil
}

func circleXZ(r, y float64) []geometry.Vec3 {
	pts := make([]geometry.Vec3, circleSegments+1)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = geometry.Vec3{X: r * math.Cos(a), Y: y, Z: r * math.Sin(a)}
	}
	return pts
}

func circleXY(r float64) []geometry.Vec3 {
	pts := make([]geometry.Vec3, circleSegments+1)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = geometry.Vec3{X: r * math.Cos(a), Y: r * math.Sin(a)}
	}
	return pts
}

func ring(r, y float64) []segment {
	pts := circleXZ(r, y)
	out := make([]segment, 0, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		out = append(out, segment{pts[i-1], pts[i]})
	}
	return out
}

func cylinder(r, y0, y1 float64) []segment {
	out := append(ring(r, y0), ring(r, y1)...)
	for i := 0; i < 4; i++ {
		a := math.Pi / 2 * float64(i)
		x, z := r*math.Cos(a), r*math.Sin(a)
		out = append(out, segment{{X: x, Y: y0, Z: z}, {X: x, Y: y1, Z: z}})
	}
	return out
}

// frustum is a cone from radius r0 at y0 to r1 at neck, then a neck up to top.
func frustum(r0, r1, y0, neck, top float64) []segment {
	out := append(ring(r0, y0), ring(r1, neck)...)
	out = append(out, ring(r1, top)...)
	for i := 0; i < 4; i++ {
		a := math.Pi / 2 * float64(i)
		c, s := math.Cos(a), math.Sin(a)
		out = append(out,
			segment{{X: r0 * c, Y: y0, Z: r0 * s}, {X: r1 * c, Y: neck, Z: r1 * s}},
			segment{{X: r1 * c, Y: neck, Z: r1 * s}, {X: r1 * c, Y: top, Z: r1 * s}},
		)
	}
	return out
}

func box(w, h, d float64) []segment {
	x, z := w/2, d/2
	v := []geometry.Vec3{
		{X: -x, Z: -z}, {X: x, Z: -z}, {X: x, Z: z}, {X: -x, Z: z},
		{X: -x, Y: h, Z: -z}, {X: x, Y: h, Z: -z}, {X: x, Y: h, Z: z}, {X: -x, Y: h, Z: z},
	}
	ei := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	out := make([]segment, len(ei))
	for i, e := range ei {
		out[i] = segment{v[e[0]], v[e[1]]}
	}
	return out
}
