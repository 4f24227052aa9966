package viz

import (
	"math"
	"sort"

	"github.com/san-kum/chemscene/internal/geometry"
)

// Camera orbits a target point and projects world coordinates onto a canvas.
type Camera struct {
	Target           geometry.Vec3
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Target: geometry.Vec3{X: 1, Y: 1.8}, Distance: 20, Near: 0.1, RotX: 0.25, RotY: -0.35, Zoom: 0.4}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.01, c.Zoom/1.2) }

// Fit centers the camera on the bounding box of points and zooms so the box
// fills most of the view.
func (c *Camera) Fit(points []geometry.Vec3) {
	if len(points) == 0 {
		return
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = geometry.Vec3{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = geometry.Vec3{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	c.Target = lo.Add(hi).Scale(0.5)
	extent := hi.Sub(lo).Length() / 2
	if extent < 1e-6 {
		extent = 1
	}
	c.Zoom = 1.3 / extent
}

// RotatePoint rotates a point about the target by the camera angles.
func (c *Camera) RotatePoint(p geometry.Vec3) geometry.Vec3 {
	return p.Sub(c.Target).RotateX(c.RotX).RotateY(c.RotY).RotateZ(c.RotZ)
}

// Project converts world coordinates to dot coordinates on a sw x sh dot
// canvas. It returns x, y, depth and whether the point is on screen.
func (c *Camera) Project(p geometry.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	dist := c.Distance
	if rot.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	minDim := math.Min(float64(sw), float64(sh))
	pScale := minDim / 3.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// Edge is a world-space segment. Start == End draws a single dot.
type Edge struct {
	Start, End geometry.Vec3
	Slot       string
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{} }

func (w *Wireframe) AddEdge(s, e geometry.Vec3, slot string) {
	w.Edges = append(w.Edges, Edge{Start: s, End: e, Slot: slot})
}

func (w *Wireframe) AddPoint(p geometry.Vec3, slot string) {
	w.Edges = append(w.Edges, Edge{Start: p, End: p, Slot: slot})
}

// AddPolyline joins consecutive points.
func (w *Wireframe) AddPolyline(pts []geometry.Vec3, slot string) {
	for i := 1; i < len(pts); i++ {
		w.AddEdge(pts[i-1], pts[i], slot)
	}
}

// Points returns every edge endpoint, for camera fitting.
func (w *Wireframe) Points() []geometry.Vec3 {
	out := make([]geometry.Vec3, 0, 2*len(w.Edges))
	for _, e := range w.Edges {
		out = append(out, e.Start, e.End)
	}
	return out
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe back to front.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Dots()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.SliceStable(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}
