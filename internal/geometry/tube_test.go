package geometry

import (
	"math"
	"testing"
)

func TestRouteDegenerateTwoPoints(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
	}{
		{"identical", Vec3{1, 1, 1}, Vec3{1, 1, 1}},
		{"within epsilon", Vec3{0, 0, 0}, Vec3{0.0004, 0, 0.0003}},
		{"origin", Vec3{}, Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Route([]Vec3{tt.a, tt.b})
			if p.Length() <= 0 {
				t.Fatalf("expected positive length, got %g", p.Length())
			}
			end := p.Point(1)
			if math.Abs(end.Y-(tt.b.Y+DegenerateOffset)) > 1e-12 {
				t.Errorf("expected end y %.4f, got %.4f", tt.b.Y+DegenerateOffset, end.Y)
			}
		})
	}
}

func TestRouteStraightLine(t *testing.T) {
	a, b := Vec3{0, 0, 0}, Vec3{3, 4, 0}
	p := Route([]Vec3{a, b})
	if _, ok := p.(Line); !ok {
		t.Fatalf("expected Line, got %T", p)
	}
	if math.Abs(p.Length()-5) > 1e-12 {
		t.Errorf("expected length 5, got %g", p.Length())
	}
	mid := p.Point(0.5)
	if mid.Distance(Vec3{1.5, 2, 0}) > 1e-12 {
		t.Errorf("unexpected midpoint %v", mid)
	}
}

func TestRouteDefault(t *testing.T) {
	for _, pts := range [][]Vec3{nil, {}, {{1, 2, 3}}} {
		p := Route(pts)
		if p.Point(0).Distance(DefaultTubePoints[0]) > 1e-9 {
			t.Errorf("expected default start, got %v", p.Point(0))
		}
		last := DefaultTubePoints[len(DefaultTubePoints)-1]
		if p.Point(1).Distance(last) > 1e-9 {
			t.Errorf("expected default end, got %v", p.Point(1))
		}
	}
}

func TestCatmullRomPassesThroughPoints(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {1, 2, 0}, {2, 2, 1}, {4, 0, 1}, {5, -1, 0}}
	for _, alpha := range []float64{0, Centripetal, 1} {
		c := NewCatmullRom(pts, alpha)
		for i, want := range pts {
			got := c.Point(float64(i) / float64(len(pts)-1))
			if got.Distance(want) > 1e-9 {
				t.Errorf("alpha %.1f point %d: got %v, want %v", alpha, i, got, want)
			}
		}
	}
}

func TestCatmullRomCopiesInput(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {1, 1, 0}, {2, 0, 0}}
	c := NewCatmullRom(pts, Centripetal)
	pts[1] = Vec3{9, 9, 9}
	if c.Point(0.5).Distance(Vec3{1, 1, 0}) > 1e-9 {
		t.Error("curve changed after caller mutated its slice")
	}
}

func TestCentripetalNoOvershoot(t *testing.T) {
	// a sharp turn between unevenly spaced points
	pts := []Vec3{{0, 0, 0}, {0.1, 0, 0}, {0.1, 3, 0}, {0.2, 3, 0}}
	c := NewCatmullRom(pts, Centripetal)
	for _, s := range Samples(c, 300) {
		if s.X < -0.05 || s.X > 0.25 {
			t.Fatalf("sample %v overshoots the control hull", s)
		}
	}
}

func TestCatmullRomLength(t *testing.T) {
	c := NewCatmullRom([]Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}, Centripetal)
	if math.Abs(c.Length()-2) > 1e-6 {
		t.Errorf("collinear length expected 2, got %g", c.Length())
	}
}

func TestSamples(t *testing.T) {
	s := Samples(Line{Vec3{}, Vec3{1, 0, 0}}, 4)
	if len(s) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(s))
	}
	if s[2].X != 0.5 {
		t.Errorf("expected mid sample at 0.5, got %v", s[2].X)
	}
	if len(Samples(Line{}, 0)) != 2 {
		t.Error("expected n to be raised to 1")
	}
}
