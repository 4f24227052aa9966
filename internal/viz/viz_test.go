package viz

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/chemscene/internal/driver"
	"github.com/san-kum/chemscene/internal/energy"
	"github.com/san-kum/chemscene/internal/geometry"
	"github.com/san-kum/chemscene/internal/reaction"
	"github.com/san-kum/chemscene/internal/scene"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(3, 2)
	if !c.IsSet(3, 2) {
		t.Fatal("expected dot set")
	}
	if c.Grid[0][1] == brailleBlank {
		t.Error("expected cell to change")
	}
	c.Unset(3, 2)
	if c.IsSet(3, 2) || c.Grid[0][1] != brailleBlank {
		t.Error("expected dot cleared")
	}

	c.Set(-1, 0)
	c.Set(100, 100)
	if strings.Count(c.String(), "\n") != 1 {
		t.Error("expected one row")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 2)
	c.DrawLine(0, 0, 19, 0)
	for x := 0; x < 20; x++ {
		if !c.IsSet(x, 0) {
			t.Errorf("dot %d not set", x)
		}
	}
}

func TestCameraProjectCenter(t *testing.T) {
	cam := NewCamera()
	cam.RotX, cam.RotY = 0, 0
	x, y, _, ok := cam.Project(cam.Target, 100, 80)
	if !ok || x != 50 || y != 40 {
		t.Errorf("target should project to center, got (%d, %d, %v)", x, y, ok)
	}
}

func TestCameraFit(t *testing.T) {
	cam := NewCamera()
	cam.Fit([]geometry.Vec3{{X: -2, Y: 0}, {X: 2, Y: 4}})
	if cam.Target != (geometry.Vec3{Y: 2}) {
		t.Errorf("expected target (0,2,0), got %v", cam.Target)
	}
	for _, p := range []geometry.Vec3{{X: -2}, {X: 2, Y: 4}} {
		if _, _, _, ok := cam.Project(p, 160, 96); !ok {
			t.Errorf("point %v off screen after fit", p)
		}
	}
}

func sample(id string) *reaction.Record {
	for _, r := range reaction.Samples() {
		if r.ID == id {
			rec := r
			return &rec
		}
	}
	return nil
}

func TestSceneWireframe(t *testing.T) {
	rec := sample("copper-carbonate")
	for _, v := range reaction.Levels {
		d := scene.Resolve(rec, v, 0.5)
		w := SceneWireframe(d)
		if len(w.Edges) == 0 {
			t.Errorf("%s: empty wireframe", v)
		}
		slots := map[string]bool{}
		for _, e := range w.Edges {
			slots[e.Slot] = true
		}
		for _, e := range d.Entities {
			if e.Visible && !slots[e.Slot] {
				t.Errorf("%s: visible entity %s not drawn", v, e.Slot)
			}
		}
	}
}

func TestSceneWireframeSkipsHidden(t *testing.T) {
	d := scene.Resolve(sample("copper-carbonate"), reaction.Macro, 1)
	for _, e := range SceneWireframe(d).Edges {
		if e.Slot == "burner" {
			t.Fatal("hidden burner was drawn")
		}
	}
}

func TestSceneWireframeTripodReachesGround(t *testing.T) {
	d := scene.Resolve(sample("copper-carbonate"), reaction.Macro, 0)
	minY := 1e9
	for _, e := range SceneWireframe(d).Edges {
		if e.Slot != "tripod" {
			continue
		}
		for _, p := range []geometry.Vec3{e.Start, e.End} {
			if p.Y < minY {
				minY = p.Y
			}
		}
	}
	if minY < -1e-9 || minY > 1e-9 {
		t.Errorf("expected tripod legs to reach y=0, lowest point %f", minY)
	}
}

func TestEnergyPlot(t *testing.T) {
	p := energy.New(0.6)
	out := EnergyPlot(p, p.Marker(0.5), 30, 5)
	if !strings.Contains(out, "energy 0.60 at progress 0.50") {
		t.Errorf("missing caption:\n%s", out)
	}
	if !strings.Contains(out, "▲") {
		t.Errorf("missing marker:\n%s", out)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "lab" {
		t.Error("unknown theme should fall back to lab")
	}
	seen := map[string]bool{}
	name := "lab"
	for range Themes {
		name = NextTheme(name).Name
		seen[name] = true
	}
	if len(seen) != len(Themes) {
		t.Errorf("NextTheme should cycle through all themes, saw %v", seen)
	}
}

type memSource map[string]*reaction.Record

func (s memSource) Reaction(_ context.Context, id string) (*reaction.Record, error) {
	return s[id].Clone()
}

func TestModelKeys(t *testing.T) {
	ctx := context.Background()
	src := memSource{"copper-carbonate": sample("copper-carbonate")}
	drv := driver.New(src, "copper-carbonate")
	m := NewModel(ctx, drv, WithRecord(src["copper-carbonate"]), WithSize(40, 12))

	press := func(k string) {
		var msg tea.KeyMsg
		if k == " " {
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}

	press("]")
	if got := drv.Progress(); got != scrubStep {
		t.Errorf("expected progress %v, got %v", scrubStep, got)
	}
	press("2")
	if drv.View() != reaction.Micro {
		t.Errorf("expected micro view, got %s", drv.View())
	}
	press(" ")
	if drv.State() != driver.Playing {
		t.Error("expected playing after space")
	}
	press("l")
	if !drv.Config().Loop {
		t.Error("expected loop enabled")
	}
	press("t")
	if m.theme.Name != "chalkboard" {
		t.Errorf("expected chalkboard theme, got %s", m.theme.Name)
	}

	view := m.View()
	if !strings.Contains(view, "PLAYING") || !strings.Contains(view, "micro") {
		t.Errorf("unexpected view:\n%s", view)
	}
}

func TestModelReloadRedrawsEnergyPlot(t *testing.T) {
	ctx := context.Background()
	rec := sample("copper-carbonate")
	rec.ActivationEnergy = 0.2
	src := memSource{rec.ID: rec}
	drv := driver.New(src, rec.ID)
	m := NewModel(ctx, drv, WithRecord(rec))

	if err := drv.Scrub(ctx, 0.5); err != nil {
		t.Fatal(err)
	}
	if got := framePlot(drv.Current()); !strings.Contains(got, "energy 0.20 at progress 0.50") {
		t.Fatalf("unexpected plot before reload:\n%s", got)
	}

	edited := sample("copper-carbonate")
	edited.ActivationEnergy = 0.9
	src[rec.ID] = edited
	next, _ := m.Update(ReloadMsg{})
	m = next.(Model)
	if m.err != nil {
		t.Fatalf("reload failed: %v", m.err)
	}

	d := drv.Current()
	if d.ActivationEnergy != 0.9 {
		t.Fatalf("expected activation energy 0.9, got %v", d.ActivationEnergy)
	}
	got := framePlot(d)
	if !strings.Contains(got, "energy 0.90 at progress 0.50") {
		t.Errorf("plot caption not updated:\n%s", got)
	}
	if want := EnergyPlot(energy.New(0.9), energy.New(0.9).Marker(0.5), 30, 5); got != want {
		t.Errorf("plot series does not match the reloaded profile:\n%s\nwant:\n%s", got, want)
	}
}
