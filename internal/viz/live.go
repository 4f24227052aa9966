package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/chemscene/internal/driver"
	"github.com/san-kum/chemscene/internal/energy"
	"github.com/san-kum/chemscene/internal/reaction"
	"github.com/san-kum/chemscene/internal/scene"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	scrubStep     = 0.05
)

type TickMsg time.Time

// ReloadMsg asks the model to resolve the current frame again, for example
// after the record store changed on disk.
type ReloadMsg struct{}

// Model is the live terminal view. It owns no animation state: every key and
// tick is forwarded to the driver and the last delivered description is
// drawn.
type Model struct {
	ctx      context.Context
	drv      *driver.Driver
	interval time.Duration
	last     time.Time

	width, height int
	canvas        *Canvas
	camera        *Camera
	fitted        *fitState
	theme         Theme
	styles        styles

	name     string
	err      error
	showHelp bool
}

type Option func(*Model)

func WithSize(w, h int) Option {
	return func(m *Model) {
		if w > 0 {
			m.width = w
		}
		if h > 0 {
			m.height = h
		}
	}
}

func WithTheme(name string) Option {
	return func(m *Model) { m.theme = GetTheme(name) }
}

// WithRecord sets the title shown beside the scene.
func WithRecord(rec *reaction.Record) Option {
	return func(m *Model) {
		m.name = rec.Name
		if m.name == "" {
			m.name = rec.ID
		}
	}
}

func NewModel(ctx context.Context, drv *driver.Driver, opts ...Option) Model {
	m := Model{
		ctx:      ctx,
		drv:      drv,
		interval: drv.Config().FrameInterval,
		width:    defaultWidth,
		height:   defaultHeight,
		camera:   NewCamera(),
		fitted:   &fitState{},
		theme:    ThemeLab,
		name:     drv.ID(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.interval <= 0 {
		m.interval = driver.DefaultFrameInterval
	}
	m.canvas = NewCanvas(m.width, m.height)
	m.styles = newStyles(m.theme)
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(func() tea.Msg { return ReloadMsg{} }, m.tick())
}

// Update forwards input to the driver.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.err = m.drv.Toggle(m.ctx)
		case "[":
			m.err = m.drv.Scrub(m.ctx, m.drv.Progress()-scrubStep)
		case "]":
			m.err = m.drv.Scrub(m.ctx, m.drv.Progress()+scrubStep)
		case "home", "0":
			m.err = m.drv.Scrub(m.ctx, 0)
		case "1":
			m.err = m.drv.SetView(m.ctx, reaction.Macro)
		case "2":
			m.err = m.drv.SetView(m.ctx, reaction.Micro)
		case "3":
			m.err = m.drv.SetView(m.ctx, reaction.Nano)
		case "l":
			m.drv.SetLoop(!m.drv.Config().Loop)
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = newStyles(m.theme)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "?":
			m.showHelp = !m.showHelp
		}
	case ReloadMsg:
		m.err = m.drv.Refresh(m.ctx)
	case TickMsg:
		now := time.Time(msg)
		if !m.last.IsZero() {
			if err := m.drv.Advance(m.ctx, now.Sub(m.last)); err != nil {
				m.err = err
			}
		}
		m.last = now
		return m, m.tick()
	}
	return m, nil
}

type fitState struct {
	view reaction.ViewLevel
	ok   bool
}

// draw renders the current description onto the canvas. The camera is fitted
// once per view level so the scene does not jump while particles change.
func (m *Model) draw(d *scene.Description) {
	m.canvas.Clear()
	if d == nil {
		return
	}
	w := SceneWireframe(d)
	if !m.fitted.ok || m.fitted.view != d.View {
		m.camera.Fit(w.Points())
		*m.fitted = fitState{view: d.View, ok: true}
	}
	Render3D(m.canvas, w, m.camera)
}

// View renders the scene beside a status panel.
func (m Model) View() string {
	d := m.drv.Current()
	m.draw(d)
	canvasView := m.styles.canvas.Render(m.canvas.String())

	st := m.styles
	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")

	cfg := m.drv.Config()
	status := st.paused.Render("PAUSED")
	if m.drv.State() == driver.Playing {
		status = st.playing.Render("PLAYING")
	}
	if cfg.Loop {
		status += st.muted.Render("  loop")
	}
	s.WriteString(status + "\n\n")

	progress := m.drv.Progress()
	s.WriteString(st.label.Render("View") + st.value.Render(m.drv.View().String()) + "\n")
	s.WriteString(st.label.Render("Progress") + st.bar.Render(ProgressBar(progress, 20)) + st.value.Render(fmt.Sprintf(" %.2f", progress)) + "\n")

	if d != nil {
		s.WriteString(st.graph.Render(framePlot(d)) + "\n")
		if d.Fallback {
			s.WriteString(st.muted.Render("default rules") + "\n")
		}
		s.WriteString(st.muted.Render(Separator(36)) + "\n")
		s.WriteString(EntityTable(d, st))
	}
	if m.err != nil {
		s.WriteString("\n" + st.err.Render(m.err.Error()) + "\n")
	}
	s.WriteString(st.muted.Render("\n" + Separator(21) + "\nSP:Play [ ]:Scrub 1/2/3:View\nL:Loop T:Theme ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

// framePlot draws the energy curve from the same activation energy the
// frame's marker was computed from.
func framePlot(d *scene.Description) string {
	return EnergyPlot(energy.New(d.ActivationEnergy), d.EnergyMarker, 30, 5)
}

// EntityTable lists each entity with its visibility and instance count.
func EntityTable(d *scene.Description, st styles) string {
	var s strings.Builder
	for _, e := range d.Entities {
		mark := "●"
		if !e.Visible {
			mark = "○"
		}
		line := fmt.Sprintf("%s %-10s %-14s", mark, e.Slot, e.Kind)
		if n := len(e.Instances); n > 0 {
			line += fmt.Sprintf(" %d", n)
		}
		style := st.value
		if !e.Visible {
			style = st.muted
		}
		s.WriteString(style.Render(line) + "\n")
	}
	return s.String()
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Play/Pause               ║
║  [ ]      - Scrub progress           ║
║  0        - Rewind to start          ║
║  1 2 3    - Macro / Micro / Nano     ║
║  L        - Toggle looping           ║
║  T        - Cycle themes             ║
║  x y      - Rotate camera            ║
║  + -      - Zoom                     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the live view and blocks until it exits. Messages sent on
// reload trigger a fresh resolution.
func Run(ctx context.Context, m Model, reload <-chan struct{}) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if reload != nil {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-reload:
					if !ok {
						return
					}
					p.Send(ReloadMsg{})
				}
			}
		}()
	}
	_, err := p.Run()
	return err
}
