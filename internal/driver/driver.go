package driver

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/san-kum/chemscene/internal/reaction"
	"github.com/san-kum/chemscene/internal/scene"
)

type Driver struct {
	mu sync.Mutex

	src      Source
	id       string
	cfg      Config
	resolver *scene.Resolver
	logger   *slog.Logger
	metrics  *Metrics
	sinks    []Sink

	state    State
	view     reaction.ViewLevel
	progress float64
	current  *scene.Description
}

type Option func(*Driver)

func WithConfig(cfg Config) Option {
	return func(d *Driver) { d.cfg = cfg }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

func WithResolver(r *scene.Resolver) Option {
	return func(d *Driver) {
		if r != nil {
			d.resolver = r
		}
	}
}

// WithView sets the initial view level.
func WithView(v reaction.ViewLevel) Option {
	return func(d *Driver) { d.view = v }
}

// New creates a paused driver at progress 0. Nothing is resolved until the
// first change or Refresh.
func New(src Source, id string, opts ...Option) *Driver {
	d := &Driver{
		src:      src,
		id:       id,
		cfg:      DefaultConfig(),
		resolver: scene.New(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) AddSink(s Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, s)
}

func (d *Driver) ID() string { return d.id }

func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Driver) Progress() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.progress
}

func (d *Driver) View() reaction.ViewLevel {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

func (d *Driver) Config() Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// Current returns the last delivered description, or nil before the first
// successful resolution.
func (d *Driver) Current() *scene.Description {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Play starts the clock. Playing from the end of a non-looping run restarts
// at 0.
func (d *Driver) Play(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Playing {
		return nil
	}
	d.state = Playing
	d.logger.Debug("play", "id", d.id, "progress", d.progress)
	if d.progress >= 1 && !d.cfg.Loop {
		d.progress = 0
		return d.resolveLocked(ctx)
	}
	return nil
}

func (d *Driver) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Paused {
		return
	}
	d.state = Paused
	d.logger.Debug("pause", "id", d.id, "progress", d.progress)
}

func (d *Driver) Toggle(ctx context.Context) error {
	if d.State() == Playing {
		d.Pause()
		return nil
	}
	return d.Play(ctx)
}

// SetLoop switches between holding and wrapping at the end of the run.
func (d *Driver) SetLoop(loop bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg.Loop = loop
}

// Advance moves progress forward by Rate*elapsed while playing. It resolves
// only when progress actually changed.
func (d *Driver) Advance(ctx context.Context, elapsed time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Playing || elapsed <= 0 {
		return nil
	}

	next := d.progress + d.cfg.Rate*elapsed.Seconds()
	if next >= 1 {
		if d.cfg.Loop && d.progress >= 1 {
			next = 0
		} else {
			next = 1
		}
	}
	next = scene.ClampProgress(next)
	if next == d.progress {
		return nil
	}
	d.progress = next
	return d.resolveLocked(ctx)
}

// Scrub sets progress directly without changing state.
func (d *Driver) Scrub(ctx context.Context, p float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.progress = scene.ClampProgress(p)
	return d.resolveLocked(ctx)
}

// SetView switches view level, keeping progress.
func (d *Driver) SetView(ctx context.Context, v reaction.ViewLevel) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view = v
	return d.resolveLocked(ctx)
}

// Refresh resolves the current frame again, picking up record edits.
func (d *Driver) Refresh(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resolveLocked(ctx)
}

func (d *Driver) resolveLocked(ctx context.Context) error {
	start := time.Now()
	rec, err := d.src.Reaction(ctx, d.id)
	if err != nil {
		d.metrics.failed()
		rerr := &ResolveError{ID: d.id, View: d.view, Progress: d.progress, Wrapped: err}
		d.logger.Error("resolve failed", "id", d.id, "view", d.view, "progress", d.progress, "err", err)
		return rerr
	}

	desc := d.resolver.Resolve(rec, d.view, d.progress)
	d.current = desc
	d.metrics.resolved(d.view, d.progress, time.Since(start))
	if desc.Fallback {
		d.logger.Debug("default rules", "id", d.id, "view", d.view)
	}
	for _, s := range d.sinks {
		s.Deliver(desc)
	}
	return nil
}

// Run advances the driver every FrameInterval until ctx is done. Resolution
// errors are logged and do not stop the loop.
func (d *Driver) Run(ctx context.Context) error {
	cfg := d.Config()
	if cfg.FrameInterval <= 0 {
		return ErrInvalidInterval
	}
	if math.IsNaN(cfg.Rate) || math.IsInf(cfg.Rate, 0) || cfg.Rate < 0 {
		return ErrInvalidRate
	}

	ticker := time.NewTicker(cfg.FrameInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			_ = d.Advance(ctx, elapsed)
		}
	}
}
