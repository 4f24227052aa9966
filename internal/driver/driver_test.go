package driver_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chemscene/internal/driver"
	"github.com/san-kum/chemscene/internal/reaction"
	"github.com/san-kum/chemscene/internal/scene"
)

type fakeSource struct {
	mu    sync.Mutex
	recs  map[string]*reaction.Record
	calls int
	err   error
}

func newFakeSource() *fakeSource {
	src := &fakeSource{recs: map[string]*reaction.Record{}}
	for _, r := range reaction.Samples() {
		rec := r
		src.recs[rec.ID] = &rec
	}
	return src
}

func (f *fakeSource) Reaction(_ context.Context, id string) (*reaction.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.recs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return rec.Clone()
}

func (f *fakeSource) set(rec *reaction.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs[rec.ID] = rec
}

type recorder struct {
	mu     sync.Mutex
	frames []*scene.Description
}

func (r *recorder) Deliver(d *scene.Description) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, d)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *recorder) last() *scene.Description {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

var _ = Describe("Driver", func() {
	var (
		ctx context.Context
		src *fakeSource
		rec *recorder
		d   *driver.Driver
	)

	BeforeEach(func() {
		ctx = context.Background()
		src = newFakeSource()
		rec = &recorder{}
		d = driver.New(src, "copper-carbonate", driver.WithConfig(driver.Config{
			Rate:          0.5,
			FrameInterval: 10 * time.Millisecond,
		}))
		d.AddSink(rec)
	})

	It("starts paused at progress 0 with nothing resolved", func() {
		Expect(d.State()).To(Equal(driver.Paused))
		Expect(d.Progress()).To(BeZero())
		Expect(d.Current()).To(BeNil())
		Expect(rec.count()).To(BeZero())
	})

	Describe("clock", func() {
		It("does not advance while paused", func() {
			Expect(d.Advance(ctx, time.Second)).To(Succeed())
			Expect(d.Progress()).To(BeZero())
			Expect(rec.count()).To(BeZero())
		})

		It("advances at the configured rate while playing", func() {
			Expect(d.Play(ctx)).To(Succeed())
			Expect(d.Advance(ctx, 500*time.Millisecond)).To(Succeed())
			Expect(d.Progress()).To(BeNumerically("~", 0.25, 1e-9))
			Expect(rec.count()).To(Equal(1))
			Expect(rec.last().Progress).To(BeNumerically("~", 0.25, 1e-9))
		})

		It("holds at 1 by default", func() {
			Expect(d.Play(ctx)).To(Succeed())
			Expect(d.Advance(ctx, 10*time.Second)).To(Succeed())
			Expect(d.Progress()).To(Equal(1.0))
			Expect(d.Advance(ctx, time.Second)).To(Succeed())
			Expect(d.Progress()).To(Equal(1.0))
			Expect(rec.count()).To(Equal(1))
			Expect(d.State()).To(Equal(driver.Playing))
		})

		It("wraps to 0 after reaching 1 when looping", func() {
			d.SetLoop(true)
			Expect(d.Play(ctx)).To(Succeed())
			Expect(d.Advance(ctx, 10*time.Second)).To(Succeed())
			Expect(d.Progress()).To(Equal(1.0))
			Expect(d.Advance(ctx, time.Second)).To(Succeed())
			Expect(d.Progress()).To(BeZero())
			Expect(rec.count()).To(Equal(2))
		})

		It("restarts from 0 when played at the end of a held run", func() {
			Expect(d.Scrub(ctx, 1)).To(Succeed())
			Expect(d.Play(ctx)).To(Succeed())
			Expect(d.Progress()).To(BeZero())
			Expect(rec.last().Progress).To(BeZero())
		})

		It("toggles between states", func() {
			Expect(d.Toggle(ctx)).To(Succeed())
			Expect(d.State()).To(Equal(driver.Playing))
			Expect(d.Toggle(ctx)).To(Succeed())
			Expect(d.State()).To(Equal(driver.Paused))
		})
	})

	Describe("scrub", func() {
		It("sets progress in either state without changing it", func() {
			Expect(d.Scrub(ctx, 0.4)).To(Succeed())
			Expect(d.State()).To(Equal(driver.Paused))
			Expect(d.Progress()).To(Equal(0.4))

			Expect(d.Play(ctx)).To(Succeed())
			Expect(d.Scrub(ctx, 0.7)).To(Succeed())
			Expect(d.State()).To(Equal(driver.Playing))
			Expect(d.Progress()).To(Equal(0.7))
		})

		It("clamps out-of-range values", func() {
			Expect(d.Scrub(ctx, -3)).To(Succeed())
			Expect(d.Progress()).To(BeZero())
			Expect(d.Scrub(ctx, 7)).To(Succeed())
			Expect(d.Progress()).To(Equal(1.0))
		})

		It("resolves exactly once per change", func() {
			for _, p := range []float64{0.1, 0.2, 0.3} {
				Expect(d.Scrub(ctx, p)).To(Succeed())
			}
			Expect(rec.count()).To(Equal(3))
			Expect(src.calls).To(Equal(3))
			Expect(rec.last().Progress).To(Equal(0.3))
			Expect(d.Current()).To(BeIdenticalTo(rec.last()))
		})
	})

	Describe("view", func() {
		It("keeps progress when switching", func() {
			Expect(d.Scrub(ctx, 0.6)).To(Succeed())
			Expect(d.SetView(ctx, reaction.Micro)).To(Succeed())
			Expect(d.View()).To(Equal(reaction.Micro))
			Expect(d.Progress()).To(Equal(0.6))
			Expect(rec.last().View).To(Equal(reaction.Micro))
			Expect(rec.last().Progress).To(Equal(0.6))
		})

		It("honours the initial view option", func() {
			nano := driver.New(src, "magnesium-combustion", driver.WithView(reaction.Nano))
			Expect(nano.Refresh(ctx)).To(Succeed())
			Expect(nano.Current().View).To(Equal(reaction.Nano))
			Expect(nano.Current().Fallback).To(BeFalse())
		})
	})

	Describe("record edits", func() {
		It("re-reads the record on every resolution", func() {
			Expect(d.Scrub(ctx, 0.5)).To(Succeed())
			Expect(rec.last().Fallback).To(BeFalse())

			edited := reaction.Samples()[0]
			edited.SetRules(reaction.Macro, &reaction.VisualRules{Slots: reaction.Slots{
				{Name: "jar", Apparatus: reaction.Apparatus{Kind: reaction.GasJar}},
			}})
			src.set(&edited)

			Expect(d.Refresh(ctx)).To(Succeed())
			Expect(rec.last().Entities).To(HaveLen(1))
			Expect(rec.last().Entities[0].Slot).To(Equal("jar"))
		})
	})

	Describe("failures", func() {
		It("keeps the previous description and reports the error", func() {
			Expect(d.Scrub(ctx, 0.2)).To(Succeed())
			prev := d.Current()

			src.err = errors.New("disk gone")
			err := d.Scrub(ctx, 0.3)
			Expect(err).To(HaveOccurred())

			var rerr *driver.ResolveError
			Expect(errors.As(err, &rerr)).To(BeTrue())
			Expect(rerr.ID).To(Equal("copper-carbonate"))
			Expect(rerr.Progress).To(Equal(0.3))
			Expect(errors.Unwrap(err)).To(MatchError("disk gone"))

			Expect(d.Current()).To(BeIdenticalTo(prev))
			Expect(rec.count()).To(Equal(1))
		})
	})

	Describe("Run", func() {
		It("rejects a non-positive frame interval", func() {
			bad := driver.New(src, "copper-carbonate", driver.WithConfig(driver.Config{Rate: 1}))
			Expect(bad.Run(ctx)).To(MatchError(driver.ErrInvalidInterval))
		})

		It("rejects a negative rate", func() {
			bad := driver.New(src, "copper-carbonate", driver.WithConfig(driver.Config{Rate: -1, FrameInterval: time.Millisecond}))
			Expect(bad.Run(ctx)).To(MatchError(driver.ErrInvalidRate))
		})

		It("advances on ticks until the context ends", func() {
			Expect(d.Play(ctx)).To(Succeed())
			runCtx, cancel := context.WithCancel(ctx)
			done := make(chan error, 1)
			go func() { done <- d.Run(runCtx) }()

			Eventually(d.Progress).Should(BeNumerically(">", 0))
			cancel()
			Eventually(done).Should(Receive(MatchError(context.Canceled)))

			stopped := rec.count()
			Consistently(rec.count, 50*time.Millisecond).Should(Equal(stopped))
		})

		It("delivers progress values in order under concurrent scrubs", func() {
			var wg sync.WaitGroup
			for i := 1; i <= 20; i++ {
				wg.Add(1)
				go func(p float64) {
					defer wg.Done()
					_ = d.Scrub(ctx, p)
				}(float64(i) / 20)
			}
			wg.Wait()

			Expect(rec.count()).To(Equal(20))
			Expect(d.Current()).To(BeIdenticalTo(rec.last()))
			Expect(d.Current().Progress).To(Equal(d.Progress()))
		})
	})
})
