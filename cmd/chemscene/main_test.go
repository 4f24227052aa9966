package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/san-kum/chemscene/internal/driver"
	"github.com/san-kum/chemscene/internal/reaction"
	"github.com/san-kum/chemscene/internal/store"
)

func TestSnapshotServesFramesWithoutDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reactions.json")
	file := store.NewFile(path)
	if err := file.Save(ctx, reaction.Samples()); err != nil {
		t.Fatal(err)
	}

	mem, err := snapshot(ctx, file)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	drv := driver.New(mem, "copper-carbonate")
	if err := drv.Scrub(ctx, 0.5); err != nil {
		t.Fatalf("resolution touched the removed file: %v", err)
	}
	if d := drv.Current(); d == nil || d.ReactionID != "copper-carbonate" {
		t.Fatalf("unexpected description: %+v", d)
	}
}

func TestFollowReloadsSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "reactions.json")
	file := store.NewFile(path)
	if err := file.Save(ctx, reaction.Samples()); err != nil {
		t.Fatal(err)
	}
	mem, err := snapshot(ctx, file)
	if err != nil {
		t.Fatal(err)
	}

	var changes atomic.Int32
	follow(ctx, file, mem, newTestLogger(), func() { changes.Add(1) })

	edited := reaction.Samples()
	edited[0].ActivationEnergy = 0.9
	deadline := time.Now().Add(5 * time.Second)
	for changes.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("snapshot was not reloaded")
		}
		if err := file.Save(ctx, edited); err != nil {
			t.Fatal(err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	rec, err := mem.Reaction(ctx, edited[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if rec.ActivationEnergy != 0.9 {
		t.Errorf("expected reloaded activation energy 0.9, got %v", rec.ActivationEnergy)
	}
}

func TestFollowSkipsStoresWithoutPath(t *testing.T) {
	mem, err := store.NewMemory(reaction.Samples())
	if err != nil {
		t.Fatal(err)
	}
	follow(context.Background(), mem, mem, newTestLogger(), func() { t.Error("unexpected change") })
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
