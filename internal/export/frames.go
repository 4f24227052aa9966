package export

import (
	"context"
	"encoding/json"
	"io"
	"runtime"
	"sync"

	"github.com/san-kum/chemscene/internal/reaction"
	"github.com/san-kum/chemscene/internal/scene"
)

// Frames resolves n+1 evenly spaced frames of a reaction, from progress 0 to
// 1, on at most runtime.NumCPU() workers. The record is only read.
func Frames(ctx context.Context, rec *reaction.Record, view reaction.ViewLevel, n int) ([]*scene.Description, error) {
	return framesWith(ctx, rec, view, n, runtime.NumCPU())
}

func framesWith(ctx context.Context, rec *reaction.Record, view reaction.ViewLevel, n, workers int) ([]*scene.Description, error) {
	if n < 1 {
		n = 1
	}
	workers = max(1, min(workers, n+1))
	frames := make([]*scene.Description, n+1)
	r := scene.New()

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				frames[idx] = r.Resolve(rec, view, float64(idx)/float64(n))
			}
		}()
	}

feed:
	for i := 0; i <= n; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}

// WriteFrames writes one compact JSON description per line.
func WriteFrames(w io.Writer, frames []*scene.Description) error {
	encoder := json.NewEncoder(w)
	for _, f := range frames {
		if err := encoder.Encode(f); err != nil {
			return err
		}
	}
	return nil
}
