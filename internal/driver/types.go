package driver

import (
	"context"
	"time"

	"github.com/san-kum/chemscene/internal/reaction"
	"github.com/san-kum/chemscene/internal/scene"
)

type State int

const (
	Paused State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "paused"
}

// Config controls playback.
type Config struct {
	// Rate is progress per second of wall time.
	Rate float64 `yaml:"rate"`
	// Loop wraps progress to 0 on reaching 1 instead of holding.
	Loop bool `yaml:"loop"`
	// FrameInterval is the tick period used by Run.
	FrameInterval time.Duration `yaml:"frame_interval"`
}

const (
	DefaultRate          = 0.1
	DefaultFrameInterval = time.Second / 30
)

func DefaultConfig() Config {
	return Config{Rate: DefaultRate, FrameInterval: DefaultFrameInterval}
}

// Source supplies the current version of a record. It is called on every
// resolution.
type Source interface {
	Reaction(ctx context.Context, id string) (*reaction.Record, error)
}

// Sink consumes one description per resolution.
type Sink interface {
	Deliver(d *scene.Description)
}

type SinkFunc func(d *scene.Description)

func (f SinkFunc) Deliver(d *scene.Description) { f(d) }
