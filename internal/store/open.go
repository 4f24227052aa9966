package store

import (
	"fmt"

	"github.com/san-kum/chemscene/internal/config"
	"github.com/san-kum/chemscene/internal/reaction"
)

// Open returns the backend selected by cfg. The memory driver starts with
// the built-in samples.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverFile, "":
		path := cfg.Path
		if path == "" {
			path = config.DefaultStorePath
		}
		return NewFile(path), nil
	case config.DriverSQLite:
		return OpenSQLite(cfg.Path)
	case config.DriverMemory:
		return NewMemory(reaction.Samples())
	}
	return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
}

// Close releases backend resources when the store holds any.
func Close(s Store) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
