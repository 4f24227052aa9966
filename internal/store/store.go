package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/san-kum/chemscene/internal/reaction"
)

// Store is the persistence collaborator for reaction records.
type Store interface {
	// Load returns every record in storage order.
	Load(ctx context.Context) ([]reaction.Record, error)
	// Save replaces the whole collection. Records without an id get one.
	Save(ctx context.Context, records []reaction.Record) error
	// UpdateVisualRules replaces the rules of one view level of one record
	// and returns the updated record.
	UpdateVisualRules(ctx context.Context, id string, view reaction.ViewLevel, rules *reaction.VisualRules) (*reaction.Record, error)
	// Reaction returns a single record by id.
	Reaction(ctx context.Context, id string) (*reaction.Record, error)
}

var (
	// ErrNotFound indicates an unknown reaction id.
	ErrNotFound = errors.New("store: reaction not found")

	// ErrStorage indicates unreadable, malformed or unwritable storage.
	ErrStorage = errors.New("store: storage failure")
)

// StorageError wraps a backend failure with the operation and location.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NotFoundError reports the id that was looked up.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("store: reaction %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// prepare deep-copies records, assigns missing ids and validates the result.
func prepare(records []reaction.Record) ([]reaction.Record, error) {
	out := make([]reaction.Record, len(records))
	for i := range records {
		c, err := records[i].Clone()
		if err != nil {
			return nil, err
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		out[i] = *c
	}
	if err := reaction.ValidateAll(out); err != nil {
		return nil, err
	}
	return out, nil
}

func index(records []reaction.Record, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

// find returns a detached copy of the record with the given id.
func find(records []reaction.Record, id string) (*reaction.Record, error) {
	i := index(records, id)
	if i < 0 {
		return nil, &NotFoundError{ID: id}
	}
	return records[i].Clone()
}
