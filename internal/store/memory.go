package store

import (
	"context"
	"sync"

	"github.com/san-kum/chemscene/internal/reaction"
)

// Memory is an in-process store. Every read and write deep-copies, so callers
// never share memory with the snapshot.
type Memory struct {
	mu   sync.RWMutex
	recs []reaction.Record
}

// NewMemory seeds the store with a copy of records. Invalid seeds are
// rejected.
func NewMemory(records []reaction.Record) (*Memory, error) {
	m := &Memory{}
	if err := m.Replace(records); err != nil {
		return nil, err
	}
	return m, nil
}

// Replace swaps the whole snapshot at once.
func (m *Memory) Replace(records []reaction.Record) error {
	recs, err := prepare(records)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.recs = recs
	m.mu.Unlock()
	return nil
}

func (m *Memory) Load(ctx context.Context) ([]reaction.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]reaction.Record, len(m.recs))
	for i := range m.recs {
		c, err := m.recs[i].Clone()
		if err != nil {
			return nil, &StorageError{Op: "copy", Err: err}
		}
		out[i] = *c
	}
	return out, nil
}

func (m *Memory) Save(ctx context.Context, records []reaction.Record) error {
	return m.Replace(records)
}

func (m *Memory) UpdateVisualRules(ctx context.Context, id string, view reaction.ViewLevel, rules *reaction.VisualRules) (*reaction.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := index(m.recs, id)
	if i < 0 {
		return nil, &NotFoundError{ID: id}
	}
	updated, err := m.recs[i].Clone()
	if err != nil {
		return nil, &StorageError{Op: "copy", Err: err}
	}
	own, err := rules.Clone()
	if err != nil {
		return nil, &StorageError{Op: "copy", Err: err}
	}
	updated.SetRules(view, own)
	m.recs[i] = *updated
	return updated.Clone()
}

func (m *Memory) Reaction(ctx context.Context, id string) (*reaction.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return find(m.recs, id)
}

// Sync replaces the snapshot with the contents of src.
func (m *Memory) Sync(ctx context.Context, src Store) error {
	recs, err := src.Load(ctx)
	if err != nil {
		return err
	}
	return m.Replace(recs)
}
