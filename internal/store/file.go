package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/san-kum/chemscene/internal/reaction"
)

// File keeps the collection in one JSON document. A single mutex owns every
// read-modify-write, and writes replace the file atomically by rename.
type File struct {
	path string
	mu   sync.Mutex
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string { return f.path }

func (f *File) Load(ctx context.Context) ([]reaction.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *File) Save(ctx context.Context, records []reaction.Record) error {
	recs, err := prepare(records)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(recs)
}

func (f *File) UpdateVisualRules(ctx context.Context, id string, view reaction.ViewLevel, rules *reaction.VisualRules) (*reaction.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recs, err := f.read()
	if err != nil {
		return nil, err
	}
	i := index(recs, id)
	if i < 0 {
		return nil, &NotFoundError{ID: id}
	}
	recs[i].SetRules(view, rules)
	if err := f.write(recs); err != nil {
		return nil, err
	}
	return recs[i].Clone()
}

func (f *File) Reaction(ctx context.Context, id string) (*reaction.Record, error) {
	recs, err := f.Load(ctx)
	if err != nil {
		return nil, err
	}
	return find(recs, id)
}

func (f *File) read() ([]reaction.Record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, &StorageError{Op: "read", Path: f.path, Err: err}
	}
	var recs []reaction.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, &StorageError{Op: "decode", Path: f.path, Err: err}
	}
	if err := reaction.ValidateAll(recs); err != nil {
		return nil, &StorageError{Op: "validate", Path: f.path, Err: err}
	}
	return recs, nil
}

func (f *File) write(recs []reaction.Record) error {
	if recs == nil {
		recs = []reaction.Record{}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Path: f.path, Err: err}
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StorageError{Op: "mkdir", Path: dir, Err: err}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return &StorageError{Op: "write", Path: f.path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return &StorageError{Op: "write", Path: f.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Op: "write", Path: f.path, Err: err}
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return &StorageError{Op: "rename", Path: f.path, Err: fmt.Errorf("replace: %w", err)}
	}
	return nil
}
