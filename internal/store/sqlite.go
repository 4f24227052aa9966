package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/chemscene/internal/reaction"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLite keeps one JSON payload per record in a single table. Every
// read-modify-write runs inside one transaction on one connection.
type SQLite struct {
	db   *sql.DB
	path string
}

func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "chemscene.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, &StorageError{Op: "mkdir", Path: path, Err: err}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Path: path, Err: err}
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS reactions (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, &StorageError{Op: "create table", Path: path, Err: err}
	}
	return &SQLite{db: db, path: path}, nil
}

func (s *SQLite) Path() string { return s.path }

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Load(ctx context.Context) ([]reaction.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM reactions ORDER BY position`)
	if err != nil {
		return nil, s.fail("select", err)
	}
	defer func() { _ = rows.Close() }()

	recs := []reaction.Record{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, s.fail("scan", err)
		}
		var rec reaction.Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, s.fail("decode", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("select", err)
	}
	if err := reaction.ValidateAll(recs); err != nil {
		return nil, s.fail("validate", err)
	}
	return recs, nil
}

func (s *SQLite) Save(ctx context.Context, records []reaction.Record) (retErr error) {
	recs, err := prepare(records)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.fail("begin", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reactions`); err != nil {
		return s.fail("delete", err)
	}
	for i := range recs {
		payload, err := json.Marshal(&recs[i])
		if err != nil {
			return s.fail("encode", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO reactions(id, position, payload) VALUES(?, ?, ?)`, recs[i].ID, i, payload); err != nil {
			return s.fail("insert", fmt.Errorf("%s: %w", recs[i].ID, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return s.fail("commit", err)
	}
	return nil
}

func (s *SQLite) UpdateVisualRules(ctx context.Context, id string, view reaction.ViewLevel, rules *reaction.VisualRules) (_ *reaction.Record, retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, s.fail("begin", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var payload []byte
	err = tx.QueryRowContext(ctx, `SELECT payload FROM reactions WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, s.fail("select", err)
	}

	var rec reaction.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, s.fail("decode", err)
	}
	rec.SetRules(view, rules)
	if payload, err = json.Marshal(&rec); err != nil {
		return nil, s.fail("encode", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE reactions SET payload = ? WHERE id = ?`, payload, id); err != nil {
		return nil, s.fail("update", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, s.fail("commit", err)
	}
	return rec.Clone()
}

func (s *SQLite) Reaction(ctx context.Context, id string) (*reaction.Record, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM reactions WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, s.fail("select", err)
	}
	var rec reaction.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, s.fail("decode", err)
	}
	return &rec, nil
}

func (s *SQLite) fail(op string, err error) error {
	return &StorageError{Op: op, Path: s.path, Err: err}
}
