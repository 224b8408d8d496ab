// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface. Records are stored as JSON documents in a single
// table keyed by (collection, id).
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/najihkids/backoffice/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store using SQLite.
//
// The database is opened lazily on first access. A failed open is not
// cached: the next call tries again, matching the recovery behavior the
// callers are written for (degrade now, heal later).
type Store struct {
	path    string
	metrics *opMetrics

	mu sync.Mutex
	db *sqlx.DB
}

// New creates a Store for the given database path. No I/O happens until
// the first operation.
func New(dbPath string) *Store {
	return &Store{
		path:    dbPath,
		metrics: newOpMetrics(),
	}
}

// open returns the live handle, opening the database and creating the
// schema on first use. Schema creation is idempotent.
func (s *Store) open(ctx context.Context) (*sqlx.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create database directory: %v", storage.ErrUnavailable, err)
	}

	db, err := sqlx.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", storage.ErrUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create schema: %v", storage.ErrUnavailable, err)
	}

	s.db = db
	return db, nil
}

// Close closes the database connection, if one was ever opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// GetAll returns every record in the collection as raw JSON.
func (s *Store) GetAll(ctx context.Context, c storage.Collection) ([]json.RawMessage, error) {
	if !c.Known() {
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownCollection, c)
	}
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	var rows []string
	if err := db.SelectContext(ctx, &rows,
		"SELECT data FROM records WHERE collection = ?", string(c),
	); err != nil {
		return nil, fmt.Errorf("get all %s: %w", c, err)
	}

	s.metrics.reads.WithLabelValues(string(c)).Inc()

	out := make([]json.RawMessage, 0, len(rows))
	for _, r := range rows {
		out = append(out, json.RawMessage(r))
	}
	return out, nil
}

// Put upserts a single record by id.
func (s *Store) Put(ctx context.Context, c storage.Collection, rec storage.Record) error {
	if !c.Known() {
		return fmt.Errorf("%w: %q", storage.ErrUnknownCollection, c)
	}
	db, err := s.open(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: marshal %s record: %v", storage.ErrWrite, c, err)
	}

	if _, err := db.ExecContext(ctx, upsertQuery, string(c), rec.RecordID(), string(data)); err != nil {
		s.metrics.writeErrors.WithLabelValues(string(c)).Inc()
		return fmt.Errorf("%w: put %s/%s: %v", storage.ErrWrite, c, rec.RecordID(), err)
	}

	s.metrics.writes.WithLabelValues(string(c)).Inc()
	return nil
}

// PutMany upserts a batch of records in a single transaction. Either every
// record is applied or none are.
func (s *Store) PutMany(ctx context.Context, c storage.Collection, recs []storage.Record) error {
	if !c.Known() {
		return fmt.Errorf("%w: %q", storage.ErrUnknownCollection, c)
	}
	if len(recs) == 0 {
		return nil
	}
	db, err := s.open(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", storage.ErrWrite, err)
	}
	defer tx.Rollback()

	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("%w: marshal %s record: %v", storage.ErrWrite, c, err)
		}
		if _, err := tx.ExecContext(ctx, upsertQuery, string(c), rec.RecordID(), string(data)); err != nil {
			s.metrics.writeErrors.WithLabelValues(string(c)).Inc()
			return fmt.Errorf("%w: put %s/%s: %v", storage.ErrWrite, c, rec.RecordID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.metrics.writeErrors.WithLabelValues(string(c)).Inc()
		return fmt.Errorf("%w: commit: %v", storage.ErrWrite, err)
	}

	s.metrics.writes.WithLabelValues(string(c)).Add(float64(len(recs)))
	return nil
}

// Delete removes a record by id. Deleting a non-existent id is a no-op.
func (s *Store) Delete(ctx context.Context, c storage.Collection, id string) error {
	if !c.Known() {
		return fmt.Errorf("%w: %q", storage.ErrUnknownCollection, c)
	}
	db, err := s.open(ctx)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx,
		"DELETE FROM records WHERE collection = ? AND id = ?", string(c), id,
	); err != nil {
		s.metrics.writeErrors.WithLabelValues(string(c)).Inc()
		return fmt.Errorf("%w: delete %s/%s: %v", storage.ErrWrite, c, id, err)
	}

	s.metrics.writes.WithLabelValues(string(c)).Inc()
	return nil
}
