// Package store is a sqlite-backed cache of parsed documents: results are
// rezi-encoded and keyed by a document's uuid.UUID. This is a results
// cache, not the trained classifier's own persistence format — that stays
// an external collaborator.
package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mmelodious/discourse-parsing/internal/rst"
)

// ErrNotFound is returned by Get when no record exists for the requested ID.
var ErrNotFound = errors.New("store: no record for that document ID")

// Record is one cached parse result.
type Record struct {
	DocumentID uuid.UUID
	Trees      []rst.ScoredTree
	Created    time.Time
}

// Store is a sqlite-backed cache of Records, one per document ID.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the parses database under storageDir.
func Open(storageDir string) (*Store, error) {
	file := filepath.Join(storageDir, "parses.db")
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", file, err)
	}

	st := &Store{db: db}
	if err := st.init(); err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS parses (
		id TEXT NOT NULL PRIMARY KEY,
		trees TEXT NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("store: init schema: %w", err)
	}
	return nil
}

// Put inserts or replaces the cached record for r.DocumentID.
func (s *Store) Put(ctx context.Context, r Record) error {
	encoded := convertToDB_ScoredTrees(r.Trees)

	stmt, err := s.db.PrepareContext(ctx, `INSERT INTO parses (id, trees, created) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET trees=excluded.trees, created=excluded.created`)
	if err != nil {
		return fmt.Errorf("store: prepare put: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, convertToDB_UUID(r.DocumentID), encoded, convertToDB_Time(r.Created)); err != nil {
		return fmt.Errorf("store: put: %w", err)
	}
	return nil
}

// Get retrieves the cached record for id, or ErrNotFound if none exists.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT trees, created FROM parses WHERE id=?`, convertToDB_UUID(id))

	var encoded string
	var created int64
	if err := row.Scan(&encoded, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("store: get: %w", err)
	}

	trees, err := convertFromDB_ScoredTrees(encoded)
	if err != nil {
		return Record{}, err
	}

	return Record{DocumentID: id, Trees: trees, Created: time.Unix(created, 0)}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

// convertToDB_ScoredTrees rezi-encodes trees and base64s the result for
// storage in a TEXT column.
func convertToDB_ScoredTrees(trees []rst.ScoredTree) string {
	data := rezi.EncBinary(trees)
	return base64.StdEncoding.EncodeToString(data)
}

// convertFromDB_ScoredTrees reverses convertToDB_ScoredTrees. If there is a
// problem with the decoding, the returned error wraps the underlying rezi or
// base64 failure.
func convertFromDB_ScoredTrees(s string) ([]rst.ScoredTree, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("store: decode stored bytes: %w", err)
	}

	var trees []rst.ScoredTree
	n, err := rezi.DecBinary(data, &trees)
	if err != nil {
		return nil, fmt.Errorf("store: rezi decode: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("store: rezi decoded byte count mismatch; consumed %d/%d bytes", n, len(data))
	}

	return trees, nil
}
