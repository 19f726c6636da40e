/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package sqlite persists snapshots in a SQLite database.
//
// Table snapshots holds one header row per kind; snapshot_entities holds the
// entities as JSON payloads ordered by seq.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/suparena/keyedstore/errors"
	"github.com/suparena/keyedstore/storagemodels"
)

// DefaultKind keys snapshots of types without an explicit or registered kind.
const DefaultKind = "entities"

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	kind     TEXT PRIMARY KEY,
	version  INTEGER NOT NULL,
	saved_at TEXT NOT NULL,
	count    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshot_entities (
	kind    TEXT NOT NULL,
	seq     INTEGER NOT NULL,
	payload BLOB NOT NULL,
	PRIMARY KEY (kind, seq)
);`

// Backend stores one kind of entity in a SQLite file.
type Backend[V any] struct {
	path string
	kind string
}

// New creates a Backend for the database at path
func New[V any](path string, opts ...storagemodels.Option) *Backend[V] {
	o := storagemodels.Apply(opts...)
	kind := storagemodels.ResolveKind[V](o.Kind)
	if kind == "" {
		kind = DefaultKind
	}
	return &Backend[V]{path: path, kind: kind}
}

// Source returns the database path and kind
func (b *Backend[V]) Source() string {
	return fmt.Sprintf("%s#%s", b.path, b.kind)
}

func (b *Backend[V]) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", b.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

// SaveAll replaces the snapshot for this kind in one transaction
func (b *Backend[V]) SaveAll(ctx context.Context, entities []V) (retErr error) {
	payloads := make([][]byte, len(entities))
	for i, entity := range entities {
		data, err := json.Marshal(entity)
		if err != nil {
			return errors.NewIOFailureError("encode", b.Source(), err)
		}
		payloads[i] = data
	}

	db, err := b.open()
	if err != nil {
		return errors.NewIOFailureError("open", b.path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.NewIOFailureError("create tables", b.path, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewIOFailureError("begin", b.path, err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_entities WHERE kind = ?`, b.kind); err != nil {
		return errors.NewIOFailureError("delete", b.Source(), err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_entities (kind, seq, payload) VALUES (?, ?, ?)`)
	if err != nil {
		return errors.NewIOFailureError("prepare", b.Source(), err)
	}
	defer stmt.Close()
	for i, payload := range payloads {
		if _, err := stmt.ExecContext(ctx, b.kind, i, payload); err != nil {
			return errors.NewIOFailureError("insert", b.Source(), err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (kind, version, saved_at, count) VALUES (?, ?, ?, ?)
		 ON CONFLICT(kind) DO UPDATE SET version = excluded.version, saved_at = excluded.saved_at, count = excluded.count`,
		b.kind, storagemodels.SnapshotVersion, time.Now().UTC().Format(time.RFC3339Nano), len(payloads),
	); err != nil {
		return errors.NewIOFailureError("upsert header", b.Source(), err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewIOFailureError("commit", b.Source(), err)
	}
	return nil
}

// LoadAll reads the snapshot for this kind. A missing file, missing tables
// or a missing header row are reported as found == false.
func (b *Backend[V]) LoadAll(ctx context.Context) ([]V, bool, error) {
	if _, err := os.Stat(b.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, errors.NewIOFailureError("stat", b.path, err)
	}

	db, err := b.open()
	if err != nil {
		return nil, false, errors.NewIOFailureError("open", b.path, err)
	}
	defer db.Close()

	var tables int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('snapshots', 'snapshot_entities')`,
	).Scan(&tables); err != nil {
		return nil, false, errors.NewCorruptDataError(b.path, err)
	}
	if tables != 2 {
		return nil, false, nil
	}

	var (
		version int
		count   int
	)
	err = db.QueryRowContext(ctx, `SELECT version, count FROM snapshots WHERE kind = ?`, b.kind).Scan(&version, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewIOFailureError("select header", b.Source(), err)
	}
	if err := storagemodels.CheckHeader(version, b.kind, b.kind); err != nil {
		return nil, false, errors.NewCorruptDataError(b.Source(), err)
	}
	if count < 0 {
		return nil, false, errors.NewCorruptDataError(b.Source(), fmt.Errorf("negative entity count %d", count))
	}

	rows, err := db.QueryContext(ctx, `SELECT seq, payload FROM snapshot_entities WHERE kind = ? ORDER BY seq`, b.kind)
	if err != nil {
		return nil, false, errors.NewIOFailureError("select entities", b.Source(), err)
	}
	defer func() { _ = rows.Close() }()

	entities := make([]V, 0)
	for rows.Next() {
		var (
			seq     int
			payload []byte
		)
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, false, errors.NewCorruptDataError(b.Source(), fmt.Errorf("scan: %w", err))
		}
		var entity V
		if err := json.Unmarshal(payload, &entity); err != nil {
			return nil, false, errors.NewCorruptDataError(b.Source(), fmt.Errorf("seq %d: %w", seq, err))
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, false, errors.NewIOFailureError("select entities", b.Source(), err)
	}
	if len(entities) != count {
		return nil, false, errors.NewCorruptDataError(b.Source(), fmt.Errorf("header counts %d entities, found %d", count, len(entities)))
	}
	return entities, true, nil
}
