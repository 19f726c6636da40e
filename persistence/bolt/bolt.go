/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package bolt persists snapshots in a bbolt database.
//
// Each snapshot lives in a bucket named after its kind. Entities are stored
// as JSON under 8-byte big-endian sequence keys, so bucket iteration order is
// the saved order; a "meta" bucket holds the snapshot headers.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.etcd.io/bbolt"
	bolterrors "go.etcd.io/bbolt/errors"

	"github.com/suparena/keyedstore/errors"
	"github.com/suparena/keyedstore/storagemodels"
)

const metaBucket = "meta"

// DefaultBucket is used when neither an explicit kind nor a registered kind is available.
const DefaultBucket = "entities"

type header struct {
	Version int       `json:"version"`
	Kind    string    `json:"kind"`
	SavedAt time.Time `json:"savedAt"`
	Count   int       `json:"count"`
}

// Backend stores one kind of entity in a bbolt file.
type Backend[V any] struct {
	path     string
	bucket   string
	kind     string
	fileMode os.FileMode
	timeout  time.Duration
}

// New creates a Backend for the database at path
func New[V any](path string, opts ...storagemodels.Option) *Backend[V] {
	o := storagemodels.Apply(opts...)
	kind := storagemodels.ResolveKind[V](o.Kind)
	bucket := kind
	if bucket == "" {
		bucket = DefaultBucket
	}
	return &Backend[V]{
		path:     path,
		bucket:   bucket,
		kind:     kind,
		fileMode: o.FileMode,
		timeout:  time.Second,
	}
}

// Source returns the database path and bucket
func (b *Backend[V]) Source() string {
	return fmt.Sprintf("%s#%s", b.path, b.bucket)
}

// SaveAll replaces the bucket contents with entities in one transaction
func (b *Backend[V]) SaveAll(ctx context.Context, entities []V) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := bbolt.Open(b.path, b.fileMode, &bbolt.Options{Timeout: b.timeout})
	if err != nil {
		return errors.NewIOFailureError("open", b.path, err)
	}
	defer db.Close()

	err = db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(b.bucket)); err != nil && !errors.Is(err, bolterrors.ErrBucketNotFound) {
			return err
		}
		bucket, err := tx.CreateBucket([]byte(b.bucket))
		if err != nil {
			return err
		}

		for i, entity := range entities {
			buf, err := json.Marshal(entity)
			if err != nil {
				return err
			}
			if err := bucket.Put(sequenceKey(uint64(i)), buf); err != nil {
				return err
			}
		}

		meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		if err != nil {
			return err
		}
		h, err := json.Marshal(header{
			Version: storagemodels.SnapshotVersion,
			Kind:    b.kind,
			SavedAt: time.Now().UTC(),
			Count:   len(entities),
		})
		if err != nil {
			return err
		}
		return meta.Put([]byte(b.bucket), h)
	})
	if err != nil {
		return errors.NewIOFailureError("write", b.Source(), err)
	}
	return nil
}

// LoadAll reads the bucket. A missing file, or a file without this
// snapshot's header, is reported as found == false.
func (b *Backend[V]) LoadAll(ctx context.Context) ([]V, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	if _, err := os.Stat(b.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, errors.NewIOFailureError("stat", b.path, err)
	}

	db, err := bbolt.Open(b.path, b.fileMode, &bbolt.Options{Timeout: b.timeout, ReadOnly: true})
	if err != nil {
		if isCorruptFile(err) {
			return nil, false, errors.NewCorruptDataError(b.path, err)
		}
		return nil, false, errors.NewIOFailureError("open", b.path, err)
	}
	defer db.Close()

	var (
		entities []V
		found    bool
	)
	err = db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket([]byte(metaBucket))
		if meta == nil {
			return nil
		}
		raw := meta.Get([]byte(b.bucket))
		if raw == nil {
			return nil
		}
		found = true

		var h header
		if err := json.Unmarshal(raw, &h); err != nil {
			return errors.NewCorruptDataError(b.Source(), fmt.Errorf("header: %w", err))
		}
		if err := storagemodels.CheckHeader(h.Version, h.Kind, b.kind); err != nil {
			return errors.NewCorruptDataError(b.Source(), err)
		}

		if h.Count < 0 {
			return errors.NewCorruptDataError(b.Source(), fmt.Errorf("negative entity count %d", h.Count))
		}

		bucket := tx.Bucket([]byte(b.bucket))
		if bucket == nil {
			return errors.NewCorruptDataError(b.Source(), fmt.Errorf("bucket missing"))
		}
		entities = make([]V, 0)
		if err := bucket.ForEach(func(k, v []byte) error {
			var entity V
			if err := json.Unmarshal(v, &entity); err != nil {
				return errors.NewCorruptDataError(b.Source(), fmt.Errorf("entry %x: %w", k, err))
			}
			entities = append(entities, entity)
			return nil
		}); err != nil {
			return err
		}
		if len(entities) != h.Count {
			return errors.NewCorruptDataError(b.Source(), fmt.Errorf("header counts %d entities, found %d", h.Count, len(entities)))
		}
		return nil
	})
	if err != nil {
		if errors.IsCorruptData(err) {
			return nil, false, err
		}
		return nil, false, errors.NewIOFailureError("read", b.Source(), err)
	}
	if !found {
		return nil, false, nil
	}
	return entities, true, nil
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func isCorruptFile(err error) bool {
	return errors.Is(err, bolterrors.ErrInvalid) ||
		errors.Is(err, bolterrors.ErrVersionMismatch) ||
		errors.Is(err, bolterrors.ErrChecksum)
}
