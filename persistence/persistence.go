/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package persistence

import (
	"context"

	"github.com/suparena/keyedstore/datastore"
	"github.com/suparena/keyedstore/datastore/memory"
	"github.com/suparena/keyedstore/errors"
	"github.com/suparena/keyedstore/persistence/file"
	"github.com/suparena/keyedstore/storagemodels"
)

// Backend stores and restores an ordered snapshot of entities.
type Backend[V any] interface {
	// SaveAll replaces the persisted snapshot with entities.
	SaveAll(ctx context.Context, entities []V) error

	// LoadAll returns the persisted entities in saved order. found is false,
	// with a nil error, when there is no prior snapshot.
	LoadAll(ctx context.Context) (entities []V, found bool, err error)

	// Source names the backing location in errors.
	Source() string
}

// Save writes the full contents of src to b.
func Save[V any](ctx context.Context, src datastore.Snapshotter[V], b Backend[V]) error {
	return b.SaveAll(ctx, src.GetAll())
}

// Load restores a fresh store from b. When b holds no snapshot the store is
// empty and found is false; that is not an error.
func Load[K comparable, V datastore.Entity[K]](ctx context.Context, b Backend[V], opts ...memory.Option) (*memory.Store[K, V], bool, error) {
	entities, found, err := b.LoadAll(ctx)
	if err != nil {
		return nil, false, err
	}

	store := memory.New[K, V](opts...)
	if !found {
		return store, false, nil
	}
	if err := store.Replace(entities); err != nil {
		return nil, false, errors.NewCorruptDataError(b.Source(), err)
	}
	return store, true, nil
}

// SaveFile writes src to a JSON or YAML file at path.
func SaveFile[V any](src datastore.Snapshotter[V], path string, opts ...storagemodels.Option) error {
	return Save[V](context.Background(), src, file.New[V](path, opts...))
}

// LoadFile restores a store from the JSON or YAML file at path. A missing
// file yields an empty store and found == false.
func LoadFile[K comparable, V datastore.Entity[K]](path string, opts ...storagemodels.Option) (*memory.Store[K, V], bool, error) {
	return Load[K, V](context.Background(), file.New[V](path, opts...))
}
