/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package keyedstore

import (
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/keyedstore/datastore"
	"github.com/suparena/keyedstore/datastore/memory"
	"github.com/suparena/keyedstore/errors"
)

// TypedStorage holds named datastores of one entity type
type TypedStorage[K comparable, V datastore.Entity[K]] struct {
	mu     sync.RWMutex
	stores map[string]datastore.DataStore[K, V]
}

// NewTypedStorage creates a new TypedStorage for entity type V
func NewTypedStorage[K comparable, V datastore.Entity[K]]() *TypedStorage[K, V] {
	return &TypedStorage[K, V]{
		stores: make(map[string]datastore.DataStore[K, V]),
	}
}

// Register adds a datastore with the given key
func (ts *TypedStorage[K, V]) Register(key string, ds datastore.DataStore[K, V]) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.stores[key]; exists {
		return errors.NewDuplicateKeyError("datastore", key)
	}

	ts.stores[key] = ds
	return nil
}

// Get retrieves a datastore by key
func (ts *TypedStorage[K, V]) Get(key string) (datastore.DataStore[K, V], error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	ds, exists := ts.stores[key]
	if !exists {
		return nil, errors.NewNotFoundError("datastore", key)
	}

	return ds, nil
}

// Open returns the datastore registered under key, creating an in-memory
// store with opts when there is none.
func (ts *TypedStorage[K, V]) Open(key string, opts ...memory.Option) datastore.DataStore[K, V] {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ds, exists := ts.stores[key]; exists {
		return ds
	}
	ds := memory.New[K, V](append([]memory.Option{memory.WithName(key)}, opts...)...)
	ts.stores[key] = ds
	return ds
}

// Remove deletes a datastore by key
func (ts *TypedStorage[K, V]) Remove(key string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.stores[key]; !exists {
		return errors.NewNotFoundError("datastore", key)
	}

	delete(ts.stores, key)
	return nil
}

// List returns all registered datastore keys, sorted
func (ts *TypedStorage[K, V]) List() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	keys := make([]string, 0, len(ts.stores))
	for k := range ts.stores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MultiTypeStorage manages TypedStorage instances for different entity types
type MultiTypeStorage struct {
	mu       sync.RWMutex
	storages map[storageKey]any
}

type storageKey struct {
	key, value reflect.Type
}

// NewMultiTypeStorage creates a new MultiTypeStorage
func NewMultiTypeStorage() *MultiTypeStorage {
	return &MultiTypeStorage{
		storages: make(map[storageKey]any),
	}
}

// GetTypedStorage returns the TypedStorage for K and V, creating it if necessary
func GetTypedStorage[K comparable, V datastore.Entity[K]](mts *MultiTypeStorage) *TypedStorage[K, V] {
	mts.mu.Lock()
	defer mts.mu.Unlock()

	sk := storageKey{key: reflect.TypeFor[K](), value: reflect.TypeFor[V]()}
	if storage, exists := mts.storages[sk]; exists {
		return storage.(*TypedStorage[K, V])
	}

	newStorage := NewTypedStorage[K, V]()
	mts.storages[sk] = newStorage
	return newStorage
}

// RegisterDataStore is a convenience function to register a datastore for V
func RegisterDataStore[K comparable, V datastore.Entity[K]](mts *MultiTypeStorage, key string, ds datastore.DataStore[K, V]) error {
	return GetTypedStorage[K, V](mts).Register(key, ds)
}

// GetDataStore is a convenience function to get a datastore for V
func GetDataStore[K comparable, V datastore.Entity[K]](mts *MultiTypeStorage, key string) (datastore.DataStore[K, V], error) {
	return GetTypedStorage[K, V](mts).Get(key)
}

// OpenDataStore is a convenience function to get or create an in-memory datastore for V
func OpenDataStore[K comparable, V datastore.Entity[K]](mts *MultiTypeStorage, key string, opts ...memory.Option) datastore.DataStore[K, V] {
	return GetTypedStorage[K, V](mts).Open(key, opts...)
}

// RemoveDataStore is a convenience function to remove a datastore for V
func RemoveDataStore[K comparable, V datastore.Entity[K]](mts *MultiTypeStorage, key string) error {
	return GetTypedStorage[K, V](mts).Remove(key)
}

// ListDataStores is a convenience function to list all datastores for V
func ListDataStores[K comparable, V datastore.Entity[K]](mts *MultiTypeStorage) []string {
	return GetTypedStorage[K, V](mts).List()
}
