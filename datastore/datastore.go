/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

// Entity is the capability every stored record must have: a unique,
// immutable identifier of type K.
type Entity[K comparable] interface {
	EntityKey() K
}

// Snapshotter exposes the full, ordered contents of a store.
type Snapshotter[V any] interface {
	GetAll() []V
}

type DataStore[K comparable, V Entity[K]] interface {
	Snapshotter[V]

	// Add inserts entity, failing with a duplicate key error if its key is taken.
	Add(entity V) error

	// GetByID returns a copy of the entity stored under key.
	GetByID(key K) (V, error)

	// Remove forgets the entity stored under key.
	Remove(key K) error

	// UpdateField checks that key exists, then validates patch, then applies it.
	UpdateField(key K, patch Patch[V]) error

	// Find returns every entity matching match, in insertion order.
	Find(match func(V) bool) []V

	Len() int
}

// Observer is notified after every store operation.
type Observer interface {
	Observe(store, op string, size int, err error)
}
