/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package index

import (
	"github.com/suparena/keyedstore/datastore"
)

// Index groups a store snapshot by a secondary key. It is a derived view:
// later store mutations are not reflected until BuildFrom runs again.
type Index[G comparable, V any] struct {
	groups map[G][]V
	order  []G
	size   int
}

// New creates an empty Index
func New[G comparable, V any]() *Index[G, V] {
	return &Index[G, V]{groups: make(map[G][]V)}
}

// Build creates an Index from src grouped by groupKey
func Build[G comparable, V any](src datastore.Snapshotter[V], groupKey func(V) G) *Index[G, V] {
	ix := New[G, V]()
	ix.BuildFrom(src, groupKey)
	return ix
}

// BuildFrom replaces any prior grouping with one computed from a full
// snapshot of src. Entities keep the store's enumeration order within a group.
func (ix *Index[G, V]) BuildFrom(src datastore.Snapshotter[V], groupKey func(V) G) {
	snapshot := src.GetAll()

	groups := make(map[G][]V)
	var order []G
	for _, entity := range snapshot {
		g := groupKey(entity)
		if _, seen := groups[g]; !seen {
			order = append(order, g)
		}
		groups[g] = append(groups[g], entity)
	}

	ix.groups = groups
	ix.order = order
	ix.size = len(snapshot)
}

// LookupGroup returns the entities in group g. An unknown group yields an
// empty slice, never an error.
func (ix *Index[G, V]) LookupGroup(g G) []V {
	members := ix.groups[g]
	result := make([]V, len(members))
	copy(result, members)
	return result
}

// Groups returns the group keys in first-seen order
func (ix *Index[G, V]) Groups() []G {
	result := make([]G, len(ix.order))
	copy(result, ix.order)
	return result
}

// Len returns the number of entities indexed at build time
func (ix *Index[G, V]) Len() int {
	return ix.size
}
