/*
Package datastore defines the core contracts of the keyed store.

Any record type can be stored once it satisfies Entity:

	type Entity[K comparable] interface {
	    EntityKey() K
	}

DataStore[K, V] is the store contract: Add rejects duplicates, GetByID and
Remove reject missing keys, UpdateField applies a validated Patch and GetAll
enumerates in insertion order. UpdateField always checks existence before
validating the new value, so a missing key is reported as not found even when
the new value is also invalid.

Field describes one mutable attribute and produces patches:

	var Quantity = datastore.Field[Item, int]{
	    Name:  "quantity",
	    Check: func(q int) error { ... },
	    Set:   func(it *Item, q int) { it.Quantity = q },
	}
	err := store.UpdateField(42, Quantity.To(10))

Implementations:
  - memory: the insertion-ordered in-memory store

Entities that also implement

	interface{ Validate() error }

are validated by the memory store when they are added.
*/
package datastore
