/*
Package models defines the entities of the bundled demo domains: warehouse
inventory, student grading, healthcare records and a finance ledger.

Each entity satisfies datastore.Entity, validates itself on insertion, and
exposes its mutable attributes as datastore.Field values:

	store := memory.New[int, models.InventoryItem]()
	err := store.UpdateField(7, models.InventoryQuantity.To(12))

Line schemas for lineimport are provided for every entity. Kinds and
groupings are registered in init, so importing this package is enough for
persistence and indexes to find them by name.
*/
package models
