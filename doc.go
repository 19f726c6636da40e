/*
Package keyedstore provides generic keyed entity stores for Go applications:
insertion-ordered in-memory collections with uniqueness enforcement, validated
field updates, derived group indexes, line-oriented import and snapshot
persistence to files, bbolt, SQLite or DynamoDB.

Layout:
  - datastore: the Entity and DataStore contracts, patches and observers
  - datastore/memory: the in-memory store
  - index: group-by views rebuilt from a store snapshot
  - lineimport: fail-fast parsing of fixed-arity delimited records
  - persistence: Save and Load over pluggable backends
  - metrics: Prometheus observer
  - registry: kind names and named groupings per Go type
  - errors: the error taxonomy shared by every package

Basic Usage:

	// Create a storage manager
	mts := keyedstore.NewMultiTypeStorage()

	// Open an in-memory datastore for a type
	items := keyedstore.OpenDataStore[int, models.InventoryItem](mts, "warehouse")
	err := items.Add(models.InventoryItem{ID: 1, Name: "Bolt", Quantity: 40})

	// Update a field; a missing key is reported before an invalid value
	err = items.UpdateField(1, models.InventoryQuantity.To(12))

	// Group by a registered grouping
	byCategory, _ := registry.Grouping[models.InventoryItem]("category")
	ix := index.Build[string, models.InventoryItem](items, byCategory)

	// Persist and restore
	err = persistence.SaveFile[models.InventoryItem](items, "inventory.json")
	restored, found, err := persistence.LoadFile[int, models.InventoryItem]("inventory.json")
*/
package keyedstore
