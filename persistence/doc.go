/*
Package persistence saves stores to and restores them from backing storage.

Every backend implements Backend[V]:

	type Backend[V any] interface {
	    SaveAll(ctx context.Context, entities []V) error
	    LoadAll(ctx context.Context) (entities []V, found bool, err error)
	    Source() string
	}

Implementations:
  - file: JSON or YAML documents, replaced atomically
  - bolt: a bbolt database, one bucket per kind
  - sqlite: a SQLite database via the pure Go driver
  - ddb: a DynamoDB table, one partition per snapshot

Load treats a missing snapshot as "no prior data": it returns an empty store,
found == false and a nil error. Content that exists but cannot be decoded, or
that holds two entities with one key, is a corrupt data error. Failures to
read or write are I/O failures.

	store, found, err := persistence.LoadFile[int, models.InventoryItem]("inventory.json")
	if err != nil {
	    return err
	}
	if !found {
	    // first run
	}
	...
	err = persistence.SaveFile[models.InventoryItem](store, "inventory.json")
*/
package persistence
