/*
Package storagemodels defines the data structures shared by persistence backends.

Snapshot:
The persisted form of a store, written by every backend:

	type Snapshot[V any] struct {
	    Version  int       // envelope version, currently 1
	    Kind     string    // registered kind name, e.g. "inventory"
	    SavedAt  time.Time // when the snapshot was taken
	    Entities []V       // entities in store enumeration order
	}

Options:
Configuration for persistence behavior:

	opts := []Option{
	    WithKind("inventory"),
	    WithFormat(FormatYAML),
	    WithPretty(false),
	    WithAtomic(true),
	}

These types provide a consistent interface across different storage implementations.
*/
package storagemodels
