/*
Package errors provides semantic error types for the keyed store.

Every failure the store, index, line importer and persistence backends can
produce belongs to one kind. Each kind has a sentinel value, a struct type
carrying details, and a predicate:

	var (
	    ErrDuplicateKey  = errors.New("duplicate key")
	    ErrNotFound      = errors.New("entity not found")
	    ErrInvalidValue  = errors.New("invalid value")
	    ErrMissingField  = errors.New("missing field")
	    ErrBadFormat     = errors.New("bad format")
	    ErrCorruptData   = errors.New("corrupt data")
	    ErrIOFailure     = errors.New("i/o failure")
	    ErrNotRegistered = errors.New("not registered")
	)

Usage:

	item, err := store.GetByID(42)
	if err != nil {
	    if errors.IsNotFound(err) {
	        // prompt again
	    }
	    return err
	}

KindOf maps any error onto its Kind, which is what presentation layers and
the metrics collector switch on:

	switch errors.KindOf(err) {
	case errors.KindDuplicateKey:
	case errors.KindInvalidValue:
	}

The struct types implement Is, so wrapped errors keep matching their
sentinel through fmt.Errorf("...: %w", err).
*/
package errors
