/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"time"

	"github.com/suparena/keyedstore/registry"
)

// SnapshotVersion is the envelope version written by this library.
const SnapshotVersion = 1

// Snapshot is the persisted form of a store: its entities in enumeration order.
type Snapshot[V any] struct {
	Version  int       `json:"version" yaml:"version"`
	Kind     string    `json:"kind,omitempty" yaml:"kind,omitempty"`
	SavedAt  time.Time `json:"savedAt" yaml:"savedAt"`
	Entities []V       `json:"entities" yaml:"entities"`
}

// NewSnapshot wraps entities in a current-version envelope
func NewSnapshot[V any](kind string, entities []V) Snapshot[V] {
	if entities == nil {
		entities = []V{}
	}
	return Snapshot[V]{
		Version:  SnapshotVersion,
		Kind:     kind,
		SavedAt:  time.Now().UTC(),
		Entities: entities,
	}
}

// Check verifies the envelope was written by a compatible version for the
// expected kind. An empty kind on either side matches anything.
func (s Snapshot[V]) Check(kind string) error {
	return CheckHeader(s.Version, s.Kind, kind)
}

// CheckHeader is Check for backends that store the header apart from the entities.
func CheckHeader(version int, stored, expected string) error {
	if version < 1 || version > SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", version)
	}
	if stored != "" && expected != "" && stored != expected {
		return fmt.Errorf("snapshot holds kind %q, expected %q", stored, expected)
	}
	return nil
}

// ResolveKind returns explicit when set, else the kind registered for V.
func ResolveKind[V any](explicit string) string {
	if explicit != "" {
		return explicit
	}
	name, _ := registry.KindName[V]()
	return name
}
