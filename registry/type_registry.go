/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// kindRegistry maps Go types to the kind names used in snapshots and
// persisted records, and back.
var (
	kindsByType = make(map[reflect.Type]string)
	typesByKind = make(map[string]reflect.Type)
	kindsMu     sync.RWMutex
)

// RegisterKind associates the Go type T with a kind name such as "inventory".
// It panics if either the name or the type is already registered, to prevent
// accidental overrides.
func RegisterKind[T any](name string) {
	t := reflect.TypeFor[T]()

	kindsMu.Lock()
	defer kindsMu.Unlock()
	if existing, ok := typesByKind[name]; ok {
		panic(fmt.Sprintf("kind registry: kind %q already registered for %v", name, existing))
	}
	if existing, ok := kindsByType[t]; ok {
		panic(fmt.Sprintf("kind registry: type %v already registered as %q", t, existing))
	}
	kindsByType[t] = name
	typesByKind[name] = t
}

// KindName returns the kind name registered for T, if any.
func KindName[T any]() (string, bool) {
	t := reflect.TypeFor[T]()

	kindsMu.RLock()
	defer kindsMu.RUnlock()
	name, ok := kindsByType[t]
	return name, ok
}

// KindType returns the Go type registered under name, if any.
func KindType(name string) (reflect.Type, bool) {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	t, ok := typesByKind[name]
	return t, ok
}

// Kinds returns all registered kind names, sorted.
func Kinds() []string {
	kindsMu.RLock()
	defer kindsMu.RUnlock()

	names := make([]string, 0, len(typesByKind))
	for name := range typesByKind {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
