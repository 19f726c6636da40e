/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/keyedstore/errors"
)

// GroupingRegistry is a registry of named secondary-key functions per Go type.
// Indexes are built from these by name, e.g. "category" for inventory items.

var (
	groupingRegistry = make(map[reflect.Type]map[string]any)
	mu               sync.RWMutex
)

// RegisterGrouping associates a group-key function with type T under name.
// Registering the same name twice replaces the earlier function.
func RegisterGrouping[T any](name string, groupKey func(T) string) {
	t := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()
	byName, ok := groupingRegistry[t]
	if !ok {
		byName = make(map[string]any)
		groupingRegistry[t] = byName
	}
	byName[name] = groupKey
}

// Grouping retrieves the group-key function registered for T under name.
func Grouping[T any](name string) (func(T) string, error) {
	t := reflect.TypeFor[T]()

	mu.RLock()
	defer mu.RUnlock()
	fn, ok := groupingRegistry[t][name]
	if !ok {
		return nil, errors.NewNotRegisteredError("grouping", t.String()+"."+name)
	}
	return fn.(func(T) string), nil
}

// Groupings lists the grouping names registered for T, sorted.
func Groupings[T any]() []string {
	t := reflect.TypeFor[T]()

	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(groupingRegistry[t]))
	for name := range groupingRegistry[t] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
