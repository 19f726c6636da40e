/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory provides the insertion-ordered in-memory DataStore.
package memory

import (
	"fmt"
	"sync"

	"github.com/suparena/keyedstore/datastore"
	"github.com/suparena/keyedstore/errors"
	"github.com/suparena/keyedstore/registry"
)

type validator interface {
	Validate() error
}

// Store is an in-memory implementation of datastore.DataStore[K, V].
// Entities are held by value, so GetByID and GetAll hand out copies.
type Store[K comparable, V datastore.Entity[K]] struct {
	mu        sync.RWMutex
	entities  []V
	positions map[K]int
	name      string
	observer  datastore.Observer
}

// Option configures a Store.
type Option func(*options)

type options struct {
	name     string
	observer datastore.Observer
}

// WithName sets the name used in error messages and observations.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithObserver reports every operation to obs.
func WithObserver(obs datastore.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

var _ datastore.DataStore[string, namedEntity] = (*Store[string, namedEntity])(nil)

type namedEntity string

func (n namedEntity) EntityKey() string { return string(n) }

// New creates an empty Store
func New[K comparable, V datastore.Entity[K]](opts ...Option) *Store[K, V] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		o.name = typeName[V]()
	}
	return &Store[K, V]{
		positions: make(map[K]int),
		name:      o.name,
		observer:  o.observer,
	}
}

// Name returns the store name
func (s *Store[K, V]) Name() string {
	return s.name
}

// Add inserts entity at the end of the enumeration order
func (s *Store[K, V]) Add(entity V) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.observe("add", &err)

	key := entity.EntityKey()
	if _, exists := s.positions[key]; exists {
		return errors.NewDuplicateKeyError(s.name, fmt.Sprint(key))
	}
	if err := validate(entity); err != nil {
		return err
	}
	s.positions[key] = len(s.entities)
	s.entities = append(s.entities, entity)
	return nil
}

// GetByID retrieves a copy of the entity stored under key
func (s *Store[K, V]) GetByID(key K) (entity V, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	defer s.observe("get", &err)

	pos, exists := s.positions[key]
	if !exists {
		return entity, errors.NewNotFoundError(s.name, fmt.Sprint(key))
	}
	return s.entities[pos], nil
}

// Remove deletes the entity stored under key; survivors keep their order
func (s *Store[K, V]) Remove(key K) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.observe("remove", &err)

	pos, exists := s.positions[key]
	if !exists {
		return errors.NewNotFoundError(s.name, fmt.Sprint(key))
	}

	s.entities = append(s.entities[:pos], s.entities[pos+1:]...)
	delete(s.positions, key)
	for i := pos; i < len(s.entities); i++ {
		s.positions[s.entities[i].EntityKey()] = i
	}
	return nil
}

// UpdateField applies patch to the entity stored under key.
// A missing key wins over an invalid value.
func (s *Store[K, V]) UpdateField(key K, patch datastore.Patch[V]) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.observe("update", &err)

	pos, exists := s.positions[key]
	if !exists {
		return errors.NewNotFoundError(s.name, fmt.Sprint(key))
	}

	current := s.entities[pos]
	if err := patch.Validate(current); err != nil {
		return err
	}

	updated := current
	patch.Apply(&updated)
	if updated.EntityKey() != key {
		return errors.NewInvalidValueError(patch.Field(), fmt.Sprint(updated.EntityKey()), "identifier is immutable")
	}
	if err := validate(updated); err != nil {
		return err
	}
	s.entities[pos] = updated
	return nil
}

// GetAll returns every entity in insertion order
func (s *Store[K, V]) GetAll() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]V, len(s.entities))
	copy(result, s.entities)
	return result
}

// Find returns the entities matching match, in insertion order
func (s *Store[K, V]) Find(match func(V) bool) []V {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []V
	for _, e := range s.entities {
		if match(e) {
			result = append(result, e)
		}
	}
	return result
}

// FindFirst returns the first entity matching match
func (s *Store[K, V]) FindFirst(match func(V) bool) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entities {
		if match(e) {
			return e, true
		}
	}
	var zero V
	return zero, false
}

// Contains reports whether key is stored
func (s *Store[K, V]) Contains(key K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.positions[key]
	return exists
}

// Len returns the number of stored entities
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Clear removes all data
func (s *Store[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entities = nil
	s.positions = make(map[K]int)
}

// Replace swaps the contents for entities. Nothing changes if any entity is
// invalid or two entities share a key.
func (s *Store[K, V]) Replace(entities []V) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.observe("replace", &err)

	positions := make(map[K]int, len(entities))
	for i, e := range entities {
		key := e.EntityKey()
		if _, exists := positions[key]; exists {
			return errors.NewDuplicateKeyError(s.name, fmt.Sprint(key))
		}
		if err := validate(e); err != nil {
			return err
		}
		positions[key] = i
	}

	s.entities = make([]V, len(entities))
	copy(s.entities, entities)
	s.positions = positions
	return nil
}

// observe must run while the lock is held so size matches the outcome.
func (s *Store[K, V]) observe(op string, err *error) {
	if s.observer == nil {
		return
	}
	s.observer.Observe(s.name, op, len(s.entities), *err)
}

func validate[V any](entity V) error {
	v, ok := any(entity).(validator)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		return datastore.AsInvalidValue("", "", err)
	}
	return nil
}

func typeName[V any]() string {
	if name, ok := registry.KindName[V](); ok {
		return name
	}
	var zero V
	return fmt.Sprintf("%T", zero)
}
