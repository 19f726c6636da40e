/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"fmt"

	"github.com/suparena/keyedstore/errors"
)

// Patch is a validated change to a single field of an entity.
// Validate sees the current state so that constraints may depend on it.
type Patch[V any] interface {
	Field() string
	Validate(current V) error
	Apply(entity *V)
}

// Field describes a mutable attribute of V holding values of type F.
type Field[V any, F any] struct {
	Name string
	// Check returns a non-nil error when value is not allowed.
	Check func(value F) error
	Set   func(entity *V, value F)
}

// To builds a patch that sets the field to value.
func (f Field[V, F]) To(value F) Patch[V] {
	return fieldPatch[V, F]{field: f, value: value}
}

type fieldPatch[V any, F any] struct {
	field Field[V, F]
	value F
}

func (p fieldPatch[V, F]) Field() string {
	return p.field.Name
}

func (p fieldPatch[V, F]) Validate(V) error {
	if p.field.Check == nil {
		return nil
	}
	if err := p.field.Check(p.value); err != nil {
		return AsInvalidValue(p.field.Name, fmt.Sprint(p.value), err)
	}
	return nil
}

func (p fieldPatch[V, F]) Apply(entity *V) {
	p.field.Set(entity, p.value)
}

// AsInvalidValue keeps err when it already is an invalid value error and
// wraps it into one otherwise.
func AsInvalidValue(field, value string, err error) error {
	if errors.IsInvalidValue(err) {
		return err
	}
	return errors.WrapInvalidValueError(field, value, err)
}
