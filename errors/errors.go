/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrDuplicateKey is returned when adding an entity whose identifier is already stored
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidValue is returned when a value violates a domain constraint
	ErrInvalidValue = errors.New("invalid value")

	// ErrMissingField is returned when an imported record has the wrong number of fields
	ErrMissingField = errors.New("missing field")

	// ErrBadFormat is returned when an imported field cannot be parsed
	ErrBadFormat = errors.New("bad format")

	// ErrCorruptData is returned when persisted content exists but cannot be decoded
	ErrCorruptData = errors.New("corrupt data")

	// ErrIOFailure is returned when reading or writing a backing store fails
	ErrIOFailure = errors.New("i/o failure")

	// ErrNotRegistered is returned when a kind or grouping has not been registered for a type
	ErrNotRegistered = errors.New("not registered")
)

// DuplicateKeyError represents an attempt to add an entity whose key is taken
type DuplicateKeyError struct {
	Type string
	Key  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidValueError represents a value rejected by a domain constraint
type InvalidValueError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *InvalidValueError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid value: %s", e.Message)
	}
	if e.Value == "" {
		return fmt.Sprintf("invalid value for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid value %s for field %q: %s", e.Value, e.Field, e.Message)
}

func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}

// MissingFieldError reports a record whose field count differs from the expected arity
type MissingFieldError struct {
	Line int
	Want int
	Got  int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("line %d: expected %d fields, got %d", e.Line, e.Want, e.Got)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// BadFormatError reports a field that could not be parsed
type BadFormatError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *BadFormatError) Error() string {
	msg := fmt.Sprintf("line %d: field %q has bad format %q", e.Line, e.Field, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BadFormatError) Is(target error) bool {
	return target == ErrBadFormat
}

func (e *BadFormatError) Unwrap() error {
	return e.Err
}

// CorruptDataError reports persisted content that exists but cannot be decoded
type CorruptDataError struct {
	Source string
	Err    error
}

func (e *CorruptDataError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("corrupt data in %s", e.Source)
	}
	return fmt.Sprintf("corrupt data in %s: %v", e.Source, e.Err)
}

func (e *CorruptDataError) Is(target error) bool {
	return target == ErrCorruptData
}

func (e *CorruptDataError) Unwrap() error {
	return e.Err
}

// IOFailureError reports a failed read or write against a backing store
type IOFailureError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOFailureError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOFailureError) Is(target error) bool {
	return target == ErrIOFailure
}

func (e *IOFailureError) Unwrap() error {
	return e.Err
}

// NotRegisteredError reports a registry lookup miss
type NotRegisteredError struct {
	What string
	Name string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("%s %q not registered", e.What, e.Name)
}

func (e *NotRegisteredError) Is(target error) bool {
	return target == ErrNotRegistered
}

// Helper functions for creating errors

// NewDuplicateKeyError creates a new DuplicateKeyError
func NewDuplicateKeyError(entityType, key string) error {
	return &DuplicateKeyError{Type: entityType, Key: key}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewInvalidValueError creates a new InvalidValueError
func NewInvalidValueError(field, value, message string) error {
	return &InvalidValueError{Field: field, Value: value, Message: message}
}

// WrapInvalidValueError creates an InvalidValueError that keeps cause in its chain
func WrapInvalidValueError(field, value string, cause error) error {
	return &InvalidValueError{Field: field, Value: value, Message: cause.Error(), Err: cause}
}

// NewMissingFieldError creates a new MissingFieldError
func NewMissingFieldError(line, want, got int) error {
	return &MissingFieldError{Line: line, Want: want, Got: got}
}

// NewBadFormatError creates a new BadFormatError
func NewBadFormatError(line int, field, value string, cause error) error {
	return &BadFormatError{Line: line, Field: field, Value: value, Err: cause}
}

// NewCorruptDataError creates a new CorruptDataError
func NewCorruptDataError(source string, cause error) error {
	return &CorruptDataError{Source: source, Err: cause}
}

// NewIOFailureError creates a new IOFailureError
func NewIOFailureError(op, path string, cause error) error {
	return &IOFailureError{Op: op, Path: path, Err: cause}
}

// NewNotRegisteredError creates a new NotRegisteredError
func NewNotRegisteredError(what, name string) error {
	return &NotRegisteredError{What: what, Name: name}
}

// IsDuplicateKey checks if an error is a duplicate key error
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidValue checks if an error is an invalid value error
func IsInvalidValue(err error) bool {
	return errors.Is(err, ErrInvalidValue)
}

// IsMissingField checks if an error is a missing field error
func IsMissingField(err error) bool {
	return errors.Is(err, ErrMissingField)
}

// IsBadFormat checks if an error is a bad format error
func IsBadFormat(err error) bool {
	return errors.Is(err, ErrBadFormat)
}

// IsCorruptData checks if an error is a corrupt data error
func IsCorruptData(err error) bool {
	return errors.Is(err, ErrCorruptData)
}

// IsIOFailure checks if an error is an I/O failure
func IsIOFailure(err error) bool {
	return errors.Is(err, ErrIOFailure)
}

// IsNotRegistered checks if an error is a registry miss
func IsNotRegistered(err error) bool {
	return errors.Is(err, ErrNotRegistered)
}

// Is, As, New and Join mirror the standard library so callers need one errors import.

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func New(text string) error {
	return errors.New(text)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}
