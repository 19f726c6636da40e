/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package lineimport

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/suparena/keyedstore/datastore"
	"github.com/suparena/keyedstore/errors"
)

// DefaultSep separates fields when a Schema leaves Sep unset.
const DefaultSep = ','

// MaxLineSize is the longest line Read accepts, in bytes.
const MaxLineSize = 1 << 20

// Schema describes a fixed-arity delimited record format for V.
type Schema[V any] struct {
	Arity int
	Sep   rune
	Build func(r Record) (V, error)
}

func (s Schema[V]) sep() rune {
	if s.Sep == 0 {
		return DefaultSep
	}
	return s.Sep
}

// Parse converts lines into entities. It stops at the first malformed line
// and then returns no entities at all. Blank lines are skipped.
func Parse[V any](schema Schema[V], lines []string) ([]V, error) {
	var out []V
	for i, line := range lines {
		v, ok, err := parseLine(schema, i+1, line)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// Read is Parse over the lines of r.
func Read[V any](schema Schema[V], r io.Reader) ([]V, error) {
	var out []V
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		v, ok, err := parseLine(schema, lineNo, scanner.Text())
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, v)
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, errors.NewBadFormatError(lineNo+1, "line", fmt.Sprintf("over %d bytes", MaxLineSize), err)
		}
		return nil, errors.NewIOFailureError("read", fmt.Sprintf("line %d", lineNo+1), err)
	}
	return out, nil
}

// ImportInto reads r and adds every record to store. The import is
// all-or-nothing: parse failures and duplicate keys, either within r or
// against the store, are reported before anything is added.
func ImportInto[K comparable, V datastore.Entity[K]](store datastore.DataStore[K, V], schema Schema[V], r io.Reader) (int, error) {
	entities, err := Read(schema, r)
	if err != nil {
		return 0, err
	}

	seen := make(map[K]bool, len(entities))
	for _, e := range entities {
		key := e.EntityKey()
		if seen[key] {
			return 0, errors.NewDuplicateKeyError("import", fmt.Sprint(key))
		}
		seen[key] = true
		if _, err := store.GetByID(key); err == nil {
			return 0, errors.NewDuplicateKeyError("import", fmt.Sprint(key))
		} else if !errors.IsNotFound(err) {
			return 0, err
		}
	}

	for i, e := range entities {
		if err := store.Add(e); err != nil {
			return i, err
		}
	}
	return len(entities), nil
}

func parseLine[V any](schema Schema[V], lineNo int, line string) (V, bool, error) {
	var zero V
	if strings.TrimSpace(line) == "" {
		return zero, false, nil
	}

	fields := split(line, schema.sep())
	if len(fields) != schema.Arity {
		return zero, false, errors.NewMissingFieldError(lineNo, schema.Arity, len(fields))
	}

	v, err := schema.Build(Record{Line: lineNo, Fields: fields})
	if err != nil {
		switch errors.KindOf(err) {
		case errors.KindBadFormat, errors.KindMissingField, errors.KindInvalidValue:
			return zero, false, err
		}
		return zero, false, errors.NewBadFormatError(lineNo, "", line, err)
	}
	return v, true, nil
}
