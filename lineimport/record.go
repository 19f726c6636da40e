/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package lineimport

import (
	"strconv"
	"strings"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/keyedstore/errors"
)

// Record is one parsed line: its 1-based line number and trimmed fields.
type Record struct {
	Line   int
	Fields []string
}

// String returns field i
func (r Record) String(i int) string {
	return r.Fields[i]
}

// Int parses field i as a base-10 integer
func (r Record) Int(i int, name string) (int, error) {
	v, err := strconv.Atoi(r.Fields[i])
	if err != nil {
		return 0, errors.NewBadFormatError(r.Line, name, r.Fields[i], unwrapNumError(err))
	}
	return v, nil
}

// Float parses field i as a decimal number
func (r Record) Float(i int, name string) (float64, error) {
	v, err := strconv.ParseFloat(r.Fields[i], 64)
	if err != nil {
		return 0, errors.NewBadFormatError(r.Line, name, r.Fields[i], unwrapNumError(err))
	}
	return v, nil
}

// Date parses field i as a full date (2006-01-02)
func (r Record) Date(i int, name string) (strfmt.Date, error) {
	var d strfmt.Date
	if err := d.UnmarshalText([]byte(r.Fields[i])); err != nil {
		return strfmt.Date{}, errors.NewBadFormatError(r.Line, name, r.Fields[i], err)
	}
	return d, nil
}

// NonEmpty returns field i, rejecting a blank value
func (r Record) NonEmpty(i int, name string) (string, error) {
	if r.Fields[i] == "" {
		return "", errors.NewBadFormatError(r.Line, name, "", nil)
	}
	return r.Fields[i], nil
}

func unwrapNumError(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}

func split(line string, sep rune) []string {
	fields := strings.Split(line, string(sep))
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}
