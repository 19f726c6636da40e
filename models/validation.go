/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"fmt"

	"github.com/suparena/keyedstore/errors"
)

func required(field, value string) error {
	if value == "" {
		return errors.NewInvalidValueError(field, "", "must not be empty")
	}
	return nil
}

func nonNegative(field string, value int) error {
	if value < 0 {
		return errors.NewInvalidValueError(field, fmt.Sprint(value), "must not be negative")
	}
	return nil
}

func inRange(field string, value, lo, hi int) error {
	if value < lo || value > hi {
		return errors.NewInvalidValueError(field, fmt.Sprint(value), fmt.Sprintf("must be between %d and %d", lo, hi))
	}
	return nil
}
