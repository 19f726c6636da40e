/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import "errors"

// Kind classifies an error into the store's taxonomy.
type Kind int

const (
	KindNone Kind = iota
	KindDuplicateKey
	KindNotFound
	KindInvalidValue
	KindMissingField
	KindBadFormat
	KindCorruptData
	KindIOFailure
	KindNotRegistered
	KindUnknown
)

var kindNames = map[Kind]string{
	KindNone:          "none",
	KindDuplicateKey:  "duplicate_key",
	KindNotFound:      "not_found",
	KindInvalidValue:  "invalid_value",
	KindMissingField:  "missing_field",
	KindBadFormat:     "bad_format",
	KindCorruptData:   "corrupt_data",
	KindIOFailure:     "io_failure",
	KindNotRegistered: "not_registered",
	KindUnknown:       "unknown",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// KindOf returns the outermost taxonomy kind found in err's wrap chain.
// A nil error is KindNone; an error outside the taxonomy is KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch e.(type) {
		case *DuplicateKeyError:
			return KindDuplicateKey
		case *NotFoundError:
			return KindNotFound
		case *InvalidValueError:
			return KindInvalidValue
		case *MissingFieldError:
			return KindMissingField
		case *BadFormatError:
			return KindBadFormat
		case *CorruptDataError:
			return KindCorruptData
		case *IOFailureError:
			return KindIOFailure
		case *NotRegisteredError:
			return KindNotRegistered
		}
		switch e {
		case ErrDuplicateKey:
			return KindDuplicateKey
		case ErrNotFound:
			return KindNotFound
		case ErrInvalidValue:
			return KindInvalidValue
		case ErrMissingField:
			return KindMissingField
		case ErrBadFormat:
			return KindBadFormat
		case ErrCorruptData:
			return KindCorruptData
		case ErrIOFailure:
			return KindIOFailure
		case ErrNotRegistered:
			return KindNotRegistered
		}
	}
	return KindUnknown
}
