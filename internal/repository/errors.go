package repository

import (
	"errors"
	"unicode/utf8"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// ErrValueTooLong is returned when a value exceeds its column width.
var ErrValueTooLong = errors.New("value too long")

// Column widths of the schema in migrations/.
const (
	MaxNameLength  = 100
	MaxPhoneLength = 20
)

// TooLong reports whether value has more than max characters.
func TooLong(value string, max int) bool {
	return utf8.RuneCountInString(value) > max
}
