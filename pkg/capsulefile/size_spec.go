// SPDX-License-Identifier: MPL-2.0

package capsulefile

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrInvalidSizeSpec is the sentinel error wrapped by InvalidSizeSpecError.
	ErrInvalidSizeSpec = errors.New("invalid size spec")

	// sizeSpecRegex accepts byte sizes like "512", "256m", "4G", "2gb".
	// Conversion to a byte count happens at resolve time (binary multiples:
	// 1g = 1024^3).
	sizeSpecRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?\s*[kKmMgGtT]?[bB]?$`)
)

type (
	// SizeSpec represents a human-readable byte size ("4G", "2gb", "512m").
	// The zero value ("") is valid and means "not set".
	SizeSpec string

	// InvalidSizeSpecError is returned when a SizeSpec value does not parse
	// as a size string.
	InvalidSizeSpecError struct {
		Value SizeSpec
	}
)

// String returns the string representation of the SizeSpec.
func (s SizeSpec) String() string { return string(s) }

// Validate returns nil if the SizeSpec is valid, or a validation error if not.
// The zero value ("") is valid.
func (s SizeSpec) Validate() error {
	if s == "" {
		return nil
	}
	if !sizeSpecRegex.MatchString(string(s)) {
		return &InvalidSizeSpecError{Value: s}
	}
	return nil
}

// Error implements the error interface for InvalidSizeSpecError.
func (e *InvalidSizeSpecError) Error() string {
	return fmt.Sprintf("invalid size spec %q (expected forms: \"512\", \"256m\", \"4G\", \"2gb\")", e.Value)
}

// Unwrap returns ErrInvalidSizeSpec for errors.Is() compatibility.
func (e *InvalidSizeSpecError) Unwrap() error { return ErrInvalidSizeSpec }
