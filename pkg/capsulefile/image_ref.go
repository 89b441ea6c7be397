// SPDX-License-Identifier: MPL-2.0

package capsulefile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidImageRef is the sentinel error wrapped by InvalidImageRefError.
var ErrInvalidImageRef = errors.New("invalid image reference")

type (
	// ImageRef represents a container image reference ("repo/name:tag").
	// The zero value ("") is valid and means no image specified (the service
	// must then carry a build spec). Non-zero values must not contain
	// whitespace.
	ImageRef string

	// InvalidImageRefError is returned when an ImageRef value contains
	// whitespace or is whitespace-only.
	InvalidImageRefError struct {
		Value ImageRef
	}
)

// String returns the string representation of the ImageRef.
func (r ImageRef) String() string { return string(r) }

// Validate returns nil if the ImageRef is valid, or a validation error if not.
// The zero value ("") is valid.
func (r ImageRef) Validate() error {
	s := string(r)
	if s == "" {
		return nil
	}
	if strings.TrimSpace(s) == "" || strings.ContainsAny(s, " \t\n") {
		return &InvalidImageRefError{Value: r}
	}
	return nil
}

// Error implements the error interface for InvalidImageRefError.
func (e *InvalidImageRefError) Error() string {
	return fmt.Sprintf("invalid image reference %q: must not contain whitespace", e.Value)
}

// Unwrap returns ErrInvalidImageRef for errors.Is() compatibility.
func (e *InvalidImageRefError) Unwrap() error { return ErrInvalidImageRef }
