// SPDX-License-Identifier: MPL-2.0

package capsulefile

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrInvalidServiceName is the sentinel error wrapped by InvalidServiceNameError.
	ErrInvalidServiceName = errors.New("invalid service name")

	// serviceNameRegex validates service names: lowercase alphanumeric start,
	// then alphanumerics, underscores, dots, or hyphens.
	serviceNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)
)

type (
	// ServiceName identifies a service within a capsulefile.
	// Names are unique within a descriptor (enforced structurally by the
	// services map) and must match [a-z0-9][a-z0-9_.-]*.
	ServiceName string

	// InvalidServiceNameError is returned when a ServiceName value is empty
	// or does not match the allowed name pattern.
	InvalidServiceNameError struct {
		Value ServiceName
	}
)

// String returns the string representation of the ServiceName.
func (n ServiceName) String() string { return string(n) }

// Validate returns nil if the ServiceName is valid, or a validation error if not.
func (n ServiceName) Validate() error {
	if !serviceNameRegex.MatchString(string(n)) {
		return &InvalidServiceNameError{Value: n}
	}
	return nil
}

// Error implements the error interface for InvalidServiceNameError.
func (e *InvalidServiceNameError) Error() string {
	return fmt.Sprintf("invalid service name %q (must match [a-z0-9][a-z0-9_.-]*)", e.Value)
}

// Unwrap returns ErrInvalidServiceName for errors.Is() compatibility.
func (e *InvalidServiceNameError) Unwrap() error { return ErrInvalidServiceName }
