// SPDX-License-Identifier: MPL-2.0

package capsulefile

import (
	"errors"
	"fmt"
)

// ErrInvalidPortMappingSpec is the sentinel error wrapped by InvalidPortMappingSpecError.
var ErrInvalidPortMappingSpec = errors.New("invalid port mapping spec")

type (
	// PortMappingSpec represents a port mapping in "host:container[/protocol]"
	// format. Only non-emptiness is checked here; shape and range checks
	// happen at resolve time so every malformed mapping is classified there.
	PortMappingSpec string

	// InvalidPortMappingSpecError is returned when a PortMappingSpec value
	// is empty.
	InvalidPortMappingSpecError struct {
		Value  PortMappingSpec
		Reason string
	}
)

// String returns the string representation of the PortMappingSpec.
func (p PortMappingSpec) String() string { return string(p) }

// Validate returns nil if the PortMappingSpec is valid, or a validation error if not.
func (p PortMappingSpec) Validate() error {
	if p == "" {
		return &InvalidPortMappingSpecError{Value: p, Reason: "must not be empty"}
	}
	return nil
}

// Error implements the error interface for InvalidPortMappingSpecError.
func (e *InvalidPortMappingSpecError) Error() string {
	return fmt.Sprintf("invalid port mapping spec %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidPortMappingSpec for errors.Is() compatibility.
func (e *InvalidPortMappingSpecError) Unwrap() error { return ErrInvalidPortMappingSpec }
