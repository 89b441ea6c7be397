// SPDX-License-Identifier: MPL-2.0

package capsulefile

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrInvalidVolumeName is the sentinel error wrapped by InvalidVolumeNameError.
	ErrInvalidVolumeName = errors.New("invalid volume name")

	// volumeNameRegex validates named volume identifiers.
	volumeNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)
)

type (
	// VolumeName identifies a named volume in the descriptor's volume registry.
	// A named volume is an opaque handle: the container runtime owns its
	// storage and lifecycle, and the descriptor only references it by name.
	VolumeName string

	// InvalidVolumeNameError is returned when a VolumeName value is empty
	// or does not match the allowed name pattern.
	InvalidVolumeNameError struct {
		Value VolumeName
	}

	// VolumeSpec is a volume registry entry. An empty spec declares an
	// anonymous managed volume: no host path, provisioned by the container
	// runtime, persistent across container recreation, destroyed only by
	// explicit external action.
	VolumeSpec struct {
		// External marks a volume that is expected to already exist;
		// capsule will not attempt to create it.
		External bool `json:"external,omitempty"`
	}
)

// String returns the string representation of the VolumeName.
func (n VolumeName) String() string { return string(n) }

// Validate returns nil if the VolumeName is valid, or a validation error if not.
func (n VolumeName) Validate() error {
	if !volumeNameRegex.MatchString(string(n)) {
		return &InvalidVolumeNameError{Value: n}
	}
	return nil
}

// Error implements the error interface for InvalidVolumeNameError.
func (e *InvalidVolumeNameError) Error() string {
	return fmt.Sprintf("invalid volume name %q (must match [a-zA-Z0-9][a-zA-Z0-9_.-]*)", e.Value)
}

// Unwrap returns ErrInvalidVolumeName for errors.Is() compatibility.
func (e *InvalidVolumeNameError) Unwrap() error { return ErrInvalidVolumeName }
