// SPDX-License-Identifier: MPL-2.0

package capsulefile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCPUSpec is the sentinel error wrapped by InvalidCPUSpecError.
var ErrInvalidCPUSpec = errors.New("invalid cpu spec")

type (
	// CPUSpec represents a fractional CPU core count as a decimal string
	// ("2", "0.5"). The zero value ("") is valid and means "not set".
	// Conversion to nano-CPUs and the positivity check happen at resolve time.
	CPUSpec string

	// InvalidCPUSpecError is returned when a CPUSpec value is non-empty but
	// whitespace-only.
	InvalidCPUSpecError struct {
		Value CPUSpec
	}

	// ResourceLimits caps the CPU share and memory ceiling of the service
	// container.
	ResourceLimits struct {
		// CPUs is the fractional core count (e.g. "2", "1.5").
		CPUs CPUSpec `json:"cpus,omitempty"`
		// Memory is the memory ceiling as a size string (e.g. "4G").
		Memory SizeSpec `json:"memory,omitempty"`
	}

	// Resources groups resource constraints for a service. Only limits are
	// modeled; reservations are engine-specific and out of scope.
	Resources struct {
		Limits *ResourceLimits `json:"limits,omitempty"`
	}
)

// String returns the string representation of the CPUSpec.
func (c CPUSpec) String() string { return string(c) }

// Validate returns nil if the CPUSpec is valid, or a validation error if not.
// The zero value ("") is valid.
func (c CPUSpec) Validate() error {
	if c != "" && strings.TrimSpace(string(c)) == "" {
		return &InvalidCPUSpecError{Value: c}
	}
	return nil
}

// Error implements the error interface for InvalidCPUSpecError.
func (e *InvalidCPUSpecError) Error() string {
	return fmt.Sprintf("invalid cpu spec %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidCPUSpec for errors.Is() compatibility.
func (e *InvalidCPUSpecError) Unwrap() error { return ErrInvalidCPUSpec }

// GetLimits returns the resource limits, or nil if Resources is nil.
func (r *Resources) GetLimits() *ResourceLimits {
	if r == nil {
		return nil
	}
	return r.Limits
}
