// SPDX-License-Identifier: MPL-2.0

package capsulefile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidEnvBindingSpec is the sentinel error wrapped by InvalidEnvBindingSpecError.
	ErrInvalidEnvBindingSpec = errors.New("invalid environment binding spec")

	// ErrInvalidEnvVarName is the sentinel error wrapped by InvalidEnvVarNameError.
	ErrInvalidEnvVarName = errors.New("invalid environment variable name")

	// envVarNameRegex validates environment variable names
	envVarNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

type (
	// EnvVarName represents an environment variable name.
	// A valid env var name starts with a letter or underscore, followed by
	// letters, digits, or underscores (matching POSIX conventions).
	EnvVarName string

	// InvalidEnvVarNameError is returned when an EnvVarName value is empty,
	// whitespace-only, or doesn't match the POSIX env var naming convention.
	InvalidEnvVarNameError struct {
		Value EnvVarName
	}

	// EnvBindingSpec represents an environment binding in "KEY=value" format.
	// The value may embed "${NAME}" references resolved against the host
	// environment snapshot at resolve time. A bare "KEY" form (no '=')
	// passes the host value through unchanged.
	EnvBindingSpec string

	// InvalidEnvBindingSpecError is returned when an EnvBindingSpec value is
	// empty or its key part is not a valid environment variable name.
	InvalidEnvBindingSpecError struct {
		Value  EnvBindingSpec
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidEnvVarNameError) Error() string {
	return fmt.Sprintf("invalid environment variable name %q (must match [A-Za-z_][A-Za-z0-9_]*)", e.Value)
}

// Unwrap returns ErrInvalidEnvVarName so callers can use errors.Is for programmatic detection.
func (e *InvalidEnvVarNameError) Unwrap() error { return ErrInvalidEnvVarName }

// Validate returns nil if the EnvVarName is a valid POSIX environment variable name,
// or a validation error if it is not.
func (n EnvVarName) Validate() error {
	s := string(n)
	if strings.TrimSpace(s) == "" || !envVarNameRegex.MatchString(s) {
		return &InvalidEnvVarNameError{Value: n}
	}
	return nil
}

// String returns the string representation of the EnvVarName.
func (n EnvVarName) String() string { return string(n) }

// String returns the string representation of the EnvBindingSpec.
func (b EnvBindingSpec) String() string { return string(b) }

// Key returns the variable name part of the binding.
func (b EnvBindingSpec) Key() EnvVarName {
	key, _, _ := strings.Cut(string(b), "=")
	return EnvVarName(key)
}

// Value returns the raw (unsubstituted) value part of the binding and
// whether an explicit value was present. Bare "KEY" bindings return ("", false).
func (b EnvBindingSpec) Value() (string, bool) {
	_, value, ok := strings.Cut(string(b), "=")
	return value, ok
}

// Validate returns nil if the EnvBindingSpec is valid, or a validation error if not.
func (b EnvBindingSpec) Validate() error {
	if b == "" {
		return &InvalidEnvBindingSpecError{Value: b, Reason: "must not be empty"}
	}
	if err := b.Key().Validate(); err != nil {
		return &InvalidEnvBindingSpecError{Value: b, Reason: err.Error()}
	}
	return nil
}

// Error implements the error interface for InvalidEnvBindingSpecError.
func (e *InvalidEnvBindingSpecError) Error() string {
	return fmt.Sprintf("invalid environment binding spec %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidEnvBindingSpec for errors.Is() compatibility.
func (e *InvalidEnvBindingSpecError) Unwrap() error { return ErrInvalidEnvBindingSpec }
