// SPDX-License-Identifier: MPL-2.0

package capsulefile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
	ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

	// ErrInvalidDotenvFilePath is the sentinel error wrapped by InvalidDotenvFilePathError.
	ErrInvalidDotenvFilePath = errors.New("invalid dotenv file path")
)

type (
	// FilesystemPath represents a host filesystem path (descriptor location,
	// build context, dockerfile). A valid path must be non-empty and not
	// whitespace-only.
	FilesystemPath string

	// InvalidFilesystemPathError is returned when a FilesystemPath value is
	// empty or whitespace-only.
	InvalidFilesystemPathError struct {
		Value FilesystemPath
	}

	// DotenvFilePath represents a path to a dotenv file for environment
	// variable loading. Paths are relative to the capsulefile location.
	// Paths suffixed with '?' are optional and will not cause an error if missing.
	DotenvFilePath string

	// InvalidDotenvFilePathError is returned when a DotenvFilePath value is
	// empty or whitespace-only.
	InvalidDotenvFilePathError struct {
		Value DotenvFilePath
	}
)

// String returns the string representation of the FilesystemPath.
func (p FilesystemPath) String() string { return string(p) }

// Validate returns nil if the FilesystemPath is valid, or a validation error if not.
func (p FilesystemPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidFilesystemPathError{Value: p}
	}
	return nil
}

// Error implements the error interface for InvalidFilesystemPathError.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }

// String returns the string representation of the DotenvFilePath.
func (p DotenvFilePath) String() string { return string(p) }

// Optional reports whether the path carries the '?' optional suffix.
func (p DotenvFilePath) Optional() bool { return strings.HasSuffix(string(p), "?") }

// Path returns the path with the '?' optional suffix stripped.
func (p DotenvFilePath) Path() string { return strings.TrimSuffix(string(p), "?") }

// Validate returns nil if the DotenvFilePath is valid, or a validation error if not.
func (p DotenvFilePath) Validate() error {
	if strings.TrimSpace(p.Path()) == "" {
		return &InvalidDotenvFilePathError{Value: p}
	}
	return nil
}

// Error implements the error interface for InvalidDotenvFilePathError.
func (e *InvalidDotenvFilePathError) Error() string {
	return fmt.Sprintf("invalid dotenv file path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidDotenvFilePath for errors.Is() compatibility.
func (e *InvalidDotenvFilePathError) Unwrap() error { return ErrInvalidDotenvFilePath }
