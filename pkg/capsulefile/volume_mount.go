// SPDX-License-Identifier: MPL-2.0

package capsulefile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidVolumeMountSpec is the sentinel error wrapped by InvalidVolumeMountSpecError.
var ErrInvalidVolumeMountSpec = errors.New("invalid volume mount spec")

type (
	// VolumeMountSpec represents a volume mount in "source:target[:ro]"
	// format. The source is either a named volume from the registry or a
	// host path (absolute, or starting with "./", "../", or "~").
	VolumeMountSpec string

	// InvalidVolumeMountSpecError is returned when a VolumeMountSpec value is
	// empty or missing the required ':' separator.
	InvalidVolumeMountSpecError struct {
		Value  VolumeMountSpec
		Reason string
	}
)

// String returns the string representation of the VolumeMountSpec.
func (v VolumeMountSpec) String() string { return string(v) }

// Validate returns nil if the VolumeMountSpec is valid, or a validation error if not.
func (v VolumeMountSpec) Validate() error {
	s := string(v)
	if s == "" {
		return &InvalidVolumeMountSpecError{Value: v, Reason: "must not be empty"}
	}
	if !strings.Contains(s, ":") {
		return &InvalidVolumeMountSpecError{Value: v, Reason: "must contain ':' separator (source:target format)"}
	}
	if v.Source() == "" {
		return &InvalidVolumeMountSpecError{Value: v, Reason: "source must not be empty"}
	}
	if v.Target() == "" {
		return &InvalidVolumeMountSpecError{Value: v, Reason: "target must not be empty"}
	}
	return nil
}

// Source returns the source part of the mount spec (named volume or host path).
func (v VolumeMountSpec) Source() string {
	src, _, _ := strings.Cut(string(v), ":")
	return src
}

// Target returns the container path part of the mount spec, without options.
func (v VolumeMountSpec) Target() string {
	_, rest, _ := strings.Cut(string(v), ":")
	target, _, _ := strings.Cut(rest, ":")
	return target
}

// ReadOnly reports whether the mount spec carries the ":ro" option.
func (v VolumeMountSpec) ReadOnly() bool {
	_, rest, _ := strings.Cut(string(v), ":")
	_, opts, ok := strings.Cut(rest, ":")
	return ok && opts == "ro"
}

// HasNamedSource reports whether the source refers to a named volume rather
// than a host path. Host paths are absolute or start with "./", "../", or "~".
func (v VolumeMountSpec) HasNamedSource() bool {
	src := v.Source()
	if src == "" {
		return false
	}
	if strings.HasPrefix(src, "/") || strings.HasPrefix(src, ".") || strings.HasPrefix(src, "~") {
		return false
	}
	// Windows drive letters ("C:\...") never reach here: Source() cuts at
	// the first ':', leaving a single letter that still parses as a name,
	// so drive paths must be written with forward slashes ("/c/...").
	return !strings.ContainsAny(src, `/\`)
}

// Error implements the error interface for InvalidVolumeMountSpecError.
func (e *InvalidVolumeMountSpecError) Error() string {
	return fmt.Sprintf("invalid volume mount spec %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidVolumeMountSpec for errors.Is() compatibility.
func (e *InvalidVolumeMountSpecError) Unwrap() error { return ErrInvalidVolumeMountSpec }
