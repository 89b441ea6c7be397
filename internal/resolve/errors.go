// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"

	"capsule-cli/pkg/capsulefile"
)

var (
	// ErrUndeclaredVolume is the sentinel error wrapped by UndeclaredVolumeError.
	ErrUndeclaredVolume = errors.New("undeclared volume")

	// ErrMalformedPortMapping is the sentinel error wrapped by MalformedPortMappingError.
	ErrMalformedPortMapping = errors.New("malformed port mapping")

	// ErrInvalidResourceLimit is the sentinel error wrapped by InvalidResourceLimitError.
	ErrInvalidResourceLimit = errors.New("invalid resource limit")

	// ErrUnresolvedEnvReference is the sentinel error wrapped by UnresolvedEnvReferenceError.
	ErrUnresolvedEnvReference = errors.New("unresolved environment reference")

	// ErrDuplicateMountTarget is the sentinel error wrapped by DuplicateMountTargetError.
	ErrDuplicateMountTarget = errors.New("duplicate mount target")

	// ErrMissingBuildContext is the sentinel error wrapped by MissingBuildContextError.
	ErrMissingBuildContext = errors.New("missing build context")

	// ErrMalformedCommand is the sentinel error wrapped by MalformedCommandError.
	ErrMalformedCommand = errors.New("malformed command")
)

type (
	// UndeclaredVolumeError is returned when a volume mount references a
	// named volume absent from the descriptor's volume registry.
	UndeclaredVolumeError struct {
		Service capsulefile.ServiceName
		Field   string
		Volume  capsulefile.VolumeName
	}

	// MalformedPortMappingError is returned when a port mapping's host or
	// container part is non-numeric, out of the 1-65535 range, or the
	// protocol is not tcp/udp.
	MalformedPortMappingError struct {
		Service capsulefile.ServiceName
		Field   string
		Spec    capsulefile.PortMappingSpec
		Reason  string
	}

	// InvalidResourceLimitError is returned when a CPU, memory, or shm-size
	// value is non-positive or unparsable.
	InvalidResourceLimitError struct {
		Service capsulefile.ServiceName
		Field   string
		Value   string
		Reason  string
	}

	// UnresolvedEnvReferenceError is returned for a "${NAME}" reference
	// that is syntactically malformed, or — in strict mode — names a
	// variable absent from the environment snapshot.
	UnresolvedEnvReferenceError struct {
		Service capsulefile.ServiceName
		Field   string
		Name    string
		Reason  string
	}

	// DuplicateMountTargetError is returned when two volume mounts of the
	// same service resolve to the same container path.
	DuplicateMountTargetError struct {
		Service capsulefile.ServiceName
		Field   string
		Target  string
	}

	// MissingBuildContextError is returned when the build context directory
	// does not exist at resolve time.
	MissingBuildContextError struct {
		Service capsulefile.ServiceName
		Context capsulefile.FilesystemPath
		Cause   error
	}

	// MalformedCommandError is returned when a service command string cannot
	// be split with POSIX shell word rules.
	MalformedCommandError struct {
		Service capsulefile.ServiceName
		Command string
		Cause   error
	}
)

// Error implements the error interface for UndeclaredVolumeError.
func (e *UndeclaredVolumeError) Error() string {
	return fmt.Sprintf("%s: volume %q is not declared in the volume registry", e.Field, e.Volume)
}

// Unwrap returns ErrUndeclaredVolume for errors.Is() compatibility.
func (e *UndeclaredVolumeError) Unwrap() error { return ErrUndeclaredVolume }

// Error implements the error interface for MalformedPortMappingError.
func (e *MalformedPortMappingError) Error() string {
	return fmt.Sprintf("%s: malformed port mapping %q: %s", e.Field, e.Spec, e.Reason)
}

// Unwrap returns ErrMalformedPortMapping for errors.Is() compatibility.
func (e *MalformedPortMappingError) Unwrap() error { return ErrMalformedPortMapping }

// Error implements the error interface for InvalidResourceLimitError.
func (e *InvalidResourceLimitError) Error() string {
	return fmt.Sprintf("%s: invalid resource limit %q: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidResourceLimit for errors.Is() compatibility.
func (e *InvalidResourceLimitError) Unwrap() error { return ErrInvalidResourceLimit }

// Error implements the error interface for UnresolvedEnvReferenceError.
func (e *UnresolvedEnvReferenceError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: reference ${%s}: %s", e.Field, e.Name, e.Reason)
}

// Unwrap returns ErrUnresolvedEnvReference for errors.Is() compatibility.
func (e *UnresolvedEnvReferenceError) Unwrap() error { return ErrUnresolvedEnvReference }

// Error implements the error interface for DuplicateMountTargetError.
func (e *DuplicateMountTargetError) Error() string {
	return fmt.Sprintf("%s: container path %q is mounted more than once", e.Field, e.Target)
}

// Unwrap returns ErrDuplicateMountTarget for errors.Is() compatibility.
func (e *DuplicateMountTargetError) Unwrap() error { return ErrDuplicateMountTarget }

// Error implements the error interface for MissingBuildContextError.
func (e *MissingBuildContextError) Error() string {
	return fmt.Sprintf("services.%s.build.context: directory %q does not exist: %v", e.Service, e.Context, e.Cause)
}

// Unwrap returns ErrMissingBuildContext for errors.Is() compatibility.
func (e *MissingBuildContextError) Unwrap() error { return ErrMissingBuildContext }

// Error implements the error interface for MalformedCommandError.
func (e *MalformedCommandError) Error() string {
	return fmt.Sprintf("services.%s.command: cannot split %q: %v", e.Service, e.Command, e.Cause)
}

// Unwrap returns ErrMalformedCommand for errors.Is() compatibility.
func (e *MalformedCommandError) Unwrap() error { return ErrMalformedCommand }
