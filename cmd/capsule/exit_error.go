// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"capsule-cli/internal/container"
	"capsule-cli/internal/resolve"
	"capsule-cli/pkg/capsulefile"
)

// Process exit codes. Each resolution failure class maps to a distinct code
// so scripts can branch on the kind of failure without parsing stderr.
const (
	ExitOK                = 0
	ExitFailure           = 1
	ExitParseError        = 2
	ExitUndeclaredVolume  = 3
	ExitMalformedPort     = 4
	ExitInvalidResource   = 5
	ExitUnresolvedEnvRef  = 6
	ExitEngineUnavailable = 7
)

// ExitError signals a specific exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeForError maps an error to its process exit code. Unknown errors
// fall through to the generic failure code.
func exitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, resolve.ErrUndeclaredVolume):
		return ExitUndeclaredVolume
	case errors.Is(err, resolve.ErrMalformedPortMapping):
		return ExitMalformedPort
	case errors.Is(err, resolve.ErrInvalidResourceLimit):
		return ExitInvalidResource
	case errors.Is(err, resolve.ErrUnresolvedEnvReference):
		return ExitUnresolvedEnvRef
	case isEngineUnavailable(err):
		return ExitEngineUnavailable
	case errors.Is(err, capsulefile.ErrNoServices),
		errors.Is(err, capsulefile.ErrServiceNotFound),
		errors.Is(err, capsulefile.ErrAmbiguousService):
		return ExitParseError
	case isValidationError(err):
		return ExitParseError
	default:
		return ExitFailure
	}
}

// isEngineUnavailable reports whether err means no container engine can serve.
func isEngineUnavailable(err error) bool {
	var engineErr *container.ErrEngineNotAvailable
	return errors.As(err, &engineErr)
}

// isValidationError reports whether err is a descriptor validation failure.
func isValidationError(err error) bool {
	var verrs capsulefile.ValidationErrors
	return errors.As(err, &verrs)
}

// wrapExit converts err into an ExitError carrying its mapped exit code.
// A nil err passes through unchanged.
func wrapExit(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: exitCodeForError(err), Err: err}
}
