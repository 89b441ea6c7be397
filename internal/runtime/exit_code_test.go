// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"testing"
)

func TestExitCode_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		code    ExitCode
		wantErr bool
	}{
		{name: "success", code: 0},
		{name: "generic failure", code: 1},
		{name: "upper bound", code: 255},
		{name: "negative", code: -1, wantErr: true},
		{name: "above range", code: 256, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.code.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidExitCode) {
					t.Errorf("Validate(%d) = %v, want ErrInvalidExitCode", tt.code, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate(%d) = %v, want nil", tt.code, err)
			}
		})
	}
}

func TestExitCode_Predicates(t *testing.T) {
	t.Parallel()

	if !ExitCode(0).IsSuccess() {
		t.Error("IsSuccess(0) = false, want true")
	}
	if ExitCode(42).IsSuccess() {
		t.Error("IsSuccess(42) = true, want false")
	}

	for _, code := range []ExitCode{125, 126} {
		if !code.IsTransient() {
			t.Errorf("IsTransient(%d) = false, want true", code)
		}
	}
	for _, code := range []ExitCode{0, 1, 127, 137} {
		if code.IsTransient() {
			t.Errorf("IsTransient(%d) = true, want false", code)
		}
	}

	if got := ExitCode(42).String(); got != "42" {
		t.Errorf("String() = %q, want %q", got, "42")
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	err := &ExitError{Code: 42}
	if err.Error() != "exit code 42" {
		t.Errorf("Error() = %q, want %q", err.Error(), "exit code 42")
	}
}
