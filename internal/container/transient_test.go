// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"
)

func TestIsTransientError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: false},
		{name: "wrapped cancellation", err: fmt.Errorf("build: %w", context.Canceled), want: false},
		{name: "plain error", err: errors.New("no such image"), want: false},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: true},
		{name: "timeout exceeded", err: errors.New("timeout exceeded while awaiting headers"), want: true},
		{name: "temporary failure", err: errors.New("temporary failure in name resolution"), want: true},
		{name: "tls handshake", err: errors.New("net/http: TLS handshake timeout"), want: true},
		{name: "rootless podman race", err: errors.New("cannot set ping_group_range"), want: true},
		{name: "oci runtime error", err: errors.New("crun: OCI runtime error"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsTransientError(tt.err); got != tt.want {
				t.Errorf("IsTransientError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsTransientError_ExitCode125(t *testing.T) {
	t.Parallel()

	err := exec.Command("sh", "-c", "exit 125").Run()
	if err == nil {
		t.Skip("shell did not report the exit status")
	}
	if !IsTransientError(err) {
		t.Errorf("IsTransientError(exit 125) = false, want true")
	}

	err = exec.Command("sh", "-c", "exit 1").Run()
	if IsTransientError(err) {
		t.Errorf("IsTransientError(exit 1) = true, want false")
	}
}
