// SPDX-License-Identifier: MPL-2.0

package capsulefile

import (
	"errors"
	"testing"
)

func TestImageRef_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ref     ImageRef
		wantErr bool
	}{
		{name: "unset", ref: ""},
		{name: "name and tag", ref: "alpine:3.20"},
		{name: "registry path", ref: "registry.example.com/team/web:latest"},
		{name: "digest", ref: "alpine@sha256:abc123"},
		{name: "whitespace only", ref: "   ", wantErr: true},
		{name: "embedded space", ref: "bad image", wantErr: true},
		{name: "embedded tab", ref: "bad\timage", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.ref.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidImageRef) {
					t.Errorf("Validate(%q) = %v, want ErrInvalidImageRef", tt.ref, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate(%q) = %v, want nil", tt.ref, err)
			}
		})
	}
}

func TestBuildSpec_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		b := &BuildSpec{
			Context:    "./app",
			Dockerfile: "Dockerfile",
			Args:       map[EnvVarName]string{"VERSION": "1"},
			CacheFrom:  []ImageRef{"web:prev"},
		}
		if errs := b.Validate(); len(errs) != 0 {
			t.Errorf("Validate() = %v, want no errors", errs)
		}
	})

	t.Run("collects every issue", func(t *testing.T) {
		t.Parallel()

		b := &BuildSpec{
			Context:   "",
			Args:      map[EnvVarName]string{"1BAD": "x"},
			CacheFrom: []ImageRef{"", "bad image"},
		}
		errs := b.Validate()
		if len(errs) != 4 {
			t.Fatalf("Validate() returned %d errors (%v), want 4", len(errs), errs)
		}
	})
}
