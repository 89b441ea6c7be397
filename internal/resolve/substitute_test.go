// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"testing"
)

func TestSubstitute(t *testing.T) {
	t.Parallel()

	snap := SnapshotFromMap(map[string]string{
		"HOME":    "/home/owl",
		"EMPTY":   "",
		"DB_PASS": "s3cret",
	})

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "no references", value: "plain text", want: "plain text"},
		{name: "single reference", value: "${HOME}/bin", want: "/home/owl/bin"},
		{name: "reference only", value: "${DB_PASS}", want: "s3cret"},
		{name: "multiple references", value: "${HOME}:${DB_PASS}", want: "/home/owl:s3cret"},
		{name: "adjacent references", value: "${HOME}${DB_PASS}", want: "/home/owls3cret"},
		{name: "present but empty", value: "x${EMPTY}y", want: "xy"},
		{name: "absent permissive", value: "a${MISSING}b", want: "ab"},
		{name: "escaped dollar", value: "cost: $$5", want: "cost: $5"},
		{name: "escaped reference", value: "$${HOME}", want: "${HOME}"},
		{name: "lone dollar", value: "a$b", want: "a$b"},
		{name: "trailing dollar", value: "end$", want: "end$"},
		{name: "dollar before text", value: "$HOME", want: "$HOME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := substitute(tt.value, snap, false, "web", "services.web.environment[0]")
			if err != nil {
				t.Fatalf("substitute(%q) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("substitute(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestSubstitute_Malformed(t *testing.T) {
	t.Parallel()

	snap := SnapshotFromMap(map[string]string{"HOME": "/home/owl"})

	tests := []struct {
		name  string
		value string
	}{
		{name: "unterminated reference", value: "${HOME"},
		{name: "unterminated at end", value: "prefix ${"},
		{name: "empty name", value: "${}"},
		{name: "name starts with digit", value: "${1BAD}"},
		{name: "name with dash", value: "${NOT-A-NAME}"},
		{name: "name with space", value: "${A B}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Syntactically malformed references fail in both modes.
			for _, strict := range []bool{false, true} {
				_, err := substitute(tt.value, snap, strict, "web", "services.web.environment[0]")
				if err == nil {
					t.Fatalf("substitute(%q, strict=%v) expected error, got nil", tt.value, strict)
				}
				if !errors.Is(err, ErrUnresolvedEnvReference) {
					t.Errorf("substitute(%q, strict=%v) error = %v, want ErrUnresolvedEnvReference", tt.value, strict, err)
				}
			}
		})
	}
}

func TestSubstitute_Strict(t *testing.T) {
	t.Parallel()

	snap := SnapshotFromMap(map[string]string{"PRESENT": "yes", "EMPTY": ""})

	t.Run("present variable resolves", func(t *testing.T) {
		t.Parallel()

		got, err := substitute("${PRESENT}", snap, true, "web", "f")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "yes" {
			t.Errorf("got %q, want %q", got, "yes")
		}
	})

	t.Run("empty value is still set", func(t *testing.T) {
		t.Parallel()

		got, err := substitute("a${EMPTY}b", snap, true, "web", "f")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "ab" {
			t.Errorf("got %q, want %q", got, "ab")
		}
	})

	t.Run("absent variable fails", func(t *testing.T) {
		t.Parallel()

		_, err := substitute("${MISSING}", snap, true, "web", "services.web.environment[2]")
		if !errors.Is(err, ErrUnresolvedEnvReference) {
			t.Fatalf("error = %v, want ErrUnresolvedEnvReference", err)
		}

		var refErr *UnresolvedEnvReferenceError
		if !errors.As(err, &refErr) {
			t.Fatalf("error = %T, want *UnresolvedEnvReferenceError", err)
		}
		if refErr.Name != "MISSING" {
			t.Errorf("Name = %q, want %q", refErr.Name, "MISSING")
		}
		if refErr.Field != "services.web.environment[2]" {
			t.Errorf("Field = %q, want %q", refErr.Field, "services.web.environment[2]")
		}
	})
}
