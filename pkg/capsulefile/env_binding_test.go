// SPDX-License-Identifier: MPL-2.0

package capsulefile

import (
	"errors"
	"testing"
)

func TestEnvVarName_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   EnvVarName
		wantErr bool
	}{
		{name: "simple", value: "HOME"},
		{name: "lowercase", value: "path"},
		{name: "leading underscore", value: "_PRIVATE"},
		{name: "with digits", value: "VAR2"},
		{name: "empty", value: "", wantErr: true},
		{name: "leading digit", value: "1BAD", wantErr: true},
		{name: "with dash", value: "NOT-OK", wantErr: true},
		{name: "with space", value: "A B", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEnvVarName) {
					t.Errorf("Validate(%q) = %v, want ErrInvalidEnvVarName", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate(%q) = %v, want nil", tt.value, err)
			}
		})
	}
}

func TestEnvBindingSpec_KeyValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		binding      EnvBindingSpec
		wantKey      EnvVarName
		wantValue    string
		wantExplicit bool
	}{
		{name: "key and value", binding: "PORT=8080", wantKey: "PORT", wantValue: "8080", wantExplicit: true},
		{name: "empty value", binding: "EMPTY=", wantKey: "EMPTY", wantValue: "", wantExplicit: true},
		{name: "value with equals", binding: "Q=a=b", wantKey: "Q", wantValue: "a=b", wantExplicit: true},
		{name: "bare key", binding: "HOME", wantKey: "HOME", wantValue: "", wantExplicit: false},
		{name: "reference value", binding: "URL=${BASE}/v1", wantKey: "URL", wantValue: "${BASE}/v1", wantExplicit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.binding.Key(); got != tt.wantKey {
				t.Errorf("Key() = %q, want %q", got, tt.wantKey)
			}
			value, explicit := tt.binding.Value()
			if value != tt.wantValue || explicit != tt.wantExplicit {
				t.Errorf("Value() = (%q, %v), want (%q, %v)", value, explicit, tt.wantValue, tt.wantExplicit)
			}
		})
	}
}

func TestEnvBindingSpec_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		binding EnvBindingSpec
		wantErr bool
	}{
		{name: "key and value", binding: "PORT=8080"},
		{name: "bare key", binding: "HOME"},
		{name: "empty", binding: "", wantErr: true},
		{name: "bad key", binding: "1BAD=x", wantErr: true},
		{name: "only equals", binding: "=x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.binding.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEnvBindingSpec) {
					t.Errorf("Validate(%q) = %v, want ErrInvalidEnvBindingSpec", tt.binding, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate(%q) = %v, want nil", tt.binding, err)
			}
		})
	}
}
