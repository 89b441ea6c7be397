// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the platform's home environment variable (USERPROFILE on
// Windows, HOME elsewhere) at dir and returns a cleanup function restoring
// the original value. Config-path tests use it to isolate lookups that go
// through os.UserHomeDir.
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		return MustSetenv(t, "HOME", dir)
	}
}
