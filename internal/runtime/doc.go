// SPDX-License-Identifier: MPL-2.0

// Package runtime drives a resolved RuntimeSpec through a container engine:
// build the image (cache sources advisory — a failing cache pull never fails
// the build), provision the named volumes the spec mounts, then run the
// container to completion.
//
// The package owns no resolution logic; internal/resolve produces the spec
// and this package only translates it into engine operations. Named volumes
// are created idempotently and never removed: their lifecycle belongs to the
// container runtime and to explicit operator action.
package runtime
