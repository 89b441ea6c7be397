// SPDX-License-Identifier: MPL-2.0

// Package capsulefile defines the data model for capsule service descriptors
// and parses them from CUE files.
//
// A capsulefile declares a single application service — how its image is
// built (context, dockerfile, build args, advisory cache sources), how it is
// configured (environment bindings, env files), and how it runs (volume
// mounts, port mappings, resource limits, interactive-mode flags) — plus a
// registry of named volumes that outlive any single container instance.
//
// Parsing follows the 3-step CUE flow in pkg/cueutil: the embedded schema is
// compiled, unified with the user file, then validated and decoded. Field
// values use typed spec strings (PortMappingSpec, VolumeMountSpec, ...) that
// carry their own syntactic validation; semantic validation against the host
// environment happens later in internal/resolve.
package capsulefile
