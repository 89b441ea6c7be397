// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for capsule.
//
// This package implements the Cobra command hierarchy for the capsule CLI:
// the root command plus subcommands for resolving, validating, and running
// service descriptors, scaffolding new capsulefiles, and managing
// configuration.
package cmd
