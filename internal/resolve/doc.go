// SPDX-License-Identifier: MPL-2.0

// Package resolve transforms a parsed capsulefile into a RuntimeSpec: the
// fully-substituted, validated specification a container engine consumes.
//
// Resolution is a single-pass, side-effect-free transformation. All inputs —
// the descriptor and an immutable snapshot of the host environment — are
// captured before the pass begins; the host environment is never read ad hoc
// mid-resolution. Filesystem probes (build context existence, dotenv files)
// go through injectable functions so tests can resolve hermetically.
//
// Resolution is all-or-nothing: on the first validation failure the pass
// aborts with a typed error naming the offending service and field, and no
// partial RuntimeSpec is ever returned. Resolving the same descriptor with
// the same snapshot twice yields byte-identical RuntimeSpecs.
package resolve
