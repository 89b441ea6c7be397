// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities,
// centralizing OS-specific string constants used for runtime.GOOS
// comparisons across the codebase.
package platform
