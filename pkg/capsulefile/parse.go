// SPDX-License-Identifier: MPL-2.0

package capsulefile

import (
	_ "embed"
	"fmt"
	"os"

	"capsule-cli/pkg/cueutil"
)

// DefaultFileName is the descriptor file looked up when no -f flag is given.
const DefaultFileName = "capsulefile.cue"

//go:embed capsulefile_schema.cue
var capsulefileSchema string

// Parse reads and parses a capsulefile from the given path.
func Parse(path FilesystemPath) (*Capsulefile, error) {
	pathStr := string(path)
	data, err := os.ReadFile(pathStr)
	if err != nil {
		return nil, fmt.Errorf("failed to read capsulefile at %s: %w", path, err)
	}

	return ParseBytes(data, pathStr)
}

// ParseBytes parses capsulefile content from bytes.
// Uses cueutil.ParseAndDecodeString for the 3-step CUE parsing flow:
// compile schema → compile user data → validate and decode.
func ParseBytes(data []byte, path string) (*Capsulefile, error) {
	result, err := cueutil.ParseAndDecodeString[Capsulefile](
		capsulefileSchema,
		data,
		"#Capsulefile",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	cf := result.Value
	cf.FilePath = FilesystemPath(path)

	if errs := cf.Validate(); errs.HasErrors() {
		return nil, errs
	}

	return cf, nil
}
