// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"capsule-cli/pkg/capsulefile"
)

// ReadFileFunc reads a file's contents. Injectable so the resolver can be
// tested without touching the filesystem.
type ReadFileFunc func(name string) ([]byte, error)

// loadEnvFile loads a dotenv file and merges its bindings into env,
// preserving first-declaration order for keys. The path is resolved relative
// to basePath (the capsulefile directory). Files suffixed with '?' are
// optional; a missing optional file is not an error.
func loadEnvFile(env []EnvVar, path capsulefile.DotenvFilePath, basePath string, readFile ReadFileFunc) ([]EnvVar, error) {
	if readFile == nil {
		readFile = os.ReadFile
	}

	fullPath := path.Path()
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(basePath, filepath.FromSlash(fullPath))
	}

	content, err := readFile(fullPath)
	if err != nil {
		if path.Optional() && os.IsNotExist(err) {
			return env, nil
		}
		return nil, fmt.Errorf("failed to read env file %q: %w", path.Path(), err)
	}

	return parseEnvFile(env, content, path.Path())
}

// parseEnvFile parses dotenv content and merges it into env. Supported
// format:
//   - Lines starting with # are comments
//   - Empty lines are ignored
//   - KEY=value (unquoted; trailing " #comment" stripped)
//   - KEY="value" (double-quoted, escapes: \n, \r, \t, \\, \", \$)
//   - KEY='value' (single-quoted, literal)
//   - export KEY=value (export prefix ignored)
//   - KEY= (empty value)
func parseEnvFile(env []EnvVar, content []byte, filename string) ([]EnvVar, error) {
	for i, line := range strings.Split(string(content), "\n") {
		lineNum := i + 1

		line = strings.TrimSuffix(line, "\r")
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		line = strings.TrimPrefix(line, "export ")
		line = strings.TrimSpace(line)

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("%s:%d: invalid format (missing '=')", filename, lineNum)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("%s:%d: empty variable name", filename, lineNum)
		}

		parsedValue, err := parseEnvValue(value)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, lineNum, err)
		}

		env = mergeSet(env, key, parsedValue)
	}

	return env, nil
}

// parseEnvValue parses a dotenv value, handling quoting and escape sequences.
func parseEnvValue(value string) (string, error) {
	value = strings.TrimSpace(value)

	if value == "" {
		return "", nil
	}

	if value[0] == '"' {
		if len(value) < 2 || value[len(value)-1] != '"' {
			return "", fmt.Errorf("unterminated double quote")
		}
		return parseDoubleQuotedValue(value[1 : len(value)-1])
	}
	if value[0] == '\'' {
		if len(value) < 2 || value[len(value)-1] != '\'' {
			return "", fmt.Errorf("unterminated single quote")
		}
		// Single-quoted: literal value, no escape processing
		return value[1 : len(value)-1], nil
	}

	// Unquoted: strip inline comments
	if idx := strings.Index(value, " #"); idx != -1 {
		value = strings.TrimSpace(value[:idx])
	}

	return value, nil
}

// parseDoubleQuotedValue processes escape sequences in a double-quoted value.
func parseDoubleQuotedValue(value string) (string, error) {
	var result strings.Builder
	result.Grow(len(value))

	i := 0
	for i < len(value) {
		if value[i] == '\\' && i+1 < len(value) {
			switch next := value[i+1]; next {
			case 'n':
				result.WriteByte('\n')
			case 'r':
				result.WriteByte('\r')
			case 't':
				result.WriteByte('\t')
			case '\\':
				result.WriteByte('\\')
			case '"':
				result.WriteByte('"')
			case '$':
				result.WriteByte('$')
			default:
				// Unknown escape - keep both characters
				result.WriteByte('\\')
				result.WriteByte(next)
			}
			i += 2
		} else {
			result.WriteByte(value[i])
			i++
		}
	}

	return result.String(), nil
}
