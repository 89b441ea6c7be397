// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"strings"

	"capsule-cli/pkg/capsulefile"
)

// substitute expands "${NAME}" references in value against the snapshot.
//
// An absent variable substitutes the empty string in permissive mode and
// fails with UnresolvedEnvReferenceError in strict mode. A reference that is
// syntactically malformed (unterminated "${", empty or invalid name) fails
// in both modes. "$$" escapes a literal '$'; a '$' not followed by '{' is
// passed through unchanged.
func substitute(value string, snap EnvSnapshot, strict bool, service capsulefile.ServiceName, field string) (string, error) {
	if !strings.Contains(value, "$") {
		return value, nil
	}

	var out strings.Builder
	out.Grow(len(value))

	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '$' {
			out.WriteByte(c)
			continue
		}
		if i+1 < len(value) && value[i+1] == '$' {
			out.WriteByte('$')
			i++
			continue
		}
		if i+1 >= len(value) || value[i+1] != '{' {
			out.WriteByte('$')
			continue
		}

		end := strings.IndexByte(value[i+2:], '}')
		if end < 0 {
			return "", &UnresolvedEnvReferenceError{
				Service: service,
				Field:   field,
				Reason:  "unterminated ${ reference",
			}
		}
		name := value[i+2 : i+2+end]
		if err := capsulefile.EnvVarName(name).Validate(); err != nil {
			return "", &UnresolvedEnvReferenceError{
				Service: service,
				Field:   field,
				Name:    name,
				Reason:  "not a valid variable name",
			}
		}

		resolved, ok := snap.Lookup(name)
		if !ok && strict {
			return "", &UnresolvedEnvReferenceError{
				Service: service,
				Field:   field,
				Name:    name,
				Reason:  "variable not set in host environment",
			}
		}
		out.WriteString(resolved)
		i += 2 + end
	}

	return out.String(), nil
}
