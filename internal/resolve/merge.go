// SPDX-License-Identifier: MPL-2.0

package resolve

// EnvVar is one resolved environment binding. Bindings are kept as an
// ordered list (not a map) so the RuntimeSpec preserves declaration order
// and encodes deterministically.
type EnvVar struct {
	Name  string `json:"name" toml:"name"`
	Value string `json:"value" toml:"value"`
}

// MergeEnvironment merges override bindings into file defaults with a stable
// result: a binding present in overrides always replaces the same-named
// default, keeping the default's original declaration position; defaults not
// overridden pass through unchanged; overrides for new keys are appended in
// their own order.
func MergeEnvironment(fileDefaults, overrides []EnvVar) []EnvVar {
	byName := make(map[string]string, len(overrides))
	seen := make(map[string]bool, len(fileDefaults))
	for _, o := range overrides {
		byName[o.Name] = o.Value
	}

	merged := make([]EnvVar, 0, len(fileDefaults)+len(overrides))
	for _, d := range fileDefaults {
		if seen[d.Name] {
			// Later duplicate declarations already won via mergeSet.
			continue
		}
		seen[d.Name] = true
		if v, ok := byName[d.Name]; ok {
			merged = append(merged, EnvVar{Name: d.Name, Value: v})
		} else {
			merged = append(merged, d)
		}
	}
	for _, o := range overrides {
		if !seen[o.Name] {
			seen[o.Name] = true
			merged = append(merged, o)
		}
	}
	return merged
}

// mergeSet replaces the value of an existing binding in place (keeping its
// position) or appends a new one. Used while accumulating bindings so the
// first declaration of a key pins its position.
func mergeSet(list []EnvVar, name, value string) []EnvVar {
	for i := range list {
		if list[i].Name == name {
			list[i].Value = value
			return list
		}
	}
	return append(list, EnvVar{Name: name, Value: value})
}
