// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"maps"
	"os"
	"sort"
	"strings"
)

// EnvSnapshot is an immutable snapshot of the host environment, taken once
// before resolution begins. Resolvers look variables up here and never touch
// the process environment directly, keeping resolution deterministic and
// testable.
type EnvSnapshot struct {
	vars map[string]string
}

// Snapshot captures the current process environment.
func Snapshot() EnvSnapshot {
	return SnapshotFromPairs(os.Environ())
}

// SnapshotFromPairs builds a snapshot from "KEY=VALUE" pairs. Malformed
// entries (no '=') are skipped. Later pairs win for duplicate keys, matching
// os/exec semantics.
func SnapshotFromPairs(pairs []string) EnvSnapshot {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = value
	}
	return EnvSnapshot{vars: vars}
}

// SnapshotFromMap builds a snapshot from a key→value map. The map is copied;
// callers may mutate theirs afterwards.
func SnapshotFromMap(m map[string]string) EnvSnapshot {
	vars := make(map[string]string, len(m))
	maps.Copy(vars, m)
	return EnvSnapshot{vars: vars}
}

// Lookup returns the value for key and whether it is present.
func (s EnvSnapshot) Lookup(key string) (string, bool) {
	v, ok := s.vars[key]
	return v, ok
}

// Has reports whether key is present in the snapshot.
func (s EnvSnapshot) Has(key string) bool {
	_, ok := s.vars[key]
	return ok
}

// Keys returns the snapshot's keys in sorted order.
func (s EnvSnapshot) Keys() []string {
	keys := make([]string, 0, len(s.vars))
	for k := range s.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of variables in the snapshot.
func (s EnvSnapshot) Len() int { return len(s.vars) }
