package input

import (
	"slices"
)

// Snapshot is the set of keys held down at one sampling instant
// Keys are kept sorted and unique so edge order is deterministic
type Snapshot struct {
	keys []string
}

// NewSnapshot builds a snapshot from key identifiers in any order, duplicates allowed
func NewSnapshot(keys ...string) Snapshot {
	if len(keys) == 0 {
		return Snapshot{}
	}
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	return Snapshot{keys: slices.Compact(sorted)}
}

// Keys returns a sorted copy of the held keys
func (s Snapshot) Keys() []string {
	return slices.Clone(s.keys)
}

// Len returns the number of held keys
func (s Snapshot) Len() int {
	return len(s.keys)
}

// Contains reports whether key is held
func (s Snapshot) Contains(key string) bool {
	_, found := slices.BinarySearch(s.keys, key)
	return found
}

// Equal reports whether both snapshots hold the same keys
func (s Snapshot) Equal(other Snapshot) bool {
	return slices.Equal(s.keys, other.keys)
}

// Edges returns keys held in cur but not in prev, in cur's order
// Released and still-held keys produce nothing
func Edges(prev, cur Snapshot) []string {
	var edges []string
	for _, k := range cur.keys {
		if !prev.Contains(k) {
			edges = append(edges, k)
		}
	}
	return edges
}
