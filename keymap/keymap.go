// Package keymap holds the key-name to sound-id mapping used by the poll loop.
//
// A KeyMap is owned by a single goroutine: it is read and repaired in place by the
// loop and never written back to disk.
package keymap

import (
	"sort"
)

// Entry is one key binding
type Entry struct {
	Key     string
	SoundID int
}

// KeyMap maps key identifiers to sound ids
type KeyMap struct {
	entries  map[string]int
	fallback int
}

// New creates a KeyMap from initial bindings
// fallback is resolved for keys with no binding
func New(entries map[string]int, fallback int) *KeyMap {
	m := &KeyMap{
		entries:  make(map[string]int, len(entries)),
		fallback: fallback,
	}
	for k, v := range entries {
		m.entries[k] = v
	}
	return m
}

// Resolve returns the bound sound id, or the fallback id for unbound keys
func (m *KeyMap) Resolve(key string) int {
	if id, ok := m.entries[key]; ok {
		return id
	}
	return m.fallback
}

// Lookup reports the bound sound id without fallback substitution
func (m *KeyMap) Lookup(key string) (int, bool) {
	id, ok := m.entries[key]
	return id, ok
}

// Reassign binds key to id, overwriting any previous binding
func (m *KeyMap) Reassign(key string, id int) {
	m.entries[key] = id
}

// Default returns the id resolved for unbound keys
func (m *KeyMap) Default() int {
	return m.fallback
}

// Len returns the number of bound keys
func (m *KeyMap) Len() int {
	return len(m.entries)
}

// Entries returns a copy of all bindings sorted by key
func (m *KeyMap) Entries() []Entry {
	out := make([]Entry, 0, len(m.entries))
	for k, v := range m.entries {
		out = append(out, Entry{Key: k, SoundID: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
