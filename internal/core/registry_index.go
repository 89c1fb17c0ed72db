package core

import (
	"sort"
	"strings"

	"packsmith/internal/shared"
	"packsmith/internal/types"
)

// RegistryIndex groups the entries of one session by registry key. Entry
// order within a registry is insertion order; use Sorted when a stable order
// is needed.
type RegistryIndex struct {
	entries map[string][]types.RegistryEntry
}

func NewRegistryIndex() *RegistryIndex {
	return &RegistryIndex{entries: map[string][]types.RegistryEntry{}}
}

// Insert adds an entry, replacing in place any entry of the same registry
// with the same identifier.
func (r *RegistryIndex) Insert(entry types.RegistryEntry) {
	current := r.entries[entry.Registry]
	for i, existing := range current {
		if existing.Identifier == entry.Identifier {
			current[i] = entry
			return
		}
	}
	r.entries[entry.Registry] = append(current, entry)
}

// Get returns the entries of a registry. Unknown keys yield an empty slice.
func (r *RegistryIndex) Get(registry string) []types.RegistryEntry {
	current := r.entries[registry]
	out := make([]types.RegistryEntry, len(current))
	copy(out, current)
	return out
}

// Lookup finds one entry by registry and identifier.
func (r *RegistryIndex) Lookup(registry string, id types.Identifier) (types.RegistryEntry, bool) {
	for _, entry := range r.entries[registry] {
		if entry.Identifier == id {
			return entry, true
		}
	}
	return types.RegistryEntry{}, false
}

// FilterByPrefix keeps the entries of a registry whose resource starts with
// prefix and whose namespace is not excluded.
func (r *RegistryIndex) FilterByPrefix(registry string, prefix string, excludeNamespaces ...string) []types.RegistryEntry {
	excluded := shared.StringSet(excludeNamespaces)
	out := []types.RegistryEntry{}
	for _, entry := range r.entries[registry] {
		if !strings.HasPrefix(entry.Identifier.Resource, prefix) {
			continue
		}
		if _, skip := excluded[entry.Identifier.Namespace]; skip {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// Keys returns the registry keys in lexical order.
func (r *RegistryIndex) Keys() []string {
	return shared.SortedKeys(r.entries)
}

// Len returns the total number of entries.
func (r *RegistryIndex) Len() int {
	total := 0
	for _, entries := range r.entries {
		total += len(entries)
	}
	return total
}

// Sorted returns a copy of the index with every registry ordered by
// identifier.
func (r *RegistryIndex) Sorted() *RegistryIndex {
	out := NewRegistryIndex()
	for key, entries := range r.entries {
		ordered := make([]types.RegistryEntry, len(entries))
		copy(ordered, entries)
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].Identifier.Less(ordered[j].Identifier)
		})
		out.entries[key] = ordered
	}
	return out
}

// Clone returns a copy whose registry slices can be replaced without
// affecting the receiver. Element maps are shared; edits go through the
// copy-on-write modifiers.
func (r *RegistryIndex) Clone() *RegistryIndex {
	out := NewRegistryIndex()
	for key, entries := range r.entries {
		out.entries[key] = append([]types.RegistryEntry(nil), entries...)
	}
	return out
}

// Remove drops an entry and reports whether it existed.
func (r *RegistryIndex) Remove(registry string, id types.Identifier) bool {
	current := r.entries[registry]
	for i, entry := range current {
		if entry.Identifier == id {
			r.entries[registry] = append(current[:i:i], current[i+1:]...)
			if len(r.entries[registry]) == 0 {
				delete(r.entries, registry)
			}
			return true
		}
	}
	return false
}
