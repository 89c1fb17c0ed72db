package policies

import (
	"packsmith/internal/shared"
	"packsmith/internal/types"
)

// ManagerResolver picks, per capability and format version, which behavior
// applies. Entries are kept in declaration order and the first entry whose
// range contains the version wins, even when a later entry is narrower.
type ManagerResolver[B any] struct {
	capabilities map[string][]types.ManagerEntry[B]
}

func NewManagerResolver[B any]() *ManagerResolver[B] {
	return &ManagerResolver[B]{capabilities: map[string][]types.ManagerEntry[B]{}}
}

// Register appends entries to a capability. Entries with an inverted range
// are rejected.
func (m *ManagerResolver[B]) Register(capability string, entries ...types.ManagerEntry[B]) error {
	for _, entry := range entries {
		if entry.MinVersion > entry.MaxVersion {
			return types.ValidationError("manager entry for " + capability + " has min above max")
		}
	}
	m.capabilities[capability] = append(m.capabilities[capability], entries...)
	return nil
}

// Resolve returns the behavior for capability at version. ok is false for an
// unknown capability or when no range contains the version.
func (m *ManagerResolver[B]) Resolve(capability string, version int) (B, bool) {
	for _, entry := range m.capabilities[capability] {
		if entry.Contains(version) {
			return entry.Behavior, true
		}
	}
	var zero B
	return zero, false
}

// Capabilities lists the registered capability names in lexical order.
func (m *ManagerResolver[B]) Capabilities() []string {
	return shared.SortedKeys(m.capabilities)
}
