package types

import (
	"encoding/json"
	"strconv"
)

// Element is the decoded content of one resource file. The core enforces no
// schema on it; values are JSON-shaped (string, float64, bool, nil,
// map[string]any, []any). Integers beyond float64 precision are held as
// json.Number.
type Element map[string]any

// RegistryEntry is one decoded resource file with the registry it was
// decoded under.
type RegistryEntry struct {
	Identifier Identifier
	Registry   string
	Data       Element
}

type LabelKind string

const (
	LabelNew     LabelKind = "new"
	LabelUpdated LabelKind = "updated"
	LabelDeleted LabelKind = "deleted"
)

// LabeledElement describes one change the compiler intends to apply. Entry is
// set for new and updated labels; deleted labels carry only the identifier
// and registry.
type LabeledElement struct {
	Kind       LabelKind
	Identifier Identifier
	Registry   string
	Entry      *RegistryEntry
}

func NewLabel(entry RegistryEntry) LabeledElement {
	return LabeledElement{Kind: LabelNew, Identifier: entry.Identifier, Registry: entry.Registry, Entry: &entry}
}

func UpdatedLabel(entry RegistryEntry) LabeledElement {
	return LabeledElement{Kind: LabelUpdated, Identifier: entry.Identifier, Registry: entry.Registry, Entry: &entry}
}

func DeletedLabel(id Identifier, registry string) LabeledElement {
	return LabeledElement{Kind: LabelDeleted, Identifier: id, Registry: registry}
}

// maxExactInteger is the largest integer magnitude a float64 holds exactly.
const maxExactInteger = 1 << 53

// NormalizeValue brings numbers to one comparable form so values decoded from
// elements (json.Number) and rule documents (YAML, TOML, CUE) compare equal.
// Integers a float64 holds exactly and all fractional numbers become float64;
// larger integers become a json.Number in plain decimal so no digit is lost.
// Nested maps and slices are normalised recursively.
func NormalizeValue(value any) any {
	switch v := value.(type) {
	case int:
		return normalizeInt(int64(v))
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return normalizeInt(v)
	case uint:
		return normalizeUint(uint64(v))
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return normalizeUint(v)
	case float32:
		return float64(v)
	case json.Number:
		return normalizeNumber(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = NormalizeValue(item)
		}
		return out
	case Element:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = NormalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = NormalizeValue(item)
		}
		return out
	default:
		return value
	}
}

func normalizeInt(v int64) any {
	if v >= -maxExactInteger && v <= maxExactInteger {
		return float64(v)
	}
	return json.Number(strconv.FormatInt(v, 10))
}

func normalizeUint(v uint64) any {
	if v <= maxExactInteger {
		return float64(v)
	}
	return json.Number(strconv.FormatUint(v, 10))
}

func normalizeNumber(n json.Number) any {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return normalizeInt(i)
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return normalizeUint(u)
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n
}
