package policies

import (
	"fmt"
	"reflect"

	"packsmith/internal/types"
)

// Modifier transforms one field of an element given the action's resolved
// value. Modifiers never mutate their input: the returned element is a new
// top-level map, and only nested maps on the edited path are copied. A field
// cleared by a modifier is absent from the result.
type Modifier func(element types.Element, field string, value any) (types.Element, error)

// SetValueModifier sets the field to value.
func SetValueModifier(element types.Element, field string, value any) (types.Element, error) {
	return withField(element, field, value), nil
}

// ToggleValueModifier clears the field when it already equals value and sets
// it otherwise.
func ToggleValueModifier(element types.Element, field string, value any) (types.Element, error) {
	if current, ok := element[field]; ok && sameValue(current, value) {
		return withoutField(element, field), nil
	}
	return withField(element, field, value), nil
}

// ToggleListModifier toggles membership of value when the field holds a
// sequence, and behaves like ToggleValueModifier otherwise. A value equal to
// the whole sequence clears the field.
func ToggleListModifier(element types.Element, field string, value any) (types.Element, error) {
	current, present := element[field]
	if present && sameValue(current, value) {
		return withoutField(element, field), nil
	}
	sequence, ok := current.([]any)
	if !ok {
		return ToggleValueModifier(element, field, value)
	}
	next := make([]any, 0, len(sequence)+1)
	removed := false
	for _, item := range sequence {
		if sameValue(item, value) {
			removed = true
			continue
		}
		next = append(next, item)
	}
	if !removed {
		next = append(next, value)
	}
	return withField(element, field, next), nil
}

// RemoveKeyModifier deletes the sub-key named by value from the nested object
// held in field. Sibling sub-keys are kept.
func RemoveKeyModifier(element types.Element, field string, value any) (types.Element, error) {
	key, ok := value.(string)
	if !ok {
		return nil, types.ValidationError(fmt.Sprintf("remove_key on %s requires a string key, got %T", field, value))
	}
	current, present := element[field]
	if !present {
		return withoutField(element, field), nil
	}
	var nested map[string]any
	switch v := current.(type) {
	case map[string]any:
		nested = v
	case types.Element:
		nested = v
	default:
		return nil, types.ValidationError(fmt.Sprintf("remove_key target %s is not an object", field))
	}
	copied := make(map[string]any, len(nested))
	for k, v := range nested {
		if k == key {
			continue
		}
		copied[k] = v
	}
	return withField(element, field, copied), nil
}

// SetUndefinedModifier clears the field.
func SetUndefinedModifier(element types.Element, field string, _ any) (types.Element, error) {
	return withoutField(element, field), nil
}

func withField(element types.Element, field string, value any) types.Element {
	out := make(types.Element, len(element)+1)
	for k, v := range element {
		out[k] = v
	}
	out[field] = value
	return out
}

func withoutField(element types.Element, field string) types.Element {
	out := make(types.Element, len(element))
	for k, v := range element {
		if k == field {
			continue
		}
		out[k] = v
	}
	return out
}

func sameValue(a any, b any) bool {
	return reflect.DeepEqual(types.NormalizeValue(a), types.NormalizeValue(b))
}
