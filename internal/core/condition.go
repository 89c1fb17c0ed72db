package core

import (
	"encoding/json"
	"reflect"

	"packsmith/internal/types"
)

// Evaluate reports whether element satisfies condition. value is the
// external value consulted by contains conditions that carry no explicit
// value set; pass nil when there is none. Evaluate has no side effects.
func Evaluate(condition types.Condition, element types.Element, value any) bool {
	switch condition.Kind {
	case types.ConditionEqualsString:
		current, ok := element[condition.Field]
		return ok && valuesEqual(current, condition.Value)
	case types.ConditionEqualsUndefined:
		_, ok := element[condition.Field]
		return !ok
	case types.ConditionEqualsFieldValue:
		current, ok := element[condition.Field]
		if !ok || !truthy(current) {
			return false
		}
		return valuesEqual(current, condition.Value)
	case types.ConditionContains:
		return evaluateContains(condition, element, value)
	case types.ConditionAllOf:
		for _, term := range condition.Terms {
			if !Evaluate(term, element, value) {
				return false
			}
		}
		return true
	case types.ConditionAnyOf:
		for _, term := range condition.Terms {
			if Evaluate(term, element, value) {
				return true
			}
		}
		return false
	case types.ConditionInvert:
		if condition.Inner == nil {
			return true
		}
		return !Evaluate(*condition.Inner, element, value)
	case types.ConditionScopedObject:
		if condition.Inner == nil {
			return false
		}
		nested, ok := asObject(element[condition.Field])
		if !ok {
			return false
		}
		return Evaluate(*condition.Inner, nested, value)
	default:
		return false
	}
}

func evaluateContains(condition types.Condition, element types.Element, value any) bool {
	sequence, ok := element[condition.Field].([]any)
	if !ok {
		return false
	}
	if condition.Values != nil {
		for _, wanted := range condition.Values {
			if sequenceContains(sequence, wanted) {
				return true
			}
		}
		return false
	}
	if value != nil {
		return sequenceContains(sequence, types.NormalizeValue(value))
	}
	return false
}

func sequenceContains(sequence []any, wanted any) bool {
	for _, item := range sequence {
		if valuesEqual(item, wanted) {
			return true
		}
	}
	return false
}

func asObject(value any) (types.Element, bool) {
	switch v := value.(type) {
	case map[string]any:
		return types.Element(v), true
	case types.Element:
		return v, true
	default:
		return nil, false
	}
}

// valuesEqual is strict equality over JSON-shaped values: same dynamic type
// and same content.
func valuesEqual(a any, b any) bool {
	a, b = types.NormalizeValue(a), types.NormalizeValue(b)
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case json.Number:
		bv, ok := b.(json.Number)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	default:
		return reflect.DeepEqual(a, b)
	}
}

func truthy(value any) bool {
	switch v := types.NormalizeValue(value).(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case json.Number:
		return v != "0"
	default:
		return true
	}
}
