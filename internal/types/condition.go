package types

import "fmt"

type ConditionKind string

const (
	ConditionEqualsString     ConditionKind = "equals_string"
	ConditionEqualsUndefined  ConditionKind = "equals_undefined"
	ConditionEqualsFieldValue ConditionKind = "equals_field_value"
	ConditionContains         ConditionKind = "contains"
	ConditionAllOf            ConditionKind = "all_of"
	ConditionAnyOf            ConditionKind = "any_of"
	ConditionInvert           ConditionKind = "invert"
	ConditionScopedObject     ConditionKind = "scoped_object"
)

// Condition is a predicate over an element. Kind selects the variant; only
// the fields belonging to that variant are populated. Build conditions with
// the constructors below, which never produce an ambiguous value.
type Condition struct {
	Kind ConditionKind

	// Field is the element field compared, tested or descended into.
	Field string
	// Value is the literal for equals_string and equals_field_value.
	Value any
	// Values is the explicit set for contains. Nil means "use the external
	// value passed to the evaluator".
	Values []any
	// Terms holds the operands of all_of and any_of.
	Terms []Condition
	// Inner is the wrapped condition of invert and scoped_object.
	Inner *Condition
}

func EqualsString(field string, value string) Condition {
	return Condition{Kind: ConditionEqualsString, Field: field, Value: value}
}

func EqualsUndefined(field string) Condition {
	return Condition{Kind: ConditionEqualsUndefined, Field: field}
}

func EqualsFieldValue(field string, value any) Condition {
	return Condition{Kind: ConditionEqualsFieldValue, Field: field, Value: NormalizeValue(value)}
}

// Contains builds a contains condition. With no values the evaluator falls
// back to the external value.
func Contains(field string, values ...any) Condition {
	var set []any
	if len(values) > 0 {
		set = make([]any, len(values))
		for i, value := range values {
			set[i] = NormalizeValue(value)
		}
	}
	return Condition{Kind: ConditionContains, Field: field, Values: set}
}

func AllOf(terms ...Condition) Condition {
	return Condition{Kind: ConditionAllOf, Terms: terms}
}

func AnyOf(terms ...Condition) Condition {
	return Condition{Kind: ConditionAnyOf, Terms: terms}
}

func Invert(inner Condition) Condition {
	return Condition{Kind: ConditionInvert, Inner: &inner}
}

func ScopedObject(field string, inner Condition) Condition {
	return Condition{Kind: ConditionScopedObject, Field: field, Inner: &inner}
}

// Validate rejects conditions whose populated fields do not match their kind.
func (c Condition) Validate() error {
	switch c.Kind {
	case ConditionEqualsString:
		if c.Field == "" {
			return ValidationError("equals_string requires field")
		}
		if _, ok := c.Value.(string); !ok {
			return ValidationError(fmt.Sprintf("equals_string on %s requires a string value", c.Field))
		}
		return c.rejectExtra(false, false, false)
	case ConditionEqualsUndefined:
		if c.Field == "" {
			return ValidationError("equals_undefined requires field")
		}
		if c.Value != nil {
			return ValidationError(fmt.Sprintf("equals_undefined on %s must not carry a value", c.Field))
		}
		return c.rejectExtra(false, false, false)
	case ConditionEqualsFieldValue:
		if c.Field == "" {
			return ValidationError("equals_field_value requires field")
		}
		if c.Value == nil {
			return ValidationError(fmt.Sprintf("equals_field_value on %s requires a value", c.Field))
		}
		return c.rejectExtra(false, false, false)
	case ConditionContains:
		if c.Field == "" {
			return ValidationError("contains requires field")
		}
		if c.Value != nil {
			return ValidationError(fmt.Sprintf("contains on %s takes values, not value", c.Field))
		}
		return c.rejectExtra(true, false, false)
	case ConditionAllOf, ConditionAnyOf:
		if c.Field != "" || c.Value != nil {
			return ValidationError(fmt.Sprintf("%s takes only terms", c.Kind))
		}
		if err := c.rejectExtra(false, true, false); err != nil {
			return err
		}
		for _, term := range c.Terms {
			if err := term.Validate(); err != nil {
				return err
			}
		}
		return nil
	case ConditionInvert:
		if c.Field != "" || c.Value != nil {
			return ValidationError("invert takes only a condition")
		}
		if c.Inner == nil {
			return ValidationError("invert requires a condition")
		}
		if err := c.rejectExtra(false, false, true); err != nil {
			return err
		}
		return c.Inner.Validate()
	case ConditionScopedObject:
		if c.Field == "" {
			return ValidationError("scoped_object requires field")
		}
		if c.Inner == nil {
			return ValidationError(fmt.Sprintf("scoped_object on %s requires a condition", c.Field))
		}
		if c.Value != nil {
			return ValidationError(fmt.Sprintf("scoped_object on %s must not carry a value", c.Field))
		}
		if err := c.rejectExtra(false, false, true); err != nil {
			return err
		}
		return c.Inner.Validate()
	default:
		return ValidationError(fmt.Sprintf("unknown condition kind %q", c.Kind))
	}
}

func (c Condition) rejectExtra(allowValues bool, allowTerms bool, allowInner bool) error {
	if !allowValues && c.Values != nil {
		return ValidationError(fmt.Sprintf("%s must not carry values", c.Kind))
	}
	if !allowTerms && c.Terms != nil {
		return ValidationError(fmt.Sprintf("%s must not carry terms", c.Kind))
	}
	if !allowInner && c.Inner != nil {
		return ValidationError(fmt.Sprintf("%s must not carry a nested condition", c.Kind))
	}
	return nil
}
