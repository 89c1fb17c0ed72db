package types

import "fmt"

type ActionKind string

const (
	ActionSetValue     ActionKind = "set_value"
	ActionToggleValue  ActionKind = "toggle_value"
	ActionRemoveKey    ActionKind = "remove_key"
	ActionSetUndefined ActionKind = "set_undefined"
)

// ActionValue is either a literal or a context token resolved at apply time.
type ActionValue struct {
	literal any
	token   string
	isToken bool
}

func Literal(value any) ActionValue {
	return ActionValue{literal: NormalizeValue(value)}
}

func Token(key string) ActionValue {
	return ActionValue{token: key, isToken: true}
}

func (v ActionValue) IsToken() bool {
	return v.isToken
}

// TokenKey returns the context key of a token value, or "" for literals.
func (v ActionValue) TokenKey() string {
	return v.token
}

// LiteralValue returns the literal, or nil for tokens.
func (v ActionValue) LiteralValue() any {
	if v.isToken {
		return nil
	}
	return v.literal
}

// Raw returns the value as written in a rule: the literal, or a
// {"token": key} placeholder for tokens. Unresolved tokens surface in
// output in this form.
func (v ActionValue) Raw() any {
	if v.isToken {
		return map[string]any{"token": v.token}
	}
	return v.literal
}

func (v ActionValue) String() string {
	if v.isToken {
		return fmt.Sprintf("{token:%s}", v.token)
	}
	return fmt.Sprintf("%v", v.literal)
}

// Action is a field transformation. Value is unused by set_undefined.
type Action struct {
	Kind  ActionKind
	Field string
	Value ActionValue
}

func SetValue(field string, value ActionValue) Action {
	return Action{Kind: ActionSetValue, Field: field, Value: value}
}

func ToggleValue(field string, value ActionValue) Action {
	return Action{Kind: ActionToggleValue, Field: field, Value: value}
}

func RemoveKey(field string, value ActionValue) Action {
	return Action{Kind: ActionRemoveKey, Field: field, Value: value}
}

func SetUndefined(field string) Action {
	return Action{Kind: ActionSetUndefined, Field: field}
}

func (a Action) Validate() error {
	if a.Field == "" {
		return ValidationError(fmt.Sprintf("%s requires field", a.Kind))
	}
	switch a.Kind {
	case ActionSetValue, ActionToggleValue, ActionRemoveKey:
		if a.Value.IsToken() && a.Value.TokenKey() == "" {
			return ValidationError(fmt.Sprintf("%s on %s has empty token", a.Kind, a.Field))
		}
		return nil
	case ActionSetUndefined:
		if a.Value.IsToken() || a.Value.LiteralValue() != nil {
			return ValidationError(fmt.Sprintf("set_undefined on %s must not carry a value", a.Field))
		}
		return nil
	default:
		return ValidationError(fmt.Sprintf("unknown action kind %q", a.Kind))
	}
}
