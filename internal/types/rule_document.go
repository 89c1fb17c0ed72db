package types

import (
	"fmt"
	"strings"
)

// The document types mirror the on-disk rule format. They are decoded from
// YAML, TOML, JSON or CUE and converted into the typed rule model with
// Build, which rejects ambiguous shapes.

type RuleSetDocument struct {
	Version    string         `json:"version" yaml:"version" toml:"version"`
	PackFormat int            `json:"pack_format,omitempty" yaml:"pack_format,omitempty" toml:"pack_format,omitempty"`
	Rules      []RuleDocument `json:"rules" yaml:"rules" toml:"rules"`
}

type RuleDocument struct {
	Name              string             `json:"name" yaml:"name" toml:"name"`
	Registry          string             `json:"registry" yaml:"registry" toml:"registry"`
	PathPrefix        string             `json:"path_prefix,omitempty" yaml:"path_prefix,omitempty" toml:"path_prefix,omitempty"`
	ExcludeNamespaces []string           `json:"exclude_namespaces,omitempty" yaml:"exclude_namespaces,omitempty" toml:"exclude_namespaces,omitempty"`
	Condition         *ConditionDocument `json:"condition,omitempty" yaml:"condition,omitempty" toml:"condition,omitempty"`
	Locks             []LockDocument     `json:"locks,omitempty" yaml:"locks,omitempty" toml:"locks,omitempty"`
	Actions           []ActionDocument   `json:"actions,omitempty" yaml:"actions,omitempty" toml:"actions,omitempty"`
	ForEach           *ForEachDocument   `json:"for_each,omitempty" yaml:"for_each,omitempty" toml:"for_each,omitempty"`
	Rename            *RenameDocument    `json:"rename,omitempty" yaml:"rename,omitempty" toml:"rename,omitempty"`
	Delete            bool               `json:"delete,omitempty" yaml:"delete,omitempty" toml:"delete,omitempty"`
}

type ConditionDocument struct {
	Type      string              `json:"type" yaml:"type" toml:"type"`
	Field     string              `json:"field,omitempty" yaml:"field,omitempty" toml:"field,omitempty"`
	Value     any                 `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Values    []any               `json:"values,omitempty" yaml:"values,omitempty" toml:"values,omitempty"`
	Terms     []ConditionDocument `json:"terms,omitempty" yaml:"terms,omitempty" toml:"terms,omitempty"`
	Condition *ConditionDocument  `json:"condition,omitempty" yaml:"condition,omitempty" toml:"condition,omitempty"`
}

type LockDocument struct {
	Condition ConditionDocument `json:"condition" yaml:"condition" toml:"condition"`
	Text      string            `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
}

type ActionDocument struct {
	Type  string `json:"type" yaml:"type" toml:"type"`
	Field string `json:"field" yaml:"field" toml:"field"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Token string `json:"token,omitempty" yaml:"token,omitempty" toml:"token,omitempty"`
}

type ForEachDocument struct {
	Values []any  `json:"values,omitempty" yaml:"values,omitempty" toml:"values,omitempty"`
	Field  string `json:"field,omitempty" yaml:"field,omitempty" toml:"field,omitempty"`
}

type ValueDocument struct {
	Value any    `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Token string `json:"token,omitempty" yaml:"token,omitempty" toml:"token,omitempty"`
}

type RenameDocument struct {
	Namespace *ValueDocument `json:"namespace,omitempty" yaml:"namespace,omitempty" toml:"namespace,omitempty"`
	Resource  *ValueDocument `json:"resource,omitempty" yaml:"resource,omitempty" toml:"resource,omitempty"`
}

func (d RuleSetDocument) Build() (RuleSet, error) {
	set := RuleSet{
		Version:    strings.TrimSpace(d.Version),
		PackFormat: d.PackFormat,
	}
	if set.Version == "" {
		return RuleSet{}, ValidationError("rule set version must be set")
	}
	for _, doc := range d.Rules {
		rule, err := doc.Build()
		if err != nil {
			return RuleSet{}, err
		}
		set.Rules = append(set.Rules, rule)
	}
	if err := set.Validate(); err != nil {
		return RuleSet{}, err
	}
	return set, nil
}

func (d RuleDocument) Build() (Rule, error) {
	rule := Rule{
		Name:              strings.TrimSpace(d.Name),
		Registry:          strings.TrimSpace(d.Registry),
		PathPrefix:        d.PathPrefix,
		ExcludeNamespaces: d.ExcludeNamespaces,
		Delete:            d.Delete,
	}
	if d.Condition != nil {
		condition, err := d.Condition.Build()
		if err != nil {
			return Rule{}, err
		}
		rule.Condition = &condition
	}
	for _, lockDoc := range d.Locks {
		condition, err := lockDoc.Condition.Build()
		if err != nil {
			return Rule{}, err
		}
		rule.Locks = append(rule.Locks, Lock{Condition: condition, Text: lockDoc.Text})
	}
	for _, actionDoc := range d.Actions {
		action, err := actionDoc.Build()
		if err != nil {
			return Rule{}, err
		}
		rule.Actions = append(rule.Actions, action)
	}
	if d.ForEach != nil {
		forEach := ForEach{Field: d.ForEach.Field}
		for _, value := range d.ForEach.Values {
			forEach.Values = append(forEach.Values, NormalizeValue(value))
		}
		rule.ForEach = &forEach
	}
	if d.Rename != nil {
		rename := Rename{}
		if d.Rename.Namespace != nil {
			value, err := d.Rename.Namespace.Build()
			if err != nil {
				return Rule{}, err
			}
			rename.Namespace = &value
		}
		if d.Rename.Resource != nil {
			value, err := d.Rename.Resource.Build()
			if err != nil {
				return Rule{}, err
			}
			rename.Resource = &value
		}
		rule.Rename = &rename
	}
	if err := rule.Validate(); err != nil {
		return Rule{}, err
	}
	return rule, nil
}

func (d ConditionDocument) Build() (Condition, error) {
	var condition Condition
	switch ConditionKind(d.Type) {
	case ConditionEqualsString:
		value, ok := d.Value.(string)
		if !ok {
			return Condition{}, ValidationError(fmt.Sprintf("equals_string on %s requires a string value", d.Field))
		}
		condition = EqualsString(d.Field, value)
	case ConditionEqualsUndefined:
		condition = EqualsUndefined(d.Field)
		condition.Value = d.Value
	case ConditionEqualsFieldValue:
		condition = EqualsFieldValue(d.Field, d.Value)
	case ConditionContains:
		condition = Condition{Kind: ConditionContains, Field: d.Field, Value: d.Value}
		if d.Values != nil {
			condition.Values = make([]any, len(d.Values))
			for i, value := range d.Values {
				condition.Values[i] = NormalizeValue(value)
			}
		}
	case ConditionAllOf, ConditionAnyOf:
		condition = Condition{Kind: ConditionKind(d.Type), Field: d.Field, Value: d.Value}
		condition.Terms = []Condition{}
		for _, termDoc := range d.Terms {
			term, err := termDoc.Build()
			if err != nil {
				return Condition{}, err
			}
			condition.Terms = append(condition.Terms, term)
		}
	case ConditionInvert, ConditionScopedObject:
		condition = Condition{Kind: ConditionKind(d.Type), Field: d.Field, Value: d.Value}
		if d.Condition != nil {
			inner, err := d.Condition.Build()
			if err != nil {
				return Condition{}, err
			}
			condition.Inner = &inner
		}
	default:
		return Condition{}, ValidationError(fmt.Sprintf("unknown condition type %q", d.Type))
	}
	if len(d.Terms) > 0 && condition.Terms == nil {
		return Condition{}, ValidationError(fmt.Sprintf("%s must not carry terms", d.Type))
	}
	if d.Condition != nil && condition.Inner == nil {
		return Condition{}, ValidationError(fmt.Sprintf("%s must not carry a nested condition", d.Type))
	}
	if d.Values != nil && condition.Values == nil {
		return Condition{}, ValidationError(fmt.Sprintf("%s must not carry values", d.Type))
	}
	if err := condition.Validate(); err != nil {
		return Condition{}, err
	}
	return condition, nil
}

func (d ActionDocument) Build() (Action, error) {
	value, err := ValueDocument{Value: d.Value, Token: d.Token}.Build()
	if err != nil {
		return Action{}, err
	}
	action := Action{Kind: ActionKind(d.Type), Field: d.Field, Value: value}
	if action.Kind == ActionSetUndefined {
		action.Value = ActionValue{}
		if d.Value != nil || d.Token != "" {
			return Action{}, ValidationError(fmt.Sprintf("set_undefined on %s must not carry a value", d.Field))
		}
	}
	if err := action.Validate(); err != nil {
		return Action{}, err
	}
	return action, nil
}

func (d ValueDocument) Build() (ActionValue, error) {
	if d.Token != "" && d.Value != nil {
		return ActionValue{}, ValidationError(fmt.Sprintf("value and token %q are mutually exclusive", d.Token))
	}
	if d.Token != "" {
		return Token(d.Token), nil
	}
	return Literal(d.Value), nil
}
