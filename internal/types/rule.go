package types

import (
	"fmt"
	"math"
	"strings"
)

// Unbounded is the MaxVersion of a manager entry with no upper limit.
const Unbounded = math.MaxInt

// ManagerEntry is one behavior variant of a capability, valid over the
// inclusive version range [MinVersion, MaxVersion].
type ManagerEntry[B any] struct {
	MinVersion int
	MaxVersion int
	Behavior   B
}

func (e ManagerEntry[B]) Contains(version int) bool {
	return version >= e.MinVersion && version <= e.MaxVersion
}

// Lock gates edits to elements its condition matches.
type Lock struct {
	Condition Condition
	Text      string
}

// ForEach repeats a rule's condition and actions. Values iterates loop
// scalars; Field iterates the entries of a nested object field.
type ForEach struct {
	Values []any
	Field  string
}

// Rename moves a matched element to a new identifier. Empty parts keep the
// current value.
type Rename struct {
	Namespace *ActionValue
	Resource  *ActionValue
}

// Rule selects elements of one registry and transforms them.
type Rule struct {
	Name              string
	Registry          string
	PathPrefix        string
	ExcludeNamespaces []string
	Condition         *Condition
	Locks             []Lock
	Actions           []Action
	ForEach           *ForEach
	Rename            *Rename
	Delete            bool
}

// RuleSet is a loaded rule document.
type RuleSet struct {
	Version    string
	PackFormat int
	Rules      []Rule
}

func (r Rule) Validate() error {
	name := r.Name
	if strings.TrimSpace(name) == "" {
		return ValidationError("rule name must not be empty")
	}
	if strings.TrimSpace(r.Registry) == "" {
		return ValidationError(fmt.Sprintf("rule %s requires registry", name))
	}
	if r.Condition != nil {
		if err := r.Condition.Validate(); err != nil {
			return err
		}
	}
	for _, lock := range r.Locks {
		if err := lock.Condition.Validate(); err != nil {
			return err
		}
	}
	for _, action := range r.Actions {
		if err := action.Validate(); err != nil {
			return err
		}
	}
	if r.ForEach != nil {
		hasValues := len(r.ForEach.Values) > 0
		hasField := r.ForEach.Field != ""
		if hasValues == hasField {
			return ValidationError(fmt.Sprintf("rule %s for_each needs exactly one of values or field", name))
		}
	}
	if r.Delete && (len(r.Actions) > 0 || r.Rename != nil) {
		return ValidationError(fmt.Sprintf("rule %s cannot delete and edit at once", name))
	}
	if !r.Delete && len(r.Actions) == 0 && r.Rename == nil {
		return ValidationError(fmt.Sprintf("rule %s has nothing to do", name))
	}
	if r.Rename != nil && r.Rename.Namespace == nil && r.Rename.Resource == nil {
		return ValidationError(fmt.Sprintf("rule %s rename is empty", name))
	}
	return nil
}

func (s RuleSet) Validate() error {
	seen := map[string]struct{}{}
	for _, rule := range s.Rules {
		if err := rule.Validate(); err != nil {
			return err
		}
		if _, ok := seen[rule.Name]; ok {
			return ValidationError(fmt.Sprintf("duplicate rule name %s", rule.Name))
		}
		seen[rule.Name] = struct{}{}
	}
	return nil
}
