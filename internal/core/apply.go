package core

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"packsmith/internal/policies"
	"packsmith/internal/types"
)

// Applier runs actions through the modifier selected for its pack format.
type Applier struct {
	Managers *policies.ManagerResolver[policies.Modifier]
	Version  int
}

func NewApplier(managers *policies.ManagerResolver[policies.Modifier], version int) Applier {
	return Applier{Managers: managers, Version: version}
}

// ApplyAction applies one action with the default modifiers at the newest
// pack format.
func ApplyAction(action types.Action, element types.Element, ictx *types.IterationContext) (types.Element, error) {
	return NewApplier(policies.DefaultModifierManagers(), types.Unbounded).Apply(action, element, ictx)
}

// GetFieldValue resolves the value an action writes. Tokens go through the
// iteration context; literals pass through.
func GetFieldValue(action types.Action, ictx *types.IterationContext) any {
	return ResolveValue(action.Value, ictx)
}

// Apply returns the element after action. The input element is not
// modified. Validation errors from the modifier are returned unchanged.
func (a Applier) Apply(action types.Action, element types.Element, ictx *types.IterationContext) (types.Element, error) {
	if err := action.Validate(); err != nil {
		return nil, err
	}
	if a.Managers == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("applier requires modifier managers")
	}
	modifier, ok := a.Managers.Resolve(string(action.Kind), a.Version)
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("no modifier for %s at pack format %d", action.Kind, a.Version))
	}
	if element == nil {
		element = types.Element{}
	}
	return modifier(element, action.Field, GetFieldValue(action, ictx))
}
