package policies

import "packsmith/internal/types"

// ListToggleFormat is the first pack format whose list fields (such as
// enchantment slots) are toggled by membership.
const ListToggleFormat = 48

// DefaultModifierManagers declares one capability per action kind. The
// list-aware toggle is declared before the generic one so it wins from
// ListToggleFormat onwards.
func DefaultModifierManagers() *ManagerResolver[Modifier] {
	managers := NewManagerResolver[Modifier]()
	always := func(modifier Modifier) types.ManagerEntry[Modifier] {
		return types.ManagerEntry[Modifier]{MinVersion: 0, MaxVersion: types.Unbounded, Behavior: modifier}
	}
	_ = managers.Register(string(types.ActionSetValue), always(SetValueModifier))
	_ = managers.Register(string(types.ActionToggleValue),
		types.ManagerEntry[Modifier]{MinVersion: ListToggleFormat, MaxVersion: types.Unbounded, Behavior: ToggleListModifier},
		always(ToggleValueModifier),
	)
	_ = managers.Register(string(types.ActionRemoveKey), always(RemoveKeyModifier))
	_ = managers.Register(string(types.ActionSetUndefined), always(SetUndefinedModifier))
	return managers
}
