package core

import "packsmith/internal/types"

// Resolution is the outcome of resolving an action value. When Resolved is
// false, Value is the value as written (the raw token for an unresolved
// token) so a later pass can still resolve it.
type Resolution struct {
	Value    any
	Resolved bool
}

type fileAccessor func(types.FileDescriptor) string

// fileAccessors is the fixed set of keys a file context answers directly.
var fileAccessors = map[string]fileAccessor{
	"filename":   func(f types.FileDescriptor) string { return f.Filename },
	"resource":   func(f types.FileDescriptor) string { return f.Resource },
	"namespace":  func(f types.FileDescriptor) string { return f.Namespace },
	"identifier": func(f types.FileDescriptor) string { return f.Identifier },
}

// IsFileAccessor reports whether key is answered by the fixed file accessor
// table rather than the descriptor's attributes.
func IsFileAccessor(key string) bool {
	_, ok := fileAccessors[key]
	return ok
}

// ResolveToken resolves an action value against an iteration context.
// Literals always resolve to themselves. A loop-scalar context answers every
// key with the current iteration value.
func ResolveToken(value types.ActionValue, ictx *types.IterationContext) Resolution {
	if !value.IsToken() {
		return Resolution{Value: value.LiteralValue(), Resolved: true}
	}
	unresolved := Resolution{Value: value.Raw(), Resolved: false}
	key := value.TokenKey()
	switch ictx.Kind() {
	case types.ContextIteration:
		return Resolution{Value: ictx.Current(), Resolved: true}
	case types.ContextFile:
		file := ictx.File()
		if accessor, ok := fileAccessors[key]; ok {
			return Resolution{Value: accessor(file), Resolved: true}
		}
		if raw, ok := file.Attributes[key]; ok {
			return Resolution{Value: raw, Resolved: true}
		}
		return unresolved
	case types.ContextObject:
		if raw, ok := ictx.Object().Data[key]; ok {
			return Resolution{Value: raw, Resolved: true}
		}
		return unresolved
	default:
		return unresolved
	}
}

// ResolveValue returns the resolved value, or the token unchanged when it
// cannot be resolved.
func ResolveValue(value types.ActionValue, ictx *types.IterationContext) any {
	return ResolveToken(value, ictx).Value
}
