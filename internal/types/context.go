package types

import pathpkg "path"

// FileDescriptor describes the resource file an element was decoded from.
// Attributes holds extra keys a caller wants tokens to reach.
type FileDescriptor struct {
	Filename   string
	Resource   string
	Namespace  string
	Identifier string
	Attributes map[string]any
}

// ObjectEntry is one entry of a nested object being iterated.
type ObjectEntry struct {
	Key  string
	Data map[string]any
}

type ContextKind int

const (
	ContextNone ContextKind = iota
	ContextIteration
	ContextFile
	ContextObject
)

// IterationContext is the value set tokens are resolved against during one
// render or compile pass. Exactly one variant is populated.
type IterationContext struct {
	kind    ContextKind
	current any
	file    FileDescriptor
	object  ObjectEntry
}

func IterationValue(value any) *IterationContext {
	return &IterationContext{kind: ContextIteration, current: NormalizeValue(value)}
}

func FileContext(file FileDescriptor) *IterationContext {
	return &IterationContext{kind: ContextFile, file: file}
}

func ObjectContext(entry ObjectEntry) *IterationContext {
	return &IterationContext{kind: ContextObject, object: entry}
}

// FileContextFor builds the file context of a registry entry stored at path.
// The full path and the registry key are reachable as attributes.
func FileContextFor(entry RegistryEntry, path string) *IterationContext {
	return FileContext(FileDescriptor{
		Filename:   pathpkg.Base(path),
		Resource:   entry.Identifier.Resource,
		Namespace:  entry.Identifier.Namespace,
		Identifier: entry.Identifier.String(),
		Attributes: map[string]any{"registry": entry.Registry, "path": path},
	})
}

func (c *IterationContext) Kind() ContextKind {
	if c == nil {
		return ContextNone
	}
	return c.kind
}

func (c *IterationContext) Current() any {
	return c.current
}

func (c *IterationContext) File() FileDescriptor {
	return c.file
}

func (c *IterationContext) Object() ObjectEntry {
	return c.object
}
