package core

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"packsmith/internal/policies"
	"packsmith/internal/ports"
	"packsmith/internal/shared"
	"packsmith/internal/types"
)

type Compiler struct {
	Archive  ports.ArchivePort
	Managers *policies.ManagerResolver[policies.Modifier]
}

func NewCompiler(archive ports.ArchivePort, managers *policies.ManagerResolver[policies.Modifier]) Compiler {
	if managers == nil {
		managers = policies.DefaultModifierManagers()
	}
	return Compiler{Archive: archive, Managers: managers}
}

// CompileRequest is one compile over a parsed session. Files holds the
// original decoded archive; Version selects modifier behavior and falls back
// to pack.mcmeta when zero.
type CompileRequest struct {
	Index   *RegistryIndex
	Rules   []types.Rule
	Files   map[string][]byte
	Version int
}

type CompileResult struct {
	Files   map[string][]byte
	Labels  []types.LabeledElement
	Locked  []types.LockedElement
	Version int
}

// Changed returns the archive paths written or removed by the compile, in
// lexical order.
func (r CompileResult) Changed() []string {
	paths := make([]string, 0, len(r.Labels))
	for _, label := range r.Labels {
		paths = append(paths, ToPath(label.Identifier, label.Registry))
	}
	sort.Strings(paths)
	return paths
}

type entryKey struct {
	registry string
	id       types.Identifier
}

type pass struct {
	ictx  *types.IterationContext
	value any
}

// Compile runs the rules in order over a copy of the index. Each rule sees the
// output of the rules before it. The request index is not modified.
func (c Compiler) Compile(ctx context.Context, req CompileRequest) (CompileResult, error) {
	if req.Index == nil {
		return CompileResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("compile requires a registry index")
	}
	managers := c.Managers
	if managers == nil {
		managers = policies.DefaultModifierManagers()
	}
	version := resolveVersion(req)
	applier := NewApplier(managers, version)

	working := req.Index.Clone()
	touched := map[entryKey]struct{}{}
	locked := []types.LockedElement{}
	for _, rule := range req.Rules {
		if err := rule.Validate(); err != nil {
			return CompileResult{}, err
		}
		assert.NotEmpty(ctx, rule.Name, "rule name must be set")
		assert.NotEmpty(ctx, rule.Registry, "rule registry must be set")
		ruleLocked, err := applyRule(ctx, applier, working, rule, touched)
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).Str("rule", rule.Name).Msg("rule failed")
			return CompileResult{}, err
		}
		locked = append(locked, ruleLocked...)
	}

	labels := diffIndexes(req.Index, working, touched)
	files, err := applyLabels(ctx, req.Files, labels)
	if err != nil {
		return CompileResult{}, err
	}
	log.Ctx(ctx).Debug().
		Int("rules", len(req.Rules)).
		Int("labels", len(labels)).
		Int("locked", len(locked)).
		Int("version", version).
		Msg("compile completed")
	return CompileResult{Files: files, Labels: labels, Locked: locked, Version: version}, nil
}

// CompileArchive compiles and encodes the resulting file set.
func (c Compiler) CompileArchive(ctx context.Context, req CompileRequest) ([]byte, CompileResult, error) {
	if c.Archive == nil {
		return nil, CompileResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("compiler requires an archive port")
	}
	result, err := c.Compile(ctx, req)
	if err != nil {
		return nil, CompileResult{}, err
	}
	data, err := c.Archive.Encode(ctx, result.Files)
	if err != nil {
		return nil, CompileResult{}, err
	}
	return data, result, nil
}

func resolveVersion(req CompileRequest) int {
	if req.Version > 0 {
		return req.Version
	}
	if meta, ok := ParsePackMeta(req.Files); ok && meta.Pack.PackFormat > 0 {
		return meta.Pack.PackFormat
	}
	return types.Unbounded
}

func applyRule(ctx context.Context, applier Applier, working *RegistryIndex, rule types.Rule, touched map[entryKey]struct{}) ([]types.LockedElement, error) {
	locked := []types.LockedElement{}
	matched := 0
	for _, entry := range working.FilterByPrefix(rule.Registry, rule.PathPrefix, rule.ExcludeNamespaces...) {
		element := entry.Data
		hit := false
		isLocked := false
		for _, p := range passesFor(rule, entry) {
			if rule.Condition != nil && !Evaluate(*rule.Condition, element, p.value) {
				continue
			}
			if ok, reason := EvaluateLocks(rule.Locks, element, p.value); ok {
				locked = append(locked, types.LockedElement{
					Rule:       rule.Name,
					Identifier: entry.Identifier.String(),
					Registry:   entry.Registry,
					Reason:     reason,
				})
				isLocked = true
				break
			}
			hit = true
			for _, action := range rule.Actions {
				next, err := applier.Apply(action, element, p.ictx)
				if err != nil {
					return nil, err
				}
				element = next
			}
		}
		if isLocked {
			log.Ctx(ctx).Debug().Str("rule", rule.Name).Str("identifier", entry.Identifier.String()).Msg("element locked")
			continue
		}
		if !hit {
			continue
		}
		matched++
		if rule.Delete {
			working.Remove(entry.Registry, entry.Identifier)
			continue
		}
		updated := types.RegistryEntry{Identifier: entry.Identifier, Registry: entry.Registry, Data: element}
		if rule.Rename != nil {
			target, err := renameTarget(entry, rule.Rename)
			if err != nil {
				return nil, err
			}
			if target != entry.Identifier {
				if _, exists := working.Lookup(entry.Registry, target); exists {
					return nil, errbuilder.New().
						WithCode(errbuilder.CodeAlreadyExists).
						WithMsg(fmt.Sprintf("rule %s renames %s onto existing %s", rule.Name, entry.Identifier, target))
				}
				working.Remove(entry.Registry, entry.Identifier)
				updated.Identifier = target
			}
		}
		working.Insert(updated)
		touched[entryKey{registry: updated.Registry, id: updated.Identifier}] = struct{}{}
	}
	log.Ctx(ctx).Debug().Str("rule", rule.Name).Int("matched", matched).Int("locked", len(locked)).Msg("rule applied")
	return locked, nil
}

// passesFor expands a rule into its iteration passes over one entry. Without
// for_each there is a single pass in the entry's file context.
func passesFor(rule types.Rule, entry types.RegistryEntry) []pass {
	if rule.ForEach == nil {
		ictx := types.FileContextFor(entry, ToPath(entry.Identifier, entry.Registry))
		return []pass{{ictx: ictx}}
	}
	if rule.ForEach.Field == "" {
		passes := make([]pass, 0, len(rule.ForEach.Values))
		for _, value := range rule.ForEach.Values {
			ictx := types.IterationValue(value)
			passes = append(passes, pass{ictx: ictx, value: ictx.Current()})
		}
		return passes
	}
	nested, ok := asObject(entry.Data[rule.ForEach.Field])
	if !ok {
		return nil
	}
	keys := shared.SortedKeys(nested)
	passes := make([]pass, 0, len(keys))
	for _, key := range keys {
		passes = append(passes, pass{
			ictx:  types.ObjectContext(objectEntry(key, nested[key])),
			value: key,
		})
	}
	return passes
}

// objectEntry exposes an iterated object entry to tokens. Object values are
// indexed directly and also answer "key"; scalar values answer "key" and
// "value".
func objectEntry(key string, value any) types.ObjectEntry {
	data := map[string]any{}
	if nested, ok := asObject(value); ok {
		for k, v := range nested {
			data[k] = v
		}
	} else {
		data["value"] = value
	}
	if _, ok := data["key"]; !ok {
		data["key"] = key
	}
	return types.ObjectEntry{Key: key, Data: data}
}

func renameTarget(entry types.RegistryEntry, rename *types.Rename) (types.Identifier, error) {
	ictx := types.FileContextFor(entry, ToPath(entry.Identifier, entry.Registry))
	target := entry.Identifier
	if rename.Namespace != nil {
		namespace, err := renamePart(*rename.Namespace, ictx)
		if err != nil {
			return types.Identifier{}, err
		}
		target.Namespace = namespace
	}
	if rename.Resource != nil {
		resource, err := renamePart(*rename.Resource, ictx)
		if err != nil {
			return types.Identifier{}, err
		}
		target.Resource = resource
	}
	if err := target.Validate(); err != nil {
		return types.Identifier{}, err
	}
	return target, nil
}

func renamePart(value types.ActionValue, ictx *types.IterationContext) (string, error) {
	resolution := ResolveToken(value, ictx)
	if !resolution.Resolved {
		return "", types.ValidationError(fmt.Sprintf("rename token %s is unresolved", value))
	}
	part, ok := resolution.Value.(string)
	if !ok {
		return "", types.ValidationError(fmt.Sprintf("rename part must be a string, got %T", resolution.Value))
	}
	return part, nil
}

// diffIndexes labels what changed between the original and compiled index.
// Touched entries whose content is unchanged are not labeled so their files
// keep the original bytes.
func diffIndexes(original *RegistryIndex, compiled *RegistryIndex, touched map[entryKey]struct{}) []types.LabeledElement {
	labels := []types.LabeledElement{}
	before := original.Sorted()
	after := compiled.Sorted()
	for _, registry := range before.Keys() {
		for _, entry := range before.Get(registry) {
			if _, ok := compiled.Lookup(registry, entry.Identifier); !ok {
				labels = append(labels, types.DeletedLabel(entry.Identifier, registry))
			}
		}
	}
	for _, registry := range after.Keys() {
		for _, entry := range after.Get(registry) {
			previous, existed := before.Lookup(registry, entry.Identifier)
			if !existed {
				labels = append(labels, types.NewLabel(entry))
				continue
			}
			if _, ok := touched[entryKey{registry: registry, id: entry.Identifier}]; !ok {
				continue
			}
			if reflect.DeepEqual(previous.Data, entry.Data) {
				continue
			}
			labels = append(labels, types.UpdatedLabel(entry))
		}
	}
	return labels
}

func applyLabels(ctx context.Context, original map[string][]byte, labels []types.LabeledElement) (map[string][]byte, error) {
	files := make(map[string][]byte, len(original))
	for path, content := range original {
		files[path] = content
	}
	for _, label := range labels {
		path := ToPath(label.Identifier, label.Registry)
		assert.NotEmpty(ctx, path, "compiled path must not be empty")
		if label.Kind == types.LabelDeleted {
			delete(files, path)
			continue
		}
		content, err := EncodeElement(label.Entry.Data)
		if err != nil {
			return nil, err
		}
		files[path] = content
	}
	return files, nil
}
