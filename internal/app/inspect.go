package app

import (
	"context"
	"sort"
	"strings"

	"packsmith/internal/core"
)

func (s Service) Inspect(ctx context.Context, req InspectRequest) (InspectResult, error) {
	opened, err := s.Open(ctx, OpenRequest{PackPath: req.PackPath})
	if err != nil {
		return InspectResult{}, err
	}
	index := opened.Index.Sorted()
	result := InspectResult{
		SessionID:  opened.Session.ID,
		PackFormat: opened.Session.Meta.Pack.PackFormat,
	}
	for _, key := range index.Keys() {
		result.Registries = append(result.Registries, RegistrySummary{Key: key, Count: len(index.Get(key))})
	}

	registry := strings.TrimSpace(req.Registry)
	if registry == "" {
		return result, nil
	}
	for _, entry := range index.FilterByPrefix(registry, req.Prefix, req.ExcludeNamespaces...) {
		result.Identifiers = append(result.Identifiers, entry.Identifier.String())
		if !strings.HasPrefix(registry, "tags/") {
			continue
		}
		tag, err := core.DecodeTag(entry.Data)
		if err != nil {
			continue
		}
		result.Tags = append(result.Tags, TagSummary{
			Identifier: entry.Identifier.String(),
			Replace:    tag.Replace,
			Values:     len(tag.Values),
		})
	}
	sort.Strings(result.Identifiers)
	return result, nil
}
