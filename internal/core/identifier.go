package core

import (
	"strings"

	"packsmith/internal/types"
)

const (
	dataRoot      = "data"
	jsonExtension = ".json"
)

// compoundRegistrySegments pull the following segment into the registry key,
// e.g. tags/item or worldgen/biome.
var compoundRegistrySegments = map[string]struct{}{
	"tags":     {},
	"worldgen": {},
}

// ToPath renders the archive path of an identifier under a registry.
func ToPath(id types.Identifier, registry string) string {
	return dataRoot + "/" + id.Namespace + "/" + registry + "/" + id.Resource + jsonExtension
}

// FromPath maps an archive path back to its identifier.
func FromPath(path string) (types.Identifier, error) {
	id, _, err := ParsePath(path)
	return id, err
}

// ParsePath maps an archive path to its identifier and registry key.
func ParsePath(path string) (types.Identifier, string, error) {
	if !strings.HasSuffix(path, jsonExtension) {
		return types.Identifier{}, "", types.MalformedPathError(path, "resource must end in .json")
	}
	segments := strings.Split(strings.TrimSuffix(path, jsonExtension), "/")
	if len(segments) < 4 || segments[0] != dataRoot {
		return types.Identifier{}, "", types.MalformedPathError(path, "expected data/<namespace>/<registry>/<resource>.json")
	}
	namespace := segments[1]
	rest := segments[2:]

	registryLen := 1
	for registryLen < len(rest) {
		if _, ok := compoundRegistrySegments[rest[registryLen-1]]; !ok {
			break
		}
		registryLen++
	}
	if registryLen >= len(rest) {
		return types.Identifier{}, "", types.MalformedPathError(path, "missing resource segment")
	}

	registry := strings.Join(rest[:registryLen], "/")
	resource := strings.Join(rest[registryLen:], "/")
	id := types.Identifier{Namespace: namespace, Resource: resource}
	if namespace == "" || resource == "" || hasEmptySegment(rest) {
		return types.Identifier{}, "", types.MalformedPathError(path, "empty path segment")
	}
	return id, registry, nil
}

func hasEmptySegment(segments []string) bool {
	for _, segment := range segments {
		if segment == "" {
			return true
		}
	}
	return false
}
