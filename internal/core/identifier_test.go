package core

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"packsmith/internal/types"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		path     string
		id       types.Identifier
		registry string
	}{
		{path: "data/minecraft/item/stone.json", id: types.Identifier{Namespace: "minecraft", Resource: "stone"}, registry: "item"},
		{path: "data/mypack/enchantment/weapons/sharp.json", id: types.Identifier{Namespace: "mypack", Resource: "weapons/sharp"}, registry: "enchantment"},
		{path: "data/mypack/tags/item/swords.json", id: types.Identifier{Namespace: "mypack", Resource: "swords"}, registry: "tags/item"},
		{path: "data/mypack/worldgen/biome/plains.json", id: types.Identifier{Namespace: "mypack", Resource: "plains"}, registry: "worldgen/biome"},
		{path: "data/mypack/tags/worldgen/biome/hot.json", id: types.Identifier{Namespace: "mypack", Resource: "hot"}, registry: "tags/worldgen/biome"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			id, registry, err := ParsePath(tt.path)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.id, id); diff != "" {
				t.Fatalf("unexpected identifier (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.registry, registry)
			assert.Equal(t, tt.path, ToPath(id, registry))
		})
	}
}

func TestParsePathRejectsMalformed(t *testing.T) {
	paths := []string{
		"pack.mcmeta",
		"data/mypack/item/stone.txt",
		"data/mypack/item.json",
		"assets/mypack/item/stone.json",
		"data/mypack/tags/item.json",
		"data//item/stone.json",
		"data/mypack/item//stone.json",
		"data/mypack/item/.json",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			_, err := FromPath(path)
			require.Error(t, err)
			assert.True(t, types.IsMalformedPath(err), err.Error())
		})
	}
}

func TestIdentifierPathRoundTrip(t *testing.T) {
	segment := rapid.StringMatching(`[a-z0-9_]{1,6}`)
	registries := []string{"item", "enchantment", "recipe", "tags/item", "tags/block", "worldgen/biome", "tags/worldgen/biome"}
	rapid.Check(t, func(t *rapid.T) {
		namespace := rapid.StringMatching(`[a-z0-9_.-]{1,8}`).Draw(t, "namespace")
		parts := rapid.SliceOfN(segment, 1, 3).Draw(t, "resource")
		registry := rapid.SampledFrom(registries).Draw(t, "registry")
		id := types.Identifier{Namespace: namespace, Resource: strings.Join(parts, "/")}

		gotID, gotRegistry, err := ParsePath(ToPath(id, registry))
		if err != nil {
			t.Fatalf("round trip failed: %v", err)
		}
		if gotID != id || gotRegistry != registry {
			t.Fatalf("round trip mismatch: %v/%s -> %v/%s", id, registry, gotID, gotRegistry)
		}
	})
}
