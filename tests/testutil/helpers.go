// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"packsmith/internal/adapters"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// SamplePackFiles is a small data pack with items, an enchantment, a tag
// and a file outside data/.
func SamplePackFiles() map[string][]byte {
	return map[string][]byte{
		"pack.mcmeta":                          []byte("{\n  \"pack\": {\n    \"pack_format\": 48,\n    \"description\": \"sample\"\n  }\n}\n"),
		"data/mypack/item/swords/iron.json":    []byte("{\n  \"damage\": 6,\n  \"rarity\": \"common\",\n  \"slots\": [\"mainhand\"]\n}\n"),
		"data/mypack/item/swords/epic.json":    []byte("{\n  \"damage\": 10,\n  \"rarity\": \"epic\"\n}\n"),
		"data/mypack/item/shields/oak.json":    []byte("{\n  \"armor\": 2\n}\n"),
		"data/mypack/enchantment/sharp.json":   []byte("{\n  \"effects\": {\n    \"fire\": {\"level\": 2},\n    \"knockback\": {\"level\": 1}\n  }\n}\n"),
		"data/mypack/tags/item/swords.json":    []byte("{\n  \"replace\": false,\n  \"values\": [\"mypack:swords/iron\", \"mypack:swords/epic\"]\n}\n"),
		"data/vendor/item/swords/foreign.json": []byte("{\n  \"damage\": 3\n}\n"),
		"assets/mypack/lang/en_us.json":        []byte("{}\n"),
	}
}

// WritePack encodes files into a zip archive under dir and returns its path.
func WritePack(t *testing.T, dir string, name string, files map[string][]byte) string {
	t.Helper()
	data, err := adapters.NewZipArchiveAdapter(1).Encode(context.Background(), files)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// WriteFile writes content under dir and returns its path.
func WriteFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// ReadPack decodes the zip archive at path.
func ReadPack(t *testing.T, path string) map[string][]byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	files, err := adapters.NewZipArchiveAdapter(1).Decode(context.Background(), data)
	require.NoError(t, err)
	return files
}
