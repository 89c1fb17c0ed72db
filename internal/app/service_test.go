package app

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"packsmith/internal/types"
	"packsmith/tests/testutil"
)

const buffRules = `version: "1"
rules:
  - name: buff-swords
    registry: item
    path_prefix: swords/
    exclude_namespaces: [vendor]
    locks:
      - condition:
          type: equals_string
          field: rarity
          value: epic
        text: hand tuned
    actions:
      - type: set_value
        field: damage
        value: 8
`

func testService() Service {
	svc := NewService()
	next := 0
	svc.NewID = func() string {
		next++
		return fmt.Sprintf("session-%d", next)
	}
	svc.Clock = func() time.Time {
		return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestOpenCachesByDigest(t *testing.T) {
	dir := t.TempDir()
	packPath := testutil.WritePack(t, dir, "pack.zip", testutil.SamplePackFiles())
	svc := testService()

	first, err := svc.Open(t.Context(), OpenRequest{PackPath: packPath})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "session-1", first.Session.ID)
	assert.Equal(t, 48, first.Session.Meta.Pack.PackFormat)
	assert.Len(t, first.Session.Digest, 64)

	second, err := svc.Open(t.Context(), OpenRequest{PackPath: packPath})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, "session-1", second.Session.ID)
	assert.Equal(t, first.Index.Len(), second.Index.Len())
}

func TestOpenErrors(t *testing.T) {
	svc := testService()
	_, err := svc.Open(t.Context(), OpenRequest{})
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	dir := t.TempDir()
	broken := testutil.WriteFile(t, dir, "broken.zip", "not a zip")
	_, err = svc.Open(t.Context(), OpenRequest{PackPath: broken})
	require.Error(t, err)
	assert.True(t, types.IsMalformedArchive(err))
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	packPath := testutil.WritePack(t, dir, "pack.zip", testutil.SamplePackFiles())
	svc := testService()

	result, err := svc.Inspect(t.Context(), InspectRequest{PackPath: packPath})
	require.NoError(t, err)
	assert.Equal(t, 48, result.PackFormat)
	assert.Equal(t, []RegistrySummary{
		{Key: "enchantment", Count: 1},
		{Key: "item", Count: 4},
		{Key: "tags/item", Count: 1},
	}, result.Registries)
	assert.Empty(t, result.Identifiers)

	result, err = svc.Inspect(t.Context(), InspectRequest{
		PackPath:          packPath,
		Registry:          "item",
		Prefix:            "swords/",
		ExcludeNamespaces: []string{"vendor"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mypack:swords/epic", "mypack:swords/iron"}, result.Identifiers)
	assert.Empty(t, result.Tags)

	result, err = svc.Inspect(t.Context(), InspectRequest{PackPath: packPath, Registry: "tags/item"})
	require.NoError(t, err)
	assert.Equal(t, []TagSummary{{Identifier: "mypack:swords", Replace: false, Values: 2}}, result.Tags)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	rulesPath := testutil.WriteFile(t, dir, "rules.yaml", buffRules)
	svc := testService()

	result, err := svc.Validate(t.Context(), ValidateRequest{RulesPath: rulesPath})
	require.NoError(t, err)
	assert.Equal(t, ValidateResult{Version: "1", Rules: []string{"buff-swords"}}, result)

	_, err = svc.Validate(t.Context(), ValidateRequest{})
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestCompileWritesPackAndReport(t *testing.T) {
	dir := t.TempDir()
	packPath := testutil.WritePack(t, dir, "pack.zip", testutil.SamplePackFiles())
	rulesPath := testutil.WriteFile(t, dir, "rules.yaml", buffRules)
	outputPath := filepath.Join(dir, "out", "compiled.zip")
	reportPath := filepath.Join(dir, "out", "report.yaml")
	svc := testService()

	result, err := svc.Compile(t.Context(), CompileRequest{
		PackPath:   packPath,
		RulesPath:  rulesPath,
		OutputPath: outputPath,
		ReportPath: reportPath,
	})
	require.NoError(t, err)
	assert.Equal(t, outputPath, result.OutputPath)
	assert.Equal(t, reportPath, result.ReportPath)

	want := types.CompileReport{
		SessionID:  "session-1",
		PackFormat: 48,
		CreatedAt:  "2026-03-01T12:00:00Z",
		Rules:      1,
		Files:      8,
		Changes: []types.ChangeRecord{{
			Kind:       types.LabelUpdated,
			Identifier: "mypack:swords/iron",
			Registry:   "item",
			Path:       "data/mypack/item/swords/iron.json",
		}},
		Locked: []types.LockedElement{{
			Rule:       "buff-swords",
			Identifier: "mypack:swords/epic",
			Registry:   "item",
			Reason:     "hand tuned",
		}},
	}
	assert.Equal(t, want, result.Report)

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var written types.CompileReport
	require.NoError(t, yaml.Unmarshal(raw, &written))
	assert.Equal(t, want, written)

	original := testutil.SamplePackFiles()
	compiled := testutil.ReadPack(t, outputPath)
	assert.Len(t, compiled, len(original))
	for path, content := range original {
		if path == "data/mypack/item/swords/iron.json" {
			continue
		}
		assert.Equal(t, content, compiled[path], path)
	}
	assert.Contains(t, string(compiled["data/mypack/item/swords/iron.json"]), `"damage": 8`)
}

func TestCompilePackFormatOverride(t *testing.T) {
	dir := t.TempDir()
	packPath := testutil.WritePack(t, dir, "pack.zip", testutil.SamplePackFiles())
	rulesPath := testutil.WriteFile(t, dir, "rules.yaml", `version: "1"
pack_format: 41
rules:
  - name: slots
    registry: item
    path_prefix: swords/iron
    actions:
      - type: toggle_value
        field: slots
        value: offhand
`)
	svc := testService()

	fromRules, err := svc.Compile(t.Context(), CompileRequest{
		PackPath:   packPath,
		RulesPath:  rulesPath,
		OutputPath: filepath.Join(dir, "legacy.zip"),
	})
	require.NoError(t, err)
	assert.Equal(t, 41, fromRules.Report.PackFormat)
	legacy := testutil.ReadPack(t, filepath.Join(dir, "legacy.zip"))
	assert.Contains(t, string(legacy["data/mypack/item/swords/iron.json"]), `"slots": "offhand"`)

	overridden, err := svc.Compile(t.Context(), CompileRequest{
		PackPath:   packPath,
		RulesPath:  rulesPath,
		OutputPath: filepath.Join(dir, "current.zip"),
		PackFormat: 48,
	})
	require.NoError(t, err)
	assert.Equal(t, 48, overridden.Report.PackFormat)
	current := testutil.ReadPack(t, filepath.Join(dir, "current.zip"))
	assert.Contains(t, string(current["data/mypack/item/swords/iron.json"]), `"offhand"`)
	assert.NotContains(t, string(current["data/mypack/item/swords/iron.json"]), `"slots": "offhand"`)
}

func TestCompileRequiresPaths(t *testing.T) {
	svc := testService()
	_, err := svc.Compile(t.Context(), CompileRequest{PackPath: "pack.zip", RulesPath: "rules.yaml"})
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = svc.Compile(t.Context(), CompileRequest{PackPath: "pack.zip", OutputPath: "out.zip"})
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	packPath := testutil.WritePack(t, dir, "pack.zip", testutil.SamplePackFiles())
	rulesPath := testutil.WriteFile(t, dir, "rules.yaml", buffRules)
	svc := testService()

	result, err := svc.Diff(t.Context(), DiffRequest{PackPath: packPath, RulesPath: rulesPath})
	require.NoError(t, err)
	assert.Contains(t, result.Diff, "--- a/data/mypack/item/swords/iron.json\n+++ b/data/mypack/item/swords/iron.json\n")
	assert.Contains(t, result.Diff, "-  \"damage\": 6,\n")
	assert.Contains(t, result.Diff, "+  \"damage\": 8,\n")
	assert.NotContains(t, result.Diff, "epic.json")
	require.Len(t, result.Changes, 1)
	require.Len(t, result.Locked, 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "diff must not write files")
}
