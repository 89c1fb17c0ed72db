package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"packsmith/internal/types"
)

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.yaml")
	report := types.CompileReport{
		SessionID:  "session-1",
		PackFormat: 48,
		CreatedAt:  "2026-01-01T00:00:00Z",
		Rules:      1,
		Files:      3,
		Changes: []types.ChangeRecord{
			{Kind: types.LabelUpdated, Identifier: "mypack:sword", Registry: "item", Path: "data/mypack/item/sword.json"},
		},
		Locked: []types.LockedElement{{Rule: "buff", Identifier: "mypack:epic", Registry: "item", Reason: "tuned"}},
	}
	require.NoError(t, NewReportFileAdapter().WriteReport(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded types.CompileReport
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, report, decoded)
	assert.Contains(t, string(data), "session_id: session-1")
}

func TestWriteReportRequiresPath(t *testing.T) {
	require.Error(t, NewReportFileAdapter().WriteReport(" ", types.CompileReport{}))
}

func TestUnifiedDiff(t *testing.T) {
	before := map[string][]byte{
		"same.json":    []byte("{}\n"),
		"changed.json": []byte("{\n  \"damage\": 6\n}\n"),
		"removed.json": []byte("{}\n"),
	}
	after := map[string][]byte{
		"same.json":    []byte("{}\n"),
		"changed.json": []byte("{\n  \"damage\": 8\n}\n"),
		"added.json":   []byte("{}\n"),
	}
	want := "--- /dev/null\n" +
		"+++ b/added.json\n" +
		"+{}\n" +
		"--- a/changed.json\n" +
		"+++ b/changed.json\n" +
		" {\n" +
		"-  \"damage\": 6\n" +
		"+  \"damage\": 8\n" +
		" }\n" +
		"--- a/removed.json\n" +
		"+++ /dev/null\n" +
		"-{}\n"
	assert.Equal(t, want, NewReportFileAdapter().UnifiedDiff(before, after))
}

func TestUnifiedDiffIdentical(t *testing.T) {
	files := map[string][]byte{"a.json": []byte("{}")}
	assert.Empty(t, NewReportFileAdapter().UnifiedDiff(files, files))
}
