package adapters

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"

	"packsmith/internal/shared"
	"packsmith/internal/types"
)

type ReportFileAdapter struct{}

func NewReportFileAdapter() ReportFileAdapter {
	return ReportFileAdapter{}
}

func (a ReportFileAdapter) WriteReport(path string, report types.CompileReport) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("report path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create report directory").
			WithCause(err)
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode compile report").
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write compile report").
			WithCause(err)
	}
	return nil
}

// UnifiedDiff renders a line diff of every path whose content differs
// between the two file sets, in path order. Identical sets yield "".
func (a ReportFileAdapter) UnifiedDiff(before map[string][]byte, after map[string][]byte) string {
	paths := map[string]struct{}{}
	for path := range before {
		paths[path] = struct{}{}
	}
	for path := range after {
		paths[path] = struct{}{}
	}
	ordered := shared.SortedKeys(paths)

	dmp := diffmatchpatch.New()
	var out strings.Builder
	for _, path := range ordered {
		oldContent, hadOld := before[path]
		newContent, hasNew := after[path]
		if hadOld && hasNew && bytes.Equal(oldContent, newContent) {
			continue
		}
		oldName, newName := "a/"+path, "b/"+path
		if !hadOld {
			oldName = "/dev/null"
		}
		if !hasNew {
			newName = "/dev/null"
		}
		out.WriteString("--- " + oldName + "\n")
		out.WriteString("+++ " + newName + "\n")

		oldChars, newChars, lines := dmp.DiffLinesToChars(string(oldContent), string(newContent))
		diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lines)
		for _, diff := range diffs {
			prefix := " "
			switch diff.Type {
			case diffmatchpatch.DiffDelete:
				prefix = "-"
			case diffmatchpatch.DiffInsert:
				prefix = "+"
			}
			for _, line := range splitLines(diff.Text) {
				out.WriteString(prefix + line + "\n")
			}
		}
	}
	return out.String()
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
