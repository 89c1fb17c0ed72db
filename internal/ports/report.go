package ports

import "packsmith/internal/types"

type ReportPort interface {
	WriteReport(path string, report types.CompileReport) error
	UnifiedDiff(before map[string][]byte, after map[string][]byte) string
}
