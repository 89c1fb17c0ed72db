package app

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"packsmith/internal/core"
	"packsmith/internal/types"
)

func (s Service) Compile(ctx context.Context, req CompileRequest) (CompileResult, error) {
	outputPath := strings.TrimSpace(req.OutputPath)
	if outputPath == "" {
		return CompileResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output path is required")
	}
	opened, set, err := s.load(ctx, req.PackPath, req.RulesPath)
	if err != nil {
		return CompileResult{}, err
	}
	compiler := core.NewCompiler(s.Archive, s.Managers)
	data, compiled, err := compiler.CompileArchive(ctx, core.CompileRequest{
		Index:   opened.Index,
		Rules:   set.Rules,
		Files:   opened.Session.Files,
		Version: packFormat(req.PackFormat, set),
	})
	if err != nil {
		return CompileResult{}, err
	}
	if err := s.Packs.WritePack(outputPath, data); err != nil {
		return CompileResult{}, err
	}

	report := buildReport(opened.Session, set, compiled, s.Clock())
	result := CompileResult{OutputPath: outputPath, Report: report}
	if reportPath := strings.TrimSpace(req.ReportPath); reportPath != "" {
		if err := s.Reports.WriteReport(reportPath, report); err != nil {
			return CompileResult{}, err
		}
		result.ReportPath = reportPath
	}
	log.Ctx(ctx).Info().
		Str("session", opened.Session.ID).
		Str("output", outputPath).
		Int("changes", len(report.Changes)).
		Int("locked", len(report.Locked)).
		Msg("pack compiled")
	return result, nil
}

func (s Service) load(ctx context.Context, packPath string, rulesPath string) (OpenResult, types.RuleSet, error) {
	if strings.TrimSpace(rulesPath) == "" {
		return OpenResult{}, types.RuleSet{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("rules path is required")
	}
	opened, err := s.Open(ctx, OpenRequest{PackPath: packPath})
	if err != nil {
		return OpenResult{}, types.RuleSet{}, err
	}
	set, err := s.Rules.LoadRules(strings.TrimSpace(rulesPath))
	if err != nil {
		return OpenResult{}, types.RuleSet{}, err
	}
	return opened, set, nil
}

// packFormat picks the explicit override, then the rule document's format.
// Zero lets the compiler read pack.mcmeta.
func packFormat(override int, set types.RuleSet) int {
	if override > 0 {
		return override
	}
	return set.PackFormat
}

func buildReport(session types.Session, set types.RuleSet, compiled core.CompileResult, now time.Time) types.CompileReport {
	report := types.CompileReport{
		SessionID:  session.ID,
		PackFormat: compiled.Version,
		CreatedAt:  now.UTC().Format(time.RFC3339),
		Rules:      len(set.Rules),
		Files:      len(compiled.Files),
		Changes:    changeRecords(compiled.Labels),
		Locked:     append([]types.LockedElement{}, compiled.Locked...),
	}
	if report.PackFormat == types.Unbounded {
		report.PackFormat = 0
	}
	return report
}

func changeRecords(labels []types.LabeledElement) []types.ChangeRecord {
	records := make([]types.ChangeRecord, 0, len(labels))
	for _, label := range labels {
		records = append(records, types.ChangeRecord{
			Kind:       label.Kind,
			Identifier: label.Identifier.String(),
			Registry:   label.Registry,
			Path:       core.ToPath(label.Identifier, label.Registry),
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Path != records[j].Path {
			return records[i].Path < records[j].Path
		}
		return records[i].Kind < records[j].Kind
	})
	return records
}
