package app

import (
	"context"

	"packsmith/internal/core"
)

// Diff compiles without writing anything and renders the changed files.
func (s Service) Diff(ctx context.Context, req DiffRequest) (DiffResult, error) {
	opened, set, err := s.load(ctx, req.PackPath, req.RulesPath)
	if err != nil {
		return DiffResult{}, err
	}
	compiler := core.NewCompiler(s.Archive, s.Managers)
	compiled, err := compiler.Compile(ctx, core.CompileRequest{
		Index:   opened.Index,
		Rules:   set.Rules,
		Files:   opened.Session.Files,
		Version: packFormat(req.PackFormat, set),
	})
	if err != nil {
		return DiffResult{}, err
	}
	return DiffResult{
		Diff:    s.Reports.UnifiedDiff(opened.Session.Files, compiled.Files),
		Changes: changeRecords(compiled.Labels),
		Locked:  compiled.Locked,
	}, nil
}
