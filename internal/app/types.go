package app

import (
	"packsmith/internal/core"
	"packsmith/internal/types"
)

type OpenRequest struct {
	PackPath string
}

type OpenResult struct {
	Session types.Session
	Index   *core.RegistryIndex
	Cached  bool
}

type InspectRequest struct {
	PackPath          string
	Registry          string
	Prefix            string
	ExcludeNamespaces []string
}

type RegistrySummary struct {
	Key   string
	Count int
}

type TagSummary struct {
	Identifier string
	Replace    bool
	Values     int
}

type InspectResult struct {
	SessionID   string
	PackFormat  int
	Registries  []RegistrySummary
	Identifiers []string
	Tags        []TagSummary
}

type ValidateRequest struct {
	RulesPath string
}

type ValidateResult struct {
	Version    string
	PackFormat int
	Rules      []string
}

type CompileRequest struct {
	PackPath   string
	RulesPath  string
	OutputPath string
	ReportPath string
	PackFormat int
}

type CompileResult struct {
	OutputPath string
	ReportPath string
	Report     types.CompileReport
}

type DiffRequest struct {
	PackPath   string
	RulesPath  string
	PackFormat int
}

type DiffResult struct {
	Diff    string
	Changes []types.ChangeRecord
	Locked  []types.LockedElement
}
