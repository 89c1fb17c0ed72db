package ports

import "packsmith/internal/types"

// RuleSourcePort loads rule documents. The format is chosen from the file
// extension.
type RuleSourcePort interface {
	LoadRules(path string) (types.RuleSet, error)
	ParseRules(data []byte, format string) (types.RuleSet, error)
}
