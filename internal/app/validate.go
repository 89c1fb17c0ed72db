package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
)

func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	rulesPath := strings.TrimSpace(req.RulesPath)
	if rulesPath == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("rules path is required")
	}
	set, err := s.Rules.LoadRules(rulesPath)
	if err != nil {
		return ValidateResult{}, err
	}
	result := ValidateResult{Version: set.Version, PackFormat: set.PackFormat}
	for _, rule := range set.Rules {
		result.Rules = append(result.Rules, rule.Name)
	}
	log.Ctx(ctx).Debug().Str("rules", rulesPath).Int("count", len(set.Rules)).Msg("rules validated")
	return result, nil
}
