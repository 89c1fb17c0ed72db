package app

import (
	"time"

	"github.com/google/uuid"

	"packsmith/internal/adapters"
	"packsmith/internal/policies"
	"packsmith/internal/ports"
)

type Service struct {
	Archive  ports.ArchivePort
	Rules    ports.RuleSourcePort
	Packs    ports.PackFilePort
	Reports  ports.ReportPort
	Sessions ports.SessionCachePort
	Managers *policies.ManagerResolver[policies.Modifier]
	NewID    func() string
	Clock    func() time.Time
}

func NewService() Service {
	return Service{
		Archive:  adapters.NewZipArchiveAdapter(0),
		Rules:    adapters.NewRuleFileAdapter(),
		Packs:    adapters.NewPackFileAdapter(),
		Reports:  adapters.NewReportFileAdapter(),
		Sessions: adapters.NewSessionCacheAdapter(adapters.DefaultSessionExpiration, adapters.DefaultSessionCleanup),
		Managers: policies.DefaultModifierManagers(),
		NewID:    uuid.NewString,
		Clock:    time.Now,
	}
}
