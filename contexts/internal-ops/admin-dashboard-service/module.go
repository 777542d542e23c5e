package admindashboardservice

import (
	"log/slog"
	"time"

	httpadapter "funded/contexts/internal-ops/admin-dashboard-service/adapters/http"
	"funded/contexts/internal-ops/admin-dashboard-service/adapters/memory"
	"funded/contexts/internal-ops/admin-dashboard-service/application"
	"funded/contexts/internal-ops/admin-dashboard-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies takes the stats sources from the other contexts as narrow
// interfaces; this module never reads their tables.
type Dependencies struct {
	Trail        ports.AuditTrail
	Deduplicator ports.ActionDeduplicator
	Accounts     ports.AccountStatsSource
	Fundraising  ports.FundraisingStatsSource
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	DedupWindow  time.Duration
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Service: application.Service{
				Trail:        deps.Trail,
				Deduplicator: deps.Deduplicator,
				Accounts:     deps.Accounts,
				Fundraising:  deps.Fundraising,
				Clock:        deps.Clock,
				IDGenerator:  deps.IDGenerator,
				DedupWindow:  deps.DedupWindow,
				Logger:       deps.Logger,
			},
		},
	}
}

func NewInMemoryModule(accounts ports.AccountStatsSource, fundraising ports.FundraisingStatsSource, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Trail:        store,
		Deduplicator: store,
		Accounts:     accounts,
		Fundraising:  fundraising,
		Clock:        store,
		IDGenerator:  store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
