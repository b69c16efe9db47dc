package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rental/internal/cache"
	"rental/internal/ledger"
	"rental/internal/models"
	"rental/internal/store"

	"go.uber.org/zap"
)

// ReportService answers read-only questions about occupancy and revenue.
type ReportService struct {
	deps       Deps
	properties PropertyStore
	units      UnitStore
	tenants    TenantStore
	leases     LeaseStore
	payments   PaymentStore
	settings   SettingsStore
}

func NewReportService(deps Deps, properties PropertyStore, units UnitStore, tenants TenantStore, leases LeaseStore, payments PaymentStore, settings SettingsStore) *ReportService {
	return &ReportService{
		deps:       deps.withDefaults(),
		properties: properties,
		units:      units,
		tenants:    tenants,
		leases:     leases,
		payments:   payments,
		settings:   settings,
	}
}

// OccupantsAt lists who occupied which unit on the given date.
func (s *ReportService) OccupantsAt(ctx context.Context, at time.Time) ([]ledger.Occupant, error) {
	leases, err := s.leases.ListActiveAt(ctx, at)
	if err != nil {
		return nil, err
	}
	if len(leases) == 0 {
		return []ledger.Occupant{}, nil
	}
	payments, err := s.payments.ListByLeases(ctx, leaseIDs(leases))
	if err != nil {
		return nil, err
	}
	return ledger.ResolveOccupants(leases, payments, at), nil
}

func (s *ReportService) UnitHistory(ctx context.Context, unitID string) ([]ledger.HistoryEvent, error) {
	if _, err := s.units.GetByID(ctx, unitID); err != nil {
		return nil, notFound(err, "unit", unitID)
	}
	leases, err := s.leases.List(ctx, store.LeaseFilter{UnitID: unitID})
	if err != nil {
		return nil, err
	}
	if len(leases) == 0 {
		return []ledger.HistoryEvent{}, nil
	}
	payments, err := s.payments.ListByLeases(ctx, leaseIDs(leases))
	if err != nil {
		return nil, err
	}
	return ledger.UnitHistory(leases, payments), nil
}

// Dashboard is cached per calendar day and cache generation. Every committed
// change starts a new generation, so a dashboard computed concurrently with a
// write is stored under a key that is no longer read.
func (s *ReportService) Dashboard(ctx context.Context) (ledger.Dashboard, error) {
	now := s.deps.now()
	gen, err := s.deps.Cache.Generation(ctx)
	if err != nil {
		s.deps.Logger.Warn("dashboard cache generation read failed", zap.Error(err))
		in, err := s.dashboardInput(ctx, now)
		if err != nil {
			return ledger.Dashboard{}, err
		}
		return ledger.ComputeDashboard(in, now), nil
	}
	key := cache.Versioned(gen, ledger.FormatDate(now))

	var cached ledger.Dashboard
	hit, err := s.deps.Cache.Get(ctx, key, &cached)
	if err != nil {
		s.deps.Logger.Warn("dashboard cache read failed", zap.Error(err))
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordCacheLookup(hit)
	}
	if hit {
		return cached, nil
	}

	in, err := s.dashboardInput(ctx, now)
	if err != nil {
		return ledger.Dashboard{}, err
	}
	dashboard := ledger.ComputeDashboard(in, now)
	if err := s.deps.Cache.Set(ctx, key, dashboard); err != nil {
		s.deps.Logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	return dashboard, nil
}

func (s *ReportService) dashboardInput(ctx context.Context, now time.Time) (ledger.DashboardInput, error) {
	var in ledger.DashboardInput
	var err error
	if in.TotalProperties, err = s.properties.Count(ctx); err != nil {
		return in, err
	}
	if in.TotalTenants, err = s.tenants.Count(ctx); err != nil {
		return in, err
	}
	if in.Units, err = s.units.List(ctx, ""); err != nil {
		return in, err
	}
	if in.Leases, err = s.leases.ListAll(ctx); err != nil {
		return in, err
	}
	period := ledger.PeriodOf(now)
	if in.Payments, err = s.payments.ListOutstandingOrIn(ctx, period.Year, int(period.Month)); err != nil {
		return in, err
	}
	in.Settings, err = s.settings.Get(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		in.Settings, err = DefaultSettings(), nil
	}
	return in, err
}

func leaseIDs(leases []models.LeaseView) []string {
	ids := make([]string, len(leases))
	for i, l := range leases {
		ids[i] = l.ID
	}
	return ids
}
