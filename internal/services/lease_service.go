package services

import (
	"context"
	"fmt"
	"time"

	"rental/internal/ledger"
	"rental/internal/models"
	"rental/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrPaymentsOutsideLease = fmt.Errorf("%w: lease has payments outside the new interval", ledger.ErrConflict)

// LeaseService assigns tenants to units. All lease writes for a unit are
// serialised by locking the unit row, which is what keeps leases of one unit
// from overlapping.
type LeaseService struct {
	deps     Deps
	leases   LeaseStore
	units    UnitStore
	tenants  TenantStore
	payments PaymentStore
}

func NewLeaseService(deps Deps, leases LeaseStore, units UnitStore, tenants TenantStore, payments PaymentStore) *LeaseService {
	return &LeaseService{
		deps:     deps.withDefaults(),
		leases:   leases,
		units:    units,
		tenants:  tenants,
		payments: payments,
	}
}

type LeaseInput struct {
	TenantID  string
	UnitID    string
	StartDate time.Time
	EndDate   *time.Time
	// MonthlyRent defaults to the unit's rent when nil.
	MonthlyRent *int64
}

func (s *LeaseService) Create(ctx context.Context, actorID string, in LeaseInput) (models.LeaseView, error) {
	l := models.Lease{
		ID:        uuid.NewString(),
		TenantID:  in.TenantID,
		UnitID:    in.UnitID,
		StartDate: ledger.Day(in.StartDate),
		EndDate:   dayPtr(in.EndDate),
		CreatedAt: s.deps.now(),
	}
	if in.MonthlyRent != nil {
		l.MonthlyRent = *in.MonthlyRent
	}
	if err := ledger.ValidateLease(l); err != nil {
		return models.LeaseView{}, err
	}
	if _, err := s.tenants.GetByID(ctx, in.TenantID); err != nil {
		return models.LeaseView{}, notFound(err, "tenant", in.TenantID)
	}
	err := s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		unit, err := s.units.GetForUpdate(ctx, tx, in.UnitID)
		if err != nil {
			return notFound(err, "unit", in.UnitID)
		}
		l.PropertyID = unit.PropertyID
		if in.MonthlyRent == nil {
			l.MonthlyRent = unit.MonthlyRent
		}
		existing, err := s.leases.ListByUnit(ctx, tx, unit.ID)
		if err != nil {
			return err
		}
		if err := ledger.CheckNoOverlap(l, existing); err != nil {
			return err
		}
		if err := s.leases.Create(ctx, tx, l); err != nil {
			return err
		}
		if err := s.syncUnitStatus(ctx, tx, unit, append(existing, l)); err != nil {
			return err
		}
		return s.deps.audit(ctx, tx, actorID, "lease.create", "lease", l.ID, map[string]any{
			"tenant_id":  l.TenantID,
			"unit_id":    l.UnitID,
			"start_date": ledger.FormatDate(l.StartDate),
		})
	})
	if err != nil {
		return models.LeaseView{}, err
	}
	s.deps.committed(ctx, "lease.changed", l.ID)
	return s.Get(ctx, l.ID)
}

type LeaseAmendment struct {
	StartDate   *time.Time
	EndDate     *time.Time
	ClearEnd    bool
	MonthlyRent *int64
}

// Amend changes a lease's interval or rent. Tenant and unit are fixed; a new
// lease is needed to move a tenant. Recorded payments must stay inside the
// amended interval.
func (s *LeaseService) Amend(ctx context.Context, actorID, id string, in LeaseAmendment) (models.LeaseView, error) {
	err := s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.leases.GetForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, "lease", id)
		}
		unit, err := s.units.GetForUpdate(ctx, tx, current.UnitID)
		if err != nil {
			return notFound(err, "unit", current.UnitID)
		}
		if in.StartDate != nil {
			current.StartDate = ledger.Day(*in.StartDate)
		}
		if in.ClearEnd {
			current.EndDate = nil
		} else if in.EndDate != nil {
			current.EndDate = dayPtr(in.EndDate)
		}
		if in.MonthlyRent != nil {
			current.MonthlyRent = *in.MonthlyRent
		}
		if err := ledger.ValidateLease(current); err != nil {
			return err
		}
		existing, err := s.leases.ListByUnit(ctx, tx, unit.ID)
		if err != nil {
			return err
		}
		if err := ledger.CheckNoOverlap(current, existing); err != nil {
			return err
		}
		payments, err := s.payments.ListByLease(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, p := range payments {
			if !ledger.PeriodWithinLease(ledger.PaymentPeriod(p), current) {
				return ErrPaymentsOutsideLease
			}
		}
		if err := notFound(affected(s.leases.Update(ctx, tx, current)), "lease", id); err != nil {
			return err
		}
		if err := s.syncUnitStatus(ctx, tx, unit, replaceLease(existing, current)); err != nil {
			return err
		}
		return s.deps.audit(ctx, tx, actorID, "lease.amend", "lease", id, nil)
	})
	if err != nil {
		return models.LeaseView{}, err
	}
	s.deps.committed(ctx, "lease.changed", id)
	return s.Get(ctx, id)
}

func (s *LeaseService) Delete(ctx context.Context, actorID, id string) error {
	err := s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.leases.GetForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, "lease", id)
		}
		unit, err := s.units.GetForUpdate(ctx, tx, current.UnitID)
		if err != nil {
			return notFound(err, "unit", current.UnitID)
		}
		payments, err := s.payments.CountByLease(ctx, tx, id)
		if err != nil {
			return err
		}
		if payments > 0 {
			return ledger.InUse("lease", "payments")
		}
		if err := notFound(affected(s.leases.Delete(ctx, tx, id)), "lease", id); err != nil {
			return err
		}
		remaining, err := s.leases.ListByUnit(ctx, tx, unit.ID)
		if err != nil {
			return err
		}
		if err := s.syncUnitStatus(ctx, tx, unit, remaining); err != nil {
			return err
		}
		return s.deps.audit(ctx, tx, actorID, "lease.delete", "lease", id, nil)
	})
	if err != nil {
		return err
	}
	s.deps.committed(ctx, "lease.changed", id)
	return nil
}

func (s *LeaseService) Get(ctx context.Context, id string) (models.LeaseView, error) {
	l, err := s.leases.GetByID(ctx, id)
	if err != nil {
		return models.LeaseView{}, notFound(err, "lease", id)
	}
	return l, nil
}

func (s *LeaseService) List(ctx context.Context, filter store.LeaseFilter) ([]models.LeaseView, error) {
	return s.leases.List(ctx, filter)
}

func (s *LeaseService) syncUnitStatus(ctx context.Context, tx store.Execer, unit models.Unit, leases []models.Lease) error {
	status := ledger.UnitStatusFor(unit.Status, anyActive(leases, s.deps.now()))
	if status == unit.Status {
		return nil
	}
	return s.units.SetStatus(ctx, tx, unit.ID, status)
}

func anyActive(leases []models.Lease, at time.Time) bool {
	for _, l := range leases {
		if ledger.ActiveAt(l, at) {
			return true
		}
	}
	return false
}

func replaceLease(leases []models.Lease, updated models.Lease) []models.Lease {
	out := make([]models.Lease, 0, len(leases))
	for _, l := range leases {
		if l.ID == updated.ID {
			l = updated
		}
		out = append(out, l)
	}
	return out
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := ledger.Day(*t)
	return &d
}
