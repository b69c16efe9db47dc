package store

import (
	"context"
	"time"

	"rental/internal/models"

	"github.com/lib/pq"
)

type PaymentStore struct {
	db DB
}

func NewPaymentStore(db DB) *PaymentStore {
	return &PaymentStore{db: db}
}

const paymentColumns = `id, lease_id, tenant_id, unit_id, property_id, period_year, period_month, amount, paid_at, created_at`

func (s *PaymentStore) Create(ctx context.Context, tx Execer, p models.Payment) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO payments (id, lease_id, tenant_id, unit_id, property_id, period_year, period_month, amount, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ID, p.LeaseID, p.TenantID, p.UnitID, p.PropertyID, p.PeriodYear, p.PeriodMonth, p.Amount, p.PaidAt, p.CreatedAt)
	return err
}

func (s *PaymentStore) Update(ctx context.Context, tx Execer, p models.Payment) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE payments
		SET period_year = $1, period_month = $2, amount = $3
		WHERE id = $4
	`, p.PeriodYear, p.PeriodMonth, p.Amount, p.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MarkPaid only touches unpaid rows, so a concurrent second call affects nothing.
func (s *PaymentStore) MarkPaid(ctx context.Context, tx Execer, id string, paidAt time.Time) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE payments SET paid_at = $1 WHERE id = $2 AND paid_at IS NULL
	`, paidAt, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PaymentStore) Delete(ctx context.Context, tx Execer, id string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PaymentStore) GetByID(ctx context.Context, id string) (models.Payment, error) {
	var row models.Payment
	err := s.db.GetContext(ctx, &row, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	return row, err
}

func (s *PaymentStore) GetForUpdate(ctx context.Context, tx Getter, id string) (models.Payment, error) {
	var row models.Payment
	err := tx.GetContext(ctx, &row, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id)
	return row, err
}

// ExistsForPeriod ignores excludeID so an update can keep its own period.
func (s *PaymentStore) ExistsForPeriod(ctx context.Context, q Getter, leaseID string, year, month int, excludeID string) (bool, error) {
	var exists bool
	err := q.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM payments
			WHERE lease_id = $1 AND period_year = $2 AND period_month = $3 AND id <> $4
		)
	`, leaseID, year, month, excludeID)
	return exists, err
}

// List returns all payments, or one tenant's when tenantID is not empty.
func (s *PaymentStore) List(ctx context.Context, tenantID string) ([]models.Payment, error) {
	rows := []models.Payment{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE ($1::text = '' OR tenant_id = $1)
		ORDER BY period_year DESC, period_month DESC, created_at DESC
	`, tenantID)
	return rows, err
}

func (s *PaymentStore) ListByLeases(ctx context.Context, leaseIDs []string) ([]models.Payment, error) {
	rows := []models.Payment{}
	if len(leaseIDs) == 0 {
		return rows, nil
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE lease_id = ANY($1)
		ORDER BY period_year, period_month
	`, pq.Array(leaseIDs))
	return rows, err
}

// ListByLease reads a lease's payments through q so an open transaction sees
// the same rows it is about to change.
func (s *PaymentStore) ListByLease(ctx context.Context, q Selecter, leaseID string) ([]models.Payment, error) {
	rows := []models.Payment{}
	err := q.SelectContext(ctx, &rows, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE lease_id = $1
		ORDER BY period_year, period_month
	`, leaseID)
	return rows, err
}

// ListOutstandingOrIn returns unpaid payments plus those of the given period,
// which is everything the dashboard needs.
func (s *PaymentStore) ListOutstandingOrIn(ctx context.Context, year, month int) ([]models.Payment, error) {
	rows := []models.Payment{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE paid_at IS NULL OR (period_year = $1 AND period_month = $2)
	`, year, month)
	return rows, err
}

func (s *PaymentStore) CountByLease(ctx context.Context, q Getter, leaseID string) (int, error) {
	var count int
	err := q.GetContext(ctx, &count, `SELECT COUNT(*) FROM payments WHERE lease_id = $1`, leaseID)
	return count, err
}

func (s *PaymentStore) CountByTenant(ctx context.Context, q Getter, tenantID string) (int, error) {
	var count int
	err := q.GetContext(ctx, &count, `SELECT COUNT(*) FROM payments WHERE tenant_id = $1`, tenantID)
	return count, err
}
