package store

import (
	"context"
	"time"

	"rental/internal/models"
)

type LeaseStore struct {
	db DB
}

func NewLeaseStore(db DB) *LeaseStore {
	return &LeaseStore{db: db}
}

type LeaseFilter struct {
	UnitID   string
	TenantID string
}

const leaseColumns = `id, tenant_id, unit_id, property_id, start_date, end_date, monthly_rent, created_at`

const leaseViewQuery = `
	SELECT l.id, l.tenant_id, l.unit_id, l.property_id, l.start_date, l.end_date, l.monthly_rent, l.created_at,
	       t.name AS tenant_name, u.unit_number, p.address AS property_address
	FROM leases l
	JOIN tenants t ON t.id = l.tenant_id
	JOIN units u ON u.id = l.unit_id
	JOIN properties p ON p.id = l.property_id
`

func (s *LeaseStore) Create(ctx context.Context, tx Execer, l models.Lease) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO leases (id, tenant_id, unit_id, property_id, start_date, end_date, monthly_rent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, l.ID, l.TenantID, l.UnitID, l.PropertyID, l.StartDate, l.EndDate, l.MonthlyRent, l.CreatedAt)
	return err
}

// Update amends the interval and rent. Tenant and unit are fixed for the life of a lease.
func (s *LeaseStore) Update(ctx context.Context, tx Execer, l models.Lease) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE leases
		SET start_date = $1, end_date = $2, monthly_rent = $3
		WHERE id = $4
	`, l.StartDate, l.EndDate, l.MonthlyRent, l.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *LeaseStore) Delete(ctx context.Context, tx Execer, id string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM leases WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *LeaseStore) GetByID(ctx context.Context, id string) (models.LeaseView, error) {
	var row models.LeaseView
	err := s.db.GetContext(ctx, &row, leaseViewQuery+` WHERE l.id = $1`, id)
	return row, err
}

func (s *LeaseStore) GetForUpdate(ctx context.Context, tx Getter, id string) (models.Lease, error) {
	var row models.Lease
	err := tx.GetContext(ctx, &row, `SELECT `+leaseColumns+` FROM leases WHERE id = $1 FOR UPDATE`, id)
	return row, err
}

// ListByUnit reads a unit's leases through q so it can see uncommitted rows
// of the calling transaction.
func (s *LeaseStore) ListByUnit(ctx context.Context, q Selecter, unitID string) ([]models.Lease, error) {
	rows := []models.Lease{}
	err := q.SelectContext(ctx, &rows, `
		SELECT `+leaseColumns+`
		FROM leases
		WHERE unit_id = $1
		ORDER BY start_date
	`, unitID)
	return rows, err
}

func (s *LeaseStore) List(ctx context.Context, filter LeaseFilter) ([]models.LeaseView, error) {
	rows := []models.LeaseView{}
	err := s.db.SelectContext(ctx, &rows, leaseViewQuery+`
		WHERE ($1::text = '' OR l.unit_id = $1)
		  AND ($2::text = '' OR l.tenant_id = $2)
		ORDER BY l.start_date, l.id
	`, filter.UnitID, filter.TenantID)
	return rows, err
}

func (s *LeaseStore) ListActiveAt(ctx context.Context, at time.Time) ([]models.LeaseView, error) {
	rows := []models.LeaseView{}
	err := s.db.SelectContext(ctx, &rows, leaseViewQuery+`
		WHERE l.start_date <= $1::date
		  AND (l.end_date IS NULL OR l.end_date > $1::date)
		ORDER BY p.address, u.unit_number
	`, at.Format("2006-01-02"))
	return rows, err
}

func (s *LeaseStore) ListAll(ctx context.Context) ([]models.Lease, error) {
	rows := []models.Lease{}
	err := s.db.SelectContext(ctx, &rows, `SELECT `+leaseColumns+` FROM leases ORDER BY unit_id, start_date`)
	return rows, err
}

func (s *LeaseStore) CountByUnit(ctx context.Context, q Getter, unitID string) (int, error) {
	var count int
	err := q.GetContext(ctx, &count, `SELECT COUNT(*) FROM leases WHERE unit_id = $1`, unitID)
	return count, err
}

func (s *LeaseStore) CountByTenant(ctx context.Context, q Getter, tenantID string) (int, error) {
	var count int
	err := q.GetContext(ctx, &count, `SELECT COUNT(*) FROM leases WHERE tenant_id = $1`, tenantID)
	return count, err
}

func (s *LeaseStore) CountByProperty(ctx context.Context, q Getter, propertyID string) (int, error) {
	var count int
	err := q.GetContext(ctx, &count, `SELECT COUNT(*) FROM leases WHERE property_id = $1`, propertyID)
	return count, err
}
