package store

import (
	"context"
	"database/sql"
	"errors"

	"rental/internal/models"
)

// Dataset is every ledger table in one value, as exported or restored.
type Dataset struct {
	Properties []models.Property
	Units      []models.Unit
	Tenants    []models.Tenant
	Leases     []models.Lease
	Payments   []models.Payment
	Receipts   []models.Receipt
	Settings   *models.Settings
}

type SnapshotStore struct {
	properties *PropertyStore
	units      *UnitStore
	tenants    *TenantStore
	leases     *LeaseStore
	payments   *PaymentStore
	receipts   *ReceiptStore
	settings   *SettingsStore
}

func NewSnapshotStore(db DB) *SnapshotStore {
	return &SnapshotStore{
		properties: NewPropertyStore(db),
		units:      NewUnitStore(db),
		tenants:    NewTenantStore(db),
		leases:     NewLeaseStore(db),
		payments:   NewPaymentStore(db),
		receipts:   NewReceiptStore(db),
		settings:   NewSettingsStore(db),
	}
}

// Load reads all ledger tables through q, which should be a single
// repeatable-read transaction so the result is one consistent point in time.
func (s *SnapshotStore) Load(ctx context.Context, q Tx) (Dataset, error) {
	var data Dataset
	queries := []struct {
		dest  any
		query string
	}{
		{&data.Properties, `SELECT ` + propertyColumns + ` FROM properties ORDER BY created_at, id`},
		{&data.Units, `SELECT ` + unitColumns + ` FROM units ORDER BY created_at, id`},
		{&data.Tenants, `SELECT id, name, email, phone, created_at FROM tenants ORDER BY created_at, id`},
		{&data.Leases, `SELECT ` + leaseColumns + ` FROM leases ORDER BY created_at, id`},
		{&data.Payments, `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at, id`},
		{&data.Receipts, `
			SELECT id, receipt_number, tenant_id, payment_id, payment_method, notes, payment_date,
			       amount, currency, currency_symbol, period_year, period_month, created_at
			FROM receipts ORDER BY receipt_number`},
	}
	for _, item := range queries {
		if err := q.SelectContext(ctx, item.dest, item.query); err != nil {
			return Dataset{}, err
		}
	}
	var settings models.Settings
	err := q.GetContext(ctx, &settings, `SELECT app_name, currency, updated_at FROM settings WHERE id = 1`)
	switch {
	case err == nil:
		data.Settings = &settings
	case errors.Is(err, sql.ErrNoRows):
	default:
		return Dataset{}, err
	}
	return data, nil
}

const ledgerTables = `receipts, receipt_sequences, payments, leases, units, tenants, properties, settings`

// Replace discards every ledger row and writes data in its place. Callers run
// it inside one transaction; the exclusive lock blocks all concurrent readers
// and writers until that transaction ends.
func (s *SnapshotStore) Replace(ctx context.Context, tx Execer, data Dataset, sequences map[string]int) error {
	if _, err := tx.ExecContext(ctx, `LOCK TABLE `+ledgerTables+` IN ACCESS EXCLUSIVE MODE`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `TRUNCATE `+ledgerTables); err != nil {
		return err
	}
	for _, p := range data.Properties {
		if err := s.properties.Create(ctx, tx, p); err != nil {
			return err
		}
	}
	for _, u := range data.Units {
		if err := s.units.Create(ctx, tx, u); err != nil {
			return err
		}
	}
	for _, t := range data.Tenants {
		if err := s.tenants.Create(ctx, tx, t); err != nil {
			return err
		}
	}
	for _, l := range data.Leases {
		if err := s.leases.Create(ctx, tx, l); err != nil {
			return err
		}
	}
	for _, p := range data.Payments {
		if err := s.payments.Create(ctx, tx, p); err != nil {
			return err
		}
	}
	for _, r := range data.Receipts {
		if err := s.receipts.Create(ctx, tx, r); err != nil {
			return err
		}
	}
	for yearMonth, value := range sequences {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO receipt_sequences (year_month, last_value) VALUES ($1, $2)
		`, yearMonth, value); err != nil {
			return err
		}
	}
	if data.Settings != nil {
		return s.settings.Upsert(ctx, tx, *data.Settings)
	}
	return nil
}
