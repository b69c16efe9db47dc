package store

import (
	"context"

	"rental/internal/models"
)

type ReceiptStore struct {
	db DB
}

func NewReceiptStore(db DB) *ReceiptStore {
	return &ReceiptStore{db: db}
}

const receiptViewQuery = `
	SELECT r.id, r.receipt_number, r.tenant_id, r.payment_id, r.payment_method, r.notes, r.payment_date,
	       r.amount, r.currency, r.currency_symbol, r.period_year, r.period_month, r.created_at,
	       t.name AS tenant_name, p.address AS property_address, u.unit_number
	FROM receipts r
	JOIN tenants t ON t.id = r.tenant_id
	JOIN payments pay ON pay.id = r.payment_id
	JOIN properties p ON p.id = pay.property_id
	JOIN units u ON u.id = pay.unit_id
`

func (s *ReceiptStore) Create(ctx context.Context, tx Execer, r models.Receipt) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO receipts (id, receipt_number, tenant_id, payment_id, payment_method, notes, payment_date,
		                      amount, currency, currency_symbol, period_year, period_month, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, r.ID, r.ReceiptNumber, r.TenantID, r.PaymentID, r.PaymentMethod, r.Notes, r.PaymentDate,
		r.Amount, r.Currency, r.CurrencySymbol, r.PeriodYear, r.PeriodMonth, r.CreatedAt)
	return err
}

// NextSequence atomically advances the counter for yearMonth (YYYYMM) and
// returns the new value, starting at 1.
func (s *ReceiptStore) NextSequence(ctx context.Context, tx Getter, yearMonth string) (int, error) {
	var value int
	err := tx.GetContext(ctx, &value, `
		INSERT INTO receipt_sequences (year_month, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year_month) DO UPDATE SET last_value = receipt_sequences.last_value + 1
		RETURNING last_value
	`, yearMonth)
	return value, err
}

func (s *ReceiptStore) ExistsForPayment(ctx context.Context, q Getter, paymentID string) (bool, error) {
	var exists bool
	err := q.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM receipts WHERE payment_id = $1)`, paymentID)
	return exists, err
}

func (s *ReceiptStore) GetByID(ctx context.Context, id string) (models.ReceiptView, error) {
	var row models.ReceiptView
	err := s.db.GetContext(ctx, &row, receiptViewQuery+` WHERE r.id = $1`, id)
	return row, err
}

// List returns all receipts, or one tenant's when tenantID is not empty.
func (s *ReceiptStore) List(ctx context.Context, tenantID string) ([]models.ReceiptView, error) {
	rows := []models.ReceiptView{}
	err := s.db.SelectContext(ctx, &rows, receiptViewQuery+`
		WHERE ($1::text = '' OR r.tenant_id = $1)
		ORDER BY r.receipt_number DESC
	`, tenantID)
	return rows, err
}
