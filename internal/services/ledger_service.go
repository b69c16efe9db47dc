package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"rental/internal/currency"
	"rental/internal/ledger"
	"rental/internal/models"
	"rental/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// LedgerService records rent payments, settles them and issues receipts.
type LedgerService struct {
	deps     Deps
	leases   LeaseStore
	payments PaymentStore
	receipts ReceiptStore
	settings SettingsStore
}

func NewLedgerService(deps Deps, leases LeaseStore, payments PaymentStore, receipts ReceiptStore, settings SettingsStore) *LedgerService {
	return &LedgerService{
		deps:     deps.withDefaults(),
		leases:   leases,
		payments: payments,
		receipts: receipts,
		settings: settings,
	}
}

type PaymentInput struct {
	LeaseID string
	Year    int
	Month   int
	Amount  int64
}

func (s *LedgerService) RecordPayment(ctx context.Context, actorID string, in PaymentInput) (models.Payment, error) {
	if strings.TrimSpace(in.LeaseID) == "" {
		return models.Payment{}, ledger.Invalid("lease_id", "is required")
	}
	period, err := ledger.NewPeriod(in.Year, in.Month)
	if err != nil {
		return models.Payment{}, err
	}
	if in.Amount <= 0 {
		return models.Payment{}, ledger.Invalid("amount", "must be greater than zero")
	}
	p := models.Payment{
		ID:          uuid.NewString(),
		LeaseID:     in.LeaseID,
		PeriodYear:  period.Year,
		PeriodMonth: int(period.Month),
		Amount:      in.Amount,
		CreatedAt:   s.deps.now(),
	}
	err = s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		lease, err := s.leases.GetForUpdate(ctx, tx, in.LeaseID)
		if err != nil {
			return notFound(err, "lease", in.LeaseID)
		}
		if err := ledger.ValidatePayment(lease, period, in.Amount); err != nil {
			return err
		}
		exists, err := s.payments.ExistsForPeriod(ctx, tx, lease.ID, period.Year, int(period.Month), "")
		if err != nil {
			return err
		}
		if exists {
			return ledger.ErrDuplicatePeriod
		}
		p.TenantID = lease.TenantID
		p.UnitID = lease.UnitID
		p.PropertyID = lease.PropertyID
		if err := s.payments.Create(ctx, tx, p); err != nil {
			if store.IsUniqueViolation(err) {
				return ledger.ErrDuplicatePeriod
			}
			return err
		}
		return s.deps.audit(ctx, tx, actorID, "payment.record", "payment", p.ID, map[string]any{
			"lease_id": p.LeaseID,
			"period":   period.String(),
			"amount":   p.Amount,
		})
	})
	if err != nil {
		return models.Payment{}, err
	}
	s.deps.committed(ctx, "payment.recorded", p.ID)
	return p, nil
}

// UpdatePayment changes the period or amount of a payment that has no
// receipt yet.
func (s *LedgerService) UpdatePayment(ctx context.Context, actorID, id string, in PaymentInput) (models.Payment, error) {
	period, err := ledger.NewPeriod(in.Year, in.Month)
	if err != nil {
		return models.Payment{}, err
	}
	var updated models.Payment
	err = s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.payments.GetForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, "payment", id)
		}
		if err := s.ensureNoReceipt(ctx, tx, id); err != nil {
			return err
		}
		lease, err := s.leases.GetForUpdate(ctx, tx, current.LeaseID)
		if err != nil {
			return notFound(err, "lease", current.LeaseID)
		}
		if err := ledger.ValidatePayment(lease, period, in.Amount); err != nil {
			return err
		}
		exists, err := s.payments.ExistsForPeriod(ctx, tx, lease.ID, period.Year, int(period.Month), id)
		if err != nil {
			return err
		}
		if exists {
			return ledger.ErrDuplicatePeriod
		}
		current.PeriodYear = period.Year
		current.PeriodMonth = int(period.Month)
		current.Amount = in.Amount
		if err := notFound(affected(s.payments.Update(ctx, tx, current)), "payment", id); err != nil {
			if store.IsUniqueViolation(err) {
				return ledger.ErrDuplicatePeriod
			}
			return err
		}
		updated = current
		return s.deps.audit(ctx, tx, actorID, "payment.update", "payment", id, map[string]any{
			"period": period.String(),
			"amount": current.Amount,
		})
	})
	if err != nil {
		return models.Payment{}, err
	}
	s.deps.committed(ctx, "payment.changed", id)
	return updated, nil
}

func (s *LedgerService) DeletePayment(ctx context.Context, actorID, id string) error {
	err := s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.payments.GetForUpdate(ctx, tx, id); err != nil {
			return notFound(err, "payment", id)
		}
		if err := s.ensureNoReceipt(ctx, tx, id); err != nil {
			return err
		}
		if err := notFound(affected(s.payments.Delete(ctx, tx, id)), "payment", id); err != nil {
			return err
		}
		return s.deps.audit(ctx, tx, actorID, "payment.delete", "payment", id, nil)
	})
	if err != nil {
		return err
	}
	s.deps.committed(ctx, "payment.changed", id)
	return nil
}

// MarkPaid settles a payment at the current instant. Settling twice is a
// conflict, never a silent success.
func (s *LedgerService) MarkPaid(ctx context.Context, actorID, id string) (models.Payment, error) {
	var paid models.Payment
	err := s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.payments.GetForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, "payment", id)
		}
		if current.PaidAt != nil {
			return ledger.ErrAlreadyPaid
		}
		paidAt := s.deps.now()
		rows, err := s.payments.MarkPaid(ctx, tx, id, paidAt)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ledger.ErrAlreadyPaid
		}
		current.PaidAt = &paidAt
		paid = current
		return s.deps.audit(ctx, tx, actorID, "payment.mark_paid", "payment", id, map[string]any{
			"paid_at": paidAt,
		})
	})
	if err != nil {
		return models.Payment{}, err
	}
	s.deps.committed(ctx, "payment.paid", id)
	return paid, nil
}

func (s *LedgerService) GetPayment(ctx context.Context, id string) (models.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return models.Payment{}, notFound(err, "payment", id)
	}
	return p, nil
}

// ListPayments lists all payments, or one tenant's when tenantID is set.
func (s *LedgerService) ListPayments(ctx context.Context, tenantID string) ([]models.Payment, error) {
	return s.payments.List(ctx, tenantID)
}

type ReceiptInput struct {
	PaymentID string
	// TenantID is optional; when set it must match the payment's tenant.
	TenantID      string
	PaymentMethod string
	Notes         string
}

// IssueReceipt creates the single receipt for a paid payment. The number
// draws the next value of the issuing month's counter inside the same
// transaction, so numbers are unique and gap-free.
func (s *LedgerService) IssueReceipt(ctx context.Context, actorID string, in ReceiptInput) (models.ReceiptView, error) {
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = ledger.DefaultPaymentMethod
	}
	settings, err := s.currentSettings(ctx)
	if err != nil {
		return models.ReceiptView{}, err
	}
	var receipt models.Receipt
	err = s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		payment, err := s.payments.GetForUpdate(ctx, tx, in.PaymentID)
		if err != nil {
			return notFound(err, "payment", in.PaymentID)
		}
		if in.TenantID != "" && in.TenantID != payment.TenantID {
			return ledger.Invalid("tenant_id", "does not match the payment's tenant")
		}
		now := s.deps.now()
		if ledger.StatusOf(payment, now) != ledger.StatusPaid {
			return ledger.ErrPaymentNotSettled
		}
		exists, err := s.receipts.ExistsForPayment(ctx, tx, payment.ID)
		if err != nil {
			return err
		}
		if exists {
			return ledger.ErrReceiptAlreadyExists
		}
		issued := ledger.PeriodOf(now)
		seq, err := s.receipts.NextSequence(ctx, tx, issued.YearMonth())
		if err != nil {
			return err
		}
		receipt = models.Receipt{
			ID:             uuid.NewString(),
			ReceiptNumber:  ledger.FormatReceiptNumber(issued, seq),
			TenantID:       payment.TenantID,
			PaymentID:      payment.ID,
			PaymentMethod:  method,
			Notes:          strings.TrimSpace(in.Notes),
			PaymentDate:    *payment.PaidAt,
			Amount:         payment.Amount,
			Currency:       settings.Currency,
			CurrencySymbol: currency.Symbol(settings.Currency),
			PeriodYear:     payment.PeriodYear,
			PeriodMonth:    payment.PeriodMonth,
			CreatedAt:      now,
		}
		if err := s.receipts.Create(ctx, tx, receipt); err != nil {
			if store.IsUniqueViolation(err) {
				return ledger.ErrReceiptAlreadyExists
			}
			return err
		}
		return s.deps.audit(ctx, tx, actorID, "receipt.issue", "receipt", receipt.ID, map[string]any{
			"receipt_number": receipt.ReceiptNumber,
			"payment_id":     receipt.PaymentID,
		})
	})
	if err != nil {
		return models.ReceiptView{}, err
	}
	s.deps.committed(ctx, "receipt.issued", receipt.ID)
	return s.GetReceipt(ctx, receipt.ID)
}

func (s *LedgerService) GetReceipt(ctx context.Context, id string) (models.ReceiptView, error) {
	r, err := s.receipts.GetByID(ctx, id)
	if err != nil {
		return models.ReceiptView{}, notFound(err, "receipt", id)
	}
	return r, nil
}

func (s *LedgerService) ListReceipts(ctx context.Context, tenantID string) ([]models.ReceiptView, error) {
	return s.receipts.List(ctx, tenantID)
}

func (s *LedgerService) ensureNoReceipt(ctx context.Context, q store.Getter, paymentID string) error {
	exists, err := s.receipts.ExistsForPayment(ctx, q, paymentID)
	if err != nil {
		return err
	}
	if exists {
		return ledger.InUse("payment", "a receipt")
	}
	return nil
}

func (s *LedgerService) currentSettings(ctx context.Context) (models.Settings, error) {
	settings, err := s.settings.Get(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultSettings(), nil
	}
	return settings, err
}
