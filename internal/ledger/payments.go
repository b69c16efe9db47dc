package ledger

import (
	"time"

	"rental/internal/models"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// StatusOf computes a payment's status; it is never stored.
func StatusOf(p models.Payment, now time.Time) string {
	if p.PaidAt != nil {
		return StatusPaid
	}
	if PaymentPeriod(p).Before(PeriodOf(now)) {
		return StatusOverdue
	}
	return StatusPending
}

// ValidatePayment checks a payment amount and period against its lease.
func ValidatePayment(l models.Lease, period Period, amount int64) error {
	if amount <= 0 {
		return Invalid("amount", "must be greater than zero")
	}
	if !PeriodWithinLease(period, l) {
		return Invalid("period", "is outside the lease interval")
	}
	return nil
}

// MonthlyRevenue sums paid payments whose period is the month of asOf.
func MonthlyRevenue(payments []models.Payment, asOf time.Time) int64 {
	target := PeriodOf(asOf)
	var total int64
	for _, p := range payments {
		if p.PaidAt == nil {
			continue
		}
		if PaymentPeriod(p).Compare(target) == 0 {
			total += p.Amount
		}
	}
	return total
}

func CountByStatus(payments []models.Payment, now time.Time) (pending, overdue int) {
	for _, p := range payments {
		switch StatusOf(p, now) {
		case StatusPending:
			pending++
		case StatusOverdue:
			overdue++
		}
	}
	return pending, overdue
}
