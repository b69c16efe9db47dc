package ledger

import (
	"fmt"
	"strings"
	"time"

	"rental/internal/models"
)

// ActiveAt reports whether d falls inside the lease's half-open interval.
func ActiveAt(l models.Lease, d time.Time) bool {
	day := Day(d)
	if Day(l.StartDate).After(day) {
		return false
	}
	return l.EndDate == nil || Day(*l.EndDate).After(day)
}

func Overlaps(a, b models.Lease) bool {
	return startsBefore(a.StartDate, b.EndDate) && startsBefore(b.StartDate, a.EndDate)
}

func startsBefore(start time.Time, end *time.Time) bool {
	return end == nil || Day(start).Before(Day(*end))
}

func ValidateLease(l models.Lease) error {
	if strings.TrimSpace(l.TenantID) == "" {
		return Invalid("tenant_id", "is required")
	}
	if strings.TrimSpace(l.UnitID) == "" {
		return Invalid("unit_id", "is required")
	}
	if l.StartDate.IsZero() {
		return Invalid("start_date", "is required")
	}
	if l.EndDate != nil && !Day(*l.EndDate).After(Day(l.StartDate)) {
		return Invalid("end_date", "must be after start_date")
	}
	if l.MonthlyRent < 0 {
		return Invalid("monthly_rent", "must not be negative")
	}
	return nil
}

// CheckNoOverlap rejects candidate when it intersects another lease of the
// same unit. A lease never conflicts with itself, so amendments pass.
func CheckNoOverlap(candidate models.Lease, existing []models.Lease) error {
	for _, other := range existing {
		if other.ID == candidate.ID || other.UnitID != candidate.UnitID {
			continue
		}
		if Overlaps(candidate, other) {
			return fmt.Errorf("%w (lease %s)", ErrLeaseOverlap, other.ID)
		}
	}
	return nil
}

// PeriodWithinLease reports whether any day of p is covered by the lease.
func PeriodWithinLease(p Period, l models.Lease) bool {
	if !Day(l.StartDate).Before(p.End()) {
		return false
	}
	return l.EndDate == nil || p.Start().Before(Day(*l.EndDate))
}

// UnitStatusFor derives the stored unit status after a lease change. Units in
// maintenance keep that status.
func UnitStatusFor(current string, occupied bool) string {
	if current == models.StatusMaintenance {
		return current
	}
	if occupied {
		return models.StatusOccupied
	}
	return models.StatusAvailable
}
