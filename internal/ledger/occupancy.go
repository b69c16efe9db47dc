package ledger

import (
	"sort"
	"time"

	"rental/internal/models"
)

type Occupant struct {
	LeaseID         string     `json:"lease_id"`
	TenantID        string     `json:"tenant_id"`
	TenantName      string     `json:"tenant_name"`
	UnitID          string     `json:"unit_id"`
	UnitNumber      string     `json:"unit_number"`
	PropertyID      string     `json:"property_id"`
	PropertyAddress string     `json:"property_address"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	MonthlyRent     int64      `json:"monthly_rent"`
	MonthsPaid      int        `json:"months_paid"`
}

// ResolveOccupants returns one entry per lease active at the given date.
// MonthsPaid counts settled payments of that lease up to the date's month.
func ResolveOccupants(leases []models.LeaseView, payments []models.Payment, at time.Time) []Occupant {
	limit := PeriodOf(at)
	paid := make(map[string]int)
	for _, p := range payments {
		if p.PaidAt == nil || limit.Before(PaymentPeriod(p)) {
			continue
		}
		paid[p.LeaseID]++
	}
	occupants := make([]Occupant, 0, len(leases))
	for _, l := range leases {
		if !ActiveAt(l.Lease, at) {
			continue
		}
		occupants = append(occupants, Occupant{
			LeaseID:         l.ID,
			TenantID:        l.TenantID,
			TenantName:      l.TenantName,
			UnitID:          l.UnitID,
			UnitNumber:      l.UnitNumber,
			PropertyID:      l.PropertyID,
			PropertyAddress: l.PropertyAddress,
			StartDate:       l.StartDate,
			EndDate:         l.EndDate,
			MonthlyRent:     l.MonthlyRent,
			MonthsPaid:      paid[l.ID],
		})
	}
	sort.SliceStable(occupants, func(i, j int) bool {
		a, b := occupants[i], occupants[j]
		if a.PropertyAddress != b.PropertyAddress {
			return a.PropertyAddress < b.PropertyAddress
		}
		return a.UnitNumber < b.UnitNumber
	})
	return occupants
}
