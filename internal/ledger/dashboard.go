package ledger

import (
	"time"

	"rental/internal/currency"
	"rental/internal/models"

	"github.com/shopspring/decimal"
)

type Dashboard struct {
	TotalProperties int             `json:"total_properties"`
	TotalUnits      int             `json:"total_units"`
	OccupiedUnits   int             `json:"occupied_units"`
	TotalTenants    int             `json:"total_tenants"`
	MonthlyRevenue  int64           `json:"monthly_revenue"`
	PendingPayments int             `json:"pending_payments"`
	OverduePayments int             `json:"overdue_payments"`
	OccupancyRate   decimal.Decimal `json:"occupancy_rate"`
	Currency        string          `json:"currency"`
	CurrencySymbol  string          `json:"currency_symbol"`
}

type DashboardInput struct {
	TotalProperties int
	TotalTenants    int
	Units           []models.Unit
	Leases          []models.Lease
	Payments        []models.Payment
	Settings        models.Settings
}

func ComputeDashboard(in DashboardInput, now time.Time) Dashboard {
	active := make(map[string]bool)
	for _, l := range in.Leases {
		if ActiveAt(l, now) {
			active[l.UnitID] = true
		}
	}
	occupied := 0
	for _, u := range in.Units {
		if active[u.ID] {
			occupied++
		}
	}
	pending, overdue := CountByStatus(in.Payments, now)
	return Dashboard{
		TotalProperties: in.TotalProperties,
		TotalUnits:      len(in.Units),
		OccupiedUnits:   occupied,
		TotalTenants:    in.TotalTenants,
		MonthlyRevenue:  MonthlyRevenue(in.Payments, now),
		PendingPayments: pending,
		OverduePayments: overdue,
		OccupancyRate:   OccupancyRate(occupied, len(in.Units)),
		Currency:        in.Settings.Currency,
		CurrencySymbol:  currency.Symbol(in.Settings.Currency),
	}
}

// OccupancyRate is occupied/total as a percentage rounded to two places,
// or zero when there are no units.
func OccupancyRate(occupied, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(occupied) * 100).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}
