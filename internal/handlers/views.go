package handlers

import (
	"time"

	"rental/internal/currency"
	"rental/internal/ledger"
	"rental/internal/models"
	"rental/internal/money"
)

// Views render ledger records for the wire: money as fixed two-decimal
// strings, calendar dates as YYYY-MM-DD and payment status computed at
// response time.

type propertyView struct {
	ID          string    `json:"id"`
	Address     string    `json:"address"`
	MonthlyRent string    `json:"monthly_rent"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func newPropertyView(p models.Property) propertyView {
	return propertyView{
		ID:          p.ID,
		Address:     p.Address,
		MonthlyRent: money.FormatMinor(p.MonthlyRent),
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
	}
}

type unitView struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	UnitNumber  string    `json:"unit_number"`
	UnitType    string    `json:"unit_type"`
	MonthlyRent string    `json:"monthly_rent"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	SurfaceArea int       `json:"surface_area"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func newUnitView(u models.Unit) unitView {
	return unitView{
		ID:          u.ID,
		PropertyID:  u.PropertyID,
		UnitNumber:  u.UnitNumber,
		UnitType:    u.UnitType,
		MonthlyRent: money.FormatMinor(u.MonthlyRent),
		Bedrooms:    u.Bedrooms,
		Bathrooms:   u.Bathrooms,
		SurfaceArea: u.SurfaceArea,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt,
	}
}

type leaseView struct {
	ID              string    `json:"id"`
	TenantID        string    `json:"tenant_id"`
	TenantName      string    `json:"tenant_name"`
	UnitID          string    `json:"unit_id"`
	UnitNumber      string    `json:"unit_number"`
	PropertyID      string    `json:"property_id"`
	PropertyAddress string    `json:"property_address"`
	StartDate       string    `json:"start_date"`
	EndDate         *string   `json:"end_date"`
	MonthlyRent     string    `json:"monthly_rent"`
	CreatedAt       time.Time `json:"created_at"`
}

func newLeaseView(l models.LeaseView) leaseView {
	return leaseView{
		ID:              l.ID,
		TenantID:        l.TenantID,
		TenantName:      l.TenantName,
		UnitID:          l.UnitID,
		UnitNumber:      l.UnitNumber,
		PropertyID:      l.PropertyID,
		PropertyAddress: l.PropertyAddress,
		StartDate:       ledger.FormatDate(l.StartDate),
		EndDate:         formatDatePtr(l.EndDate),
		MonthlyRent:     money.FormatMinor(l.MonthlyRent),
		CreatedAt:       l.CreatedAt,
	}
}

type paymentView struct {
	ID          string     `json:"id"`
	LeaseID     string     `json:"lease_id"`
	TenantID    string     `json:"tenant_id"`
	UnitID      string     `json:"unit_id"`
	PropertyID  string     `json:"property_id"`
	PeriodYear  int        `json:"period_year"`
	PeriodMonth int        `json:"period_month"`
	Amount      string     `json:"amount"`
	Status      string     `json:"status"`
	PaidAt      *time.Time `json:"paid_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func newPaymentView(p models.Payment, now time.Time) paymentView {
	return paymentView{
		ID:          p.ID,
		LeaseID:     p.LeaseID,
		TenantID:    p.TenantID,
		UnitID:      p.UnitID,
		PropertyID:  p.PropertyID,
		PeriodYear:  p.PeriodYear,
		PeriodMonth: p.PeriodMonth,
		Amount:      money.FormatMinor(p.Amount),
		Status:      ledger.StatusOf(p, now),
		PaidAt:      p.PaidAt,
		CreatedAt:   p.CreatedAt,
	}
}

type receiptView struct {
	ID              string    `json:"id"`
	ReceiptNumber   string    `json:"receipt_number"`
	TenantID        string    `json:"tenant_id"`
	TenantName      string    `json:"tenant_name"`
	PropertyAddress string    `json:"property_address"`
	UnitNumber      string    `json:"unit_number"`
	PaymentID       string    `json:"payment_id"`
	PaymentMethod   string    `json:"payment_method"`
	Notes           string    `json:"notes"`
	PaymentDate     time.Time `json:"payment_date"`
	Amount          string    `json:"amount"`
	Currency        string    `json:"currency"`
	CurrencySymbol  string    `json:"currency_symbol"`
	PeriodYear      int       `json:"period_year"`
	PeriodMonth     int       `json:"period_month"`
	CreatedAt       time.Time `json:"created_at"`
}

func newReceiptView(r models.ReceiptView) receiptView {
	return receiptView{
		ID:              r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		TenantID:        r.TenantID,
		TenantName:      r.TenantName,
		PropertyAddress: r.PropertyAddress,
		UnitNumber:      r.UnitNumber,
		PaymentID:       r.PaymentID,
		PaymentMethod:   r.PaymentMethod,
		Notes:           r.Notes,
		PaymentDate:     r.PaymentDate,
		Amount:          money.FormatMinor(r.Amount),
		Currency:        r.Currency,
		CurrencySymbol:  r.CurrencySymbol,
		PeriodYear:      r.PeriodYear,
		PeriodMonth:     r.PeriodMonth,
		CreatedAt:       r.CreatedAt,
	}
}

type dashboardView struct {
	TotalProperties int    `json:"total_properties"`
	TotalUnits      int    `json:"total_units"`
	OccupiedUnits   int    `json:"occupied_units"`
	TotalTenants    int    `json:"total_tenants"`
	MonthlyRevenue  string `json:"monthly_revenue"`
	PendingPayments int    `json:"pending_payments"`
	OverduePayments int    `json:"overdue_payments"`
	OccupancyRate   string `json:"occupancy_rate"`
	Currency        string `json:"currency"`
	CurrencySymbol  string `json:"currency_symbol"`
}

func newDashboardView(d ledger.Dashboard) dashboardView {
	return dashboardView{
		TotalProperties: d.TotalProperties,
		TotalUnits:      d.TotalUnits,
		OccupiedUnits:   d.OccupiedUnits,
		TotalTenants:    d.TotalTenants,
		MonthlyRevenue:  money.FormatMinor(d.MonthlyRevenue),
		PendingPayments: d.PendingPayments,
		OverduePayments: d.OverduePayments,
		OccupancyRate:   d.OccupancyRate.StringFixed(2),
		Currency:        d.Currency,
		CurrencySymbol:  d.CurrencySymbol,
	}
}

type occupantView struct {
	LeaseID         string  `json:"lease_id"`
	TenantID        string  `json:"tenant_id"`
	TenantName      string  `json:"tenant_name"`
	UnitID          string  `json:"unit_id"`
	UnitNumber      string  `json:"unit_number"`
	PropertyID      string  `json:"property_id"`
	PropertyAddress string  `json:"property_address"`
	StartDate       string  `json:"start_date"`
	EndDate         *string `json:"end_date"`
	MonthlyRent     string  `json:"monthly_rent"`
	MonthsPaid      int     `json:"months_paid"`
}

func newOccupantView(o ledger.Occupant) occupantView {
	return occupantView{
		LeaseID:         o.LeaseID,
		TenantID:        o.TenantID,
		TenantName:      o.TenantName,
		UnitID:          o.UnitID,
		UnitNumber:      o.UnitNumber,
		PropertyID:      o.PropertyID,
		PropertyAddress: o.PropertyAddress,
		StartDate:       ledger.FormatDate(o.StartDate),
		EndDate:         formatDatePtr(o.EndDate),
		MonthlyRent:     money.FormatMinor(o.MonthlyRent),
		MonthsPaid:      o.MonthsPaid,
	}
}

type historyEventView struct {
	Kind         string  `json:"kind"`
	Date         string  `json:"date"`
	LeaseID      string  `json:"lease_id"`
	TenantID     string  `json:"tenant_id"`
	TenantName   string  `json:"tenant_name"`
	StartDate    string  `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Rent         string  `json:"rent"`
	PreviousRent *string `json:"previous_rent,omitempty"`
}

func newHistoryEventView(e ledger.HistoryEvent) historyEventView {
	return historyEventView{
		Kind:         e.Kind,
		Date:         ledger.FormatDate(e.Date),
		LeaseID:      e.LeaseID,
		TenantID:     e.TenantID,
		TenantName:   e.TenantName,
		StartDate:    ledger.FormatDate(e.StartDate),
		EndDate:      formatDatePtr(e.EndDate),
		Rent:         money.FormatMinor(e.Rent),
		PreviousRent: formatMoneyPtr(e.PreviousRent),
	}
}

type settingsView struct {
	AppName        string    `json:"app_name"`
	Currency       string    `json:"currency"`
	CurrencySymbol string    `json:"currency_symbol"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newSettingsView(s models.Settings) settingsView {
	return settingsView{
		AppName:        s.AppName,
		Currency:       s.Currency,
		CurrencySymbol: currency.Symbol(s.Currency),
		UpdatedAt:      s.UpdatedAt,
	}
}

func mapViews[T, V any](items []T, render func(T) V) []V {
	out := make([]V, len(items))
	for i, item := range items {
		out[i] = render(item)
	}
	return out
}
