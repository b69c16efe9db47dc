package snapshot

import (
	"sort"
	"strings"

	"rental/internal/currency"
	"rental/internal/ledger"
	"rental/internal/models"
	"rental/internal/validator"
)

// Validate checks a decoded snapshot for internal consistency: unique ids,
// known enumerations, resolvable references, non-overlapping leases per unit,
// one payment per lease period inside its lease, and one receipt per paid
// payment with a unique number per month.
func Validate(s Snapshot) error {
	if !currency.Valid(s.Settings.Currency) {
		return ledger.Malformed("settings: unknown currency %q", s.Settings.Currency)
	}

	properties := make(map[string]models.Property, len(s.Properties))
	for i, p := range s.Properties {
		if err := uniqueID("properties", i, p.ID, properties); err != nil {
			return err
		}
		if strings.TrimSpace(p.Address) == "" {
			return ledger.Malformed("properties[%d]: address is required", i)
		}
		if !validator.IsOccupancyStatus(p.Status) {
			return ledger.Malformed("properties[%d]: invalid status %q", i, p.Status)
		}
		if p.MonthlyRent < 0 {
			return ledger.Malformed("properties[%d]: negative monthly_rent", i)
		}
		properties[p.ID] = p
	}

	units := make(map[string]models.Unit, len(s.Units))
	unitNumbers := make(map[string]bool, len(s.Units))
	for i, u := range s.Units {
		if err := uniqueID("units", i, u.ID, units); err != nil {
			return err
		}
		if _, ok := properties[u.PropertyID]; !ok {
			return ledger.Malformed("units[%d]: unknown property %q", i, u.PropertyID)
		}
		if strings.TrimSpace(u.UnitNumber) == "" {
			return ledger.Malformed("units[%d]: unit_number is required", i)
		}
		key := u.PropertyID + "\x00" + u.UnitNumber
		if unitNumbers[key] {
			return ledger.Malformed("units[%d]: duplicate unit_number %q in property", i, u.UnitNumber)
		}
		unitNumbers[key] = true
		if !validator.IsUnitType(u.UnitType) {
			return ledger.Malformed("units[%d]: invalid unit_type %q", i, u.UnitType)
		}
		if !validator.IsOccupancyStatus(u.Status) {
			return ledger.Malformed("units[%d]: invalid status %q", i, u.Status)
		}
		if u.MonthlyRent < 0 || u.Bedrooms < 0 || u.Bathrooms < 0 || u.SurfaceArea < 0 {
			return ledger.Malformed("units[%d]: negative numeric field", i)
		}
		units[u.ID] = u
	}

	tenants := make(map[string]models.Tenant, len(s.Tenants))
	for i, t := range s.Tenants {
		if err := uniqueID("tenants", i, t.ID, tenants); err != nil {
			return err
		}
		if strings.TrimSpace(t.Name) == "" {
			return ledger.Malformed("tenants[%d]: name is required", i)
		}
		tenants[t.ID] = t
	}

	leases := make(map[string]models.Lease, len(s.Leases))
	byUnit := make(map[string][]models.Lease)
	for i, l := range s.Leases {
		if err := uniqueID("leases", i, l.ID, leases); err != nil {
			return err
		}
		if _, ok := tenants[l.TenantID]; !ok {
			return ledger.Malformed("leases[%d]: unknown tenant %q", i, l.TenantID)
		}
		unit, ok := units[l.UnitID]
		if !ok {
			return ledger.Malformed("leases[%d]: unknown unit %q", i, l.UnitID)
		}
		if l.PropertyID != unit.PropertyID {
			return ledger.Malformed("leases[%d]: property does not match unit", i)
		}
		if err := ledger.ValidateLease(l); err != nil {
			return ledger.Malformed("leases[%d]: %v", i, err)
		}
		leases[l.ID] = l
		byUnit[l.UnitID] = append(byUnit[l.UnitID], l)
	}
	for unitID, group := range byUnit {
		sort.Slice(group, func(i, j int) bool { return group[i].StartDate.Before(group[j].StartDate) })
		for i := 1; i < len(group); i++ {
			if ledger.Overlaps(group[i-1], group[i]) {
				return ledger.Malformed("unit %q: leases %q and %q overlap", unitID, group[i-1].ID, group[i].ID)
			}
		}
	}

	payments := make(map[string]models.Payment, len(s.Payments))
	periods := make(map[string]bool, len(s.Payments))
	for i, p := range s.Payments {
		if err := uniqueID("payments", i, p.ID, payments); err != nil {
			return err
		}
		l, ok := leases[p.LeaseID]
		if !ok {
			return ledger.Malformed("payments[%d]: unknown lease %q", i, p.LeaseID)
		}
		if p.TenantID != l.TenantID || p.UnitID != l.UnitID || p.PropertyID != l.PropertyID {
			return ledger.Malformed("payments[%d]: tenant, unit or property does not match lease", i)
		}
		period, err := ledger.NewPeriod(p.PeriodYear, p.PeriodMonth)
		if err != nil {
			return ledger.Malformed("payments[%d]: %v", i, err)
		}
		if !ledger.PeriodWithinLease(period, l) {
			return ledger.Malformed("payments[%d]: period %s is outside lease %q", i, period, l.ID)
		}
		if p.Amount <= 0 {
			return ledger.Malformed("payments[%d]: amount must be positive", i)
		}
		key := p.LeaseID + "\x00" + period.String()
		if periods[key] {
			return ledger.Malformed("payments[%d]: duplicate period %s for lease", i, period)
		}
		periods[key] = true
		payments[p.ID] = p
	}

	receipts := make(map[string]models.Receipt, len(s.Receipts))
	type receiptKey struct {
		yearMonth string
		seq       int
	}
	numbers := make(map[receiptKey]bool, len(s.Receipts))
	paidFor := make(map[string]bool, len(s.Receipts))
	for i, r := range s.Receipts {
		if err := uniqueID("receipts", i, r.ID, receipts); err != nil {
			return err
		}
		p, ok := payments[r.PaymentID]
		if !ok {
			return ledger.Malformed("receipts[%d]: unknown payment %q", i, r.PaymentID)
		}
		if p.PaidAt == nil {
			return ledger.Malformed("receipts[%d]: payment %q is not paid", i, r.PaymentID)
		}
		if r.TenantID != p.TenantID {
			return ledger.Malformed("receipts[%d]: tenant does not match payment", i)
		}
		if r.Amount != p.Amount {
			return ledger.Malformed("receipts[%d]: amount does not match payment", i)
		}
		if paidFor[r.PaymentID] {
			return ledger.Malformed("receipts[%d]: payment %q already has a receipt", i, r.PaymentID)
		}
		paidFor[r.PaymentID] = true
		issued, seq, err := ledger.ParseReceiptNumber(r.ReceiptNumber)
		if err != nil {
			return ledger.Malformed("receipts[%d]: %v", i, err)
		}
		number := receiptKey{issued.YearMonth(), seq}
		if numbers[number] {
			return ledger.Malformed("receipts[%d]: duplicate receipt_number %q", i, r.ReceiptNumber)
		}
		numbers[number] = true
		receipts[r.ID] = r
	}
	return nil
}

// Sequences returns the highest receipt sequence per YYYYMM, which seeds the
// numbering counters after a restore.
func Sequences(receipts []models.Receipt) map[string]int {
	out := make(map[string]int)
	for _, r := range receipts {
		period, seq, err := ledger.ParseReceiptNumber(r.ReceiptNumber)
		if err != nil {
			continue
		}
		if seq > out[period.YearMonth()] {
			out[period.YearMonth()] = seq
		}
	}
	return out
}

func uniqueID[T any](collection string, index int, id string, seen map[string]T) error {
	if strings.TrimSpace(id) == "" {
		return ledger.Malformed("%s[%d]: id is required", collection, index)
	}
	if _, ok := seen[id]; ok {
		return ledger.Malformed("%s[%d]: duplicate id %q", collection, index, id)
	}
	return nil
}
