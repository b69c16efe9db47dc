package ledger

import (
	"sort"
	"time"

	"rental/internal/models"
)

const (
	EventMoveIn     = "move_in"
	EventMoveOut    = "move_out"
	EventRentChange = "rent_change"
)

// Same-day events sort move-outs first so a turnover reads in order.
var eventRank = map[string]int{
	EventMoveOut:    0,
	EventMoveIn:     1,
	EventRentChange: 2,
}

type HistoryEvent struct {
	Kind         string     `json:"kind"`
	Date         time.Time  `json:"date"`
	LeaseID      string     `json:"lease_id"`
	TenantID     string     `json:"tenant_id"`
	TenantName   string     `json:"tenant_name"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Rent         int64      `json:"rent"`
	PreviousRent *int64     `json:"previous_rent,omitempty"`
}

// UnitHistory rebuilds a unit's timeline from its leases and their payments.
// Each event carries the rent in force when it happened. Payment amounts mark
// a rent change only when the new amount lasts: it repeats in the next period,
// or it is the latest payment and matches the lease's current rent. A lease
// whose current rent differs from its latest payment gets a closing change at
// the period after that payment.
func UnitHistory(leases []models.LeaseView, payments []models.Payment) []HistoryEvent {
	byLease := make(map[string][]models.Payment)
	for _, p := range payments {
		byLease[p.LeaseID] = append(byLease[p.LeaseID], p)
	}
	events := make([]HistoryEvent, 0, len(leases)*2)
	for _, l := range leases {
		ordered := append([]models.Payment(nil), byLease[l.ID]...)
		sort.Slice(ordered, func(i, j int) bool {
			return PaymentPeriod(ordered[i]).Before(PaymentPeriod(ordered[j]))
		})
		base := HistoryEvent{
			LeaseID:    l.ID,
			TenantID:   l.TenantID,
			TenantName: l.TenantName,
			StartDate:  Day(l.StartDate),
			EndDate:    dayPtr(l.EndDate),
			Rent:       l.MonthlyRent,
		}
		moveIn := base
		moveIn.Kind = EventMoveIn
		moveIn.Date = base.StartDate
		if len(ordered) > 0 {
			moveIn.Rent = ordered[0].Amount
		}
		events = append(events, moveIn)
		if l.EndDate != nil {
			moveOut := base
			moveOut.Kind = EventMoveOut
			moveOut.Date = *base.EndDate
			events = append(events, moveOut)
		}
		events = append(events, rentChanges(base, ordered)...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if eventRank[a.Kind] != eventRank[b.Kind] {
			return eventRank[a.Kind] < eventRank[b.Kind]
		}
		return a.LeaseID < b.LeaseID
	})
	return events
}

// rentChanges expects payments ordered by period.
func rentChanges(base HistoryEvent, ordered []models.Payment) []HistoryEvent {
	if len(ordered) == 0 {
		return nil
	}
	var out []HistoryEvent
	change := func(at time.Time, from, to int64) {
		ev := base
		ev.Kind = EventRentChange
		ev.Date = at
		ev.Rent = to
		ev.PreviousRent = &from
		out = append(out, ev)
	}
	current := ordered[0].Amount
	for i := 1; i < len(ordered); i++ {
		amount := ordered[i].Amount
		if amount == current {
			continue
		}
		lasting := amount == base.Rent
		if i+1 < len(ordered) {
			lasting = ordered[i+1].Amount == amount
		}
		if !lasting {
			continue
		}
		change(PaymentPeriod(ordered[i]).Start(), current, amount)
		current = amount
	}
	if current != base.Rent {
		at := PaymentPeriod(ordered[len(ordered)-1]).End()
		if base.EndDate != nil && base.EndDate.Before(at) {
			at = *base.EndDate
		}
		change(at, current, base.Rent)
	}
	return out
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := Day(*t)
	return &d
}
