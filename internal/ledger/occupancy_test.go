package ledger

import (
	"testing"
	"time"

	"rental/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func view(l models.Lease, tenant, unit, address string) models.LeaseView {
	return models.LeaseView{Lease: l, TenantName: tenant, UnitNumber: unit, PropertyAddress: address}
}

func TestResolveOccupantsBeforeFirstLease(t *testing.T) {
	leases := []models.LeaseView{view(lease("l1", "u1", date(2024, 1, 1), nil), "A", "1", "Main St")}
	assert.Empty(t, ResolveOccupants(leases, nil, date(2023, 12, 31)))
}

func TestResolveOccupantsCountsPaidMonthsUpToDate(t *testing.T) {
	leases := []models.LeaseView{
		view(lease("l1", "u1", date(2024, 1, 1), nil), "A", "1", "Main St"),
		view(lease("l0", "u1", date(2023, 1, 1), datePtr(2024, 1, 1)), "Z", "1", "Main St"),
	}
	payments := []models.Payment{
		payment("l1", 2024, time.January, 50000, datePtr(2024, 1, 2)),
		payment("l1", 2024, time.February, 50000, nil),
		payment("l1", 2024, time.June, 50000, datePtr(2024, 6, 2)),
		payment("l1", 2024, time.July, 50000, datePtr(2024, 6, 20)),
		payment("l0", 2023, time.December, 50000, datePtr(2023, 12, 2)),
	}

	occupants := ResolveOccupants(leases, payments, date(2024, 6, 15))
	require.Len(t, occupants, 1)
	assert.Equal(t, "l1", occupants[0].LeaseID)
	assert.Equal(t, "A", occupants[0].TenantName)
	assert.Equal(t, 2, occupants[0].MonthsPaid)
}

func TestResolveOccupantsOrdersByAddressThenUnit(t *testing.T) {
	leases := []models.LeaseView{
		view(lease("l3", "u3", date(2024, 1, 1), nil), "C", "2", "Oak Ave"),
		view(lease("l2", "u2", date(2024, 1, 1), nil), "B", "2", "Main St"),
		view(lease("l1", "u1", date(2024, 1, 1), nil), "A", "1", "Main St"),
	}
	occupants := ResolveOccupants(leases, nil, date(2024, 3, 1))
	require.Len(t, occupants, 3)
	assert.Equal(t, []string{"l1", "l2", "l3"}, []string{occupants[0].LeaseID, occupants[1].LeaseID, occupants[2].LeaseID})
}
