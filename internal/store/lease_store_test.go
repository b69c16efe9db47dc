package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"rental/internal/models"
)

func TestLeaseStoreCreate(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO leases") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 8 || args[0] != "lease-1" || args[4] != start {
				t.Fatalf("unexpected args: %#v", args)
			}
			if end, ok := args[5].(*time.Time); !ok || end != nil {
				t.Fatalf("expected nil end date, got %#v", args[5])
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewLeaseStore(stubDB{})
	err := store.Create(ctx, execer, models.Lease{ID: "lease-1", TenantID: "t", UnitID: "u", PropertyID: "p", StartDate: start})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLeaseStoreListByUnitUsesCaller(t *testing.T) {
	ctx := context.Background()
	store := NewLeaseStore(stubDB{
		selectFn: func(context.Context, any, string, ...any) error {
			t.Fatalf("must not read through the pool")
			return nil
		},
	})
	tx := stubTx{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE unit_id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*[]models.Lease) = []models.Lease{{ID: "lease-1"}}
			return nil
		},
	}
	rows, err := store.ListByUnit(ctx, tx, "unit-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestLeaseStoreListActiveAt(t *testing.T) {
	ctx := context.Background()
	store := NewLeaseStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "l.start_date <= $1::date") || !strings.Contains(query, "l.end_date > $1::date") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != "2024-06-15" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]models.LeaseView) = []models.LeaseView{{TenantName: "A"}}
			return nil
		},
	})
	rows, err := store.ListActiveAt(ctx, time.Date(2024, 6, 15, 13, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].TenantName != "A" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestLeaseStoreListFilters(t *testing.T) {
	ctx := context.Background()
	store := NewLeaseStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "JOIN tenants t") {
				t.Fatalf("expected joined view: %s", query)
			}
			if len(args) != 2 || args[0] != "unit-1" || args[1] != "" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return nil
		},
	})
	if _, err := store.List(ctx, LeaseFilter{UnitID: "unit-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLeaseStoreCountByTenant(t *testing.T) {
	ctx := context.Background()
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FROM leases WHERE tenant_id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*int) = 2
			return nil
		},
	}
	count, err := NewLeaseStore(stubDB{}).CountByTenant(ctx, getter, "tenant-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}
}
