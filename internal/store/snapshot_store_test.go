package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"rental/internal/models"
)

func TestSnapshotStoreReplaceOrder(t *testing.T) {
	execer := &recordingExecer{}
	data := Dataset{
		Properties: []models.Property{{ID: "p1"}},
		Units:      []models.Unit{{ID: "u1", PropertyID: "p1"}},
		Tenants:    []models.Tenant{{ID: "t1"}},
		Leases:     []models.Lease{{ID: "l1"}},
		Payments:   []models.Payment{{ID: "pay1"}},
		Receipts:   []models.Receipt{{ID: "r1"}},
		Settings:   &models.Settings{AppName: "Rental Ledger", Currency: "EUR"},
	}
	err := NewSnapshotStore(stubDB{}).Replace(context.Background(), execer, data, map[string]int{"202406": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"LOCK TABLE",
		"TRUNCATE",
		"INSERT INTO properties",
		"INSERT INTO units",
		"INSERT INTO tenants",
		"INSERT INTO leases",
		"INSERT INTO payments",
		"INSERT INTO receipts",
		"INSERT INTO receipt_sequences",
		"INSERT INTO settings",
	}
	if len(execer.queries) != len(want) {
		t.Fatalf("expected %d statements, got %d", len(want), len(execer.queries))
	}
	for i, fragment := range want {
		if !strings.Contains(execer.queries[i], fragment) {
			t.Fatalf("statement %d: expected %q, got %s", i, fragment, execer.queries[i])
		}
	}
	if args := execer.args[8]; args[0] != "202406" || args[1] != 1 {
		t.Fatalf("unexpected sequence args: %#v", args)
	}
}

func TestSnapshotStoreReplaceStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	execer := &recordingExecer{failOn: "INSERT INTO tenants", err: boom}
	data := Dataset{
		Tenants: []models.Tenant{{ID: "t1"}},
		Leases:  []models.Lease{{ID: "l1"}},
	}
	err := NewSnapshotStore(stubDB{}).Replace(context.Background(), execer, data, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	for _, q := range execer.queries {
		if strings.Contains(q, "INSERT INTO leases") {
			t.Fatalf("no writes expected after failure")
		}
	}
}

func TestSnapshotStoreLoadWithoutSettings(t *testing.T) {
	var selects []string
	tx := stubTx{
		selectFn: func(_ context.Context, _ any, query string, _ ...any) error {
			selects = append(selects, query)
			return nil
		},
		getFn: func(_ context.Context, _ any, query string, _ ...any) error {
			if !strings.Contains(query, "FROM settings") {
				t.Fatalf("unexpected query: %s", query)
			}
			return sql.ErrNoRows
		},
	}
	data, err := NewSnapshotStore(stubDB{}).Load(context.Background(), tx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Settings != nil {
		t.Fatalf("expected nil settings, got %#v", data.Settings)
	}
	if len(selects) != 6 {
		t.Fatalf("expected 6 table reads, got %d", len(selects))
	}
}
