package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"rental/internal/ledger"
	"rental/internal/models"
	"rental/internal/services"

	"github.com/lib/pq"
)

func TestCreatePropertyParsesMoney(t *testing.T) {
	var got services.PropertyInput
	var actor string
	catalog := stubCatalog{createPropertyFn: func(_ context.Context, actorID string, in services.PropertyInput) (models.Property, error) {
		got, actor = in, actorID
		return models.Property{ID: "prop-1", Address: in.Address, MonthlyRent: in.MonthlyRent, Status: "available"}, nil
	}}
	h := newTestHandler(stubUserStore{}, stubAuditLog{}, Services{Catalog: catalog})

	rr := serve(t, h, http.MethodPost, "/api/properties", `{"address":"1 Main St","monthly_rent":"500.50"}`, "user-1")
	expectStatus(t, rr, http.StatusCreated)
	if got.MonthlyRent != 50050 || actor != "user-1" {
		t.Fatalf("unexpected input %#v from %q", got, actor)
	}
	var view propertyView
	decodeBody(t, rr, &view)
	if view.MonthlyRent != "500.50" {
		t.Fatalf("expected rent 500.50, got %q", view.MonthlyRent)
	}

	rr = serve(t, h, http.MethodPost, "/api/properties", `{"address":"1 Main St","monthly_rent":750}`, "user-1")
	expectStatus(t, rr, http.StatusCreated)
	if got.MonthlyRent != 75000 {
		t.Fatalf("expected numeric rent 75000, got %d", got.MonthlyRent)
	}
}

func TestCreatePropertyRejectsBadInput(t *testing.T) {
	catalog := stubCatalog{createPropertyFn: func(context.Context, string, services.PropertyInput) (models.Property, error) {
		t.Fatalf("service must not be called")
		return models.Property{}, nil
	}}
	h := newTestHandler(stubUserStore{}, stubAuditLog{}, Services{Catalog: catalog})

	rr := serve(t, h, http.MethodPost, "/api/properties", `{"address":"1 Main St","monthly_rent":"5.005"}`, "user-1")
	resp := expectErrorCode(t, rr, http.StatusBadRequest, "validation_error")
	if resp.Field != "monthly_rent" {
		t.Fatalf("expected monthly_rent field, got %q", resp.Field)
	}

	rr = serve(t, h, http.MethodPost, "/api/properties", `{"address":`, "user-1")
	expectErrorCode(t, rr, http.StatusBadRequest, "validation_error")
}

func TestCatalogErrorMapping(t *testing.T) {
	catalog := stubCatalog{
		getPropertyFn: func(_ context.Context, id string) (models.Property, error) {
			return models.Property{}, ledger.NotFound("property", id)
		},
		deletePropertyFn: func(context.Context, string, string) error {
			return ledger.InUse("property", "leases")
		},
		createUnitFn: func(context.Context, string, services.UnitInput) (models.Unit, error) {
			return models.Unit{}, &pq.Error{Code: "23505"}
		},
		listPropertiesFn: func(context.Context) ([]models.Property, error) {
			return nil, errors.New("connection reset")
		},
	}
	h := newTestHandler(stubUserStore{}, stubAuditLog{}, Services{Catalog: catalog})

	rr := serve(t, h, http.MethodGet, "/api/properties/missing", "", "user-1")
	expectErrorCode(t, rr, http.StatusNotFound, "not_found")

	rr = serve(t, h, http.MethodDelete, "/api/properties/prop-1", "", "user-1")
	expectErrorCode(t, rr, http.StatusConflict, "conflict")

	rr = serve(t, h, http.MethodPost, "/api/units", `{"property_id":"prop-1","unit_number":"U1","unit_type":"apartment","monthly_rent":"400.00"}`, "user-1")
	expectErrorCode(t, rr, http.StatusConflict, "conflict")

	rr = serve(t, h, http.MethodGet, "/api/properties", "", "user-1")
	resp := expectErrorCode(t, rr, http.StatusInternalServerError, "internal")
	if resp.Error == "connection reset" {
		t.Fatalf("internal error details must not leak")
	}
}

func TestDeletePropertyNoContent(t *testing.T) {
	catalog := stubCatalog{deletePropertyFn: func(_ context.Context, _ string, id string) error {
		if id != "prop-1" {
			t.Fatalf("unexpected id %q", id)
		}
		return nil
	}}
	h := newTestHandler(stubUserStore{}, stubAuditLog{}, Services{Catalog: catalog})
	rr := serve(t, h, http.MethodDelete, "/api/properties/prop-1", "", "user-1")
	expectStatus(t, rr, http.StatusNoContent)
}

func TestCreateTenant(t *testing.T) {
	catalog := stubCatalog{createTenantFn: func(_ context.Context, _ string, in services.TenantInput) (models.Tenant, error) {
		return models.Tenant{ID: "tenant-1", Name: in.Name, Email: in.Email, CreatedAt: time.Now()}, nil
	}}
	h := newTestHandler(stubUserStore{}, stubAuditLog{}, Services{Catalog: catalog})
	rr := serve(t, h, http.MethodPost, "/api/tenants", `{"name":"Alice","email":"alice@example.com"}`, "user-1")
	expectStatus(t, rr, http.StatusCreated)
	var tenant models.Tenant
	decodeBody(t, rr, &tenant)
	if tenant.Name != "Alice" {
		t.Fatalf("unexpected tenant: %#v", tenant)
	}
}
