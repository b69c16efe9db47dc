package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rental/internal/auth"
	"rental/internal/config"
	"rental/internal/ledger"
	"rental/internal/metrics"
	"rental/internal/models"
	"rental/internal/services"
	"rental/internal/snapshot"
	"rental/internal/store"
	"rental/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

func (f fakeTxRunner) WithReadTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, u models.User) error
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, u models.User) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, u)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubAuditLog struct {
	logFn  func(ctx context.Context, tx store.Execer, entry store.AuditEntry) error
	listFn func(ctx context.Context, entityType string, limit, offset int) ([]models.AuditLog, error)
}

func (s stubAuditLog) Log(ctx context.Context, tx store.Execer, entry store.AuditEntry) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, entry)
}

func (s stubAuditLog) List(ctx context.Context, entityType string, limit, offset int) ([]models.AuditLog, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, entityType, limit, offset)
}

// The service stubs embed their interface; calling a method a test did not
// stub panics, which the recovery middleware turns into a 500.

type stubCatalog struct {
	CatalogService
	createPropertyFn func(ctx context.Context, actorID string, in services.PropertyInput) (models.Property, error)
	getPropertyFn    func(ctx context.Context, id string) (models.Property, error)
	deletePropertyFn func(ctx context.Context, actorID, id string) error
	listPropertiesFn func(ctx context.Context) ([]models.Property, error)
	createUnitFn     func(ctx context.Context, actorID string, in services.UnitInput) (models.Unit, error)
	createTenantFn   func(ctx context.Context, actorID string, in services.TenantInput) (models.Tenant, error)
}

func (s stubCatalog) CreateProperty(ctx context.Context, actorID string, in services.PropertyInput) (models.Property, error) {
	return s.createPropertyFn(ctx, actorID, in)
}

func (s stubCatalog) GetProperty(ctx context.Context, id string) (models.Property, error) {
	return s.getPropertyFn(ctx, id)
}

func (s stubCatalog) DeleteProperty(ctx context.Context, actorID, id string) error {
	return s.deletePropertyFn(ctx, actorID, id)
}

func (s stubCatalog) ListProperties(ctx context.Context) ([]models.Property, error) {
	return s.listPropertiesFn(ctx)
}

func (s stubCatalog) CreateUnit(ctx context.Context, actorID string, in services.UnitInput) (models.Unit, error) {
	return s.createUnitFn(ctx, actorID, in)
}

func (s stubCatalog) CreateTenant(ctx context.Context, actorID string, in services.TenantInput) (models.Tenant, error) {
	return s.createTenantFn(ctx, actorID, in)
}

type stubLeases struct {
	LeaseService
	createFn func(ctx context.Context, actorID string, in services.LeaseInput) (models.LeaseView, error)
	amendFn  func(ctx context.Context, actorID, id string, in services.LeaseAmendment) (models.LeaseView, error)
	listFn   func(ctx context.Context, filter store.LeaseFilter) ([]models.LeaseView, error)
}

func (s stubLeases) Create(ctx context.Context, actorID string, in services.LeaseInput) (models.LeaseView, error) {
	return s.createFn(ctx, actorID, in)
}

func (s stubLeases) Amend(ctx context.Context, actorID, id string, in services.LeaseAmendment) (models.LeaseView, error) {
	return s.amendFn(ctx, actorID, id, in)
}

func (s stubLeases) List(ctx context.Context, filter store.LeaseFilter) ([]models.LeaseView, error) {
	return s.listFn(ctx, filter)
}

type stubLedger struct {
	LedgerService
	recordFn       func(ctx context.Context, actorID string, in services.PaymentInput) (models.Payment, error)
	markPaidFn     func(ctx context.Context, actorID, id string) (models.Payment, error)
	listPaymentsFn func(ctx context.Context, tenantID string) ([]models.Payment, error)
	issueFn        func(ctx context.Context, actorID string, in services.ReceiptInput) (models.ReceiptView, error)
}

func (s stubLedger) RecordPayment(ctx context.Context, actorID string, in services.PaymentInput) (models.Payment, error) {
	return s.recordFn(ctx, actorID, in)
}

func (s stubLedger) MarkPaid(ctx context.Context, actorID, id string) (models.Payment, error) {
	return s.markPaidFn(ctx, actorID, id)
}

func (s stubLedger) ListPayments(ctx context.Context, tenantID string) ([]models.Payment, error) {
	return s.listPaymentsFn(ctx, tenantID)
}

func (s stubLedger) IssueReceipt(ctx context.Context, actorID string, in services.ReceiptInput) (models.ReceiptView, error) {
	return s.issueFn(ctx, actorID, in)
}

type stubReports struct {
	occupantsFn func(ctx context.Context, at time.Time) ([]ledger.Occupant, error)
	historyFn   func(ctx context.Context, unitID string) ([]ledger.HistoryEvent, error)
	dashboardFn func(ctx context.Context) (ledger.Dashboard, error)
}

func (s stubReports) OccupantsAt(ctx context.Context, at time.Time) ([]ledger.Occupant, error) {
	return s.occupantsFn(ctx, at)
}

func (s stubReports) UnitHistory(ctx context.Context, unitID string) ([]ledger.HistoryEvent, error) {
	return s.historyFn(ctx, unitID)
}

func (s stubReports) Dashboard(ctx context.Context) (ledger.Dashboard, error) {
	return s.dashboardFn(ctx)
}

type stubSettings struct {
	getFn    func(ctx context.Context) (models.Settings, error)
	updateFn func(ctx context.Context, actorID string, in services.SettingsInput) (models.Settings, error)
}

func (s stubSettings) Get(ctx context.Context) (models.Settings, error) {
	return s.getFn(ctx)
}

func (s stubSettings) Update(ctx context.Context, actorID string, in services.SettingsInput) (models.Settings, error) {
	return s.updateFn(ctx, actorID, in)
}

type stubBackup struct {
	exportFn  func(ctx context.Context) (snapshot.Snapshot, error)
	restoreFn func(ctx context.Context, actorID string, r io.Reader) (services.RestoreResult, error)
}

func (s stubBackup) Export(ctx context.Context) (snapshot.Snapshot, error) {
	return s.exportFn(ctx)
}

func (s stubBackup) Restore(ctx context.Context, actorID string, r io.Reader) (services.RestoreResult, error) {
	return s.restoreFn(ctx, actorID, r)
}

func testConfig() config.Config {
	return config.Config{
		AppEnv:          "test",
		Port:            "0",
		JWTSecret:       "secret",
		TokenTTL:        time.Minute,
		AllowedOrigins:  "*",
		LoginRatePerSec: 100,
		LoginRateBurst:  100,
		MaxRestoreBytes: 1024,
	}
}

func newTestHandler(users UserStore, audit AuditLog, svc Services) *Handler {
	h := New(testConfig(), nil, fakeTxRunner{}, users, audit, svc, websocket.NewHub(), metrics.New())
	h.now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }
	return h
}

// serve sends a request through the full router. A non-empty userID
// authenticates it with a freshly signed token.
func serve(t *testing.T, h *Handler, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := auth.GenerateToken("secret", userID, time.Minute)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rr.Code, rr.Body.String())
	}
}

func expectErrorCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) errorResponse {
	t.Helper()
	expectStatus(t, rr, status)
	var resp errorResponse
	decodeBody(t, rr, &resp)
	if resp.Code != code {
		t.Fatalf("expected code %q, got %q", code, resp.Code)
	}
	return resp
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dest); err != nil {
		t.Fatalf("invalid response body %q: %v", rr.Body.String(), err)
	}
}
