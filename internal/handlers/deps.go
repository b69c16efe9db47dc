package handlers

import (
	"context"
	"io"
	"time"

	"rental/internal/ledger"
	"rental/internal/models"
	"rental/internal/services"
	"rental/internal/snapshot"
	"rental/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, u models.User) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type AuditLog interface {
	Log(ctx context.Context, tx store.Execer, entry store.AuditEntry) error
	List(ctx context.Context, entityType string, limit, offset int) ([]models.AuditLog, error)
}

type CatalogService interface {
	CreateProperty(ctx context.Context, actorID string, in services.PropertyInput) (models.Property, error)
	UpdateProperty(ctx context.Context, actorID, id string, in services.PropertyInput) (models.Property, error)
	DeleteProperty(ctx context.Context, actorID, id string) error
	GetProperty(ctx context.Context, id string) (models.Property, error)
	ListProperties(ctx context.Context) ([]models.Property, error)

	CreateUnit(ctx context.Context, actorID string, in services.UnitInput) (models.Unit, error)
	UpdateUnit(ctx context.Context, actorID, id string, in services.UnitInput) (models.Unit, error)
	DeleteUnit(ctx context.Context, actorID, id string) error
	GetUnit(ctx context.Context, id string) (models.Unit, error)
	ListUnits(ctx context.Context, propertyID string) ([]models.Unit, error)

	CreateTenant(ctx context.Context, actorID string, in services.TenantInput) (models.Tenant, error)
	UpdateTenant(ctx context.Context, actorID, id string, in services.TenantInput) (models.Tenant, error)
	DeleteTenant(ctx context.Context, actorID, id string) error
	GetTenant(ctx context.Context, id string) (models.Tenant, error)
	ListTenants(ctx context.Context) ([]models.Tenant, error)
}

type LeaseService interface {
	Create(ctx context.Context, actorID string, in services.LeaseInput) (models.LeaseView, error)
	Amend(ctx context.Context, actorID, id string, in services.LeaseAmendment) (models.LeaseView, error)
	Delete(ctx context.Context, actorID, id string) error
	Get(ctx context.Context, id string) (models.LeaseView, error)
	List(ctx context.Context, filter store.LeaseFilter) ([]models.LeaseView, error)
}

type LedgerService interface {
	RecordPayment(ctx context.Context, actorID string, in services.PaymentInput) (models.Payment, error)
	UpdatePayment(ctx context.Context, actorID, id string, in services.PaymentInput) (models.Payment, error)
	DeletePayment(ctx context.Context, actorID, id string) error
	MarkPaid(ctx context.Context, actorID, id string) (models.Payment, error)
	GetPayment(ctx context.Context, id string) (models.Payment, error)
	ListPayments(ctx context.Context, tenantID string) ([]models.Payment, error)

	IssueReceipt(ctx context.Context, actorID string, in services.ReceiptInput) (models.ReceiptView, error)
	GetReceipt(ctx context.Context, id string) (models.ReceiptView, error)
	ListReceipts(ctx context.Context, tenantID string) ([]models.ReceiptView, error)
}

type ReportService interface {
	OccupantsAt(ctx context.Context, at time.Time) ([]ledger.Occupant, error)
	UnitHistory(ctx context.Context, unitID string) ([]ledger.HistoryEvent, error)
	Dashboard(ctx context.Context) (ledger.Dashboard, error)
}

type SettingsService interface {
	Get(ctx context.Context) (models.Settings, error)
	Update(ctx context.Context, actorID string, in services.SettingsInput) (models.Settings, error)
}

type BackupService interface {
	Export(ctx context.Context) (snapshot.Snapshot, error)
	Restore(ctx context.Context, actorID string, r io.Reader) (services.RestoreResult, error)
}

// Services groups the ledger operations the API exposes.
type Services struct {
	Catalog  CatalogService
	Leases   LeaseService
	Ledger   LedgerService
	Reports  ReportService
	Settings SettingsService
	Backup   BackupService
}
