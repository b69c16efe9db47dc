package services

import (
	"context"
	"time"

	"rental/internal/models"
	"rental/internal/store"
	"rental/internal/websocket"
)

type PropertyStore interface {
	Create(ctx context.Context, tx store.Execer, p models.Property) error
	Update(ctx context.Context, tx store.Execer, p models.Property) (int64, error)
	Delete(ctx context.Context, tx store.Execer, id string) (int64, error)
	GetByID(ctx context.Context, id string) (models.Property, error)
	GetForUpdate(ctx context.Context, tx store.Getter, id string) (models.Property, error)
	List(ctx context.Context) ([]models.Property, error)
	Count(ctx context.Context) (int, error)
}

type UnitStore interface {
	Create(ctx context.Context, tx store.Execer, u models.Unit) error
	Update(ctx context.Context, tx store.Execer, u models.Unit) (int64, error)
	SetStatus(ctx context.Context, tx store.Execer, id, status string) error
	Delete(ctx context.Context, tx store.Execer, id string) (int64, error)
	DeleteByProperty(ctx context.Context, tx store.Execer, propertyID string) (int64, error)
	GetByID(ctx context.Context, id string) (models.Unit, error)
	GetForUpdate(ctx context.Context, tx store.Getter, id string) (models.Unit, error)
	List(ctx context.Context, propertyID string) ([]models.Unit, error)
}

type TenantStore interface {
	Create(ctx context.Context, tx store.Execer, t models.Tenant) error
	Update(ctx context.Context, tx store.Execer, t models.Tenant) (int64, error)
	Delete(ctx context.Context, tx store.Execer, id string) (int64, error)
	GetByID(ctx context.Context, id string) (models.Tenant, error)
	List(ctx context.Context) ([]models.Tenant, error)
	Count(ctx context.Context) (int, error)
}

type LeaseStore interface {
	Create(ctx context.Context, tx store.Execer, l models.Lease) error
	Update(ctx context.Context, tx store.Execer, l models.Lease) (int64, error)
	Delete(ctx context.Context, tx store.Execer, id string) (int64, error)
	GetByID(ctx context.Context, id string) (models.LeaseView, error)
	GetForUpdate(ctx context.Context, tx store.Getter, id string) (models.Lease, error)
	ListByUnit(ctx context.Context, q store.Selecter, unitID string) ([]models.Lease, error)
	List(ctx context.Context, filter store.LeaseFilter) ([]models.LeaseView, error)
	ListActiveAt(ctx context.Context, at time.Time) ([]models.LeaseView, error)
	ListAll(ctx context.Context) ([]models.Lease, error)
	CountByUnit(ctx context.Context, q store.Getter, unitID string) (int, error)
	CountByTenant(ctx context.Context, q store.Getter, tenantID string) (int, error)
	CountByProperty(ctx context.Context, q store.Getter, propertyID string) (int, error)
}

type PaymentStore interface {
	Create(ctx context.Context, tx store.Execer, p models.Payment) error
	Update(ctx context.Context, tx store.Execer, p models.Payment) (int64, error)
	MarkPaid(ctx context.Context, tx store.Execer, id string, paidAt time.Time) (int64, error)
	Delete(ctx context.Context, tx store.Execer, id string) (int64, error)
	GetByID(ctx context.Context, id string) (models.Payment, error)
	GetForUpdate(ctx context.Context, tx store.Getter, id string) (models.Payment, error)
	ExistsForPeriod(ctx context.Context, q store.Getter, leaseID string, year, month int, excludeID string) (bool, error)
	List(ctx context.Context, tenantID string) ([]models.Payment, error)
	ListByLeases(ctx context.Context, leaseIDs []string) ([]models.Payment, error)
	ListByLease(ctx context.Context, q store.Selecter, leaseID string) ([]models.Payment, error)
	ListOutstandingOrIn(ctx context.Context, year, month int) ([]models.Payment, error)
	CountByLease(ctx context.Context, q store.Getter, leaseID string) (int, error)
}

type ReceiptStore interface {
	Create(ctx context.Context, tx store.Execer, r models.Receipt) error
	NextSequence(ctx context.Context, tx store.Getter, yearMonth string) (int, error)
	ExistsForPayment(ctx context.Context, q store.Getter, paymentID string) (bool, error)
	GetByID(ctx context.Context, id string) (models.ReceiptView, error)
	List(ctx context.Context, tenantID string) ([]models.ReceiptView, error)
}

type SettingsStore interface {
	Get(ctx context.Context) (models.Settings, error)
	Upsert(ctx context.Context, tx store.Execer, settings models.Settings) error
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, entry store.AuditEntry) error
}

type SnapshotStore interface {
	Load(ctx context.Context, q store.Tx) (store.Dataset, error)
	Replace(ctx context.Context, tx store.Execer, data store.Dataset, sequences map[string]int) error
}

type EventHub interface {
	Broadcast(event websocket.Event)
}

type LedgerMetrics interface {
	RecordLedgerEvent(event string)
	RecordCacheLookup(hit bool)
}
