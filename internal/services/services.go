package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rental/internal/cache"
	"rental/internal/db"
	"rental/internal/ledger"
	"rental/internal/store"
	"rental/internal/websocket"

	"go.uber.org/zap"
)

// Deps are the collaborators every ledger service shares.
type Deps struct {
	TxRunner db.TxRunner
	Audit    AuditStore
	Hub      EventHub
	Cache    cache.Cache
	Metrics  LedgerMetrics
	Logger   *zap.Logger
	Now      func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func (d Deps) now() time.Time {
	return d.Now().UTC()
}

func (d Deps) audit(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID string, data map[string]any) error {
	return d.Audit.Log(ctx, tx, store.AuditEntry{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Data:       data,
	})
}

// committed runs after a mutation's transaction commits: derived views are
// invalidated and connected operators are told what changed.
func (d Deps) committed(ctx context.Context, event, entityID string) {
	if err := d.Cache.Invalidate(ctx); err != nil {
		d.Logger.Warn("dashboard cache invalidation failed", zap.String("event", event), zap.Error(err))
	}
	if d.Hub != nil {
		d.Hub.Broadcast(websocket.Event{Type: event, EntityID: entityID, At: d.now()})
	}
	if d.Metrics != nil {
		d.Metrics.RecordLedgerEvent(event)
	}
	d.Logger.Info("ledger change committed", zap.String("event", event), zap.String("entity_id", entityID))
}

// notFound turns sql.ErrNoRows into the ledger NotFound kind.
func notFound(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.NotFound(entity, id)
	}
	return err
}

// affected reports sql.ErrNoRows when a write matched nothing.
func affected(rows int64, err error) error {
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
