package services

import (
	"context"
	"io"
	"time"

	"rental/internal/snapshot"
	"rental/internal/store"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type BackupService struct {
	deps      Deps
	snapshots SnapshotStore
}

func NewBackupService(deps Deps, snapshots SnapshotStore) *BackupService {
	return &BackupService{deps: deps.withDefaults(), snapshots: snapshots}
}

// Export reads every ledger table at one point in time.
func (s *BackupService) Export(ctx context.Context) (snapshot.Snapshot, error) {
	var data store.Dataset
	err := s.deps.TxRunner.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		data, err = s.snapshots.Load(ctx, tx)
		return err
	})
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	settings := DefaultSettings()
	if data.Settings != nil {
		settings = *data.Settings
	}
	return snapshot.New(s.deps.now(), data.Properties, data.Units, data.Tenants, data.Leases, data.Payments, data.Receipts, settings), nil
}

type RestoreResult struct {
	RestoredRecords snapshot.Counts
	RestoredAt      time.Time
}

// Restore replaces the whole ledger with the snapshot read from r. The
// snapshot is fully validated before anything is written, and the write is a
// single transaction, so a failed restore leaves the ledger untouched.
func (s *BackupService) Restore(ctx context.Context, actorID string, r io.Reader) (RestoreResult, error) {
	snap, err := snapshot.Decode(r)
	if err != nil {
		return RestoreResult{}, err
	}
	settings := snap.Settings
	data := store.Dataset{
		Properties: snap.Properties,
		Units:      snap.Units,
		Tenants:    snap.Tenants,
		Leases:     snap.Leases,
		Payments:   snap.Payments,
		Receipts:   snap.Receipts,
		Settings:   &settings,
	}
	counts := snap.Count()
	err = s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.snapshots.Replace(ctx, tx, data, snapshot.Sequences(snap.Receipts)); err != nil {
			return err
		}
		return s.deps.audit(ctx, tx, actorID, "snapshot.restore", "snapshot", "", map[string]any{
			"format_version": snap.FormatVersion,
			"exported_at":    snap.ExportedAt,
			"records":        counts,
		})
	})
	if err != nil {
		return RestoreResult{}, err
	}
	s.deps.Logger.Info("snapshot restored",
		zap.Int("properties", counts.Properties),
		zap.Int("leases", counts.Leases),
		zap.Int("payments", counts.Payments),
		zap.Int("receipts", counts.Receipts),
	)
	s.deps.committed(ctx, "snapshot.restored", "")
	return RestoreResult{RestoredRecords: counts, RestoredAt: s.deps.now()}, nil
}
