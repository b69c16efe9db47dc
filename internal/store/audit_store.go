package store

import (
	"context"
	"encoding/json"

	"rental/internal/models"
)

type AuditStore struct {
	db DB
}

type AuditEntry struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Data       map[string]any
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

// Log writes an audit row through tx so it commits with the change it describes.
func (s *AuditStore) Log(ctx context.Context, tx Execer, entry AuditEntry) error {
	data, err := json.Marshal(entry.Data)
	if err != nil {
		return err
	}
	if entry.Data == nil {
		data = []byte("{}")
	}
	var actor *string
	if entry.ActorID != "" {
		actor = &entry.ActorID
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_user_id, action, entity_type, entity_id, data)
		VALUES (gen_random_uuid()::text, $1, $2, $3, $4, $5)
	`, actor, entry.Action, entry.EntityType, entry.EntityID, string(data))
	return err
}

// List pages through the audit trail, newest first. An empty entityType
// matches every entity.
func (s *AuditStore) List(ctx context.Context, entityType string, limit, offset int) ([]models.AuditLog, error) {
	rows := []models.AuditLog{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, actor_user_id, action, entity_type, entity_id, data::text AS data, created_at
		FROM audit_logs
		WHERE ($1::text = '' OR entity_type = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, entityType, limit, offset)
	return rows, err
}
