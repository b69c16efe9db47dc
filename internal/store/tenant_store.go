package store

import (
	"context"

	"rental/internal/models"
)

type TenantStore struct {
	db DB
}

func NewTenantStore(db DB) *TenantStore {
	return &TenantStore{db: db}
}

func (s *TenantStore) Create(ctx context.Context, tx Execer, t models.Tenant) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tenants (id, name, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, t.ID, t.Name, t.Email, t.Phone, t.CreatedAt)
	return err
}

func (s *TenantStore) Update(ctx context.Context, tx Execer, t models.Tenant) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE tenants SET name = $1, email = $2, phone = $3 WHERE id = $4
	`, t.Name, t.Email, t.Phone, t.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *TenantStore) Delete(ctx context.Context, tx Execer, id string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *TenantStore) GetByID(ctx context.Context, id string) (models.Tenant, error) {
	var row models.Tenant
	err := s.db.GetContext(ctx, &row, `SELECT id, name, email, phone, created_at FROM tenants WHERE id = $1`, id)
	return row, err
}

func (s *TenantStore) List(ctx context.Context) ([]models.Tenant, error) {
	rows := []models.Tenant{}
	err := s.db.SelectContext(ctx, &rows, `SELECT id, name, email, phone, created_at FROM tenants ORDER BY name, id`)
	return rows, err
}

func (s *TenantStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM tenants`)
	return count, err
}
