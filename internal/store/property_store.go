package store

import (
	"context"

	"rental/internal/models"
)

type PropertyStore struct {
	db DB
}

func NewPropertyStore(db DB) *PropertyStore {
	return &PropertyStore{db: db}
}

const propertyColumns = `id, address, monthly_rent, description, status, created_at`

func (s *PropertyStore) Create(ctx context.Context, tx Execer, p models.Property) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO properties (id, address, monthly_rent, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.Address, p.MonthlyRent, p.Description, p.Status, p.CreatedAt)
	return err
}

func (s *PropertyStore) Update(ctx context.Context, tx Execer, p models.Property) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE properties
		SET address = $1, monthly_rent = $2, description = $3, status = $4
		WHERE id = $5
	`, p.Address, p.MonthlyRent, p.Description, p.Status, p.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PropertyStore) Delete(ctx context.Context, tx Execer, id string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PropertyStore) GetByID(ctx context.Context, id string) (models.Property, error) {
	var row models.Property
	err := s.db.GetContext(ctx, &row, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
	return row, err
}

func (s *PropertyStore) GetForUpdate(ctx context.Context, tx Getter, id string) (models.Property, error) {
	var row models.Property
	err := tx.GetContext(ctx, &row, `SELECT `+propertyColumns+` FROM properties WHERE id = $1 FOR UPDATE`, id)
	return row, err
}

func (s *PropertyStore) List(ctx context.Context) ([]models.Property, error) {
	rows := []models.Property{}
	err := s.db.SelectContext(ctx, &rows, `SELECT `+propertyColumns+` FROM properties ORDER BY address, id`)
	return rows, err
}

func (s *PropertyStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM properties`)
	return count, err
}
