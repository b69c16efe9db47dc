package store

import (
	"context"

	"rental/internal/models"
)

type UnitStore struct {
	db DB
}

func NewUnitStore(db DB) *UnitStore {
	return &UnitStore{db: db}
}

const unitColumns = `id, property_id, unit_number, unit_type, monthly_rent, bedrooms, bathrooms, surface_area, status, created_at`

func (s *UnitStore) Create(ctx context.Context, tx Execer, u models.Unit) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO units (id, property_id, unit_number, unit_type, monthly_rent, bedrooms, bathrooms, surface_area, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, u.ID, u.PropertyID, u.UnitNumber, u.UnitType, u.MonthlyRent, u.Bedrooms, u.Bathrooms, u.SurfaceArea, u.Status, u.CreatedAt)
	return err
}

// Update rewrites the descriptive fields; a unit never moves to another property.
func (s *UnitStore) Update(ctx context.Context, tx Execer, u models.Unit) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE units
		SET unit_number = $1, unit_type = $2, monthly_rent = $3, bedrooms = $4,
		    bathrooms = $5, surface_area = $6, status = $7
		WHERE id = $8
	`, u.UnitNumber, u.UnitType, u.MonthlyRent, u.Bedrooms, u.Bathrooms, u.SurfaceArea, u.Status, u.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *UnitStore) SetStatus(ctx context.Context, tx Execer, id, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE units SET status = $1 WHERE id = $2`, status, id)
	return err
}

func (s *UnitStore) Delete(ctx context.Context, tx Execer, id string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *UnitStore) DeleteByProperty(ctx context.Context, tx Execer, propertyID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM units WHERE property_id = $1`, propertyID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *UnitStore) GetByID(ctx context.Context, id string) (models.Unit, error) {
	var row models.Unit
	err := s.db.GetContext(ctx, &row, `SELECT `+unitColumns+` FROM units WHERE id = $1`, id)
	return row, err
}

func (s *UnitStore) GetForUpdate(ctx context.Context, tx Getter, id string) (models.Unit, error) {
	var row models.Unit
	err := tx.GetContext(ctx, &row, `SELECT `+unitColumns+` FROM units WHERE id = $1 FOR UPDATE`, id)
	return row, err
}

// List returns all units, or only those of propertyID when it is not empty.
func (s *UnitStore) List(ctx context.Context, propertyID string) ([]models.Unit, error) {
	rows := []models.Unit{}
	if propertyID == "" {
		err := s.db.SelectContext(ctx, &rows, `SELECT `+unitColumns+` FROM units ORDER BY property_id, unit_number`)
		return rows, err
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+unitColumns+`
		FROM units
		WHERE property_id = $1
		ORDER BY unit_number
	`, propertyID)
	return rows, err
}
