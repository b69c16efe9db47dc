package services

import (
	"context"
	"fmt"
	"strings"

	"rental/internal/ledger"
	"rental/internal/models"
	"rental/internal/store"
	"rental/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrDuplicateUnitNumber = fmt.Errorf("%w: unit number already exists for this property", ledger.ErrConflict)

// CatalogService manages properties, units and tenants.
type CatalogService struct {
	deps       Deps
	properties PropertyStore
	units      UnitStore
	tenants    TenantStore
	leases     LeaseStore
}

func NewCatalogService(deps Deps, properties PropertyStore, units UnitStore, tenants TenantStore, leases LeaseStore) *CatalogService {
	return &CatalogService{
		deps:       deps.withDefaults(),
		properties: properties,
		units:      units,
		tenants:    tenants,
		leases:     leases,
	}
}

type PropertyInput struct {
	Address     string
	MonthlyRent int64
	Description string
	Status      string
}

func (in *PropertyInput) normalize() error {
	in.Address = strings.TrimSpace(in.Address)
	in.Description = strings.TrimSpace(in.Description)
	if in.Address == "" {
		return ledger.Invalid("address", "is required")
	}
	if in.MonthlyRent < 0 {
		return ledger.Invalid("monthly_rent", "must not be negative")
	}
	if in.Status == "" {
		in.Status = models.StatusAvailable
	}
	if !validator.IsOccupancyStatus(in.Status) {
		return ledger.Invalid("status", "must be available, occupied or maintenance")
	}
	return nil
}

func (s *CatalogService) CreateProperty(ctx context.Context, actorID string, in PropertyInput) (models.Property, error) {
	if err := in.normalize(); err != nil {
		return models.Property{}, err
	}
	p := models.Property{
		ID:          uuid.NewString(),
		Address:     in.Address,
		MonthlyRent: in.MonthlyRent,
		Description: in.Description,
		Status:      in.Status,
		CreatedAt:   s.deps.now(),
	}
	err := s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.properties.Create(ctx, tx, p); err != nil {
			return err
		}
		return s.deps.audit(ctx, tx, actorID, "property.create", "property", p.ID, map[string]any{"address": p.Address})
	})
	if err != nil {
		return models.Property{}, err
	}
	s.deps.committed(ctx, "property.changed", p.ID)
	return p, nil
}

func (s *CatalogService) UpdateProperty(ctx context.Context, actorID, id string, in PropertyInput) (models.Property, error) {
	if err := in.normalize(); err != nil {
		return models.Property{}, err
	}
	var updated models.Property
	err := s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.properties.GetForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, "property", id)
		}
		current.Address = in.Address
		current.MonthlyRent = in.MonthlyRent
		current.Description = in.Description
		current.Status = in.Status
		if err := notFound(affected(s.properties.Update(ctx, tx, current)), "property", id); err != nil {
			return err
		}
		updated = current
		return s.deps.audit(ctx, tx, actorID, "property.update", "property", id, nil)
	})
	if err != nil {
		return models.Property{}, err
	}
	s.deps.committed(ctx, "property.changed", id)
	return updated, nil
}

// DeleteProperty removes a property and its units. It is refused while any
// lease references the property.
func (s *CatalogService) DeleteProperty(ctx context.Context, actorID, id string) error {
	err := s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.properties.GetForUpdate(ctx, tx, id); err != nil {
			return notFound(err, "property", id)
		}
		leases, err := s.leases.CountByProperty(ctx, tx, id)
		if err != nil {
			return err
		}
		if leases > 0 {
			return ledger.InUse("property", "leases")
		}
		removed, err := s.units.DeleteByProperty(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := notFound(affected(s.properties.Delete(ctx, tx, id)), "property", id); err != nil {
			return err
		}
		return s.deps.audit(ctx, tx, actorID, "property.delete", "property", id, map[string]any{"units_removed": removed})
	})
	if err != nil {
		return err
	}
	s.deps.committed(ctx, "property.changed", id)
	return nil
}

func (s *CatalogService) GetProperty(ctx context.Context, id string) (models.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return models.Property{}, notFound(err, "property", id)
	}
	return p, nil
}

func (s *CatalogService) ListProperties(ctx context.Context) ([]models.Property, error) {
	return s.properties.List(ctx)
}

type UnitInput struct {
	PropertyID  string
	UnitNumber  string
	UnitType    string
	MonthlyRent int64
	Bedrooms    int
	Bathrooms   int
	SurfaceArea int
	Status      string
}

func (in *UnitInput) normalize() error {
	in.UnitNumber = strings.TrimSpace(in.UnitNumber)
	if strings.TrimSpace(in.PropertyID) == "" {
		return ledger.Invalid("property_id", "is required")
	}
	if in.UnitNumber == "" {
		return ledger.Invalid("unit_number", "is required")
	}
	if in.UnitType == "" {
		in.UnitType = "apartment"
	}
	if !validator.IsUnitType(in.UnitType) {
		return ledger.Invalid("unit_type", "must be apartment, studio, house or commercial")
	}
	if in.MonthlyRent < 0 {
		return ledger.Invalid("monthly_rent", "must not be negative")
	}
	if in.Bedrooms < 0 {
		return ledger.Invalid("bedrooms", "must not be negative")
	}
	if in.Bathrooms < 0 {
		return ledger.Invalid("bathrooms", "must not be negative")
	}
	if in.SurfaceArea < 0 {
		return ledger.Invalid("surface_area", "must not be negative")
	}
	if in.Status == "" {
		in.Status = models.StatusAvailable
	}
	if !validator.IsOccupancyStatus(in.Status) {
		return ledger.Invalid("status", "must be available, occupied or maintenance")
	}
	return nil
}

func (s *CatalogService) CreateUnit(ctx context.Context, actorID string, in UnitInput) (models.Unit, error) {
	if err := in.normalize(); err != nil {
		return models.Unit{}, err
	}
	u := models.Unit{
		ID:          uuid.NewString(),
		PropertyID:  in.PropertyID,
		UnitNumber:  in.UnitNumber,
		UnitType:    in.UnitType,
		MonthlyRent: in.MonthlyRent,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		SurfaceArea: in.SurfaceArea,
		// A new unit has no lease, so it can only be available or under maintenance.
		Status:    ledger.UnitStatusFor(in.Status, false),
		CreatedAt: s.deps.now(),
	}
	err := s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.properties.GetForUpdate(ctx, tx, in.PropertyID); err != nil {
			return notFound(err, "property", in.PropertyID)
		}
		if err := s.units.Create(ctx, tx, u); err != nil {
			if store.IsUniqueViolation(err) {
				return ErrDuplicateUnitNumber
			}
			return err
		}
		return s.deps.audit(ctx, tx, actorID, "unit.create", "unit", u.ID, map[string]any{"property_id": u.PropertyID, "unit_number": u.UnitNumber})
	})
	if err != nil {
		return models.Unit{}, err
	}
	s.deps.committed(ctx, "unit.changed", u.ID)
	return u, nil
}

// UpdateUnit amends a unit in place. A unit never moves between properties,
// and only maintenance can be set by hand; otherwise status follows leases.
func (s *CatalogService) UpdateUnit(ctx context.Context, actorID, id string, in UnitInput) (models.Unit, error) {
	var updated models.Unit
	err := s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.units.GetForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, "unit", id)
		}
		if in.PropertyID == "" {
			in.PropertyID = current.PropertyID
		}
		if in.PropertyID != current.PropertyID {
			return ledger.Invalid("property_id", "cannot be changed")
		}
		if err := in.normalize(); err != nil {
			return err
		}
		leases, err := s.leases.ListByUnit(ctx, tx, id)
		if err != nil {
			return err
		}
		current.UnitNumber = in.UnitNumber
		current.UnitType = in.UnitType
		current.MonthlyRent = in.MonthlyRent
		current.Bedrooms = in.Bedrooms
		current.Bathrooms = in.Bathrooms
		current.SurfaceArea = in.SurfaceArea
		current.Status = ledger.UnitStatusFor(in.Status, anyActive(leases, s.deps.now()))
		if err := notFound(affected(s.units.Update(ctx, tx, current)), "unit", id); err != nil {
			if store.IsUniqueViolation(err) {
				return ErrDuplicateUnitNumber
			}
			return err
		}
		updated = current
		return s.deps.audit(ctx, tx, actorID, "unit.update", "unit", id, nil)
	})
	if err != nil {
		return models.Unit{}, err
	}
	s.deps.committed(ctx, "unit.changed", id)
	return updated, nil
}

func (s *CatalogService) DeleteUnit(ctx context.Context, actorID, id string) error {
	err := s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.units.GetForUpdate(ctx, tx, id); err != nil {
			return notFound(err, "unit", id)
		}
		leases, err := s.leases.CountByUnit(ctx, tx, id)
		if err != nil {
			return err
		}
		if leases > 0 {
			return ledger.InUse("unit", "leases")
		}
		if err := notFound(affected(s.units.Delete(ctx, tx, id)), "unit", id); err != nil {
			return err
		}
		return s.deps.audit(ctx, tx, actorID, "unit.delete", "unit", id, nil)
	})
	if err != nil {
		return err
	}
	s.deps.committed(ctx, "unit.changed", id)
	return nil
}

func (s *CatalogService) GetUnit(ctx context.Context, id string) (models.Unit, error) {
	u, err := s.units.GetByID(ctx, id)
	if err != nil {
		return models.Unit{}, notFound(err, "unit", id)
	}
	return u, nil
}

// ListUnits lists all units, or one property's when propertyID is set.
func (s *CatalogService) ListUnits(ctx context.Context, propertyID string) ([]models.Unit, error) {
	if propertyID != "" {
		if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
			return nil, notFound(err, "property", propertyID)
		}
	}
	return s.units.List(ctx, propertyID)
}

type TenantInput struct {
	Name  string
	Email string
	Phone string
}

func (in *TenantInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" {
		return ledger.Invalid("name", "is required")
	}
	if err := validator.ValidateOptionalEmail(in.Email); err != nil {
		return ledger.Invalid("email", err.Error())
	}
	if err := validator.ValidatePhone(in.Phone); err != nil {
		return ledger.Invalid("phone", err.Error())
	}
	return nil
}

func (s *CatalogService) CreateTenant(ctx context.Context, actorID string, in TenantInput) (models.Tenant, error) {
	if err := in.normalize(); err != nil {
		return models.Tenant{}, err
	}
	t := models.Tenant{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: s.deps.now(),
	}
	err := s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.tenants.Create(ctx, tx, t); err != nil {
			return err
		}
		return s.deps.audit(ctx, tx, actorID, "tenant.create", "tenant", t.ID, map[string]any{"name": t.Name})
	})
	if err != nil {
		return models.Tenant{}, err
	}
	s.deps.committed(ctx, "tenant.changed", t.ID)
	return t, nil
}

func (s *CatalogService) UpdateTenant(ctx context.Context, actorID, id string, in TenantInput) (models.Tenant, error) {
	if err := in.normalize(); err != nil {
		return models.Tenant{}, err
	}
	current, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return models.Tenant{}, notFound(err, "tenant", id)
	}
	current.Name = in.Name
	current.Email = in.Email
	current.Phone = in.Phone
	err = s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := notFound(affected(s.tenants.Update(ctx, tx, current)), "tenant", id); err != nil {
			return err
		}
		return s.deps.audit(ctx, tx, actorID, "tenant.update", "tenant", id, nil)
	})
	if err != nil {
		return models.Tenant{}, err
	}
	s.deps.committed(ctx, "tenant.changed", id)
	return current, nil
}

func (s *CatalogService) DeleteTenant(ctx context.Context, actorID, id string) error {
	err := s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		leases, err := s.leases.CountByTenant(ctx, tx, id)
		if err != nil {
			return err
		}
		if leases > 0 {
			return ledger.InUse("tenant", "leases")
		}
		if err := notFound(affected(s.tenants.Delete(ctx, tx, id)), "tenant", id); err != nil {
			return err
		}
		return s.deps.audit(ctx, tx, actorID, "tenant.delete", "tenant", id, nil)
	})
	if err != nil {
		return err
	}
	s.deps.committed(ctx, "tenant.changed", id)
	return nil
}

func (s *CatalogService) GetTenant(ctx context.Context, id string) (models.Tenant, error) {
	t, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return models.Tenant{}, notFound(err, "tenant", id)
	}
	return t, nil
}

func (s *CatalogService) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	return s.tenants.List(ctx)
}
