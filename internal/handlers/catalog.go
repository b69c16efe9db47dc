package handlers

import (
	"net/http"

	"rental/internal/money"
	"rental/internal/services"

	"github.com/go-chi/chi/v5"
)

type propertyRequest struct {
	Address     string       `json:"address"`
	MonthlyRent money.Amount `json:"monthly_rent"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
}

func (req propertyRequest) input() (services.PropertyInput, error) {
	rent, err := parseMoney("monthly_rent", req.MonthlyRent)
	if err != nil {
		return services.PropertyInput{}, err
	}
	return services.PropertyInput{
		Address:     req.Address,
		MonthlyRent: rent,
		Description: req.Description,
		Status:      req.Status,
	}, nil
}

func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.svc.Catalog.ListProperties(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapViews(properties, newPropertyView))
}

func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	property, err := h.svc.Catalog.CreateProperty(r.Context(), actorID(r), in)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newPropertyView(property))
}

func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	property, err := h.svc.Catalog.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPropertyView(property))
}

func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	property, err := h.svc.Catalog.UpdateProperty(r.Context(), actorID(r), chi.URLParam(r, "id"), in)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPropertyView(property))
}

func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Catalog.DeleteProperty(r.Context(), actorID(r), chi.URLParam(r, "id")); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type unitRequest struct {
	PropertyID  string       `json:"property_id"`
	UnitNumber  string       `json:"unit_number"`
	UnitType    string       `json:"unit_type"`
	MonthlyRent money.Amount `json:"monthly_rent"`
	Bedrooms    int          `json:"bedrooms"`
	Bathrooms   int          `json:"bathrooms"`
	SurfaceArea int          `json:"surface_area"`
	Status      string       `json:"status"`
}

func (req unitRequest) input() (services.UnitInput, error) {
	rent, err := parseMoney("monthly_rent", req.MonthlyRent)
	if err != nil {
		return services.UnitInput{}, err
	}
	return services.UnitInput{
		PropertyID:  req.PropertyID,
		UnitNumber:  req.UnitNumber,
		UnitType:    req.UnitType,
		MonthlyRent: rent,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		SurfaceArea: req.SurfaceArea,
		Status:      req.Status,
	}, nil
}

func (h *Handler) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.svc.Catalog.ListUnits(r.Context(), r.URL.Query().Get("property_id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapViews(units, newUnitView))
}

func (h *Handler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	unit, err := h.svc.Catalog.CreateUnit(r.Context(), actorID(r), in)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newUnitView(unit))
}

func (h *Handler) GetUnit(w http.ResponseWriter, r *http.Request) {
	unit, err := h.svc.Catalog.GetUnit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newUnitView(unit))
}

func (h *Handler) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	unit, err := h.svc.Catalog.UpdateUnit(r.Context(), actorID(r), chi.URLParam(r, "id"), in)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newUnitView(unit))
}

func (h *Handler) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Catalog.DeleteUnit(r.Context(), actorID(r), chi.URLParam(r, "id")); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type tenantRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (req tenantRequest) input() services.TenantInput {
	return services.TenantInput{Name: req.Name, Email: req.Email, Phone: req.Phone}
}

func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.svc.Catalog.ListTenants(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tenants)
}

func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	tenant, err := h.svc.Catalog.CreateTenant(r.Context(), actorID(r), req.input())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, tenant)
}

func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	tenant, err := h.svc.Catalog.GetTenant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tenant)
}

func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	tenant, err := h.svc.Catalog.UpdateTenant(r.Context(), actorID(r), chi.URLParam(r, "id"), req.input())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tenant)
}

func (h *Handler) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Catalog.DeleteTenant(r.Context(), actorID(r), chi.URLParam(r, "id")); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
