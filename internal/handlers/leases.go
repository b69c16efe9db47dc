package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"rental/internal/ledger"
	"rental/internal/money"
	"rental/internal/services"
	"rental/internal/store"

	"github.com/go-chi/chi/v5"
)

type leaseRequest struct {
	TenantID    string       `json:"tenant_id"`
	UnitID      string       `json:"unit_id"`
	StartDate   string       `json:"start_date"`
	EndDate     *string      `json:"end_date"`
	MonthlyRent money.Amount `json:"monthly_rent"`
}

func (req leaseRequest) input() (services.LeaseInput, error) {
	start, err := ledger.ParseDate("start_date", req.StartDate)
	if err != nil {
		return services.LeaseInput{}, err
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		return services.LeaseInput{}, err
	}
	in := services.LeaseInput{
		TenantID:  req.TenantID,
		UnitID:    req.UnitID,
		StartDate: start,
		EndDate:   end,
	}
	if !req.MonthlyRent.IsZero() {
		rent, err := parseMoney("monthly_rent", req.MonthlyRent)
		if err != nil {
			return services.LeaseInput{}, err
		}
		in.MonthlyRent = &rent
	}
	return in, nil
}

// leaseAmendRequest distinguishes an absent end_date (unchanged) from an
// explicit null (the lease becomes open-ended).
type leaseAmendRequest struct {
	StartDate   *string         `json:"start_date"`
	EndDate     json.RawMessage `json:"end_date"`
	MonthlyRent money.Amount    `json:"monthly_rent"`
}

func (req leaseAmendRequest) amendment() (services.LeaseAmendment, error) {
	var out services.LeaseAmendment
	var err error
	if out.StartDate, err = parseOptionalDate("start_date", req.StartDate); err != nil {
		return out, err
	}
	if len(req.EndDate) > 0 {
		if bytes.Equal(bytes.TrimSpace(req.EndDate), []byte("null")) {
			out.ClearEnd = true
		} else {
			var raw string
			if err := json.Unmarshal(req.EndDate, &raw); err != nil {
				return out, ledger.Invalid("end_date", "must be a date in YYYY-MM-DD format or null")
			}
			if out.EndDate, err = parseOptionalDate("end_date", &raw); err != nil {
				return out, err
			}
		}
	}
	if !req.MonthlyRent.IsZero() {
		rent, err := parseMoney("monthly_rent", req.MonthlyRent)
		if err != nil {
			return out, err
		}
		out.MonthlyRent = &rent
	}
	return out, nil
}

func (h *Handler) ListLeases(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	leases, err := h.svc.Leases.List(r.Context(), store.LeaseFilter{
		UnitID:   query.Get("unit_id"),
		TenantID: query.Get("tenant_id"),
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapViews(leases, newLeaseView))
}

func (h *Handler) CreateLease(w http.ResponseWriter, r *http.Request) {
	var req leaseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	lease, err := h.svc.Leases.Create(r.Context(), actorID(r), in)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newLeaseView(lease))
}

func (h *Handler) GetLease(w http.ResponseWriter, r *http.Request) {
	lease, err := h.svc.Leases.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newLeaseView(lease))
}

func (h *Handler) AmendLease(w http.ResponseWriter, r *http.Request) {
	var req leaseAmendRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	amendment, err := req.amendment()
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	lease, err := h.svc.Leases.Amend(r.Context(), actorID(r), chi.URLParam(r, "id"), amendment)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newLeaseView(lease))
}

func (h *Handler) DeleteLease(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Leases.Delete(r.Context(), actorID(r), chi.URLParam(r, "id")); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
