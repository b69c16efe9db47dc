package handlers

import (
	"net/http"
	"strings"

	"rental/internal/currency"
	"rental/internal/ledger"
	"rental/internal/services"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.svc.Reports.Dashboard(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newDashboardView(dashboard))
}

func (h *Handler) SearchOccupancy(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		h.respondServiceError(w, r, ledger.Invalid("date", "is required"))
		return
	}
	at, err := ledger.ParseDate("date", raw)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	occupants, err := h.svc.Reports.OccupantsAt(r.Context(), at)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"date":      ledger.FormatDate(at),
		"occupants": mapViews(occupants, newOccupantView),
	})
}

func (h *Handler) UnitHistory(w http.ResponseWriter, r *http.Request) {
	unitID := chi.URLParam(r, "unit_id")
	events, err := h.svc.Reports.UnitHistory(r.Context(), unitID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"unit_id": unitID,
		"events":  mapViews(events, newHistoryEventView),
	})
}

func (h *Handler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"currencies": currency.List()})
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Settings.Get(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newSettingsView(settings))
}

type settingsRequest struct {
	AppName  *string `json:"app_name"`
	Currency *string `json:"currency"`
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	settings, err := h.svc.Settings.Update(r.Context(), actorID(r), services.SettingsInput{
		AppName:  req.AppName,
		Currency: req.Currency,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newSettingsView(settings))
}
