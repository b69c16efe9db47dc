package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rental/internal/ledger"
	"rental/internal/middleware"
	"rental/internal/money"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func decodeJSON(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return ledger.Invalid("body", "invalid JSON payload")
	}
	return nil
}

func actorID(r *http.Request) string {
	userID, _ := middleware.UserIDFromContext(r.Context())
	return userID
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

// parseMoney reads a decimal amount into minor units. An absent amount is
// zero; callers decide whether zero is acceptable.
func parseMoney(field string, raw money.Amount) (int64, error) {
	if raw.IsZero() {
		return 0, nil
	}
	value, err := raw.Minor()
	if err != nil {
		return 0, ledger.Invalid(field, "must be a decimal amount with at most two decimals")
	}
	return value, nil
}

func parseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	d, err := ledger.ParseDate(field, strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := ledger.FormatDate(*t)
	return &s
}

func formatMoneyPtr(v *int64) *string {
	if v == nil {
		return nil
	}
	s := money.FormatMinor(*v)
	return &s
}
