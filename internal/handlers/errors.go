package handlers

import (
	"errors"
	"net/http"

	"rental/internal/ledger"
	"rental/internal/store"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// respondServiceError is the single place where ledger error kinds become
// HTTP statuses.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *ledger.ValidationError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &validation):
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Error: validation.Error(),
			Code:  ledger.Kind(err),
			Field: validation.Field,
		})
	case errors.As(err, &tooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
	case errors.Is(err, ledger.ErrNotFound):
		respondError(w, http.StatusNotFound, ledger.Kind(err), err.Error())
	case errors.Is(err, ledger.ErrConflict):
		respondError(w, http.StatusConflict, ledger.Kind(err), err.Error())
	case errors.Is(err, ledger.ErrPreconditionFailed):
		respondError(w, http.StatusPreconditionFailed, ledger.Kind(err), err.Error())
	case errors.Is(err, ledger.ErrMalformedSnapshot):
		respondError(w, http.StatusBadRequest, ledger.Kind(err), err.Error())
	case store.IsUniqueViolation(err):
		respondError(w, http.StatusConflict, "conflict", "resource already exists")
	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
