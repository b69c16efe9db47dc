package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"rental/internal/ledger"
	"rental/internal/snapshot"

	"go.uber.org/zap"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

func (h *Handler) Backup(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Backup.Export(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="rental-backup-%s.json"`, ledger.FormatDate(snap.ExportedAt)))
	w.WriteHeader(http.StatusOK)
	if err := snapshot.Encode(w, snap); err != nil {
		h.logger.Warn("backup stream interrupted", zap.Error(err))
	}
}

// Restore reads the whole body before decoding so an oversized upload is
// reported as such rather than as a malformed snapshot.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.cfg.MaxRestoreBytes))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	result, err := h.svc.Backup.Restore(r.Context(), actorID(r), bytes.NewReader(body))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message":          "restore completed",
		"restored_records": result.RestoredRecords,
		"restore_date":     result.RestoredAt,
	})
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parseInt(query.Get("limit"), defaultAuditLimit)
	if limit == 0 || limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	offset := parseInt(query.Get("offset"), 0)
	logs, err := h.audit.List(r.Context(), query.Get("entity_type"), limit, offset)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"items":  logs,
		"limit":  limit,
		"offset": offset,
	})
}
