package handlers

import (
	"net/http"
	"strings"

	"rental/internal/ledger"
	"rental/internal/models"
	"rental/internal/money"
	"rental/internal/services"

	"github.com/go-chi/chi/v5"
)

type paymentRequest struct {
	LeaseID     string       `json:"lease_id"`
	PeriodYear  int          `json:"period_year"`
	PeriodMonth int          `json:"period_month"`
	Amount      money.Amount `json:"amount"`
}

func (req paymentRequest) input() (services.PaymentInput, error) {
	if req.Amount.IsZero() {
		return services.PaymentInput{}, ledger.Invalid("amount", "is required")
	}
	amount, err := parseMoney("amount", req.Amount)
	if err != nil {
		return services.PaymentInput{}, err
	}
	return services.PaymentInput{
		LeaseID: req.LeaseID,
		Year:    req.PeriodYear,
		Month:   req.PeriodMonth,
		Amount:  amount,
	}, nil
}

func (h *Handler) paymentView(p models.Payment) paymentView {
	return newPaymentView(p, h.now())
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.Ledger.ListPayments(r.Context(), r.URL.Query().Get("tenant_id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapViews(payments, h.paymentView))
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if strings.TrimSpace(req.LeaseID) == "" {
		h.respondServiceError(w, r, ledger.Invalid("lease_id", "is required"))
		return
	}
	in, err := req.input()
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	payment, err := h.svc.Ledger.RecordPayment(r.Context(), actorID(r), in)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, h.paymentView(payment))
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.svc.Ledger.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.paymentView(payment))
}

func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	payment, err := h.svc.Ledger.UpdatePayment(r.Context(), actorID(r), chi.URLParam(r, "id"), in)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.paymentView(payment))
}

func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ledger.DeletePayment(r.Context(), actorID(r), chi.URLParam(r, "id")); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	payment, err := h.svc.Ledger.MarkPaid(r.Context(), actorID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.paymentView(payment))
}

type receiptRequest struct {
	PaymentID     string `json:"payment_id"`
	TenantID      string `json:"tenant_id"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

func (h *Handler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.svc.Ledger.ListReceipts(r.Context(), r.URL.Query().Get("tenant_id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapViews(receipts, newReceiptView))
}

func (h *Handler) IssueReceipt(w http.ResponseWriter, r *http.Request) {
	var req receiptRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if req.PaymentID == "" {
		h.respondServiceError(w, r, ledger.Invalid("payment_id", "is required"))
		return
	}
	receipt, err := h.svc.Ledger.IssueReceipt(r.Context(), actorID(r), services.ReceiptInput{
		PaymentID:     req.PaymentID,
		TenantID:      req.TenantID,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newReceiptView(receipt))
}

func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.svc.Ledger.GetReceipt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newReceiptView(receipt))
}
