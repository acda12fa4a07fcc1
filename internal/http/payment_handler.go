package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aditya13-hue/zup/internal/ledger"
	"github.com/aditya13-hue/zup/internal/order"
)

type PaymentHandler struct {
	orders  *order.Service
	timeout time.Duration
}

func NewPaymentHandler(orders *order.Service, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{orders: orders, timeout: timeout}
}

type ConfirmPaymentRequestDTO struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

type ConfirmPaymentResponseDTO struct {
	Verified         bool   `json:"verified"`
	PaymentID        string `json:"payment_id,omitempty"`
	AlreadyConfirmed bool   `json:"already_confirmed,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// POST /payments/confirm
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ConfirmPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.OrderID == "" || req.PaymentID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "order_id and payment_id are required")
		return
	}

	result, err := h.orders.ConfirmPayment(ctx, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrSignatureInvalid):
			respondJSON(w, http.StatusBadRequest, ConfirmPaymentResponseDTO{
				Verified: false,
				Reason:   "signature_invalid",
			})
		case errors.Is(err, ledger.ErrNotFound):
			respondJSON(w, http.StatusNotFound, ConfirmPaymentResponseDTO{
				Verified: false,
				Reason:   "not_found",
			})
		default:
			handleServiceError(w, err)
		}
		return
	}

	respondJSON(w, http.StatusOK, ConfirmPaymentResponseDTO{
		Verified:         true,
		PaymentID:        result.PaymentID,
		AlreadyConfirmed: result.AlreadyConfirmed,
	})
}
