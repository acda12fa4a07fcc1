package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aditya13-hue/zup/internal/domain"
	"github.com/aditya13-hue/zup/internal/ledger"
	"github.com/aditya13-hue/zup/internal/order"
	"github.com/aditya13-hue/zup/internal/receipt"
)

type OrdersHandler struct {
	orders       *order.Service
	transactions ledger.TransactionLedger
	timeout      time.Duration
}

func NewOrdersHandler(orders *order.Service, transactions ledger.TransactionLedger, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{orders: orders, transactions: transactions, timeout: timeout}
}

type CreateOrderRequestDTO struct {
	Items   []domain.LineItem `json:"items"`
	StoreID string            `json:"store_id,omitempty"`
}

type CreateOrderResponseDTO struct {
	TransactionID  string `json:"transaction_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	PlatformFee    int64  `json:"platform_fee"`
	MerchantPayout int64  `json:"merchant_payout"`
}

// POST /orders
func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.orders.OpenOrder(ctx, req.Items, req.StoreID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CreateOrderResponseDTO{
		TransactionID:  result.TransactionID,
		Amount:         result.Amount,
		Currency:       result.Currency,
		PlatformFee:    result.Split.PlatformFee,
		MerchantPayout: result.Split.MerchantPayout,
	})
}

type ReceiptResponseDTO struct {
	TransactionID string `json:"transaction_id"`
	Payload       string `json:"payload"`
}

// GET /orders/{order_id}/receipt
//
// Issues the QR payload for a paid transaction. Pending transactions have
// no receipt.
func (h *OrdersHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	tx, err := h.transactions.Get(ctx, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	payload, err := receipt.Encode(tx)
	if errors.Is(err, receipt.ErrNotPaid) {
		respondError(w, http.StatusConflict, "payment_not_confirmed", "transaction is not paid yet")
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ReceiptResponseDTO{
		TransactionID: tx.ID,
		Payload:       payload,
	})
}