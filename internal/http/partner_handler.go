package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/aditya13-hue/zup/internal/catalog"
	"github.com/aditya13-hue/zup/internal/domain"
	"github.com/aditya13-hue/zup/internal/ledger"
)

type PartnerHandler struct {
	catalog      *catalog.Service
	transactions ledger.TransactionLedger
	timeout      time.Duration
}

func NewPartnerHandler(c *catalog.Service, transactions ledger.TransactionLedger, timeout time.Duration) *PartnerHandler {
	return &PartnerHandler{catalog: c, transactions: transactions, timeout: timeout}
}

type UpsertProductRequestDTO struct {
	Barcode     string          `json:"barcode"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Description string          `json:"description,omitempty"`
}

// POST /partner/inventory
func (h *PartnerHandler) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpsertProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Barcode == "" {
		respondError(w, http.StatusBadRequest, "missing_barcode", "barcode is required")
		return
	}
	if req.Price.IsNegative() {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}

	product := &domain.Product{
		Barcode:     req.Barcode,
		Name:        req.Name,
		Image:       req.Image,
		Description: req.Description,
	}
	product.SetPrice(req.Price)

	if err := h.catalog.UpsertProduct(ctx, product); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Inventory updated successfully",
		"product": product,
	})
}

// DELETE /partner/inventory/{barcode}
func (h *PartnerHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	barcode := chi.URLParam(r, "barcode")
	if barcode == "" {
		respondError(w, http.StatusBadRequest, "missing_barcode", "barcode is required")
		return
	}

	err := h.catalog.RemoveProduct(ctx, barcode)
	if errors.Is(err, ledger.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product removed"})
}

type RecentTransactionDTO struct {
	ID        string    `json:"id"`
	Total     int64     `json:"total"`
	ItemCount int32     `json:"items"`
	PaidAt    time.Time `json:"date"`
}

type AnalyticsResponseDTO struct {
	TotalRevenue       int64                  `json:"total_revenue"`
	TotalOrders        int                    `json:"total_orders"`
	RecentTransactions []RecentTransactionDTO `json:"recent_transactions"`
}

// GET /partner/analytics
//
// Derived from the authoritative ledger on every call: revenue and order
// count include paid transactions only.
func (h *PartnerHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	txs, err := h.transactions.List(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := AnalyticsResponseDTO{
		RecentTransactions: make([]RecentTransactionDTO, 0, 5),
	}
	for _, tx := range txs {
		if tx.Status != domain.TxStatusPaid || tx.PaidAt == nil {
			continue
		}
		resp.TotalRevenue += tx.Amount
		resp.TotalOrders++
		if len(resp.RecentTransactions) < 5 {
			resp.RecentTransactions = append(resp.RecentTransactions, RecentTransactionDTO{
				ID:        tx.ID,
				Total:     tx.Amount,
				ItemCount: tx.Items.ItemCount(),
				PaidAt:    *tx.PaidAt,
			})
		}
	}

	respondJSON(w, http.StatusOK, resp)
}
