package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aditya13-hue/zup/internal/catalog"
	"github.com/aditya13-hue/zup/internal/ledger"
)

type CatalogHandler struct {
	catalog *catalog.Service
	timeout time.Duration
}

func NewCatalogHandler(c *catalog.Service, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{catalog: c, timeout: timeout}
}

// GET /products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// GET /products/{barcode}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	barcode := chi.URLParam(r, "barcode")
	if barcode == "" {
		respondError(w, http.StatusBadRequest, "missing_barcode", "barcode is required")
		return
	}

	product, err := h.catalog.GetProduct(ctx, barcode)
	if errors.Is(err, ledger.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// GET /stores
func (h *CatalogHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	stores, err := h.catalog.ListStores(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stores)
}

// GET /stores/{store_id}
func (h *CatalogHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	storeID := chi.URLParam(r, "store_id")
	if storeID == "" {
		respondError(w, http.StatusBadRequest, "missing_store_id", "store_id is required")
		return
	}

	store, err := h.catalog.GetStore(ctx, storeID)
	if errors.Is(err, ledger.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "store not found")
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, store)
}
