package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/aditya13-hue/zup/internal/ledger"
	"github.com/aditya13-hue/zup/internal/order"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps lifecycle and ledger errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrEmptyCart), errors.Is(err, order.ErrInvalidCart):
		respondError(w, http.StatusBadRequest, "invalid_cart", err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "transaction not found")
	case errors.Is(err, ledger.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", "ledger store unavailable, retry later")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
