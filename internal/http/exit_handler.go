package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aditya13-hue/zup/internal/gate"
)

type ExitHandler struct {
	gate    *gate.Gate
	timeout time.Duration
}

func NewExitHandler(g *gate.Gate, timeout time.Duration) *ExitHandler {
	return &ExitHandler{gate: g, timeout: timeout}
}

type VerifyRequestDTO struct {
	ReceiptPayload string `json:"receipt_payload,omitempty"`
	TransactionID  string `json:"transaction_id,omitempty"`
}

type VerifyResponseDTO struct {
	Verdict string        `json:"verdict"`
	Reason  string        `json:"reason,omitempty"`
	Summary *gate.Summary `json:"summary,omitempty"`
}

// GET|POST /exit/verify
//
// POST carries {receipt_payload} (scanned QR) or {transaction_id} (manual
// entry); GET accepts the same pair as query parameters for handheld
// scanners that can only issue GETs.
func (h *ExitHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req VerifyRequestDTO
	switch r.Method {
	case http.MethodGet:
		req.ReceiptPayload = r.URL.Query().Get("receipt_payload")
		req.TransactionID = r.URL.Query().Get("transaction_id")
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}

	var (
		verdict *gate.Verdict
		err     error
	)
	switch {
	case req.ReceiptPayload != "":
		verdict, err = h.gate.VerifyPayload(ctx, req.ReceiptPayload)
	case req.TransactionID != "":
		verdict, err = h.gate.VerifyTransaction(ctx, req.TransactionID)
	default:
		respondError(w, http.StatusBadRequest, "invalid_request", "receipt_payload or transaction_id is required")
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if verdict.Admit {
		respondJSON(w, http.StatusOK, VerifyResponseDTO{
			Verdict: "ADMIT",
			Summary: verdict.Summary,
		})
		return
	}

	status := http.StatusBadRequest
	if verdict.Reason == gate.ReasonNotFound {
		status = http.StatusNotFound
	}
	respondJSON(w, status, VerifyResponseDTO{
		Verdict: "DENY",
		Reason:  string(verdict.Reason),
	})
}
