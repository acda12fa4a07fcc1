package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditya13-hue/zup/internal/ledger"
	"github.com/aditya13-hue/zup/internal/payment"
)

func confirmBody(orderID, paymentID, signature string) string {
	return fmt.Sprintf(`{"order_id":%q,"payment_id":%q,"signature":%q}`, orderID, paymentID, signature)
}

func TestConfirmPayment_Verified(t *testing.T) {
	repo := ledger.NewMemoryTransactionLedger()
	svc := newTestOrderService(t, repo)
	h := NewPaymentHandler(svc, testTimeout)

	opened := openTestOrder(t, svc)
	sig := payment.ComputeSignature([]byte(testSecret), opened.TransactionID, "pay_1")

	req := httptest.NewRequest(http.MethodPost, "/payments/confirm",
		strings.NewReader(confirmBody(opened.TransactionID, "pay_1", sig)))
	rec := httptest.NewRecorder()
	h.ConfirmPayment(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ConfirmPaymentResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Verified)
	assert.Equal(t, "pay_1", resp.PaymentID)
	assert.False(t, resp.AlreadyConfirmed)
}

func TestConfirmPayment_ReplayReportsAlreadyConfirmed(t *testing.T) {
	repo := ledger.NewMemoryTransactionLedger()
	svc := newTestOrderService(t, repo)
	h := NewPaymentHandler(svc, testTimeout)

	opened := openTestOrder(t, svc)
	sig := payment.ComputeSignature([]byte(testSecret), opened.TransactionID, "pay_1")
	body := confirmBody(opened.TransactionID, "pay_1", sig)

	for i, wantReplay := range []bool{false, true} {
		req := httptest.NewRequest(http.MethodPost, "/payments/confirm", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.ConfirmPayment(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, "delivery %d", i)

		var resp ConfirmPaymentResponseDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Verified)
		assert.Equal(t, wantReplay, resp.AlreadyConfirmed, "delivery %d", i)
	}
}

func TestConfirmPayment_InvalidSignature(t *testing.T) {
	repo := ledger.NewMemoryTransactionLedger()
	svc := newTestOrderService(t, repo)
	h := NewPaymentHandler(svc, testTimeout)

	opened := openTestOrder(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/payments/confirm",
		strings.NewReader(confirmBody(opened.TransactionID, "pay_1", "forged")))
	rec := httptest.NewRecorder()
	h.ConfirmPayment(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ConfirmPaymentResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Verified)
	assert.Equal(t, "signature_invalid", resp.Reason)
}

func TestConfirmPayment_UnknownOrder(t *testing.T) {
	repo := ledger.NewMemoryTransactionLedger()
	h := NewPaymentHandler(newTestOrderService(t, repo), testTimeout)

	sig := payment.ComputeSignature([]byte(testSecret), "order_missing", "pay_1")
	req := httptest.NewRequest(http.MethodPost, "/payments/confirm",
		strings.NewReader(confirmBody("order_missing", "pay_1", sig)))
	rec := httptest.NewRecorder()
	h.ConfirmPayment(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ConfirmPaymentResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Verified)
	assert.Equal(t, "not_found", resp.Reason)
}

func TestConfirmPayment_MissingFields(t *testing.T) {
	repo := ledger.NewMemoryTransactionLedger()
	h := NewPaymentHandler(newTestOrderService(t, repo), testTimeout)

	req := httptest.NewRequest(http.MethodPost, "/payments/confirm",
		strings.NewReader(`{"payment_id":"pay_1"}`))
	rec := httptest.NewRecorder()
	h.ConfirmPayment(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
