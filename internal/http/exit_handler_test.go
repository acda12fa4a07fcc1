package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditya13-hue/zup/internal/gate"
	"github.com/aditya13-hue/zup/internal/ledger"
	"github.com/aditya13-hue/zup/internal/order"
	"github.com/aditya13-hue/zup/internal/payment"
	"github.com/aditya13-hue/zup/internal/receipt"
)

type exitFixture struct {
	handler *ExitHandler
	service *order.Service
	repo    *ledger.MemoryTransactionLedger
}

func newExitFixture(t *testing.T) *exitFixture {
	t.Helper()
	repo := ledger.NewMemoryTransactionLedger()
	return &exitFixture{
		handler: NewExitHandler(gate.NewGate(repo, zerolog.Nop()), testTimeout),
		service: newTestOrderService(t, repo),
		repo:    repo,
	}
}

func (f *exitFixture) paidReceipt(t *testing.T) (orderID, payload string) {
	t.Helper()
	opened := openTestOrder(t, f.service)
	_, err := f.service.ConfirmPayment(context.Background(), opened.TransactionID, "pay_1",
		payment.ComputeSignature([]byte(testSecret), opened.TransactionID, "pay_1"))
	require.NoError(t, err)

	tx, err := f.repo.Get(context.Background(), opened.TransactionID)
	require.NoError(t, err)
	payload, err = receipt.Encode(tx)
	require.NoError(t, err)
	return opened.TransactionID, payload
}

func TestExitVerify_AdmitsPaidReceipt(t *testing.T) {
	f := newExitFixture(t)
	_, payload := f.paidReceipt(t)

	req := httptest.NewRequest(http.MethodPost, "/exit/verify",
		strings.NewReader(fmt.Sprintf(`{"receipt_payload":%q}`, payload)))
	rec := httptest.NewRecorder()
	f.handler.Verify(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp VerifyResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ADMIT", resp.Verdict)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, int64(100), resp.Summary.Amount)
	assert.Equal(t, int32(3), resp.Summary.ItemCount)
}

func TestExitVerify_GetWithQueryParams(t *testing.T) {
	f := newExitFixture(t)
	_, payload := f.paidReceipt(t)

	target := "/exit/verify?receipt_payload=" + url.QueryEscape(payload)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	f.handler.Verify(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp VerifyResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ADMIT", resp.Verdict)
}

func TestExitVerify_ByTransactionID(t *testing.T) {
	f := newExitFixture(t)
	orderID, _ := f.paidReceipt(t)

	req := httptest.NewRequest(http.MethodPost, "/exit/verify",
		strings.NewReader(fmt.Sprintf(`{"transaction_id":%q}`, orderID)))
	rec := httptest.NewRecorder()
	f.handler.Verify(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp VerifyResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ADMIT", resp.Verdict)
}

func TestExitVerify_DeniesPendingTransaction(t *testing.T) {
	f := newExitFixture(t)
	opened := openTestOrder(t, f.service)

	req := httptest.NewRequest(http.MethodPost, "/exit/verify",
		strings.NewReader(fmt.Sprintf(`{"transaction_id":%q}`, opened.TransactionID)))
	rec := httptest.NewRecorder()
	f.handler.Verify(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp VerifyResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "DENY", resp.Verdict)
	assert.Equal(t, string(gate.ReasonPaymentNotConfirmed), resp.Reason)
	assert.Nil(t, resp.Summary)
}

func TestExitVerify_DeniesUnknownTransaction(t *testing.T) {
	f := newExitFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/exit/verify",
		strings.NewReader(`{"transaction_id":"order_missing"}`))
	rec := httptest.NewRecorder()
	f.handler.Verify(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp VerifyResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "DENY", resp.Verdict)
	assert.Equal(t, string(gate.ReasonNotFound), resp.Reason)
}

func TestExitVerify_DeniesMalformedPayload(t *testing.T) {
	f := newExitFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/exit/verify",
		strings.NewReader(`{"receipt_payload":"not a receipt"}`))
	rec := httptest.NewRecorder()
	f.handler.Verify(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp VerifyResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "DENY", resp.Verdict)
	assert.Equal(t, string(gate.ReasonMalformedReceipt), resp.Reason)
}

func TestExitVerify_EmptyRequest(t *testing.T) {
	f := newExitFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/exit/verify", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	f.handler.Verify(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
