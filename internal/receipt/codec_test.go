package receipt

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditya13-hue/zup/internal/domain"
)

func paidTransaction() *domain.Transaction {
	paidAt := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	return &domain.Transaction{
		ID:       "order_abc123",
		Amount:   100,
		Currency: "INR",
		Status:   domain.TxStatusPaid,
		Items: domain.CartSnapshot{
			Items: []domain.SnapshotItem{
				{Barcode: "123456", Quantity: 2},
				{Barcode: "654321", Quantity: 1},
			},
		},
		PaymentID: "pay_xyz",
		PaidAt:    &paidAt,
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tx := paidTransaction()

	payload, err := Encode(tx)
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)

	assert.Equal(t, tx.ID, decoded.TransactionID)
	assert.Equal(t, tx.Amount, decoded.TotalAmount)
	assert.Equal(t, int32(3), decoded.ItemCount)
	assert.Equal(t, tx.PaidAt.Unix(), decoded.IssuedAt.Unix())
	assert.Equal(t, "PAID", decoded.Status)
}

func TestEncode_PendingTransactionRefused(t *testing.T) {
	tx := paidTransaction()
	tx.Status = domain.TxStatusPending
	tx.PaidAt = nil

	_, err := Encode(tx)
	assert.ErrorIs(t, err, ErrNotPaid)
}

func TestDecode_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":              "",
		"garbage":            "not a receipt",
		"json payload":       `{"id":"order_1","status":"PAID"}`,
		"wrong prefix":       "XYZ9|order_1|100|3|1754051400|PAID",
		"missing field":      "ZUP1|order_1|100|1754051400|PAID",
		"extra field":        "ZUP1|order_1|100|3|1754051400|PAID|extra",
		"empty id":           "ZUP1||100|3|1754051400|PAID",
		"bad amount":         "ZUP1|order_1|10O|3|1754051400|PAID",
		"negative amount":    "ZUP1|order_1|-5|3|1754051400|PAID",
		"bad count":          "ZUP1|order_1|100|three|1754051400|PAID",
		"bad timestamp":      "ZUP1|order_1|100|3|yesterday|PAID",
		"zero timestamp":     "ZUP1|order_1|100|3|0|PAID",
		"unknown status":     "ZUP1|order_1|100|3|1754051400|PENDING",
		"lowercase status":   "ZUP1|order_1|100|3|1754051400|paid",
		"status with spaces": "ZUP1|order_1|100|3|1754051400| PAID",
	}

	for name, payload := range cases {
		_, err := Decode(payload)
		assert.ErrorIs(t, err, ErrMalformed, "case %q", name)
	}
}

func TestDecode_TrimsSurroundingWhitespace(t *testing.T) {
	tx := paidTransaction()
	payload, err := Encode(tx)
	require.NoError(t, err)

	decoded, err := Decode("  " + payload + "\n")
	require.NoError(t, err)
	assert.Equal(t, tx.ID, decoded.TransactionID)
}

func TestEncode_PayloadIsSingleLine(t *testing.T) {
	payload, err := Encode(paidTransaction())
	require.NoError(t, err)
	assert.NotContains(t, payload, "\n")
	assert.Equal(t, fmt.Sprintf("ZUP1|order_abc123|100|3|%d|PAID", paidTransaction().PaidAt.Unix()), payload)
}
