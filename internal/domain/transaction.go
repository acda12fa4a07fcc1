package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxStatus represents the lifecycle state of a transaction.
type TxStatus string

const (
	TxStatusPending TxStatus = "pending"
	TxStatusPaid    TxStatus = "paid"
)

// String representation (for logging)
func (s TxStatus) String() string {
	return string(s)
}

// LineItem is a scanned product as submitted by the shopper's client.
// Prices arrive as decimals in major currency units (rupees, not paise).
type LineItem struct {
	Barcode   string          `json:"barcode"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int32           `json:"qty"`
}

// SnapshotItem is a line item frozen into an order, with money already
// converted to integer minor units.
type SnapshotItem struct {
	Barcode        string `bson:"barcode" json:"barcode"`
	Name           string `bson:"name" json:"name"`
	UnitPriceMinor int64  `bson:"unit_price_minor" json:"unit_price_minor"`
	Quantity       int32  `bson:"quantity" json:"quantity"`
	SubtotalMinor  int64  `bson:"subtotal_minor" json:"subtotal_minor"`
}

// CartSnapshot represents the full cart state at order creation time.
// Later cart mutations never touch an already created order.
type CartSnapshot struct {
	Items      []SnapshotItem `bson:"items" json:"items"`
	CapturedAt time.Time      `bson:"captured_at" json:"captured_at"`
}

// ItemCount is the total number of units across all line items.
func (c CartSnapshot) ItemCount() int32 {
	var n int32
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// minorUnitScale converts major currency units to minor units (rupees to paise).
var minorUnitScale = decimal.NewFromInt(100)

// MinorUnits converts a decimal amount in major currency units to integer
// minor units, rounding to the nearest unit.
func MinorUnits(d decimal.Decimal) int64 {
	return d.Mul(minorUnitScale).Round(0).IntPart()
}

// NewCartSnapshot freezes the submitted line items. Per-item subtotals are
// rounded individually and are display values only; the authoritative gross
// is computed by the commission calculator over the raw decimals.
func NewCartSnapshot(items []LineItem, now time.Time) CartSnapshot {
	frozen := make([]SnapshotItem, 0, len(items))
	for _, it := range items {
		frozen = append(frozen, SnapshotItem{
			Barcode:        it.Barcode,
			Name:           it.Name,
			UnitPriceMinor: MinorUnits(it.UnitPrice),
			Quantity:       it.Quantity,
			SubtotalMinor:  MinorUnits(it.UnitPrice.Mul(decimal.NewFromInt32(it.Quantity))),
		})
	}
	return CartSnapshot{Items: frozen, CapturedAt: now}
}

// Transaction is the authoritative record of one scan-and-go order, keyed by
// ID in the ledger's "transactions" collection. Amounts are integer minor
// units; the record is created pending and mutated exactly once to paid.
type Transaction struct {
	ID             string       `bson:"_id" json:"id"`
	Amount         int64        `bson:"amount" json:"amount"`
	Currency       string       `bson:"currency" json:"currency"`
	Status         TxStatus     `bson:"status" json:"status"`
	Items          CartSnapshot `bson:"items" json:"items"`
	StoreID        string       `bson:"store_id,omitempty" json:"store_id,omitempty"`
	PlatformFee    int64        `bson:"platform_fee" json:"platform_fee"`
	MerchantPayout int64        `bson:"merchant_payout" json:"merchant_payout"`
	PaymentID      string       `bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	CreatedAt      time.Time    `bson:"created_at" json:"created_at"`
	PaidAt         *time.Time   `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
}
