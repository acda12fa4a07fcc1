// Package commission computes the platform/merchant split for a cart.
package commission

import (
	"github.com/shopspring/decimal"

	"github.com/aditya13-hue/zup/internal/domain"
)

// DefaultRateBps is the platform commission applied when none is configured (5%).
const DefaultRateBps = 500

// Split is the reconciliation of one order's gross amount, in integer minor
// units. PlatformFee + MerchantPayout == GrossAmount always holds: the fee
// is rounded first and the payout derived by subtraction.
type Split struct {
	GrossAmount    int64 `json:"gross_amount"`
	PlatformFee    int64 `json:"platform_fee"`
	MerchantPayout int64 `json:"merchant_payout"`
}

// Calculator turns a cart into a commission split at a fixed rate.
type Calculator struct {
	rateBps int64
}

// NewCalculator creates a calculator for the given commission rate in basis
// points. Non-positive rates fall back to the default.
func NewCalculator(rateBps int64) *Calculator {
	if rateBps <= 0 {
		rateBps = DefaultRateBps
	}
	return &Calculator{rateBps: rateBps}
}

// Gross sums unitPrice × quantity over the cart and converts once to integer
// minor units, rounding the total rather than each line.
func (c *Calculator) Gross(items []domain.LineItem) int64 {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt32(it.Quantity)))
	}
	return domain.MinorUnits(total)
}

// Split computes the platform fee and merchant payout for the cart. A nil or
// empty cart yields a zero split; rejecting empty carts is the caller's job.
func (c *Calculator) Split(items []domain.LineItem) Split {
	gross := c.Gross(items)
	fee := decimal.NewFromInt(gross).
		Mul(decimal.NewFromInt(c.rateBps)).
		Div(decimal.NewFromInt(10000)).
		Round(0).
		IntPart()

	return Split{
		GrossAmount:    gross,
		PlatformFee:    fee,
		MerchantPayout: gross - fee,
	}
}
