package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry addressable by barcode.
type Product struct {
	Barcode     string          `bson:"_id" json:"barcode"`
	Name        string          `bson:"name" json:"name"`
	Price       decimal.Decimal `bson:"-" json:"price"`
	PriceMinor  int64           `bson:"price_minor" json:"price_minor"`
	Image       string          `bson:"image,omitempty" json:"image,omitempty"`
	Description string          `bson:"description,omitempty" json:"description,omitempty"`
}

// SetPrice fixes both price representations from a decimal major-unit amount.
func (p *Product) SetPrice(d decimal.Decimal) {
	p.Price = d
	p.PriceMinor = MinorUnits(d)
}

// NormalizePrice derives the decimal display price from the stored minor
// units after a ledger read.
func (p *Product) NormalizePrice() {
	p.Price = decimal.New(p.PriceMinor, -2)
}

// Store is a partner store location. Read-only for the order lifecycle.
type Store struct {
	ID              string  `bson:"_id" json:"id"`
	Name            string  `bson:"name" json:"name"`
	Address         string  `bson:"address" json:"address"`
	Lat             float64 `bson:"lat" json:"lat"`
	Lng             float64 `bson:"lng" json:"lng"`
	RadiusMeters    int32   `bson:"radius_m" json:"radius_m"`
	PayoutAccountID string  `bson:"payout_account_id,omitempty" json:"payout_account_id,omitempty"`
}
