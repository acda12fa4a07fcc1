package catalog

import (
	"context"
	"fmt"

	"github.com/aditya13-hue/zup/internal/domain"
)

// DemoProducts is the starter catalog for demo deployments.
func DemoProducts() []*domain.Product {
	items := []*domain.Product{
		{Barcode: "890106331828", Name: "Britannia Good Day Butter", PriceMinor: 1000, Image: "🍪", Description: "Rich butter cookies, perfect for tea time."},
		{Barcode: "890149110065", Name: "Lays Classic Salted", PriceMinor: 2000, Image: "🥔", Description: "Classic salted potato chips, crispy and delicious."},
		{Barcode: "123456", Name: "Coca Cola Can", PriceMinor: 4000, Image: "🥤", Description: "Refreshing carbonated soft drink."},
		{Barcode: "654321", Name: "Dairy Milk Silk", PriceMinor: 8000, Image: "🍫", Description: "Smooth and creamy chocolate bar."},
		{Barcode: "111222", Name: "Red Bull Energy Drink", PriceMinor: 12500, Image: "⚡", Description: "Vitalizes body and mind."},
		{Barcode: "987654", Name: "Colgate Toothpaste", PriceMinor: 5500, Image: "🪥", Description: "Strong teeth, fresh breath."},
	}
	for _, p := range items {
		p.NormalizePrice()
	}
	return items
}

// DemoStores is the starter store list for demo deployments.
func DemoStores() []*domain.Store {
	return []*domain.Store{
		{ID: "store-mumbai-1", Name: "Zup Flagship - Mumbai", Address: "123 MG Road, Mumbai, Maharashtra", Lat: 19.0760, Lng: 72.8777, RadiusMeters: 100, PayoutAccountID: "acc_MOCK_MUMBAI"},
		{ID: "store-delhi-1", Name: "Zup Express - Delhi", Address: "456 Connaught Place, New Delhi", Lat: 28.6139, Lng: 77.2090, RadiusMeters: 100, PayoutAccountID: "acc_MOCK_DELHI"},
		{ID: "store-bangalore-1", Name: "Zup Central - Bangalore", Address: "789 MG Road, Bangalore, Karnataka", Lat: 12.9716, Lng: 77.5946, RadiusMeters: 100, PayoutAccountID: "acc_MOCK_BANGALORE"},
	}
}

// ProductSeeder and StoreSeeder are implemented by ledger backends that can
// provision catalog records.
type ProductSeeder interface {
	Upsert(ctx context.Context, p *domain.Product) error
}

type StoreSeeder interface {
	Upsert(ctx context.Context, s *domain.Store) error
}

// Seed loads the demo catalog into the given ledgers.
func Seed(ctx context.Context, products ProductSeeder, stores StoreSeeder) error {
	for _, p := range DemoProducts() {
		if err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Barcode, err)
		}
	}
	for _, s := range DemoStores() {
		if err := stores.Upsert(ctx, s); err != nil {
			return fmt.Errorf("seed store %s: %w", s.ID, err)
		}
	}
	return nil
}
