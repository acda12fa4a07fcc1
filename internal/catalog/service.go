// Package catalog serves product and store reads for the scanner flow and
// partner inventory writes.
package catalog

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/aditya13-hue/zup/internal/domain"
	"github.com/aditya13-hue/zup/internal/ledger"
)

type Service struct {
	products ledger.ProductLedger
	stores   ledger.StoreLedger
	cache    ProductCache
	sfg      singleflight.Group // Prevents cache stampede on hot barcodes
	log      zerolog.Logger
}

func NewService(products ledger.ProductLedger, stores ledger.StoreLedger, cache ProductCache, log zerolog.Logger) *Service {
	return &Service{
		products: products,
		stores:   stores,
		cache:    cache,
		log:      log,
	}
}

// GetProduct resolves a scanned barcode, preferring the cache. Cache errors
// are logged and ignored; the ledger stays authoritative.
func (s *Service) GetProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	v, err, _ := s.sfg.Do(barcode, func() (interface{}, error) {
		p, err := s.cache.Get(ctx, barcode)
		if err == nil {
			p.NormalizePrice()
			return p, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn().Err(err).Str("barcode", barcode).Msg("product cache get error")
		}

		p, err = s.products.GetByBarcode(ctx, barcode)
		if err != nil {
			return nil, err
		}
		p.NormalizePrice()

		go func() {
			if errSet := s.cache.Set(context.Background(), p); errSet != nil {
				s.log.Warn().Err(errSet).Str("barcode", barcode).Msg("product cache set error")
			}
		}()

		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

// ListProducts returns the full catalog straight from the ledger.
func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		p.NormalizePrice()
	}
	return products, nil
}

// UpsertProduct merges a partner inventory update and invalidates the cache
// entry for the barcode.
func (s *Service) UpsertProduct(ctx context.Context, p *domain.Product) error {
	if err := s.products.Upsert(ctx, p); err != nil {
		return err
	}
	s.invalidate(p.Barcode)
	return nil
}

// RemoveProduct deletes a catalog entry and its cache record.
func (s *Service) RemoveProduct(ctx context.Context, barcode string) error {
	if err := s.products.Delete(ctx, barcode); err != nil {
		return err
	}
	s.invalidate(barcode)
	return nil
}

func (s *Service) GetStore(ctx context.Context, id string) (*domain.Store, error) {
	return s.stores.Get(ctx, id)
}

func (s *Service) ListStores(ctx context.Context) ([]*domain.Store, error) {
	return s.stores.List(ctx)
}

func (s *Service) invalidate(barcode string) {
	if err := s.cache.Delete(context.Background(), barcode); err != nil {
		s.log.Warn().Err(err).Str("barcode", barcode).Msg("product cache invalidate error")
	}
}
