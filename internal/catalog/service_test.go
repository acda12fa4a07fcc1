package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditya13-hue/zup/internal/domain"
	"github.com/aditya13-hue/zup/internal/ledger"
)

// fakeCache records hits and misses so cache interaction is observable.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*domain.Product
	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*domain.Product{}}
}

func (c *fakeCache) Get(_ context.Context, barcode string) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[barcode]
	if !ok {
		return nil, ErrCacheMiss
	}
	cp := *p
	return &cp, nil
}

func (c *fakeCache) Set(_ context.Context, p *domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *p
	c.entries[p.Barcode] = &cp
	c.sets++
	return nil
}

func (c *fakeCache) Delete(_ context.Context, barcode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, barcode)
	c.deletes++
	return nil
}

func newFixture(t *testing.T) (*Service, *ledger.MemoryProductLedger, *fakeCache) {
	t.Helper()
	products := ledger.NewMemoryProductLedger()
	cache := newFakeCache()
	svc := NewService(products, ledger.NewMemoryStoreLedger(), cache, zerolog.Nop())
	return svc, products, cache
}

func TestGetProduct_FillsCacheOnMiss(t *testing.T) {
	svc, products, cache := newFixture(t)
	ctx := context.Background()

	require.NoError(t, products.Upsert(ctx, &domain.Product{
		Barcode: "123456", Name: "Coca Cola Can", PriceMinor: 4000,
	}))

	p, err := svc.GetProduct(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, "Coca Cola Can", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("40")), "got price %s", p.Price)

	// Cache fill is asynchronous.
	assert.Eventually(t, func() bool {
		cache.mu.Lock()
		defer cache.mu.Unlock()
		return cache.sets == 1
	}, time.Second, 10*time.Millisecond)
}

func TestGetProduct_ServesFromCache(t *testing.T) {
	svc, products, cache := newFixture(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &domain.Product{
		Barcode: "123456", Name: "Cached Cola", PriceMinor: 4000,
	}))
	// Ledger disagrees; the cached copy wins until invalidated.
	require.NoError(t, products.Upsert(ctx, &domain.Product{
		Barcode: "123456", Name: "Ledger Cola", PriceMinor: 9999,
	}))

	p, err := svc.GetProduct(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, "Cached Cola", p.Name)
}

func TestGetProduct_UnknownBarcode(t *testing.T) {
	svc, _, _ := newFixture(t)

	_, err := svc.GetProduct(context.Background(), "000000")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestUpsertProduct_InvalidatesCache(t *testing.T) {
	svc, _, cache := newFixture(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &domain.Product{Barcode: "123456", Name: "Stale"}))

	p := &domain.Product{Barcode: "123456", Name: "Fresh", PriceMinor: 4500}
	require.NoError(t, svc.UpsertProduct(ctx, p))

	cache.mu.Lock()
	_, cached := cache.entries["123456"]
	cache.mu.Unlock()
	assert.False(t, cached, "upsert must drop the cached entry")

	got, err := svc.GetProduct(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, "Fresh", got.Name)
}

func TestRemoveProduct_InvalidatesCache(t *testing.T) {
	svc, products, cache := newFixture(t)
	ctx := context.Background()

	require.NoError(t, products.Upsert(ctx, &domain.Product{Barcode: "123456", Name: "Coca Cola Can"}))
	require.NoError(t, cache.Set(ctx, &domain.Product{Barcode: "123456", Name: "Coca Cola Can"}))

	require.NoError(t, svc.RemoveProduct(ctx, "123456"))

	_, err := svc.GetProduct(ctx, "123456")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestSeed_PopulatesDemoCatalog(t *testing.T) {
	products := ledger.NewMemoryProductLedger()
	stores := ledger.NewMemoryStoreLedger()

	require.NoError(t, Seed(context.Background(), products, stores))

	ps, err := products.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, ps, len(DemoProducts()))

	ss, err := stores.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, ss, len(DemoStores()))
}
