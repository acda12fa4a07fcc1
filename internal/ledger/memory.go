package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aditya13-hue/zup/internal/domain"
)

// MemoryTransactionLedger is a process-local TransactionLedger guarded by a
// mutex. Selected via configuration for demo deployments; data is lost on
// restart. Records are copied on the way in and out so callers cannot
// mutate the stored state.
type MemoryTransactionLedger struct {
	mu  sync.RWMutex
	txs map[string]*domain.Transaction
}

func NewMemoryTransactionLedger() *MemoryTransactionLedger {
	return &MemoryTransactionLedger{txs: make(map[string]*domain.Transaction)}
}

func (m *MemoryTransactionLedger) Create(_ context.Context, tx *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *tx
	m.txs[tx.ID] = &cp
	return nil
}

func (m *MemoryTransactionLedger) Get(_ context.Context, id string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tx, ok := m.txs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (m *MemoryTransactionLedger) MarkPaid(_ context.Context, id, paymentID string, paidAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, ok := m.txs[id]
	if !ok {
		return ErrNotFound
	}
	if tx.Status != domain.TxStatusPending {
		return ErrAlreadyPaid
	}

	tx.Status = domain.TxStatusPaid
	tx.PaymentID = paymentID
	tx.PaidAt = &paidAt
	return nil
}

func (m *MemoryTransactionLedger) List(_ context.Context) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	txs := make([]*domain.Transaction, 0, len(m.txs))
	for _, tx := range m.txs {
		cp := *tx
		txs = append(txs, &cp)
	}
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return txs, nil
}

// MemoryProductLedger is a process-local ProductLedger.
type MemoryProductLedger struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

func NewMemoryProductLedger() *MemoryProductLedger {
	return &MemoryProductLedger{products: make(map[string]*domain.Product)}
}

func (m *MemoryProductLedger) GetByBarcode(_ context.Context, barcode string) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[barcode]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryProductLedger) List(_ context.Context) ([]*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		cp := *p
		products = append(products, &cp)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Barcode < products[j].Barcode
	})
	return products, nil
}

func (m *MemoryProductLedger) Upsert(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *p
	if existing, ok := m.products[p.Barcode]; ok {
		// Merge: empty incoming fields keep the existing value.
		if cp.Name == "" {
			cp.Name = existing.Name
		}
		if cp.Image == "" {
			cp.Image = existing.Image
		}
		if cp.Description == "" {
			cp.Description = existing.Description
		}
	}
	m.products[p.Barcode] = &cp
	return nil
}

func (m *MemoryProductLedger) Delete(_ context.Context, barcode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[barcode]; !ok {
		return ErrNotFound
	}
	delete(m.products, barcode)
	return nil
}

// MemoryStoreLedger is a process-local StoreLedger.
type MemoryStoreLedger struct {
	mu     sync.RWMutex
	stores map[string]*domain.Store
}

func NewMemoryStoreLedger() *MemoryStoreLedger {
	return &MemoryStoreLedger{stores: make(map[string]*domain.Store)}
}

func (m *MemoryStoreLedger) Get(_ context.Context, id string) (*domain.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.stores[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStoreLedger) List(_ context.Context) ([]*domain.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stores := make([]*domain.Store, 0, len(m.stores))
	for _, s := range m.stores {
		cp := *s
		stores = append(stores, &cp)
	}
	sort.Slice(stores, func(i, j int) bool {
		return stores[i].ID < stores[j].ID
	})
	return stores, nil
}

func (m *MemoryStoreLedger) Upsert(_ context.Context, s *domain.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	m.stores[s.ID] = &cp
	return nil
}
