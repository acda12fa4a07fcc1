package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/aditya13-hue/zup/internal/domain"
)

// Common errors returned by ledger implementations.
var (
	ErrNotFound    = errors.New("record not found")
	ErrAlreadyPaid = errors.New("transaction already paid")
	ErrUnavailable = errors.New("ledger store unavailable")
)

// TransactionLedger owns the "transactions" collection.
// Consumers define this interface, not the storage implementation.
type TransactionLedger interface {
	// Create persists a new transaction keyed by its ID.
	Create(ctx context.Context, tx *domain.Transaction) error

	// Get returns the transaction for the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Transaction, error)

	// MarkPaid transitions a pending transaction to paid, setting payment id
	// and paid timestamp. Returns ErrAlreadyPaid if the transaction is no
	// longer pending, ErrNotFound if it does not exist. The transition is
	// conditional on the stored status, so concurrent duplicate confirmations
	// mutate at most once.
	MarkPaid(ctx context.Context, id, paymentID string, paidAt time.Time) error

	// List returns all transactions, newest first.
	List(ctx context.Context) ([]*domain.Transaction, error)
}

// ProductLedger owns the "products" collection, keyed by barcode.
type ProductLedger interface {
	GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	// Upsert merges the product into an existing record or creates it.
	Upsert(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, barcode string) error
}

// StoreLedger owns the "stores" collection. Read-only here; stores are
// provisioned out of band (see cmd/seed).
type StoreLedger interface {
	Get(ctx context.Context, id string) (*domain.Store, error)
	List(ctx context.Context) ([]*domain.Store, error)
}
