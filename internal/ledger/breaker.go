package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/aditya13-hue/zup/internal/domain"
)

// BreakerTransactionLedger wraps a TransactionLedger with a circuit breaker.
// Only ErrUnavailable counts as a failure; ErrNotFound and ErrAlreadyPaid
// are protocol outcomes, not store faults. While the circuit is open every
// call fails fast with ErrUnavailable.
type BreakerTransactionLedger struct {
	next TransactionLedger
	cb   *gobreaker.CircuitBreaker[any]
}

func NewBreakerTransactionLedger(next TransactionLedger) *BreakerTransactionLedger {
	settings := gobreaker.Settings{
		Name:    "transaction-ledger",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrUnavailable)
		},
	}
	return &BreakerTransactionLedger{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (b *BreakerTransactionLedger) execute(fn func() (any, error)) (any, error) {
	v, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrUnavailable
	}
	return v, err
}

func (b *BreakerTransactionLedger) Create(ctx context.Context, tx *domain.Transaction) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.next.Create(ctx, tx)
	})
	return err
}

func (b *BreakerTransactionLedger) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	v, err := b.execute(func() (any, error) {
		return b.next.Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Transaction), nil
}

func (b *BreakerTransactionLedger) MarkPaid(ctx context.Context, id, paymentID string, paidAt time.Time) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.next.MarkPaid(ctx, id, paymentID, paidAt)
	})
	return err
}

func (b *BreakerTransactionLedger) List(ctx context.Context) ([]*domain.Transaction, error) {
	v, err := b.execute(func() (any, error) {
		return b.next.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Transaction), nil
}
