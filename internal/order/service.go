// Package order owns the transaction lifecycle: pending at order creation,
// paid after a verified gateway confirmation, nothing else.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aditya13-hue/zup/internal/commission"
	"github.com/aditya13-hue/zup/internal/domain"
	"github.com/aditya13-hue/zup/internal/events"
	"github.com/aditya13-hue/zup/internal/ledger"
	"github.com/aditya13-hue/zup/internal/payment"
)

const (
	// Bounded retry for confirmations racing the order write on stores
	// without read-after-write guarantees across replicas.
	lookupAttempts = 3
	lookupBackoff  = 150 * time.Millisecond
)

// OpenOrderResult is handed back to the client so it can initiate payment.
type OpenOrderResult struct {
	TransactionID string
	Amount        int64
	Currency      string
	Split         commission.Split
}

// ConfirmResult reports a successful (possibly replayed) confirmation.
type ConfirmResult struct {
	PaymentID        string
	AlreadyConfirmed bool
}

// Service is the transaction lifecycle manager.
type Service struct {
	repo     ledger.TransactionLedger
	calc     *commission.Calculator
	verifier *payment.Verifier
	events   events.Publisher
	currency string
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(
	repo ledger.TransactionLedger,
	calc *commission.Calculator,
	verifier *payment.Verifier,
	publisher events.Publisher,
	currency string,
	log zerolog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		calc:     calc,
		verifier: verifier,
		events:   publisher,
		currency: currency,
		log:      log,
		now:      time.Now,
	}
}

// OpenOrder validates the cart, computes the commission split and persists a
// pending transaction. The cart is snapshotted: later mutations on the
// client never touch this order.
func (s *Service) OpenOrder(ctx context.Context, items []domain.LineItem, storeID string) (*OpenOrderResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity %d for barcode %q", ErrInvalidCart, it.Quantity, it.Barcode)
		}
		if it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: negative price for barcode %q", ErrInvalidCart, it.Barcode)
		}
	}

	now := s.now().UTC()
	split := s.calc.Split(items)

	tx := &domain.Transaction{
		ID:             "order_" + uuid.NewString(),
		Amount:         split.GrossAmount,
		Currency:       s.currency,
		Status:         domain.TxStatusPending,
		Items:          domain.NewCartSnapshot(items, now),
		StoreID:        storeID,
		PlatformFee:    split.PlatformFee,
		MerchantPayout: split.MerchantPayout,
		CreatedAt:      now,
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("transaction_id", tx.ID).
		Int64("amount", tx.Amount).
		Int64("platform_fee", tx.PlatformFee).
		Str("store_id", storeID).
		Msg("order opened")

	s.publish(events.Event{
		Type:          events.TypeOrderOpened,
		TransactionID: tx.ID,
		StoreID:       storeID,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		ItemCount:     tx.Items.ItemCount(),
		OccurredAt:    now,
	})

	return &OpenOrderResult{
		TransactionID: tx.ID,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		Split:         split,
	}, nil
}

// ConfirmPayment transitions a pending transaction to paid after the gateway
// signature checks out. Replayed confirmations for an already-paid
// transaction succeed without re-verifying or re-mutating; gateways retry
// webhook delivery.
func (s *Service) ConfirmPayment(ctx context.Context, orderID, paymentID, signature string) (*ConfirmResult, error) {
	tx, err := s.getWithRetry(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if tx.Status == domain.TxStatusPaid {
		s.log.Info().Str("transaction_id", orderID).Msg("duplicate confirmation for paid transaction")
		return &ConfirmResult{PaymentID: tx.PaymentID, AlreadyConfirmed: true}, nil
	}

	if !s.verifier.Verify(orderID, paymentID, signature) {
		s.log.Warn().Str("transaction_id", orderID).Msg("confirmation rejected: signature mismatch")
		return nil, ErrSignatureInvalid
	}

	paidAt := s.now().UTC()
	err = s.repo.MarkPaid(ctx, orderID, paymentID, paidAt)
	if errors.Is(err, ledger.ErrAlreadyPaid) {
		// Lost the race against a concurrent duplicate callback. The record
		// is paid, which is the outcome the caller wanted.
		return &ConfirmResult{PaymentID: paymentID, AlreadyConfirmed: true}, nil
	}
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("transaction_id", orderID).
		Str("payment_id", paymentID).
		Msg("payment confirmed")

	s.publish(events.Event{
		Type:          events.TypePaymentConfirmed,
		TransactionID: orderID,
		StoreID:       tx.StoreID,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		ItemCount:     tx.Items.ItemCount(),
		OccurredAt:    paidAt,
	})

	return &ConfirmResult{PaymentID: paymentID}, nil
}

// getWithRetry re-checks a missing transaction a few times with backoff
// before reporting ErrNotFound. ErrUnavailable is surfaced immediately.
func (s *Service) getWithRetry(ctx context.Context, id string) (*domain.Transaction, error) {
	var lastErr error
	for attempt := 0; attempt < lookupAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(lookupBackoff):
			}
		}

		tx, err := s.repo.Get(ctx, id)
		if err == nil {
			return tx, nil
		}
		if !errors.Is(err, ledger.ErrNotFound) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// publish is fire-and-forget: event delivery failures are logged by the
// publisher and never fail the lifecycle operation.
func (s *Service) publish(e events.Event) {
	if s.events == nil {
		return
	}
	go func() {
		_ = s.events.Publish(context.Background(), e)
	}()
}
