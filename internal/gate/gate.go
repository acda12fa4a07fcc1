// Package gate renders the admit/deny verdict at the physical exit.
package gate

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/aditya13-hue/zup/internal/domain"
	"github.com/aditya13-hue/zup/internal/ledger"
	"github.com/aditya13-hue/zup/internal/receipt"
)

// Reason explains a deny verdict. These are expected, frequent outcomes of
// the protocol, not faults.
type Reason string

const (
	ReasonMalformedReceipt    Reason = "MalformedReceipt"
	ReasonNotFound            Reason = "NotFound"
	ReasonPaymentNotConfirmed Reason = "PaymentNotConfirmed"
)

// Summary is the staff-facing display for an admitted shopper. Every field
// comes from the authoritative transaction record; the scanned payload is
// never trusted for amounts.
type Summary struct {
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	ItemCount int32     `json:"item_count"`
	PaidAt    time.Time `json:"paid_at"`
}

// Verdict is the outcome of one scan event.
type Verdict struct {
	Admit   bool
	Reason  Reason
	Summary *Summary
}

// Gate checks scanned receipts against the transaction ledger. Every scan
// runs the full decode-then-lookup sequence; verdicts are never cached
// because the transaction's stored state is the single source of truth at
// scan time.
type Gate struct {
	repo ledger.TransactionLedger
	log  zerolog.Logger
}

func NewGate(repo ledger.TransactionLedger, log zerolog.Logger) *Gate {
	return &Gate{repo: repo, log: log}
}

// VerifyPayload decodes a scanned QR payload and renders a verdict. The
// returned error is non-nil only when the ledger store is unreachable.
func (g *Gate) VerifyPayload(ctx context.Context, payload string) (*Verdict, error) {
	decoded, err := receipt.Decode(payload)
	if err != nil {
		g.log.Info().Err(err).Msg("exit scan rejected: undecodable payload")
		return &Verdict{Admit: false, Reason: ReasonMalformedReceipt}, nil
	}
	return g.VerifyTransaction(ctx, decoded.TransactionID)
}

// VerifyTransaction renders a verdict for a transaction id directly (manual
// entry in the partner verification flow).
func (g *Gate) VerifyTransaction(ctx context.Context, id string) (*Verdict, error) {
	tx, err := g.repo.Get(ctx, id)
	if errors.Is(err, ledger.ErrNotFound) {
		g.log.Info().Str("transaction_id", id).Msg("exit scan denied: unknown transaction")
		return &Verdict{Admit: false, Reason: ReasonNotFound}, nil
	}
	if err != nil {
		return nil, err
	}

	if tx.Status != domain.TxStatusPaid || tx.PaidAt == nil {
		g.log.Info().Str("transaction_id", id).Str("status", tx.Status.String()).
			Msg("exit scan denied: payment not confirmed")
		return &Verdict{Admit: false, Reason: ReasonPaymentNotConfirmed}, nil
	}

	g.log.Info().Str("transaction_id", id).Int64("amount", tx.Amount).Msg("exit scan admitted")
	return &Verdict{
		Admit: true,
		Summary: &Summary{
			Amount:    tx.Amount,
			Currency:  tx.Currency,
			ItemCount: tx.Items.ItemCount(),
			PaidAt:    *tx.PaidAt,
		},
	}, nil
}
