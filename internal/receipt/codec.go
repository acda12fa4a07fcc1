// Package receipt encodes and decodes the QR-carried receipt payload.
//
// The payload is a pointer plus a display summary, never a security token:
// it is decodable without any secret and the exit gate re-derives truth from
// the stored transaction. Format (pipe-delimited, one line):
//
//	ZUP1|<transaction id>|<amount minor units>|<item count>|<issued unix>|PAID
package receipt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aditya13-hue/zup/internal/domain"
)

const (
	payloadPrefix = "ZUP1"
	payloadSep    = "|"
	fieldCount    = 6
	statusPaid    = "PAID"
)

var (
	// ErrMalformed marks any structurally invalid payload, including ones
	// with an unknown status: only paid-shaped receipts mean anything
	// downstream.
	ErrMalformed = errors.New("malformed receipt payload")

	// ErrNotPaid is returned when encoding is attempted for a transaction
	// that has not been paid; receipts exist only for paid transactions.
	ErrNotPaid = errors.New("receipt: transaction is not paid")
)

// Payload is the decoded receipt content.
type Payload struct {
	TransactionID string
	TotalAmount   int64
	ItemCount     int32
	IssuedAt      time.Time
	Status        string
}

// Encode serializes a paid transaction into the QR payload string.
func Encode(tx *domain.Transaction) (string, error) {
	if tx.Status != domain.TxStatusPaid || tx.PaidAt == nil {
		return "", ErrNotPaid
	}
	fields := []string{
		payloadPrefix,
		tx.ID,
		strconv.FormatInt(tx.Amount, 10),
		strconv.FormatInt(int64(tx.Items.ItemCount()), 10),
		strconv.FormatInt(tx.PaidAt.Unix(), 10),
		statusPaid,
	}
	return strings.Join(fields, payloadSep), nil
}

// Decode parses a scanned payload. Any structural mismatch (wrong prefix,
// missing field, unparsable value, unknown status) yields ErrMalformed.
func Decode(payload string) (*Payload, error) {
	fields := strings.Split(strings.TrimSpace(payload), payloadSep)
	if len(fields) != fieldCount {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformed, fieldCount, len(fields))
	}
	if fields[0] != payloadPrefix {
		return nil, fmt.Errorf("%w: unknown prefix %q", ErrMalformed, fields[0])
	}

	id := fields[1]
	if id == "" {
		return nil, fmt.Errorf("%w: empty transaction id", ErrMalformed)
	}

	amount, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil || amount < 0 {
		return nil, fmt.Errorf("%w: invalid amount %q", ErrMalformed, fields[2])
	}

	count, err := strconv.ParseInt(fields[3], 10, 32)
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%w: invalid item count %q", ErrMalformed, fields[3])
	}

	issued, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil || issued <= 0 {
		return nil, fmt.Errorf("%w: invalid issue timestamp %q", ErrMalformed, fields[4])
	}

	if fields[5] != statusPaid {
		return nil, fmt.Errorf("%w: unexpected status %q", ErrMalformed, fields[5])
	}

	return &Payload{
		TransactionID: id,
		TotalAmount:   amount,
		ItemCount:     int32(count),
		IssuedAt:      time.Unix(issued, 0).UTC(),
		Status:        statusPaid,
	}, nil
}
