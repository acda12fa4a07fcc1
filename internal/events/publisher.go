// Package events publishes transaction lifecycle events for downstream
// consumers (partner analytics, settlement jobs).
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const (
	TypeOrderOpened      = "order.opened"
	TypePaymentConfirmed = "payment.confirmed"

	topic          = "transaction-events"
	publishTimeout = 5 * time.Second
)

// Event is the Kafka payload for one lifecycle transition.
type Event struct {
	Type          string    `json:"type"`
	TransactionID string    `json:"transaction_id"`
	StoreID       string    `json:"store_id,omitempty"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	ItemCount     int32     `json:"item_count"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher emits lifecycle events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// KafkaPublisher writes events to the transaction-events topic.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    zerolog.Logger
}

func NewKafkaPublisher(log zerolog.Logger, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.TransactionID),
		Value: value,
	})
	if err != nil {
		p.log.Error().Err(err).Str("type", e.Type).Str("transaction_id", e.TransactionID).
			Msg("failed to publish lifecycle event")
	}
	return err
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
