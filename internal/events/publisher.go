package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/fjod/storefront/internal/domain"
)

const orderPlacedTopic = "order-placed"

type OrderPlacedEvent struct {
	OrderID   string                `json:"order_id"`
	SessionID string                `json:"session_id"`
	Items     []domain.CartLineItem `json:"items"`
	Subtotal  decimal.Decimal       `json:"subtotal"`
	Shipping  decimal.Decimal       `json:"shipping"`
	Total     decimal.Decimal       `json:"total"`
	Currency  string                `json:"currency"`
	PlacedAt  time.Time             `json:"placed_at"`
}

// Publisher notifies downstream consumers (fulfilment, analytics)
// that an order was handed to the gateway.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  orderPlacedTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID), // order_id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order_placed")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order event failed: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(context.Context, OrderPlacedEvent) error { return nil }
func (NoopPublisher) Close() error                                               { return nil }
