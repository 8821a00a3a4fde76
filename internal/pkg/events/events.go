// Package events publishes checkout lifecycle events to Kafka for
// downstream analytics. Publishing is fire-and-forget: a broker outage
// never fails a checkout.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// DefaultTopic is where order lifecycle events land.
const DefaultTopic = "checkout.orders"

// OrderCreated is emitted once per successfully created order.
type OrderCreated struct {
	OrderID      string    `json:"order_id"`
	CartID       string    `json:"cart_id"`
	CustomerID   string    `json:"customer_id"`
	RestaurantID string    `json:"restaurant_id"`
	Total        float64   `json:"total"`
	Tip          float64   `json:"tip"`
	PaymentKind  string    `json:"payment_kind"`
	CreatedAt    time.Time `json:"created_at"`
}

// Publisher writes events to a single topic. A nil Publisher is valid and
// drops everything, so wiring stays unconditional in main().
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher builds a publisher for the comma-separated broker list.
// An empty list returns nil: events are disabled.
func NewPublisher(brokersCSV, topic string) *Publisher {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// PublishOrderCreated writes the event keyed by order ID.
func (p *Publisher) PublishOrderCreated(ctx context.Context, evt OrderCreated) error {
	if p == nil {
		return nil
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: data,
		Time:  time.Now().UTC(),
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
