// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fuel-storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventOrderPlaced = "order.placed"

// Publisher announces placed orders. Publishing is best-effort; the order is
// already stored when it runs.
type Publisher interface {
	OrderPlaced(ctx context.Context, order domain.Order) error
	Close() error
}

// OrderPlaced is the wire payload of an order.placed event.
type OrderPlaced struct {
	EventID     string            `json:"event_id"`
	OrderID     string            `json:"order_id"`
	CustomerID  string            `json:"customer_id"`
	Status      string            `json:"status"`
	Subtotal    string            `json:"subtotal"`
	DeliveryFee string            `json:"delivery_fee"`
	TotalAmount string            `json:"total_amount"`
	Currency    string            `json:"currency"`
	Payment     string            `json:"payment_method"`
	Items       []OrderPlacedItem `json:"items"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

type OrderPlacedItem struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	Unit         string `json:"unit"`
	Quantity     string `json:"quantity"`
	PriceAtOrder string `json:"price_at_order"`
	LineTotal    string `json:"line_total"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer   messageWriter
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

// NewKafkaPublisher writes to topic on brokers, creating the topic when missing.
func NewKafkaPublisher(brokers []string, topic, currency string, logger *zap.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	return newKafkaPublisher(w, currency, logger)
}

func newKafkaPublisher(w messageWriter, currency string, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{writer: w, currency: currency, logger: logger.Named("events"), now: time.Now}
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, order domain.Order) error {
	evt := NewOrderPlaced(order, p.currency, p.now())
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", EventOrderPlaced, err)
	}
	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
			{Key: "event_id", Value: []byte(evt.EventID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s order=%s: %w", EventOrderPlaced, order.ID, err)
	}
	p.logger.Debug("event published", zap.String("event_id", evt.EventID), zap.String("order_id", order.ID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NewOrderPlaced builds the event payload. Money renders with two decimals.
func NewOrderPlaced(order domain.Order, currency string, at time.Time) OrderPlaced {
	items := make([]OrderPlacedItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, OrderPlacedItem{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			Unit:         it.Unit,
			Quantity:     it.Quantity.String(),
			PriceAtOrder: it.PriceAtOrder.StringFixed(2),
			LineTotal:    it.LineTotal.StringFixed(2),
		})
	}
	return OrderPlaced{
		EventID:     uuid.NewString(),
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		Status:      order.Status,
		Subtotal:    order.Subtotal.StringFixed(2),
		DeliveryFee: order.DeliveryFee.StringFixed(2),
		TotalAmount: order.TotalAmount.StringFixed(2),
		Currency:    currency,
		Payment:     string(order.PaymentMethod),
		Items:       items,
		OccurredAt:  at.UTC(),
	}
}

// Nop drops events. Used when no brokers are configured.
type Nop struct{}

func (Nop) OrderPlaced(context.Context, domain.Order) error { return nil }

func (Nop) Close() error { return nil }
