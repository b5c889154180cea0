package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fuel-storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func sampleOrder() domain.Order {
	return domain.Order{
		ID:            "ord-1",
		CustomerID:    "cust-1",
		Status:        domain.OrderStatusPending,
		Subtotal:      decimal.RequireFromString("420"),
		DeliveryFee:   decimal.Zero,
		TotalAmount:   decimal.RequireFromString("420"),
		PaymentMethod: domain.PaymentCashOnDelivery,
		Items: []domain.OrderItem{{
			ProductID:    "diesel",
			ProductName:  "Diesel",
			Unit:         "Liter",
			Quantity:     decimal.RequireFromString("7"),
			PriceAtOrder: decimal.RequireFromString("60"),
			LineTotal:    decimal.RequireFromString("420"),
		}},
	}
}

func TestOrderPlacedWritesKeyedMessage(t *testing.T) {
	w := &fakeWriter{}
	pub := newKafkaPublisher(w, "PHP", nil)
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	pub.now = func() time.Time { return at }

	require.NoError(t, pub.OrderPlaced(context.Background(), sampleOrder()))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "ord-1", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, EventOrderPlaced, string(msg.Headers[0].Value))

	var evt OrderPlaced
	require.NoError(t, json.Unmarshal(msg.Value, &evt))
	_, err := uuid.Parse(evt.EventID)
	assert.NoError(t, err)
	assert.Equal(t, string(msg.Headers[1].Value), evt.EventID)
	assert.Equal(t, "420.00", evt.TotalAmount)
	assert.Equal(t, "0.00", evt.DeliveryFee)
	assert.Equal(t, "PHP", evt.Currency)
	assert.Equal(t, "Cash on Delivery", evt.Payment)
	assert.Equal(t, at, evt.OccurredAt)
	require.Len(t, evt.Items, 1)
	assert.Equal(t, "7", evt.Items[0].Quantity)
}

func TestOrderPlacedWrapsWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unreachable")}
	pub := newKafkaPublisher(w, "PHP", nil)

	err := pub.OrderPlaced(context.Background(), sampleOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order=ord-1")
	assert.ErrorIs(t, err, w.err)
}

func TestCloseClosesWriter(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, newKafkaPublisher(w, "PHP", nil).Close())
	assert.True(t, w.closed)
}

func TestNewKafkaPublisherConfiguresWriter(t *testing.T) {
	pub := NewKafkaPublisher([]string{"localhost:9092"}, "orders.placed", "PHP", nil)
	w, ok := pub.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "orders.placed", w.Topic)
	assert.True(t, w.AllowAutoTopicCreation)
}
