package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer settles an order.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "Cash on Delivery"
)

// ErrUnknownPaymentMethod is returned for labels outside the supported set.
var ErrUnknownPaymentMethod = errors.New("unknown payment method")

var paymentAliases = map[string]PaymentMethod{
	"cod":              PaymentCashOnDelivery,
	"cash":             PaymentCashOnDelivery,
	"cash on delivery": PaymentCashOnDelivery,
}

// ParsePaymentMethod accepts a label or short code. Blank means cash on delivery.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return PaymentCashOnDelivery, nil
	}
	if pm, ok := paymentAliases[key]; ok {
		return pm, nil
	}
	return "", ErrUnknownPaymentMethod
}

const OrderStatusPending = "Pending"

// OrderDraft is built at checkout from a cart snapshot and submitted once.
type OrderDraft struct {
	CustomerID      string
	Items           []CartLineItem
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	TotalAmount     decimal.Decimal
	DeliveryAddress string
	PaymentMethod   PaymentMethod
	Instructions    string
}

// Order is a submitted order as stored by the order repository.
type Order struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customerId"`
	Status          string          `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	DeliveryAddress string          `json:"deliveryAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Instructions    string          `json:"instructions,omitempty"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// OrderItem is a persisted line of an order.
type OrderItem struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"priceAtOrder"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}
