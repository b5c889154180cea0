// Package checkout turns a session's cart into a submitted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fuel-storefront/internal/domain"
	"fuel-storefront/internal/events"
	cartsvc "fuel-storefront/internal/service/cart"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrAddressRequired      = errors.New("delivery address required")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrSubmissionInProgress = errors.New("order submission already in progress")
	// ErrSubmissionFailed wraps submitter errors. The cart is left as it was.
	ErrSubmissionFailed = errors.New("order submission failed")
)

// Submitter persists an order draft.
type Submitter interface {
	Submit(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error)
}

// Cart is the session-side view checkout needs.
type Cart interface {
	Do(fn func(l *cartsvc.Ledger))
	BeginCheckout() bool
	EndCheckout()
}

// Input is what the shopper supplies at checkout.
type Input struct {
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod"`
	Instructions  string `json:"instructions"`
}

type Service struct {
	submitter     Submitter
	publisher     events.Publisher
	fees          FeePolicy
	submitTimeout time.Duration
	logger        *zap.Logger
}

type Option func(*Service)

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithSubmitTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.submitTimeout = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l.Named("checkout")
		}
	}
}

func New(submitter Submitter, fees FeePolicy, opts ...Option) *Service {
	s := &Service{
		submitter:     submitter,
		publisher:     events.Nop{},
		fees:          fees,
		submitTimeout: 15 * time.Second,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DeliveryFee is the fee an order with this subtotal would be charged.
func (s *Service) DeliveryFee(subtotal decimal.Decimal) decimal.Decimal {
	return s.fees.For(subtotal)
}

// PlaceOrder validates the request, submits the cart and clears it on success.
// The ledger stays locked from snapshot to clear so nothing added meanwhile is
// lost. The in-flight check comes first so a duplicate request never queues
// behind that lock.
func (s *Service) PlaceOrder(ctx context.Context, customerID string, cart Cart, in Input) (*domain.Order, error) {
	address := strings.TrimSpace(in.Address)
	if address == "" {
		return nil, ErrAddressRequired
	}
	method, err := domain.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, in.PaymentMethod)
	}
	if !cart.BeginCheckout() {
		return nil, ErrSubmissionInProgress
	}
	defer cart.EndCheckout()

	var (
		order     *domain.Order
		submitErr error
	)
	cart.Do(func(l *cartsvc.Ledger) {
		snap := l.Snapshot()
		if snap.Empty() {
			submitErr = ErrEmptyCart
			return
		}
		fee := s.fees.For(snap.Subtotal)
		draft := domain.OrderDraft{
			CustomerID:      customerID,
			Items:           snap.Items,
			Subtotal:        snap.Subtotal,
			DeliveryFee:     fee,
			TotalAmount:     snap.Subtotal.Add(fee),
			DeliveryAddress: address,
			PaymentMethod:   method,
			Instructions:    strings.TrimSpace(in.Instructions),
		}

		submitCtx, cancel := context.WithTimeout(ctx, s.submitTimeout)
		defer cancel()
		order, submitErr = s.submitter.Submit(submitCtx, draft)
		if submitErr != nil {
			return
		}
		l.Clear()
	})
	if submitErr != nil {
		if errors.Is(submitErr, ErrEmptyCart) {
			return nil, submitErr
		}
		s.logger.Error("order submission failed", zap.String("customer_id", customerID), zap.Error(submitErr))
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, submitErr)
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("customer_id", customerID),
		zap.String("total", order.TotalAmount.StringFixed(2)))

	if err := s.publisher.OrderPlaced(ctx, *order); err != nil {
		s.logger.Warn("order event not published", zap.String("order_id", order.ID), zap.Error(err))
	}
	return order, nil
}
