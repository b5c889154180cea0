package checkout

import (
	"context"
	"errors"
	"time"

	"fuel-storefront/internal/domain"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrSubmitterUnavailable is returned while the breaker is open.
var ErrSubmitterUnavailable = errors.New("order submitter unavailable")

type breakerSubmitter struct {
	next Submitter
	cb   *gobreaker.CircuitBreaker[*domain.Order]
}

// BreakerSettings tunes the submitter circuit breaker.
type BreakerSettings struct {
	// Failures is the number of consecutive failures that opens the breaker.
	Failures uint32
	// Cooldown is how long the breaker stays open before a trial request.
	Cooldown time.Duration
}

// WithBreaker wraps next so repeated backend failures fail fast instead of
// holding carts locked for the full submit timeout.
func WithBreaker(next Submitter, st BreakerSettings, logger *zap.Logger) Submitter {
	if st.Failures == 0 {
		st.Failures = 5
	}
	if st.Cooldown <= 0 {
		st.Cooldown = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker[*domain.Order](gobreaker.Settings{
		Name:        "order-submitter",
		MaxRequests: 1,
		Timeout:     st.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= st.Failures
		},
		IsSuccessful: func(err error) bool {
			// a caller giving up says nothing about backend health
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &breakerSubmitter{next: next, cb: cb}
}

func (b *breakerSubmitter) Submit(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	order, err := b.cb.Execute(func() (*domain.Order, error) {
		return b.next.Submit(ctx, draft)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrSubmitterUnavailable
	}
	return order, err
}
