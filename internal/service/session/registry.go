// Package session owns the per-login cart lifecycle: a ledger is created when a
// customer signs in and discarded when they sign out.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"fuel-storefront/internal/domain"
	cartsvc "fuel-storefront/internal/service/cart"
	"go.uber.org/zap"
)

// Session binds an access token to a customer and the customer's cart.
type Session struct {
	Token      string
	CustomerID string
	OpenedAt   time.Time

	mu         sync.Mutex
	ledger     *cartsvc.Ledger
	submitting atomic.Bool
}

// Do runs fn with exclusive access to the session's ledger.
func (s *Session) Do(fn func(l *cartsvc.Ledger)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ledger)
}

// BeginCheckout marks an order submission as in flight. It returns false when
// one is already running for this cart. It never waits on the ledger lock.
func (s *Session) BeginCheckout() bool {
	return s.submitting.CompareAndSwap(false, true)
}

// EndCheckout clears the in-flight mark.
func (s *Session) EndCheckout() {
	s.submitting.Store(false)
}

// Registry tracks open sessions by access token.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *zap.Logger
	now      func() time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		logger:   logger,
		now:      time.Now,
	}
}

// Open starts a session with an empty cart, replacing any session under token.
func (r *Registry) Open(token, customerID string) *Session {
	s := r.newSession(token, customerID)
	r.mu.Lock()
	r.sessions[token] = s
	r.mu.Unlock()
	return s
}

// Get returns the session for token.
func (r *Registry) Get(token string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[token]
	r.mu.RUnlock()
	return s, ok
}

// Resume returns the session for token, opening an empty one when the token is
// valid but the process has no cart for it (for example after a restart).
func (r *Registry) Resume(token, customerID string) *Session {
	if s, ok := r.Get(token); ok && s.CustomerID == customerID {
		return s
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[token]; ok && s.CustomerID == customerID {
		return s
	}
	s := r.newSession(token, customerID)
	r.sessions[token] = s
	return s
}

// Close disposes the session and its cart. Closing an unknown token is a no-op.
func (r *Registry) Close(token string) {
	r.mu.Lock()
	s, ok := r.sessions[token]
	delete(r.sessions, token)
	r.mu.Unlock()
	if ok {
		s.Do(func(l *cartsvc.Ledger) { l.Clear() })
	}
}

// TokenChecker reports whether access tokens still resolve to a customer.
type TokenChecker interface {
	// PurgeExpired deletes stored tokens that are past their expiry.
	PurgeExpired(ctx context.Context) (int64, error)
	// TokenActive is false for unknown or expired tokens. An error means the
	// answer is unknown and the session is kept.
	TokenActive(ctx context.Context, token string) (bool, error)
}

// Sweep closes every session whose token is no longer active and returns how
// many were closed.
func (r *Registry) Sweep(ctx context.Context, tokens TokenChecker) int {
	if purged, err := tokens.PurgeExpired(ctx); err != nil {
		r.logger.Warn("purge expired tokens", zap.Error(err))
	} else if purged > 0 {
		r.logger.Info("purged expired tokens", zap.Int64("count", purged))
	}

	r.mu.RLock()
	open := make([]string, 0, len(r.sessions))
	for token := range r.sessions {
		open = append(open, token)
	}
	r.mu.RUnlock()

	closed := 0
	for _, token := range open {
		if ctx.Err() != nil {
			break
		}
		active, err := tokens.TokenActive(ctx, token)
		if err != nil {
			r.logger.Warn("check session token", zap.Error(err))
			continue
		}
		if !active {
			r.Close(token)
			closed++
		}
	}
	if closed > 0 {
		r.logger.Info("closed stale sessions", zap.Int("count", closed), zap.Int("open", r.Len()))
	}
	return closed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, tokens TokenChecker, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx, tokens)
		}
	}
}

// Len is the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) newSession(token, customerID string) *Session {
	logger := r.logger.With(zap.String("customer_id", customerID))
	notifier := cartsvc.NotifierFunc(func(item domain.CartLineItem) {
		logger.Info("item added to cart",
			zap.String("product_id", item.ProductID),
			zap.String("quantity", item.Quantity.String()),
			zap.String("line_total", item.LineTotal.String()),
		)
	})
	return &Session{
		Token:      token,
		CustomerID: customerID,
		OpenedAt:   r.now().UTC(),
		ledger:     cartsvc.NewLedger(cartsvc.WithNotifier(notifier)),
	}
}
