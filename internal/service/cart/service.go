package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fuel-storefront/internal/domain"
	"fuel-storefront/internal/pricing"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidEntry is returned when the calculator rejects the shopper's input.
	ErrInvalidEntry = errors.New("invalid entry")
	// ErrProductUnavailable is returned for inactive or out-of-stock products.
	ErrProductUnavailable = errors.New("product unavailable")
	// ErrProductRequired is returned when an entry names no product.
	ErrProductRequired = errors.New("productId required")
)

type productReader interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

// LedgerOwner serializes access to a session's ledger.
type LedgerOwner interface {
	Do(fn func(l *Ledger))
}

// Service connects catalog lookups and the pricing calculator to a session ledger.
type Service struct {
	products productReader
	calc     pricing.Calculator
}

func New(products productReader, calc pricing.Calculator) *Service {
	return &Service{products: products, calc: calc}
}

// EntryInput is a shopper's typed entry for one product.
type EntryInput struct {
	ProductID string `json:"productId" binding:"required"`
	Input     string `json:"input"`
	Mode      string `json:"mode"`
}

// Quote is the calculator outcome for an entry. Input is the text that was
// priced; Suggested is that text with every non-numeric character dropped,
// which the client may offer as a correction when Result is invalid.
type Quote struct {
	Product   domain.Product
	Mode      pricing.Mode
	Input     string
	Suggested string
	Result    pricing.Result
}

// View is a read of the cart at one point in time.
type View struct {
	Items []domain.CartLineItem
	Total decimal.Decimal
}

// Quote runs the calculator for an entry without touching any cart.
func (s *Service) Quote(ctx context.Context, in EntryInput) (*Quote, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, ErrProductRequired
	}
	requested, err := pricing.ParseMode(in.Mode)
	if err != nil {
		return nil, err
	}
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	mode := pricing.EffectiveMode(product.Category, requested)
	return &Quote{
		Product:   *product,
		Mode:      mode,
		Input:     strings.TrimSpace(in.Input),
		Suggested: pricing.Sanitize(in.Input),
		Result:    pricing.Compute(in.Input, mode, product.CurrentPrice),
	}, nil
}

// Entry returns the effective mode for a product and the input it resets to.
func (s *Service) Entry(ctx context.Context, productID, mode string) (pricing.Mode, string, error) {
	requested, err := pricing.ParseMode(mode)
	if err != nil {
		return pricing.ByQuantity, "", err
	}
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return pricing.ByQuantity, "", err
	}
	m, input := s.calc.SwitchMode(*product, requested)
	return m, input, nil
}

// Add prices the entry and adds it to owner's ledger. The ledger is untouched
// unless the calculator accepts the entry.
func (s *Service) Add(ctx context.Context, owner LedgerOwner, in EntryInput) (*Quote, View, error) {
	q, err := s.Quote(ctx, in)
	if err != nil {
		return nil, View{}, err
	}
	if !q.Product.IsActive || !q.Product.InStock() {
		return q, View{}, ErrProductUnavailable
	}
	if !q.Result.Valid {
		return q, View{}, fmt.Errorf("%w: %s", ErrInvalidEntry, q.Result.Reason)
	}
	var view View
	owner.Do(func(l *Ledger) {
		view.Items = l.AddItem(q.Product, q.Result.Quantity, q.Result.LineTotal)
		view.Total = l.Total()
	})
	return q, view, nil
}

// Remove drops a product's line from owner's ledger.
func (s *Service) Remove(owner LedgerOwner, productID string) View {
	var view View
	owner.Do(func(l *Ledger) {
		view.Items = l.RemoveItem(strings.TrimSpace(productID))
		view.Total = l.Total()
	})
	return view
}

// Clear empties owner's ledger.
func (s *Service) Clear(owner LedgerOwner) View {
	owner.Do(func(l *Ledger) { l.Clear() })
	return View{Items: []domain.CartLineItem{}, Total: decimal.Zero}
}

// Get reads owner's ledger.
func (s *Service) Get(owner LedgerOwner) View {
	var view View
	owner.Do(func(l *Ledger) {
		view.Items = l.Items()
		view.Total = l.Total()
	})
	return view
}
