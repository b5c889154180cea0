package cart

import (
	"time"

	"fuel-storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// Notifier receives an acknowledgment for every successful add.
type Notifier interface {
	ItemAdded(item domain.CartLineItem)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(item domain.CartLineItem)

func (f NotifierFunc) ItemAdded(item domain.CartLineItem) { f(item) }

type nopNotifier struct{}

func (nopNotifier) ItemAdded(domain.CartLineItem) {}

// Ledger is the in-memory set of line items for one shopping session.
// It is not safe for concurrent use; the owning session serializes calls.
type Ledger struct {
	items    []domain.CartLineItem
	notifier Notifier
	now      func() time.Time
}

// LedgerOption customises a Ledger.
type LedgerOption func(*Ledger)

// WithNotifier sets the add acknowledgment sink.
func WithNotifier(n Notifier) LedgerOption {
	return func(l *Ledger) {
		if n != nil {
			l.notifier = n
		}
	}
}

// WithClock overrides the time source used for AddedAt.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLedger returns an empty ledger.
func NewLedger(opts ...LedgerOption) *Ledger {
	l := &Ledger{notifier: nopNotifier{}, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddItem merges quantity and lineTotal into the line for product, or appends a
// new line snapshotting product. Inputs are not re-validated.
func (l *Ledger) AddItem(product domain.Product, quantity, lineTotal decimal.Decimal) []domain.CartLineItem {
	var added domain.CartLineItem
	if idx := l.indexOf(product.ID); idx >= 0 {
		added = l.items[idx].Merge(quantity, lineTotal)
		next := make([]domain.CartLineItem, len(l.items))
		copy(next, l.items)
		next[idx] = added
		l.items = next
	} else {
		added = domain.NewCartLineItem(product, quantity, lineTotal, l.now().UTC())
		next := make([]domain.CartLineItem, len(l.items), len(l.items)+1)
		copy(next, l.items)
		l.items = append(next, added)
	}
	l.notifier.ItemAdded(added)
	return l.Items()
}

// RemoveItem drops the line for productID. Absent ids are a no-op.
func (l *Ledger) RemoveItem(productID string) []domain.CartLineItem {
	idx := l.indexOf(productID)
	if idx < 0 {
		return l.Items()
	}
	next := make([]domain.CartLineItem, 0, len(l.items)-1)
	next = append(next, l.items[:idx]...)
	next = append(next, l.items[idx+1:]...)
	l.items = next
	return l.Items()
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.items = nil
}

// Total sums LineTotal over the current items.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l.items {
		total = total.Add(item.LineTotal)
	}
	return total
}

// Items returns a copy of the line items in insertion order.
func (l *Ledger) Items() []domain.CartLineItem {
	out := make([]domain.CartLineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len is the number of distinct products in the ledger.
func (l *Ledger) Len() int {
	return len(l.items)
}

// Snapshot copies the items and their total for checkout.
func (l *Ledger) Snapshot() domain.CartSnapshot {
	return domain.CartSnapshot{Items: l.Items(), Subtotal: l.Total()}
}

func (l *Ledger) indexOf(productID string) int {
	for i, item := range l.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
