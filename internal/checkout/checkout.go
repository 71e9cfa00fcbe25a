package checkout

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fjod/storefront/internal/domain"
)

// FlatShippingRate is the single authoritative shipping amount. It is
// applied once per order whenever the checkout holds any items.
var FlatShippingRate = decimal.NewFromInt(200)

// Checkout holds the snapshot of line items selected for purchase.
// The snapshot is independent of the live cart so that cart mutations
// during checkout cannot disturb it, and every mutation here is
// purely local: the gateway is only contacted at order submission.
type Checkout struct {
	mu    sync.RWMutex
	items []domain.CartLineItem
}

func New() *Checkout {
	return &Checkout{}
}

// AddProduct replaces the whole snapshot with a single-item list
// (the buy-now flow).
func (c *Checkout) AddProduct(item domain.CartLineItem) {
	c.AddProducts([]domain.CartLineItem{item})
}

// AddProducts replaces the whole snapshot with the given list (the
// cart-to-checkout flow). Snapshots are never merged; at most one is
// active at a time.
func (c *Checkout) AddProducts(items []domain.CartLineItem) {
	snapshot := make([]domain.CartLineItem, len(items))
	for i, item := range items {
		snapshot[i] = item.Normalize()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = snapshot
}

// UpdateQuantity replaces the matching item's quantity in place.
// Quantities below 1 are clamped to 1 here: the floor belongs to the
// aggregate, not its callers.
func (c *Checkout) UpdateQuantity(productID int64, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
		}
	}
}

// RemoveProduct filters the matching item out of the snapshot.
func (c *Checkout) RemoveProduct(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	for _, item := range c.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// Clear empties the snapshot (after placing an order or abandoning
// checkout).
func (c *Checkout) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the snapshot.
func (c *Checkout) Items() []domain.CartLineItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]domain.CartLineItem, len(c.items))
	copy(items, c.items)
	return items
}

// Subtotal, Shipping and Total are recomputed from the snapshot on
// every read, never cached.

func (c *Checkout) Subtotal() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.Subtotal(c.items)
}

func (c *Checkout) Shipping() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.items) == 0 {
		return decimal.Zero
	}
	return FlatShippingRate
}

func (c *Checkout) Total() decimal.Decimal {
	return c.Subtotal().Add(c.Shipping())
}
