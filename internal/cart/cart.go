package cart

import (
	"context"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/gateway"
)

// Aggregate holds the session's cart line items and keeps them in
// sync with the commerce gateway. Local state is only ever replaced
// wholesale with the gateway's authoritative response, never patched
// incrementally.
type Aggregate struct {
	mu       sync.RWMutex
	gw       gateway.CommerceGateway
	cartID   string
	items    []domain.CartLineItem
	fetchSeq uint64
}

func New(gw gateway.CommerceGateway) *Aggregate {
	return &Aggregate{gw: gw}
}

// Fetch retrieves the authoritative cart from the gateway. A missing
// token clears the local cart without error; so does a gateway
// failure (logged). Concurrent fetches race freely; a fetch sequence
// number drops responses that were overtaken by a newer fetch, so the
// latest fetch always determines displayed state.
func (a *Aggregate) Fetch(ctx context.Context, token string) {
	if token == "" {
		a.reset()
		return
	}

	a.mu.Lock()
	a.fetchSeq++
	seq := a.fetchSeq
	a.mu.Unlock()

	remote, err := a.gw.GetCart(ctx, token)

	a.mu.Lock()
	defer a.mu.Unlock()
	if seq != a.fetchSeq {
		return // a newer fetch owns the state now
	}
	if err != nil {
		log.Printf("fetch cart failed: %v", err)
		a.cartID = ""
		a.items = nil
		return
	}

	items := make([]domain.CartLineItem, len(remote.Items))
	for i, item := range remote.Items {
		items[i] = item.Normalize()
	}
	a.cartID = remote.ID
	a.items = items
}

// Add sends an add request to the gateway and then unconditionally
// re-fetches: the authoritative state always wins over whatever the
// add response says about the individual item. Without a token it
// silently no-ops.
func (a *Aggregate) Add(ctx context.Context, token string, productID int64, quantity int) {
	if token == "" {
		return
	}

	if err := a.gw.AddCartItem(ctx, token, productID, quantity); err != nil {
		log.Printf("add cart item failed: %v", err)
	}

	a.Fetch(ctx, token)
}

// UpdateQuantity sends a merge-style update for the one product and
// re-fetches. It requires a cart from a prior fetch.
func (a *Aggregate) UpdateQuantity(ctx context.Context, token string, productID int64, quantity int) {
	a.mu.RLock()
	cartID := a.cartID
	a.mu.RUnlock()

	if cartID == "" {
		log.Printf("update quantity skipped: no cart for this session")
		return
	}

	if err := a.gw.UpdateCartItem(ctx, token, cartID, productID, quantity); err != nil {
		log.Printf("update cart item failed: %v", err)
	}

	a.Fetch(ctx, token)
}

// Remove deletes the entire cart resource at the gateway and
// re-fetches only when the gateway confirms the deletion.
func (a *Aggregate) Remove(ctx context.Context, token, cartID string) {
	deleted, err := a.gw.DeleteCart(ctx, token, cartID)
	if err != nil {
		log.Printf("delete cart failed: %v", err)
		return
	}
	if !deleted {
		return
	}

	a.Fetch(ctx, token)
}

func (a *Aggregate) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fetchSeq++ // in-flight fetches must not resurrect the cart
	a.cartID = ""
	a.items = nil
}

func (a *Aggregate) CartID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cartID
}

// Items returns a copy of the current line items.
func (a *Aggregate) Items() []domain.CartLineItem {
	a.mu.RLock()
	defer a.mu.RUnlock()
	items := make([]domain.CartLineItem, len(a.items))
	copy(items, a.items)
	return items
}

// Subtotal is recomputed from the current items on every read.
func (a *Aggregate) Subtotal() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return domain.Subtotal(a.items)
}
