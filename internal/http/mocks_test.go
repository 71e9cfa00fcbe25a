package http

import (
	"context"
	"net/http"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fjod/storefront/internal/cache"
	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/checkout"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/events"
	"github.com/fjod/storefront/internal/session"
)

type mockGateway struct {
	m         sync.RWMutex
	cart      *domain.Cart
	products  []domain.Product
	cartErr   error
	orderErr  error
	orderID   string
	gotOrder  *domain.Order
	addCalls  int
	getCalls  int
	deleteOK  bool
	listErr   error
	listCalls int
}

func (g *mockGateway) GetCart(context.Context, string) (*domain.Cart, error) {
	g.m.Lock()
	defer g.m.Unlock()
	g.getCalls++
	if g.cartErr != nil {
		return nil, g.cartErr
	}
	if g.cart == nil {
		return &domain.Cart{}, nil
	}
	return g.cart, nil
}

func (g *mockGateway) AddCartItem(_ context.Context, _ string, productID int64, quantity int) error {
	g.m.Lock()
	defer g.m.Unlock()
	g.addCalls++
	if g.cartErr != nil {
		return g.cartErr
	}
	g.cart.Items = append(g.cart.Items, domain.CartLineItem{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: decimal.NewFromInt(10),
	})
	return nil
}

func (g *mockGateway) UpdateCartItem(_ context.Context, _, _ string, productID int64, quantity int) error {
	g.m.Lock()
	defer g.m.Unlock()
	for i := range g.cart.Items {
		if g.cart.Items[i].ProductID == productID {
			g.cart.Items[i].Quantity = quantity
		}
	}
	return nil
}

func (g *mockGateway) DeleteCart(context.Context, string, string) (bool, error) {
	g.m.Lock()
	defer g.m.Unlock()
	if g.deleteOK {
		g.cart = &domain.Cart{}
	}
	return g.deleteOK, nil
}

func (g *mockGateway) ListProducts(context.Context) ([]domain.Product, error) {
	g.m.Lock()
	defer g.m.Unlock()
	g.listCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.products, nil
}

func (g *mockGateway) SubmitOrder(_ context.Context, _ string, order *domain.Order) (string, error) {
	g.m.Lock()
	defer g.m.Unlock()
	if g.orderErr != nil {
		return "", g.orderErr
	}
	g.gotOrder = order
	return g.orderID, nil
}

type mockCatalogCache struct{}

func (mockCatalogCache) Get(context.Context) ([]domain.Product, error) {
	return nil, cache.ErrCacheMiss
}
func (mockCatalogCache) Set(context.Context, []domain.Product) error { return nil }
func (mockCatalogCache) Delete(context.Context) error                { return nil }

type capturePublisher struct {
	m      sync.Mutex
	events []events.OrderPlacedEvent
}

func (p *capturePublisher) PublishOrderPlaced(_ context.Context, event events.OrderPlacedEvent) error {
	p.m.Lock()
	defer p.m.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func newTestSession(gw *mockGateway) *session.Session {
	return &session.Session{
		ID:       "sess-1",
		Cart:     cart.New(gw),
		Checkout: checkout.New(),
		Steps:    checkout.NewStepController(),
	}
}

// withSession decorates a request with the context values the
// middleware stack would normally provide.
func withSession(r *http.Request, sess *session.Session, token string) *http.Request {
	ctx := context.WithValue(r.Context(), "session", sess)
	ctx = context.WithValue(ctx, "auth_token", token)
	return r.WithContext(ctx)
}
