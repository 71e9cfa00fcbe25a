package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fjod/storefront/internal/domain"
)

// CommerceGateway is the remote backend that owns every durable
// concern: products, carts, and order fulfilment. The storefront only
// consumes its request/response contract.
type CommerceGateway interface {
	GetCart(ctx context.Context, token string) (*domain.Cart, error)
	AddCartItem(ctx context.Context, token string, productID int64, quantity int) error
	UpdateCartItem(ctx context.Context, token, cartID string, productID int64, quantity int) error
	DeleteCart(ctx context.Context, token, cartID string) (bool, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	SubmitOrder(ctx context.Context, token string, order *domain.Order) (string, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "commerce-gateway",
		Timeout: 30 * time.Second,
	})

	return &HTTPClient{
		baseURL: baseURL,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
		breaker: breaker,
	}
}

type addItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type updateCartRequest struct {
	Merge    bool                `json:"merge"`
	Products []updateCartProduct `json:"products"`
}

type updateCartProduct struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

type deleteCartResponse struct {
	IsDeleted bool `json:"isDeleted"`
}

type productsResponse struct {
	Products []domain.Product `json:"products"`
}

type orderResponse struct {
	OrderID string `json:"order_id"`
}

func (c *HTTPClient) GetCart(ctx context.Context, token string) (*domain.Cart, error) {
	body, err := c.do(ctx, http.MethodGet, "/cart", token, nil)
	if err != nil {
		return nil, err
	}

	var cart domain.Cart
	if err := json.Unmarshal(body, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}

func (c *HTTPClient) AddCartItem(ctx context.Context, token string, productID int64, quantity int) error {
	_, err := c.do(ctx, http.MethodPost, "/cart/add", token, addItemRequest{
		ProductID: productID,
		Quantity:  quantity,
	})
	return err
}

func (c *HTTPClient) UpdateCartItem(ctx context.Context, token, cartID string, productID int64, quantity int) error {
	_, err := c.do(ctx, http.MethodPut, "/cart/"+cartID, token, updateCartRequest{
		Merge:    true,
		Products: []updateCartProduct{{ID: productID, Quantity: quantity}},
	})
	return err
}

func (c *HTTPClient) DeleteCart(ctx context.Context, token, cartID string) (bool, error) {
	body, err := c.do(ctx, http.MethodDelete, "/cart/"+cartID, token, nil)
	if err != nil {
		return false, err
	}

	var resp deleteCartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("unmarshal delete response failed: %w", err)
	}
	return resp.IsDeleted, nil
}

func (c *HTTPClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	body, err := c.do(ctx, http.MethodGet, "/products", "", nil)
	if err != nil {
		return nil, err
	}

	var resp productsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal products failed: %w", err)
	}
	return resp.Products, nil
}

func (c *HTTPClient) SubmitOrder(ctx context.Context, token string, order *domain.Order) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/orders", token, order)
	if err != nil {
		return "", err
	}

	var resp orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal order response failed: %w", err)
	}
	return resp.OrderID, nil
}

// do runs a single gateway call through the circuit breaker and
// returns the response body. Mutating endpoints require the opaque
// bearer token; its absence is reported as ErrNoCredential before any
// network traffic happens.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, payload any) ([]byte, error) {
	if token == "" && path != "/products" {
		return nil, ErrNoCredential
	}

	var reqBody *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request failed: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.breaker.Execute(func() ([]byte, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("gateway request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("gateway returned status %d for %s %s", resp.StatusCode, method, path)
		}

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(resp.Body); err != nil {
			return nil, fmt.Errorf("read response failed: %w", err)
		}
		return buf.Bytes(), nil
	})
}
