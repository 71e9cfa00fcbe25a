package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/storefront/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second), srv
}

func TestGetCart_SendsBearerTokenAndParsesCart(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/cart", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"id": "cart-9",
			"items": []map[string]any{
				{"product_id": 1, "name": "chair", "unit_price": "100", "quantity": 2},
			},
		})
	}))

	cart, err := client.GetCart(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "cart-9", cart.ID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "100", cart.Items[0].UnitPrice.String())
}

func TestGetCart_MissingTokenFailsBeforeNetwork(t *testing.T) {
	called := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := client.GetCart(context.Background(), "")
	require.ErrorIs(t, err, ErrNoCredential)
	assert.False(t, called)
}

func TestAddCartItem_PostsExpectedBody(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/cart/add", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	}))

	err := client.AddCartItem(context.Background(), "tok", 42, 3)
	require.NoError(t, err)
	assert.Equal(t, float64(42), body["productId"])
	assert.Equal(t, float64(3), body["quantity"])
}

func TestUpdateCartItem_SendsMergeRequest(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/cart/cart-9", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{}`))
	}))

	err := client.UpdateCartItem(context.Background(), "tok", "cart-9", 42, 5)
	require.NoError(t, err)
	assert.Equal(t, true, body["merge"])
	products := body["products"].([]any)
	require.Len(t, products, 1)
}

func TestDeleteCart_ParsesConfirmation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.Write([]byte(`{"isDeleted": true}`))
	}))

	deleted, err := client.DeleteCart(context.Background(), "tok", "cart-9")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestListProducts_NeedsNoToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"products": []map[string]any{{"id": 1, "name": "chair", "price": "30"}},
		})
	}))

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "chair", products[0].Name)
}

func TestDo_MapsNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetCart(context.Background(), "tok")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDo_SurfacesServerErrors(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.GetCart(context.Background(), "tok")
	require.ErrorContains(t, err, "status 500")
}

func TestSubmitOrder_ReturnsOrderID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"order_id": "ord-77"}`))
	}))

	id, err := client.SubmitOrder(context.Background(), "tok", &domain.Order{Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, "ord-77", id)
}
