package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/events"
	"github.com/fjod/storefront/internal/gateway"
	"github.com/fjod/storefront/internal/session"
)

type CheckoutHandler struct {
	catalog   *catalog.Service
	gw        gateway.CommerceGateway
	publisher events.Publisher
	timeout   time.Duration
}

func NewCheckoutHandler(catalog *catalog.Service, gw gateway.CommerceGateway, publisher events.Publisher, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		catalog:   catalog,
		gw:        gw,
		publisher: publisher,
		timeout:   timeout,
	}
}

type BeginCheckoutRequestDTO struct {
	// ProductID > 0 selects the buy-now flow; otherwise the current
	// cart is snapshotted.
	ProductID int64 `json:"product_id,omitempty"`
	Quantity  int   `json:"quantity,omitempty"`
}

type AddressRequestDTO struct {
	domain.Address
}

type BillingRequestDTO struct {
	SameAsShipping bool           `json:"same_as_shipping"`
	Address        domain.Address `json:"address"`
}

type PlaceOrderRequestDTO struct {
	TermsAccepted bool `json:"terms_accepted"`
}

type CheckoutResponseDTO struct {
	Step     string                `json:"step"`
	Items    []domain.CartLineItem `json:"items"`
	Subtotal decimal.Decimal       `json:"subtotal"`
	Shipping decimal.Decimal       `json:"shipping"`
	Total    decimal.Decimal       `json:"total"`
}

type OrderResponseDTO struct {
	OrderID string `json:"order_id"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess := getSessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session was not resolved")
		return
	}

	var req BeginCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess.ResetCheckout()

	if req.ProductID > 0 {
		product, err := h.catalog.FindProduct(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, gateway.ErrNotFound) {
				respondError(w, http.StatusNotFound, "not_found", "product not found")
				return
			}
			log.Printf("buy now product lookup failed: %v", err)
			respondError(w, http.StatusServiceUnavailable, "service_unavailable", "product catalog is unavailable")
			return
		}

		quantity := req.Quantity
		if quantity < 1 {
			quantity = 1
		}
		sess.Checkout.AddProduct(domain.CartLineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  quantity,
			ImageURL:  product.ImageURL,
		})
	} else {
		sess.Checkout.AddProducts(sess.Cart.Items())
	}

	respondJSON(w, http.StatusCreated, checkoutResponse(sess))
}

// GET /api/v1/checkout
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session was not resolved")
		return
	}

	respondJSON(w, http.StatusOK, checkoutResponse(sess))
}

// PUT /api/v1/checkout/items/{product_id}
func (h *CheckoutHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session was not resolved")
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess.Checkout.UpdateQuantity(productID, req.Quantity)

	respondJSON(w, http.StatusOK, checkoutResponse(sess))
}

// DELETE /api/v1/checkout/items/{product_id}
func (h *CheckoutHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session was not resolved")
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	sess.Checkout.RemoveProduct(productID)

	respondJSON(w, http.StatusOK, checkoutResponse(sess))
}

// POST /api/v1/checkout/shipping
func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session was not resolved")
		return
	}

	var req AddressRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := sess.Steps.SubmitShipping(req.Address); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, checkoutResponse(sess))
}

// POST /api/v1/checkout/billing
func (h *CheckoutHandler) SubmitBilling(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session was not resolved")
		return
	}

	var req BillingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := sess.Steps.SubmitBilling(req.SameAsShipping, req.Address); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, checkoutResponse(sess))
}

// POST /api/v1/checkout/order
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess := getSessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session was not resolved")
		return
	}

	token := getTokenFromContext(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing auth credential")
		return
	}

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := sess.Steps.EnsureSubmittable(req.TermsAccepted); err != nil {
		respondError(w, http.StatusConflict, "not_submittable", err.Error())
		return
	}

	items := sess.Checkout.Items()
	if len(items) == 0 {
		respondError(w, http.StatusConflict, "empty_checkout", "there is nothing to order")
		return
	}

	order := &domain.Order{
		Items:           items,
		ShippingAddress: sess.Steps.ShippingAddress(),
		BillingAddress:  sess.Steps.BillingAddress(),
		Subtotal:        sess.Checkout.Subtotal(),
		Shipping:        sess.Checkout.Shipping(),
		Total:           sess.Checkout.Total(),
		Currency:        "USD",
		PlacedAt:        time.Now(),
	}

	orderID, err := h.gw.SubmitOrder(ctx, token, order)
	if err != nil {
		log.Printf("submit order failed: %v", err)
		respondError(w, http.StatusBadGateway, "order_failed", "order could not be submitted")
		return
	}

	if err := h.publisher.PublishOrderPlaced(ctx, events.OrderPlacedEvent{
		OrderID:   orderID,
		SessionID: sess.ID,
		Items:     order.Items,
		Subtotal:  order.Subtotal,
		Shipping:  order.Shipping,
		Total:     order.Total,
		Currency:  order.Currency,
		PlacedAt:  order.PlacedAt,
	}); err != nil {
		// The order is already placed; the event is best-effort.
		log.Printf("publish order event failed: %v", err)
	}

	sess.ResetCheckout()
	sess.Cart.Fetch(ctx, token)

	respondJSON(w, http.StatusCreated, OrderResponseDTO{OrderID: orderID})
}

func checkoutResponse(sess *session.Session) CheckoutResponseDTO {
	return CheckoutResponseDTO{
		Step:     sess.Steps.Step().String(),
		Items:    sess.Checkout.Items(),
		Subtotal: sess.Checkout.Subtotal(),
		Shipping: sess.Checkout.Shipping(),
		Total:    sess.Checkout.Total(),
	}
}
