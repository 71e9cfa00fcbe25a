package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the payload submitted to the commerce gateway once the
// checkout step gate and the terms flag both allow it.
type Order struct {
	Items           []CartLineItem  `json:"items"`
	ShippingAddress Address         `json:"shipping_address"`
	BillingAddress  Address         `json:"billing_address"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Shipping        decimal.Decimal `json:"shipping"`
	Total           decimal.Decimal `json:"total"`
	Currency        string          `json:"currency"`
	PlacedAt        time.Time       `json:"placed_at"`
}
