package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cart is the authoritative cart as returned by the commerce gateway.
type Cart struct {
	ID    string         `json:"id"`
	Items []CartLineItem `json:"items"`
}

type CartLineItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url,omitempty"`

	// Shipping metadata, defaulted when the gateway omits it.
	SKU            string          `json:"sku,omitempty"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	Weight         float64         `json:"weight,omitempty"`
	Dimensions     string          `json:"dimensions,omitempty"`
}

func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Normalize enforces the line-item invariants: quantity never drops
// below 1 (removal is always an explicit operation) and absent
// shipping metadata gets its defaults.
func (i CartLineItem) Normalize() CartLineItem {
	if i.Quantity < 1 {
		i.Quantity = 1
	}
	if i.SKU == "" {
		i.SKU = fmt.Sprintf("SKU-%d", i.ProductID)
	}
	return i
}

// Subtotal sums unit price times quantity over the given items.
func Subtotal(items []CartLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
