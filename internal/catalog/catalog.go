package catalog

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fjod/storefront/internal/domain"
)

type SortKey string

const (
	SortNameAsc      SortKey = "name-asc"
	SortNameDesc     SortKey = "name-desc"
	SortPriceAsc     SortKey = "price-asc"
	SortPriceDesc    SortKey = "price-desc"
	SortRatingDesc   SortKey = "rating-desc"
	SortDiscountDesc SortKey = "discount-desc"
)

// FilterByPrice keeps products whose price lies in [min, max], bounds
// inclusive. The source slice is never mutated.
func FilterByPrice(products []domain.Product, min, max decimal.Decimal) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Price.GreaterThanOrEqual(min) && p.Price.LessThanOrEqual(max) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// SortBy returns a sorted copy ordered by the comparator the key
// selects. Unknown keys leave the order untouched. Ties keep their
// relative order (stable sort).
func SortBy(products []domain.Product, key SortKey) []domain.Product {
	sorted := make([]domain.Product, len(products))
	copy(sorted, products)

	switch key {
	case SortNameAsc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	case SortNameDesc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name > sorted[j].Name })
	case SortPriceAsc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price.Cmp(sorted[j].Price) < 0 })
	case SortPriceDesc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price.Cmp(sorted[j].Price) > 0 })
	case SortRatingDesc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rating > sorted[j].Rating })
	case SortDiscountDesc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DiscountPct > sorted[j].DiscountPct })
	}

	return sorted
}

// Paginate returns page number `page` (1-indexed) of size `size`.
// Out-of-range pages yield an empty slice, not an error.
func Paginate(products []domain.Product, page, size int) []domain.Product {
	if page < 1 || size < 1 {
		return []domain.Product{}
	}

	// Pages past the last one are checked with division first:
	// (page-1)*size can overflow for huge page values and wrap to a
	// negative slice index.
	if len(products) == 0 || page-1 > (len(products)-1)/size {
		return []domain.Product{}
	}

	start := (page - 1) * size
	end := start + size
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}
