package http

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/domain"
)

type ProductHandler struct {
	catalog *catalog.Service
	timeout time.Duration
}

func NewProductHandler(catalog *catalog.Service, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type ProductsResponseDTO struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

const defaultPageSize = 12

// GET /api/v1/products?min_price=&max_price=&sort=&page=&page_size=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		// Degrade to an explicit empty listing instead of failing the page.
		log.Printf("list products failed: %v", err)
		products = nil
	}

	q := r.URL.Query()

	minPrice := parseDecimal(q.Get("min_price"), decimal.Zero)
	maxPrice := parseDecimal(q.Get("max_price"), decimal.New(1, 12))
	filtered := catalog.FilterByPrice(products, minPrice, maxPrice)

	sorted := catalog.SortBy(filtered, catalog.SortKey(q.Get("sort")))

	page := parseInt(q.Get("page"), 1)
	pageSize := parseInt(q.Get("page_size"), defaultPageSize)
	paged := catalog.Paginate(sorted, page, pageSize)

	respondJSON(w, http.StatusOK, ProductsResponseDTO{
		Products: paged,
		Total:    len(filtered),
		Page:     page,
		PageSize: pageSize,
	})
}

func parseDecimal(raw string, fallback decimal.Decimal) decimal.Decimal {
	if raw == "" {
		return fallback
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
