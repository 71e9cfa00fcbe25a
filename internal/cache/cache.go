package cache

import (
	"context"
	"errors"

	"github.com/fjod/storefront/internal/domain"
)

// CatalogCache caches the gateway's product list. Cart state is never
// cached: the gateway stays the single source of truth for carts.
type CatalogCache interface {
	Get(ctx context.Context) ([]domain.Product, error)
	Set(ctx context.Context, products []domain.Product) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
