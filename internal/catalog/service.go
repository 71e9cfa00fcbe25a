package catalog

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/fjod/storefront/internal/cache"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/gateway"
)

const fetchKey = "catalog"

type Service struct {
	gw    gateway.CommerceGateway
	cache cache.CatalogCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(gw gateway.CommerceGateway, cache cache.CatalogCache) *Service {
	return &Service{
		gw:    gw,
		cache: cache,
	}
}

// ListProducts reads the product catalog cache-aside: cache first,
// then the gateway, with a singleflight collapsing concurrent misses.
func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do(fetchKey, func() (interface{}, error) {

		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil // catalog is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		products, errList := s.gw.ListProducts(ctx)
		if errList != nil {
			return nil, errList
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), products)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return products, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]domain.Product), nil
}

// FindProduct resolves a single product by ID from the cached catalog
// (used by the buy-now flow to build a checkout line item).
func (s *Service) FindProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		if p.ID == productID {
			return &p, nil
		}
	}
	return nil, gateway.ErrNotFound
}
