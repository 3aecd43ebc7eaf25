package redis

import (
	"context"
	"encoding/json"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

// CachedCatalog decorates a Catalog with a short-lived price cache. Existence
// checks always go to the source; only price lookups are cached, since those
// run on every order line.
type CachedCatalog struct {
	inner usecase.Catalog
	cache usecase.Cache
}

// NewCachedCatalog creates a new CachedCatalog.
func NewCachedCatalog(inner usecase.Catalog, cache usecase.Cache) *CachedCatalog {
	return &CachedCatalog{inner: inner, cache: cache}
}

// ProductExists reports whether a product exists.
func (c *CachedCatalog) ProductExists(ctx context.Context, id string) (bool, error) {
	return c.inner.ProductExists(ctx, id)
}

// CurrentPrice retrieves the current effective price, serving repeated lookups
// from the cache until the TTL expires.
func (c *CachedCatalog) CurrentPrice(ctx context.Context, productID string) (*domain.ProductPrice, error) {
	key := "price:" + productID

	if data, err := c.cache.Get(ctx, key); err == nil {
		var price domain.ProductPrice
		if err := json.Unmarshal(data, &price); err == nil {
			return &price, nil
		}
	}

	price, err := c.inner.CurrentPrice(ctx, productID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(price); err == nil {
		_ = c.cache.Set(ctx, key, data, usecase.PriceCacheTTL)
	}

	return price, nil
}
