// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stocknotes/internal/feature/symbols/domain/entity"
	"stocknotes/internal/feature/symbols/usecase"
)

// CachingQuoteRepository decorates a QuoteRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying provider client.
type CachingQuoteRepository struct {
	inner     usecase.QuoteRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.QuoteRepository = (*CachingQuoteRepository)(nil)

// NewCachingQuoteRepository decorates a QuoteRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "quotes".
func NewCachingQuoteRepository(rdb *redis.Client, ttl time.Duration, inner usecase.QuoteRepository, namespace string) *CachingQuoteRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "quotes"
	}
	return &CachingQuoteRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FetchPrice retrieves a quote, checking cache first then falling back to the provider.
func (c *CachingQuoteRepository) FetchPrice(ctx context.Context, ticker string) (entity.Quote, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FetchPrice(ctx, ticker)
	}

	key := c.priceKey(ticker)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Quote
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the provider
	out, err := c.inner.FetchPrice(ctx, ticker)
	if err != nil {
		return entity.Quote{}, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// SearchSymbols retrieves autocomplete results, checking cache first then
// falling back to the provider. Search results change far less often than
// prices, so they share the same TTL.
func (c *CachingQuoteRepository) SearchSymbols(ctx context.Context, query string) ([]entity.SymbolSearchResult, error) {
	if c.rdb == nil {
		return c.inner.SearchSymbols(ctx, query)
	}

	key := c.searchKey(query)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.SymbolSearchResult
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.SearchSymbols(ctx, query)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Invalidate removes the cached quote for a ticker. Used after a forced
// refresh so the next read hits the provider.
func (c *CachingQuoteRepository) Invalidate(ctx context.Context, ticker string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.priceKey(ticker)).Err()
}

// priceKey generates a cache key for a single quote lookup.
func (c *CachingQuoteRepository) priceKey(ticker string) string {
	return fmt.Sprintf("%s:price:%s", c.namespace, safe(strings.ToUpper(ticker)))
}

// searchKey generates a cache key for an autocomplete query.
func (c *CachingQuoteRepository) searchKey(query string) string {
	return fmt.Sprintf("%s:search:%s", c.namespace, safe(strings.ToLower(query)))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	// Simple escaping of characters that are problematic for Redis keys
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
