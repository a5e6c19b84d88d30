package geolib

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

type cachingProvider struct {
	Provider

	cache *ristretto.Cache
	ttl   time.Duration
}

func (c cachingProvider) Lookup(ctx context.Context, ip string) (AttributeMap, error) {
	if value, ok := c.cache.Get(ip); ok {
		return value.(AttributeMap), nil
	}

	result, err := c.Provider.Lookup(ctx, ip)
	if err != nil {
		return nil, err
	}

	c.cache.SetWithTTL(ip, result, 1, c.ttl)

	return result, nil
}

func (c cachingProvider) Close() error {
	c.cache.Close()

	if closer, ok := c.Provider.(interface{ Close() error }); ok {
		return closer.Close()
	}

	return nil
}

// NewCachingProvider wraps a provider with a process-wide in-memory
// cache. Unlike a cache of Resolver which lives as long as a request,
// this one is shared by all resolvers which use the same provider
// instance. Failed lookups are not cached.
//
// Cache is eventually consistent: value may appear a bit later after
// a lookup.
func NewCachingProvider(provider Provider, itemsCount uint, ttl time.Duration) (Provider, error) {
	cacheConfig := &ristretto.Config{
		MaxCost:     int64(itemsCount),
		NumCounters: 10 * int64(itemsCount),
		Metrics:     false,
		BufferItems: 64,
	}

	cache, err := ristretto.NewCache(cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot create a cache: %w", err)
	}

	return cachingProvider{
		Provider: provider,
		cache:    cache,
		ttl:      ttl,
	}, nil
}
