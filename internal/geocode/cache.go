package geocode

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"ConstructionWatch/internal/domain"
	"ConstructionWatch/internal/hashing"
	"ConstructionWatch/internal/ports"
)

// CachingResolver memoizes another resolver for the process lifetime.
// Not-found answers are cached too; errors are not.
type CachingResolver struct {
	next  ports.GeocodeResolver
	mu    sync.RWMutex
	cache map[string]*domain.Coordinates
	group singleflight.Group
}

var _ ports.GeocodeResolver = (*CachingResolver)(nil)

// NewCachingResolver wraps next.
func NewCachingResolver(next ports.GeocodeResolver) *CachingResolver {
	return &CachingResolver{next: next, cache: make(map[string]*domain.Coordinates)}
}

// CacheKey normalizes a lookup the same way content text is normalized.
func CacheKey(query, regionHint string) string {
	return hashing.NormalizeText(query) + "|" + hashing.NormalizeText(regionHint)
}

// Resolve serves from cache, collapsing concurrent identical lookups.
func (c *CachingResolver) Resolve(ctx context.Context, query, regionHint string) (*domain.Coordinates, error) {
	key := CacheKey(query, regionHint)

	c.mu.RLock()
	coords, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return copyCoords(coords), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.cache[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}
		res, err := c.next.Resolve(ctx, query, regionHint)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cache[key] = res
		c.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return copyCoords(v.(*domain.Coordinates)), nil
}

// Len reports how many lookups are cached.
func (c *CachingResolver) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func copyCoords(c *domain.Coordinates) *domain.Coordinates {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
