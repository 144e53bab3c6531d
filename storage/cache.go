package storage

import (
	"context"
	"sync"

	"airbnb-dashboard/models"
)

// CachedSource memoizes the first successful load of another source.
// Failed loads are not remembered, so a later call tries again.
type CachedSource struct {
	inner Source

	mu       sync.Mutex
	loaded   bool
	listings []*models.Listing
}

// NewCachedSource wraps inner
func NewCachedSource(inner Source) *CachedSource {
	return &CachedSource{inner: inner}
}

func (c *CachedSource) Name() string { return c.inner.Name() }

// Load returns the memoized dataset, loading it on first use
func (c *CachedSource) Load(ctx context.Context) ([]*models.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.listings, nil
	}
	listings, err := c.inner.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.listings = listings
	c.loaded = true
	return listings, nil
}
