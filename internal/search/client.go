// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/lineage-engine/internal/cache"
	"github.com/pdiddy/lineage-engine/internal/httputil"
	"github.com/pdiddy/lineage-engine/internal/ratelimit"
	"github.com/pdiddy/lineage-engine/internal/retry"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

// Client wraps a Provider with caching, request coalescing, rate limiting
// and retries. Lookups consult the cache first; a miss acquires a rate
// limit slot, runs the provider call under the retry policy, and stores
// the result on success. Failed calls are never cached. Concurrent
// identical queries share a single upstream call.
type Client struct {
	provider Provider
	limiter  *ratelimit.Limiter
	store    cache.Store
	policy   retry.Policy
	logger   *log.Logger
	flight   singleflight.Group
}

// NewClient builds a Client around provider. limiter and store may be nil
// to disable rate limiting or caching.
func NewClient(provider Provider, limiter *ratelimit.Limiter, store cache.Store, rc types.RetryConfig, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		provider: provider,
		limiter:  limiter,
		store:    store,
		policy: retry.Policy{
			MaxAttempts: rc.MaxAttempts,
			BaseDelay:   rc.BaseDelay,
			Multiplier:  rc.Multiplier,
			MaxDelay:    rc.MaxDelay,
			Retryable:   httputil.IsTransient,
		},
		logger: logger,
	}
}

// Provider returns the wrapped provider.
func (c *Client) Provider() Provider { return c.provider }

// Fetch returns the records for query, from cache when possible. Errors
// are annotated with the provider and query that produced them.
func (c *Client) Fetch(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Record, error) {
	// The cache and coalescing keys carry the provider name: clients may
	// share one store, and one provider's results must never satisfy a
	// lookup for another's.
	key := c.provider.Name() + "|" + query.Fingerprint()

	if records, ok := c.cached(ctx, key); ok {
		c.logger.Debug("cache hit", "provider", c.provider.Name(), "query", query.String())
		return records, nil
	}

	// Coalesce concurrent identical lookups onto one upstream call. The
	// shared call runs under the first caller's context; later callers
	// can still bail out on their own cancellation.
	ch := c.flight.DoChan(key, func() (interface{}, error) {
		return c.fetchUpstream(ctx, key, query, cfg)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%s: query %s: %w", c.provider.Name(), query, res.Err)
		}
		if res.Shared {
			c.logger.Debug("coalesced duplicate query", "provider", c.provider.Name(), "query", query.String())
		}
		return res.Val.([]types.Record), nil
	}
}

// cached looks up key in the store. Store errors degrade to a miss.
func (c *Client) cached(ctx context.Context, key string) ([]types.Record, bool) {
	if c.store == nil {
		return nil, false
	}
	records, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "provider", c.provider.Name(), "error", err)
		return nil, false
	}
	return records, ok
}

func (c *Client) fetchUpstream(ctx context.Context, key string, query Query, cfg types.SearchConfig) ([]types.Record, error) {
	if c.limiter != nil {
		if err := c.limiter.Acquire(ctx); err != nil {
			return nil, err
		}
	}

	var records []types.Record
	err := retry.Do(ctx, c.policy, c.logger, func(ctx context.Context) error {
		got, err := c.provider.Search(ctx, query, cfg)
		if err != nil {
			return err
		}
		records = got
		return nil
	})
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		if err := c.store.Put(ctx, key, records); err != nil {
			c.logger.Warn("cache write failed", "provider", c.provider.Name(), "error", err)
		}
	}
	return records, nil
}
