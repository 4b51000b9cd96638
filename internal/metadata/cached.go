// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"time"

	"github.com/cenxiv/translation-engine/internal/cache"
	"github.com/cenxiv/translation-engine/pkg/types"
)

// Fetcher is the metadata entry point the pipeline depends on: records
// for a daily listing, ordered, with short-term caching by announcement
// day when one is known.
type Fetcher interface {
	Fetch(ctx context.Context, day time.Time, identifiers []string) ([]types.Record, error)
}

// Cached wraps a Source with the short-term metadata cache. Only the
// identifiers missing from the cache are fetched upstream; a zero day
// bypasses the cache entirely.
type Cached struct {
	source Source
	cache  *cache.Metadata
}

// NewCached builds the caching fetcher. A nil cache degrades to a plain
// pass-through.
func NewCached(source Source, c *cache.Metadata) *Cached {
	return &Cached{source: source, cache: c}
}

// Fetch returns one record per identifier in request order.
func (c *Cached) Fetch(ctx context.Context, day time.Time, identifiers []string) ([]types.Record, error) {
	if c.cache == nil || day.IsZero() {
		return c.source.FetchBatch(ctx, identifiers)
	}

	records := make([]types.Record, len(identifiers))
	var misses []string
	var missIdx []int
	for i, id := range identifiers {
		if r, ok := c.cache.Get(day, id); ok {
			records[i] = r
			continue
		}
		misses = append(misses, id)
		missIdx = append(missIdx, i)
	}

	if len(misses) > 0 {
		fetched, err := c.source.FetchBatch(ctx, misses)
		if err != nil {
			return nil, err
		}
		for j, r := range fetched {
			records[missIdx[j]] = r
			c.cache.Put(day, misses[j], r)
		}
	}

	return records, nil
}
