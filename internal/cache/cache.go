// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache holds recently fetched metadata records keyed by
// (announcement day, identifier), so repeated requests for the same daily
// listing skip the metadata source. It is an optimization only: misses
// fall through and correctness never depends on a hit.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/cenxiv/translation-engine/internal/listing"
	"github.com/cenxiv/translation-engine/pkg/types"
)

const (
	defaultTTL  = 72 * time.Hour
	defaultSize = 4096
)

// Metadata is a bounded, expiring cache of metadata records.
type Metadata struct {
	lru *expirable.LRU[string, types.Record]
}

// New builds a cache with the configured size and TTL, falling back to
// a few days of bounded retention.
func New(cfg types.MetadataConfig) *Metadata {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultSize
	}
	return &Metadata{lru: expirable.NewLRU[string, types.Record](size, nil, ttl)}
}

// Get returns the record cached for (day, identifier), if any.
func (m *Metadata) Get(day time.Time, identifier string) (types.Record, bool) {
	return m.lru.Get(key(day, identifier))
}

// Put stores the record under (day, identifier).
func (m *Metadata) Put(day time.Time, identifier string, record types.Record) {
	m.lru.Add(key(day, identifier), record)
}

// Len returns the number of live entries.
func (m *Metadata) Len() int {
	return m.lru.Len()
}

// key partitions by calendar day so the same identifier on different
// announcement days caches independently. The day renders through the
// canonical DayKey form shared with display URLs.
func key(day time.Time, identifier string) string {
	return listing.DayKey(day) + "/" + identifier
}
