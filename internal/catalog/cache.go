// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of cards kept when no size is configured.
const DefaultCacheSize = 1024

// Stats reports the effectiveness of a [CachedLookup].
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Size   int    `json:"size"`
}

// CachedLookup is a bounded read-through cache in front of another [Lookup].
//
// Only successful lookups are cached; a card missing from the catalog is
// asked for again next time.
type CachedLookup struct {
	next   Lookup
	cache  *lru.Cache[string, Card]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedLookup wraps next with an LRU of the given size.
func NewCachedLookup(next Lookup, size int) (*CachedLookup, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	cache, err := lru.New[string, Card](size)
	if err != nil {
		return nil, fmt.Errorf("catalog: create cache: %w", err)
	}

	return &CachedLookup{next: next, cache: cache}, nil
}

func (lookup *CachedLookup) Card(context context.Context, id string) (*Card, error) {
	if card, ok := lookup.cache.Get(id); ok {
		lookup.hits.Add(1)
		return &card, nil
	}

	lookup.misses.Add(1)
	card, err := lookup.next.Card(context, id)
	if err != nil {
		return nil, err
	}

	lookup.cache.Add(id, *card)
	return card, nil
}

// Clear drops every cached card and resets the counters.
func (lookup *CachedLookup) Clear() {
	lookup.cache.Purge()
	lookup.hits.Store(0)
	lookup.misses.Store(0)
}

// Stats returns the current hit, miss and size counters.
func (lookup *CachedLookup) Stats() Stats {
	return Stats{
		Hits:   lookup.hits.Load(),
		Misses: lookup.misses.Load(),
		Size:   lookup.cache.Len(),
	}
}
