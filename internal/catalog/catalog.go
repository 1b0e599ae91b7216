// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog resolves catalog card identifiers to their display data.

The binder service denormalizes a card's name and image into the slot that
holds it. When a client places a card by id alone, the service asks a
[Lookup] for the rest.

# Core Responsibility

  - Static: [StaticLookup] serves a card list loaded from a JSON seed file.
  - Caching: [CachedLookup] bounds repeated lookups with an LRU and reports hit statistics.
*/
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/taibuivan/pokebinder/internal/platform/apperr"
)

// Card is the subset of catalog data the binder subsystem consumes.
type Card struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Image   *string `json:"image,omitempty"`
	SetName string  `json:"set_name,omitempty"`
	Rarity  string  `json:"rarity,omitempty"`
}

// ErrCardNotFound is returned for identifiers the catalog does not know.
var ErrCardNotFound = apperr.NotFound("Card")

// Lookup resolves a card by its catalog identifier.
type Lookup interface {
	Card(context context.Context, id string) (*Card, error)
}

// # Static Catalog

// StaticLookup is an in-memory catalog.
type StaticLookup struct {
	mu    sync.RWMutex
	cards map[string]Card
}

// NewStaticLookup builds a catalog from the given cards. Later duplicates win.
func NewStaticLookup(cards ...Card) *StaticLookup {
	lookup := &StaticLookup{cards: make(map[string]Card, len(cards))}
	for _, card := range cards {
		lookup.cards[card.ID] = card
	}
	return lookup
}

// LoadStaticLookup reads a JSON array of cards from path.
func LoadStaticLookup(path string) (*StaticLookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read seed: %w", err)
	}

	var cards []Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("catalog: decode seed %s: %w", path, err)
	}

	return NewStaticLookup(cards...), nil
}

func (lookup *StaticLookup) Card(_ context.Context, id string) (*Card, error) {
	lookup.mu.RLock()
	defer lookup.mu.RUnlock()

	card, ok := lookup.cards[id]
	if !ok {
		return nil, ErrCardNotFound.WithMessage("Card %q not found in catalog", id)
	}
	return &card, nil
}

// Len returns the number of cards in the catalog.
func (lookup *StaticLookup) Len() int {
	lookup.mu.RLock()
	defer lookup.mu.RUnlock()
	return len(lookup.cards)
}
