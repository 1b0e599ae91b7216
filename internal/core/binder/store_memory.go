// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package binder

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository implements [Repository] with an in-process map.
//
// Documents are stored and returned as deep copies, so callers can never
// reach stored state through a returned pointer.
type MemoryRepository struct {
	mu      sync.RWMutex
	binders map[string]*Binder
}

// NewMemoryRepository constructs an empty in-memory binder store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{binders: make(map[string]*Binder)}
}

func (repository *MemoryRepository) Create(_ context.Context, binder *Binder) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored := binder.Clone()
	stored.normalize()
	repository.binders[binder.ID] = stored
	return nil
}

func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*Binder, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	stored, ok := repository.binders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return stored.Clone(), nil
}

func (repository *MemoryRepository) FindBySlug(_ context.Context, ownerID, slug string) (*Binder, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	for _, stored := range repository.binders {
		if stored.OwnerID == ownerID && stored.Slug == slug {
			return stored.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (repository *MemoryRepository) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*Binder, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	owned := make([]*Binder, 0)
	for _, stored := range repository.binders {
		if stored.OwnerID == ownerID {
			owned = append(owned, stored.Clone())
		}
	}
	sortRecent(owned)

	return paginate(owned, limit, offset), len(owned), nil
}

func (repository *MemoryRepository) Mutate(_ context.Context, id string, fn Mutation) (*Binder, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.binders[id]
	if !ok {
		return nil, ErrNotFound
	}

	working := stored.Clone()
	changed, err := fn(working)
	if err != nil {
		return nil, err
	}
	if !changed {
		return stored.Clone(), nil
	}

	working.normalize()
	repository.binders[id] = working
	return working.Clone(), nil
}

func (repository *MemoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.binders[id]; !ok {
		return ErrNotFound
	}
	delete(repository.binders, id)
	return nil
}

// sortRecent orders binders by last modification, newest first, with id as tie-breaker.
func sortRecent(binders []*Binder) {
	sort.Slice(binders, func(i, j int) bool {
		if !binders[i].UpdatedAt.Equal(binders[j].UpdatedAt) {
			return binders[i].UpdatedAt.After(binders[j].UpdatedAt)
		}
		return binders[i].ID > binders[j].ID
	})
}
