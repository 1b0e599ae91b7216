// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package binder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taibuivan/pokebinder/internal/platform/constants"
)

// CachedRepository decorates a [Repository] with a Redis read-through cache
// of binder documents.
//
// The wrapped repository stays authoritative. Cache failures are logged and
// bypassed, never returned; every successful write refreshes or evicts the
// cached document.
type CachedRepository struct {
	Repository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRepository wraps next with a document cache stored under
// [constants.RedisPrefixBinder].
func NewCachedRepository(next Repository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedRepository{Repository: next, client: client, ttl: ttl, logger: logger}
}

func cacheKey(id string) string {
	return constants.RedisPrefixBinder + id
}

// FindByID serves the document from Redis when present.
func (repository *CachedRepository) FindByID(context context.Context, id string) (*Binder, error) {
	if cached, ok := repository.load(context, id); ok {
		return cached, nil
	}

	binder, err := repository.Repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	repository.store(context, binder)
	return binder, nil
}

func (repository *CachedRepository) Create(context context.Context, binder *Binder) error {
	if err := repository.Repository.Create(context, binder); err != nil {
		return err
	}
	repository.store(context, binder)
	return nil
}

func (repository *CachedRepository) Mutate(context context.Context, id string, fn Mutation) (*Binder, error) {
	binder, err := repository.Repository.Mutate(context, id, fn)
	if err != nil {
		// The stored document may have moved on without us
		if errors.Is(err, ErrNotFound) {
			repository.evict(context, id)
		}
		return nil, err
	}

	repository.store(context, binder)
	return binder, nil
}

func (repository *CachedRepository) Delete(context context.Context, id string) error {
	err := repository.Repository.Delete(context, id)
	repository.evict(context, id)
	return err
}

// # Cache Plumbing

func (repository *CachedRepository) load(context context.Context, id string) (*Binder, bool) {
	data, err := repository.client.Get(context, cacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			repository.logger.Warn("binder_cache_read_failed", slog.String("binder_id", id), slog.Any("error", err))
		}
		return nil, false
	}

	var binder Binder
	if err := json.Unmarshal(data, &binder); err != nil {
		repository.logger.Warn("binder_cache_corrupt", slog.String("binder_id", id), slog.Any("error", err))
		repository.evict(context, id)
		return nil, false
	}

	binder.normalize()
	return &binder, true
}

func (repository *CachedRepository) store(context context.Context, binder *Binder) {
	data, err := json.Marshal(binder)
	if err != nil {
		return
	}
	if err := repository.client.Set(context, cacheKey(binder.ID), data, repository.ttl).Err(); err != nil {
		repository.logger.Warn("binder_cache_write_failed", slog.String("binder_id", binder.ID), slog.Any("error", err))
	}
}

func (repository *CachedRepository) evict(context context.Context, id string) {
	if err := repository.client.Del(context, cacheKey(id)).Err(); err != nil {
		repository.logger.Warn("binder_cache_evict_failed", slog.String("binder_id", id), slog.Any("error", err))
	}
}
