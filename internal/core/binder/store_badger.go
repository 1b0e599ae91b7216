// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package binder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/taibuivan/pokebinder/internal/platform/dberr"
)

// Key layout of the embedded store.
const (
	binderPrefix         = "binder:"            // binder:{id} -> JSON document
	bindersByOwnerPrefix = "idx:binders:owner:" // idx:binders:owner:{ownerID}:{id} -> empty
	bindersBySlugPrefix  = "idx:binders:slug:"  // idx:binders:slug:{ownerID}:{slug} -> id
)

// BadgerRepository implements [Repository] on an embedded Badger database.
//
// It is the file-backed emulation of the binder API used for local and
// static deployments. Each mutation runs inside a single read-write
// transaction, so a concurrent writer surfaces as a retryable transport error
// instead of a lost update.
type BadgerRepository struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenBadgerRepository opens (or creates) the database at path.
// An empty path opens a purely in-memory database.
func OpenBadgerRepository(path string, logger *slog.Logger) (*BadgerRepository, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts.SyncWrites = true
		opts.CompactL0OnClose = true
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("binder_store_opened", slog.String("driver", "badger"), slog.String("path", path))

	return &BadgerRepository{db: db, logger: logger}, nil
}

// Close flushes and closes the underlying database.
func (repository *BadgerRepository) Close() error {
	repository.logger.Info("binder_store_closed", slog.String("driver", "badger"))
	return repository.db.Close()
}

// Ping verifies the database is still open and readable.
func (repository *BadgerRepository) Ping(_ context.Context) error {
	if repository.db.IsClosed() {
		return dberr.Wrap(errors.New("badger db is closed"), "ping")
	}
	return nil
}

func binderKey(id string) []byte {
	return []byte(binderPrefix + id)
}

func ownerIndexKey(ownerID, id string) []byte {
	return fmt.Appendf(nil, "%s%s:%s", bindersByOwnerPrefix, ownerID, id)
}

func slugIndexKey(ownerID, slug string) []byte {
	return fmt.Appendf(nil, "%s%s:%s", bindersBySlugPrefix, ownerID, slug)
}

// # Transaction Helpers

func readBinder(txn *badger.Txn, id string) (*Binder, error) {
	item, err := txn.Get(binderKey(id))
	if err != nil {
		return nil, err
	}

	var binder Binder
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &binder)
	}); err != nil {
		return nil, fmt.Errorf("decode binder %s: %w", id, err)
	}

	binder.normalize()
	return &binder, nil
}

func writeBinder(txn *badger.Txn, binder *Binder) error {
	data, err := json.Marshal(binder)
	if err != nil {
		return fmt.Errorf("marshal binder: %w", err)
	}
	if err := txn.Set(binderKey(binder.ID), data); err != nil {
		return err
	}
	if err := txn.Set(ownerIndexKey(binder.OwnerID, binder.ID), []byte{}); err != nil {
		return fmt.Errorf("set owner index: %w", err)
	}
	if err := txn.Set(slugIndexKey(binder.OwnerID, binder.Slug), []byte(binder.ID)); err != nil {
		return fmt.Errorf("set slug index: %w", err)
	}
	return nil
}

// # Repository Implementation

func (repository *BadgerRepository) Create(_ context.Context, binder *Binder) error {
	stored := binder.Clone()
	stored.normalize()

	err := repository.db.Update(func(txn *badger.Txn) error {
		return writeBinder(txn, stored)
	})
	if err != nil {
		return dberr.WrapAs(err, "create_binder", ErrNotFound)
	}

	repository.logger.Debug("binder_stored", slog.String("binder_id", binder.ID), slog.String("owner_id", binder.OwnerID))
	return nil
}

func (repository *BadgerRepository) FindByID(_ context.Context, id string) (*Binder, error) {
	var binder *Binder
	err := repository.db.View(func(txn *badger.Txn) error {
		var err error
		binder, err = readBinder(txn, id)
		return err
	})
	if err != nil {
		return nil, dberr.WrapAs(err, "get_binder", ErrNotFound)
	}
	return binder, nil
}

func (repository *BadgerRepository) FindBySlug(_ context.Context, ownerID, slug string) (*Binder, error) {
	var binder *Binder
	err := repository.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(slugIndexKey(ownerID, slug))
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		binder, err = readBinder(txn, string(id))
		return err
	})
	if err != nil {
		return nil, dberr.WrapAs(err, "get_binder_by_slug", ErrNotFound)
	}
	return binder, nil
}

func (repository *BadgerRepository) ListByOwner(context context.Context, ownerID string, limit, offset int) ([]*Binder, int, error) {
	if err := context.Err(); err != nil {
		return nil, 0, err
	}

	owned := make([]*Binder, 0)

	// Scan owner index: idx:binders:owner:{ownerID}:{id}
	prefix := fmt.Appendf(nil, "%s%s:", bindersByOwnerPrefix, ownerID)

	err := repository.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		var ids []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, string(prefix)))
		}

		for _, id := range ids {
			binder, err := readBinder(txn, id)
			if errors.Is(err, badger.ErrKeyNotFound) {
				repository.logger.Warn("binder_index_dangling", slog.String("binder_id", id))
				continue
			}
			if err != nil {
				return err
			}
			owned = append(owned, binder)
		}
		return nil
	})
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_binders")
	}

	sortRecent(owned)
	return paginate(owned, limit, offset), len(owned), nil
}

func (repository *BadgerRepository) Mutate(_ context.Context, id string, fn Mutation) (*Binder, error) {
	var result *Binder

	err := repository.db.Update(func(txn *badger.Txn) error {
		stored, err := readBinder(txn, id)
		if err != nil {
			return err
		}

		working := stored.Clone()
		changed, err := fn(working)
		if err != nil {
			return err
		}
		if !changed {
			result = stored
			return nil
		}

		working.normalize()

		// Renames move the slug index entry
		if working.Slug != stored.Slug {
			if err := txn.Delete(slugIndexKey(stored.OwnerID, stored.Slug)); err != nil {
				return fmt.Errorf("delete slug index: %w", err)
			}
		}

		if err := writeBinder(txn, working); err != nil {
			return err
		}
		result = working
		return nil
	})
	if err != nil {
		return nil, dberr.WrapAs(err, "mutate_binder", ErrNotFound)
	}

	return result.Clone(), nil
}

func (repository *BadgerRepository) Delete(_ context.Context, id string) error {
	err := repository.db.Update(func(txn *badger.Txn) error {
		stored, err := readBinder(txn, id)
		if err != nil {
			return err
		}

		if err := txn.Delete(binderKey(id)); err != nil {
			return fmt.Errorf("delete binder: %w", err)
		}
		if err := txn.Delete(ownerIndexKey(stored.OwnerID, id)); err != nil {
			return fmt.Errorf("delete owner index: %w", err)
		}
		if err := txn.Delete(slugIndexKey(stored.OwnerID, stored.Slug)); err != nil {
			return fmt.Errorf("delete slug index: %w", err)
		}
		return nil
	})
	if err != nil {
		return dberr.WrapAs(err, "delete_binder", ErrNotFound)
	}

	repository.logger.Debug("binder_removed", slog.String("binder_id", id))
	return nil
}
