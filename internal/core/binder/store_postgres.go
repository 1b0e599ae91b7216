// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package binder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/pokebinder/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
//
// The binder document (pages and slots) lives in a JSONB column; the columns
// beside it mirror the fields needed for lookups and listing.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed binder store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Binder Retrieval

func scanDocument(row pgx.Row) (*Binder, error) {
	var document []byte
	if err := row.Scan(&document); err != nil {
		return nil, err
	}

	var binder Binder
	if err := json.Unmarshal(document, &binder); err != nil {
		return nil, fmt.Errorf("decode binder document: %w", err)
	}

	binder.normalize()
	return &binder, nil
}

/*
FindByID retrieves a single binder document by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Binder: Hydrated document
  - error: ErrNotFound or database retrieval failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Binder, error) {
	const query = `SELECT document FROM binders WHERE id = $1`

	binder, err := scanDocument(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.WrapAs(err, "get_binder_by_id", ErrNotFound)
	}
	return binder, nil
}

/*
FindBySlug retrieves a binder by its owner-scoped URL slug.

Parameters:
  - context: context.Context
  - ownerID: string
  - slug: string

Returns:
  - *Binder: Hydrated document
  - error: ErrNotFound or database retrieval failures
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, ownerID, slug string) (*Binder, error) {
	const query = `SELECT document FROM binders WHERE owner_id = $1 AND slug = $2`

	binder, err := scanDocument(repository.db.QueryRow(context, query, ownerID, slug))
	if err != nil {
		return nil, dberr.WrapAs(err, "get_binder_by_slug", ErrNotFound)
	}
	return binder, nil
}

/*
ListByOwner returns one page of an owner's binders.

Description: Uses COUNT(*) OVER() so the total arrives with the page.

Parameters:
  - context: context.Context
  - ownerID: string
  - limit: int
  - offset: int

Returns:
  - []*Binder: Documents on the requested page
  - int: Total record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListByOwner(context context.Context, ownerID string, limit, offset int) ([]*Binder, int, error) {
	const query = `
		SELECT document, COUNT(*) OVER() AS total
		FROM binders
		WHERE owner_id = $1
		ORDER BY updated_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := repository.db.Query(context, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_binders")
	}
	defer rows.Close()

	binders := make([]*Binder, 0)
	var total int
	for rows.Next() {
		var document []byte
		if err := rows.Scan(&document, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_binder")
		}

		var binder Binder
		if err := json.Unmarshal(document, &binder); err != nil {
			return nil, 0, dberr.Wrap(err, "decode_binder")
		}
		binder.normalize()
		binders = append(binders, &binder)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_binders")
	}

	// An offset past the end yields no rows and therefore no window total
	if len(binders) == 0 && offset > 0 {
		const countQuery = `SELECT COUNT(*) FROM binders WHERE owner_id = $1`
		if err := repository.db.QueryRow(context, countQuery, ownerID).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, "count_binders")
		}
	}

	return binders, total, nil
}

// # Binder Management

/*
Create persists a new binder row and its document.

Parameters:
  - context: context.Context
  - binder: *Binder

Returns:
  - error: Conflict on a duplicate slug, or database failures
*/
func (repository *PostgresRepository) Create(context context.Context, binder *Binder) error {
	const query = `
		INSERT INTO binders (id, owner_id, slug, name, size, is_public, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	stored := binder.Clone()
	stored.normalize()

	document, err := json.Marshal(stored)
	if err != nil {
		return dberr.Wrap(err, "encode_binder")
	}

	_, err = repository.db.Exec(context, query,
		stored.ID, stored.OwnerID, stored.Slug, stored.Name, string(stored.Size), stored.IsPublic,
		document, stored.CreatedAt, stored.UpdatedAt,
	)
	return dberr.Wrap(err, "create_binder")
}

/*
Mutate applies fn to a binder under a row lock.

Description: SELECT ... FOR UPDATE and the following UPDATE run in one
transaction, so concurrent mutations of the same binder are serialised by
PostgreSQL. A mutation error rolls the transaction back.

Parameters:
  - context: context.Context
  - id: string
  - fn: Mutation

Returns:
  - *Binder: The stored document after the call
  - error: ErrNotFound, the mutation's error, or database failures
*/
func (repository *PostgresRepository) Mutate(context context.Context, id string, fn Mutation) (*Binder, error) {
	const selectQuery = `SELECT document FROM binders WHERE id = $1 FOR UPDATE`
	const updateQuery = `
		UPDATE binders
		SET slug = $2, name = $3, is_public = $4, document = $5, updated_at = $6
		WHERE id = $1
	`

	tx, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_mutate_binder")
	}
	defer func() { _ = tx.Rollback(context) }()

	stored, err := scanDocument(tx.QueryRow(context, selectQuery, id))
	if err != nil {
		return nil, dberr.WrapAs(err, "lock_binder", ErrNotFound)
	}

	working := stored.Clone()
	changed, err := fn(working)
	if err != nil {
		return nil, err
	}
	if !changed {
		return stored, nil
	}

	working.normalize()
	document, err := json.Marshal(working)
	if err != nil {
		return nil, dberr.Wrap(err, "encode_binder")
	}

	if _, err := tx.Exec(context, updateQuery,
		working.ID, working.Slug, working.Name, working.IsPublic, document, working.UpdatedAt,
	); err != nil {
		return nil, dberr.Wrap(err, "update_binder")
	}

	if err := tx.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_binder")
	}

	return working, nil
}

/*
Delete removes a binder row.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: ErrNotFound if no row was removed
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM binders WHERE id = $1`

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_binder")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
