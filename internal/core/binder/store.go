// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package binder

import "context"

// Mutation edits a working copy of a binder document.
//
// It reports whether the document changed. A mutation that returns an error
// or reports no change leaves the stored document untouched.
type Mutation func(binder *Binder) (changed bool, err error)

// # Binder Data Access

// Repository defines the persistence contract shared by every binder backend.
//
// Implementations must make [Repository.Mutate] atomic: a reader never observes
// a document between the start and the end of one mutation.
type Repository interface {

	/*
		Create persists a new binder document.

		Parameters:
		  - context: context.Context
		  - binder: *Binder (Fully initialised, normalised document)

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, binder *Binder) error

	/*
		FindByID retrieves a binder document by its UUID.

		Parameters:
		  - context: context.Context
		  - id: string (UUIDv7)

		Returns:
		  - *Binder: A private copy of the document
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Binder, error)

	/*
		FindBySlug retrieves the binder an owner named with the given slug.

		Parameters:
		  - context: context.Context
		  - ownerID: string
		  - slug: string

		Returns:
		  - *Binder: A private copy of the document
		  - error: ErrNotFound if missing
	*/
	FindBySlug(context context.Context, ownerID, slug string) (*Binder, error)

	/*
		ListByOwner returns one page of an owner's binders, most recently updated first.

		Parameters:
		  - context: context.Context
		  - ownerID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []*Binder: Documents on the requested page
		  - int: Total number of binders owned
		  - error: Retrieval failures
	*/
	ListByOwner(context context.Context, ownerID string, limit, offset int) ([]*Binder, int, error)

	/*
		Mutate loads a binder, applies fn to a copy and saves the result in one step.

		Parameters:
		  - context: context.Context
		  - id: string
		  - fn: Mutation

		Returns:
		  - *Binder: The stored document after the call (unchanged on no-op)
		  - error: ErrNotFound, the mutation's error, or persistence failures
	*/
	Mutate(context context.Context, id string, fn Mutation) (*Binder, error)

	/*
		Delete removes a binder document.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: ErrNotFound if missing
	*/
	Delete(context context.Context, id string) error
}

// paginate slices an ordered result set the way every backend does.
func paginate(binders []*Binder, limit, offset int) []*Binder {
	if offset < 0 || offset >= len(binders) {
		return []*Binder{}
	}
	end := len(binders)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return binders[offset:end]
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*BadgerRepository)(nil)
	_ Repository = (*PostgresRepository)(nil)
	_ Repository = (*CachedRepository)(nil)
)
