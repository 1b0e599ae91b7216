// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package binder manages card binders: named, owned documents of fixed-size pages.

It owns every invariant of the binder document, from page layout to the
drag-and-drop move protocol, and exposes them through a [Service] backed by
interchangeable [Repository] implementations (memory, Badger, PostgreSQL, with
an optional Redis cache in front).

# Core Responsibility

  - Document: Defines the [Binder], [Page] and [Slot] entities.
  - Placement: Adds, removes and moves cards by (page, position) address.
  - Derivation: Page numbers, positions and totals are always recomputed, never trusted.
  - Presentation: [ResolvePage] produces the clamped page view consumed by clients.
*/
package binder

import (
	"time"

	"github.com/taibuivan/pokebinder/internal/core/grid"
	"github.com/taibuivan/pokebinder/internal/platform/apperr"
)

// # Core Entities

// Binder is a named container of cards arranged into fixed-size pages.
type Binder struct {
	ID          string    `json:"id"` // UUIDv7
	OwnerID     string    `json:"user_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Size        grid.Size `json:"size"` // Immutable after creation
	IsPublic    bool      `json:"is_public"`
	Pages       []Page    `json:"pages"`
	TotalPages  int       `json:"total_pages"` // Derived: len(Pages)
	TotalCards  int       `json:"total_cards"` // Derived: occupied slots
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Page is one element of a binder's page sequence.
type Page struct {
	Number int    `json:"page_number"` // Derived: index + 1
	Slots  []Slot `json:"slots"`
}

// Slot is one addressable sleeve on a page. It is occupied iff Card is non-nil.
type Slot struct {
	Position int      `json:"position"` // Derived: index within the page
	Card     *CardRef `json:"card,omitempty"`
}

// CardRef is the denormalized card held by an occupied slot.
type CardRef struct {
	CardID     string  `json:"card_id"`
	CardName   string  `json:"card_name"`
	CardImage  *string `json:"card_image,omitempty"`
	UserCardID *string `json:"user_card_id,omitempty"` // Owner's inventory entry
}

// Occupied reports whether the slot holds a card.
func (s Slot) Occupied() bool {
	return s.Card != nil
}

// Summary is the list view of a binder.
type Summary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Size         grid.Size `json:"size"`
	Description  *string   `json:"description,omitempty"`
	IsPublic     bool      `json:"is_public"`
	TotalPages   int       `json:"total_pages"`
	TotalCards   int       `json:"total_cards"`
	PreviewCards []string  `json:"preview_cards"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// # Requests

// CreateRequest holds the input of a new binder.
type CreateRequest struct {
	Name        string    `json:"name"`
	Size        grid.Size `json:"size"`
	Description *string   `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
}

// UpdateRequest holds the mutable metadata of a binder. Nil fields are left untouched.
type UpdateRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	IsPublic    *bool      `json:"is_public,omitempty"`
	Size        *grid.Size `json:"size,omitempty"` // Accepted only when unchanged
}

// AddCardRequest places a card. Omitted PageNumber means page 1; omitted
// Position means the first empty slot of that page.
type AddCardRequest struct {
	CardID     string  `json:"card_id"`
	CardName   string  `json:"card_name"`
	CardImage  *string `json:"card_image,omitempty"`
	UserCardID *string `json:"user_card_id,omitempty"`
	PageNumber *int    `json:"page_number,omitempty"`
	Position   *int    `json:"position,omitempty"`
}

// MoveRequest relocates the card at Source to the empty slot at Destination.
// It is consumed once and never stored.
type MoveRequest struct {
	Source      grid.Address `json:"source"`
	Destination grid.Address `json:"destination"`
}

// # Errors

const (
	CodePageFull            = "PAGE_FULL"
	CodeSlotOccupied        = "SLOT_OCCUPIED"
	CodeSlotEmpty           = "SLOT_EMPTY"
	CodeSourceEmpty         = "SOURCE_EMPTY"
	CodeDestinationOccupied = "DESTINATION_OCCUPIED"
	CodeSlotAddress         = "SLOT_ADDRESS"
)

var (
	ErrNotFound            = apperr.NotFound("Binder")
	ErrPageFull            = apperr.StateConflict(CodePageFull, "Page has no empty slot")
	ErrSlotOccupied        = apperr.StateConflict(CodeSlotOccupied, "Slot is already occupied")
	ErrSlotEmpty           = apperr.StateConflict(CodeSlotEmpty, "Slot is already empty")
	ErrSourceEmpty         = apperr.StateConflict(CodeSourceEmpty, "There is no card at the source slot")
	ErrDestinationOccupied = apperr.StateConflict(CodeDestinationOccupied, "Destination slot is already occupied")
	ErrSlotAddress         = apperr.StateConflict(CodeSlotAddress, "Slot address is out of range")
)

// # Field Identifiers

const (
	FieldName        = "name"
	FieldSize        = "size"
	FieldDescription = "description"
	FieldCardID      = "card_id"
	FieldCardName    = "card_name"
	FieldPageNumber  = "page_number"
	FieldPosition    = "position"
	FieldSuccess     = "success"
	FieldPage        = "page"
	FieldLimit       = "limit"
)

// # Limits

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	PreviewCardCount     = 4
)
