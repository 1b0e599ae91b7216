// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package binder

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/pokebinder/internal/catalog"
	"github.com/taibuivan/pokebinder/internal/core/grid"
	"github.com/taibuivan/pokebinder/internal/platform/validate"
	"github.com/taibuivan/pokebinder/pkg/pagination"
	"github.com/taibuivan/pokebinder/pkg/pointer"
	"github.com/taibuivan/pokebinder/pkg/slice"
	"github.com/taibuivan/pokebinder/pkg/slug"
	"github.com/taibuivan/pokebinder/pkg/uuid"
)

// defaultSlug names binders whose title has no sluggable characters.
const defaultSlug = "binder"

// # Service Layer

// Service orchestrates every binder operation.
//
// All calls are scoped by the caller's user id. Another user's binder is
// reported as [ErrNotFound], except that public binders can be read by anyone.
type Service struct {
	repo    Repository
	catalog catalog.Lookup
	logger  *slog.Logger
	now     func() time.Time
}

// NewService constructs a new [Service]. The catalog is optional.
func NewService(repo Repository, lookup catalog.Lookup, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		catalog: lookup,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used for timestamps.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Binder Lookups

/*
GetBinder fetches a binder by UUID or by the caller's slug.

Description: Identifiers that parse as a 36-character UUID are primary-key
lookups; anything else is resolved as a slug among the caller's binders.

Parameters:
  - context: context.Context
  - callerID: string
  - identifier: string (UUID or Slug)

Returns:
  - *Binder: The binder document
  - error: ErrNotFound if missing or not visible to the caller
*/
func (service *Service) GetBinder(context context.Context, callerID, identifier string) (*Binder, error) {
	var (
		binder *Binder
		err    error
	)

	// Identity format detection
	if uuid.Valid(identifier) {
		binder, err = service.repo.FindByID(context, identifier)
	} else {
		binder, err = service.repo.FindBySlug(context, callerID, identifier)
	}
	if err != nil {
		return nil, err
	}

	if !canRead(binder, callerID) {
		return nil, ErrNotFound
	}
	return binder, nil
}

/*
ListBinders returns one page of the caller's binder summaries.

Parameters:
  - context: context.Context
  - callerID: string
  - params: pagination.Params

Returns:
  - []Summary: Most recently updated first, with preview cards
  - int: Total binders owned
  - error: Validation or storage failures
*/
func (service *Service) ListBinders(context context.Context, callerID string, params pagination.Params) ([]Summary, int, error) {
	validator := &validate.Validator{}
	validator.Range(FieldPage, params.Page, 1, pagination.MaxPage)
	validator.Range(FieldLimit, params.Limit, 1, pagination.MaxLimit)
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	binders, total, err := service.repo.ListByOwner(context, callerID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}

	summaries := slice.Map(binders, func(binder *Binder) Summary {
		return binder.Summarize()
	})
	if summaries == nil {
		summaries = []Summary{}
	}
	return summaries, total, nil
}

/*
GetPage resolves one page of a binder for display.

Parameters:
  - context: context.Context
  - callerID: string
  - identifier: string (UUID or Slug)
  - page: int (Clamped to the binder's page range)

Returns:
  - PageView: The clamped page
  - error: ErrNotFound if the binder is missing or not visible
*/
func (service *Service) GetPage(context context.Context, callerID, identifier string, page int) (PageView, error) {
	binder, err := service.GetBinder(context, callerID, identifier)
	if err != nil {
		return PageView{}, err
	}

	view, ok := ResolvePage(binder, page)
	if !ok {
		return PageView{}, ErrNotFound.WithMessage("Binder has no pages")
	}
	return view, nil
}

// # Binder Management

/*
CreateBinder initialises a new binder with one empty page.

Description: Validates the name and size, generates a UUIDv7 identity and an
owner-unique slug, then persists the document.

Parameters:
  - context: context.Context
  - ownerID: string
  - request: CreateRequest

Returns:
  - *Binder: The stored binder
  - error: Validation or persistence errors
*/
func (service *Service) CreateBinder(context context.Context, ownerID string, request CreateRequest) (*Binder, error) {
	request.Name = strings.TrimSpace(request.Name)

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldName, request.Name).MaxLen(FieldName, request.Name, MaxNameLength)
	validator.Required(FieldSize, string(request.Size)).OneOf(FieldSize, string(request.Size), grid.Strings()...)
	if request.Description != nil {
		validator.MaxLen(FieldDescription, *request.Description, MaxDescriptionLength)
	}

	// Return validation errors if any constraints failed
	if err := validator.Err(); err != nil {
		return nil, err
	}

	now := service.now()
	binder := &Binder{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        request.Name,
		Description: request.Description,
		Size:        request.Size,
		IsPublic:    request.IsPublic,
		Pages:       []Page{NewPage(1, request.Size)},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Slug generation
	binderSlug, err := service.uniqueSlug(context, ownerID, request.Name, binder.ID)
	if err != nil {
		return nil, err
	}
	binder.Slug = binderSlug
	binder.normalize()

	// Persistence via Repository
	if err := service.repo.Create(context, binder); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "binder_created",
		slog.String("binder_id", binder.ID),
		slog.String("owner_id", ownerID),
		slog.String("size", string(binder.Size)),
	)
	return binder, nil
}

/*
UpdateBinder applies metadata changes to a binder.

Description: Supports partial updates of name, description and visibility.
Size is immutable; it is accepted only when it matches the current size.

Parameters:
  - context: context.Context
  - callerID: string
  - id: string
  - request: UpdateRequest

Returns:
  - *Binder: The updated binder
  - error: Validation, lookup or persistence errors
*/
func (service *Service) UpdateBinder(context context.Context, callerID, id string, request UpdateRequest) (*Binder, error) {
	validator := &validate.Validator{}
	if request.Name != nil {
		request.Name = pointer.To(strings.TrimSpace(*request.Name))
		validator.Required(FieldName, *request.Name).MaxLen(FieldName, *request.Name, MaxNameLength)
	}
	if request.Description != nil {
		validator.MaxLen(FieldDescription, *request.Description, MaxDescriptionLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Renames need a fresh slug, resolved before taking the document lock
	var renamedSlug string
	if request.Name != nil {
		current, err := service.owned(context, callerID, id)
		if err != nil {
			return nil, err
		}
		if current.Name != *request.Name {
			renamedSlug, err = service.uniqueSlug(context, callerID, *request.Name, id)
			if err != nil {
				return nil, err
			}
		}
	}

	return service.mutate(context, callerID, id, "binder_updated", func(binder *Binder) (bool, error) {
		if request.Size != nil && *request.Size != binder.Size {
			return false, validate.RequiredError(FieldSize, "Binder size cannot be changed after creation")
		}

		changed := false
		if request.Name != nil && *request.Name != binder.Name {
			binder.Name = *request.Name
			if renamedSlug != "" {
				binder.Slug = renamedSlug
			}
			changed = true
		}
		if request.Description != nil && pointer.Val(binder.Description) != *request.Description {
			binder.Description = pointer.To(*request.Description)
			changed = true
		}
		if request.IsPublic != nil && *request.IsPublic != binder.IsPublic {
			binder.IsPublic = *request.IsPublic
			changed = true
		}
		return changed, nil
	})
}

/*
DeleteBinder removes a binder owned by the caller.

Parameters:
  - context: context.Context
  - callerID: string
  - id: string

Returns:
  - error: ErrNotFound if missing or owned by someone else
*/
func (service *Service) DeleteBinder(context context.Context, callerID, id string) error {
	if _, err := service.owned(context, callerID, id); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "binder_deleted", slog.String("binder_id", id))
	return nil
}

// # Page & Card Operations

/*
AddPage appends one empty page to the binder.

Parameters:
  - context: context.Context
  - callerID: string
  - id: string

Returns:
  - *Binder: The updated binder
  - error: Lookup or persistence errors
*/
func (service *Service) AddPage(context context.Context, callerID, id string) (*Binder, error) {
	return service.mutate(context, callerID, id, "binder_page_added", func(binder *Binder) (bool, error) {
		binder.appendPage()
		return true, nil
	})
}

/*
AddCard places a card in the binder.

Description: Without a position the card goes to the first empty slot of the
target page (page 1 by default). Missing display fields are resolved from the
catalog when one is configured.

Parameters:
  - context: context.Context
  - callerID: string
  - id: string
  - request: AddCardRequest

Returns:
  - *Binder: The updated binder
  - error: ValidationError, ErrNotFound, ErrPageFull, ErrSlotOccupied or ErrSlotAddress
*/
func (service *Service) AddCard(context context.Context, callerID, id string, request AddCardRequest) (*Binder, error) {
	request.CardID = strings.TrimSpace(request.CardID)

	validator := &validate.Validator{}
	validator.Required(FieldCardID, request.CardID)
	if request.PageNumber != nil {
		validator.Min(FieldPageNumber, *request.PageNumber, 1)
	}
	if request.Position != nil {
		validator.Min(FieldPosition, *request.Position, 0)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	card, err := service.resolveCard(context, request)
	if err != nil {
		return nil, err
	}

	var placed grid.Address
	updated, err := service.mutate(context, callerID, id, "binder_card_added", func(binder *Binder) (bool, error) {
		address, err := binder.placeCard(card, request.PageNumber, request.Position)
		if err != nil {
			return false, err
		}
		placed = address
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.DebugContext(context, "binder_card_placed",
		slog.String("binder_id", id),
		slog.String("card_id", card.CardID),
		slog.String("slot", placed.String()),
	)
	return updated, nil
}

/*
RemoveCard empties one slot.

Parameters:
  - context: context.Context
  - callerID: string
  - id: string
  - address: grid.Address

Returns:
  - *Binder: The updated binder
  - error: ErrNotFound, ErrSlotAddress or ErrSlotEmpty
*/
func (service *Service) RemoveCard(context context.Context, callerID, id string, address grid.Address) (*Binder, error) {
	return service.mutate(context, callerID, id, "binder_card_removed", func(binder *Binder) (bool, error) {
		if _, err := binder.clearSlot(address); err != nil {
			return false, err
		}
		return true, nil
	})
}

/*
MoveCard relocates a card to an empty slot.

Description: A move, never a swap. Moving a card onto its own slot succeeds
and leaves the binder untouched, including its modification time.

Parameters:
  - context: context.Context
  - callerID: string
  - id: string
  - request: MoveRequest

Returns:
  - *Binder: The updated binder
  - error: ErrNotFound, ErrSlotAddress, ErrSourceEmpty or ErrDestinationOccupied
*/
func (service *Service) MoveCard(context context.Context, callerID, id string, request MoveRequest) (*Binder, error) {
	return service.mutate(context, callerID, id, "binder_card_moved", func(binder *Binder) (bool, error) {
		return binder.moveCard(request.Source, request.Destination)
	})
}

// # Internal Helpers

// mutate runs fn against the caller's binder and stamps changed documents.
func (service *Service) mutate(context context.Context, callerID, id, event string, fn Mutation) (*Binder, error) {
	changed := false

	updated, err := service.repo.Mutate(context, id, func(binder *Binder) (bool, error) {
		if binder.OwnerID != callerID {
			return false, ErrNotFound
		}

		ok, err := fn(binder)
		if err != nil || !ok {
			return false, err
		}

		binder.UpdatedAt = service.now()
		changed = true
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		service.logger.InfoContext(context, event,
			slog.String("binder_id", id),
			slog.Int("total_pages", updated.TotalPages),
			slog.Int("total_cards", updated.TotalCards),
		)
	}
	return updated, nil
}

// owned loads a binder and checks that the caller owns it.
func (service *Service) owned(context context.Context, callerID, id string) (*Binder, error) {
	binder, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if binder.OwnerID != callerID {
		return nil, ErrNotFound
	}
	return binder, nil
}

// resolveCard builds the slot content, filling display fields from the catalog.
func (service *Service) resolveCard(context context.Context, request AddCardRequest) (CardRef, error) {
	card := CardRef{
		CardID:     request.CardID,
		CardName:   strings.TrimSpace(request.CardName),
		CardImage:  request.CardImage,
		UserCardID: request.UserCardID,
	}

	if card.CardName != "" && card.CardImage != nil {
		return card, nil
	}

	if service.catalog != nil {
		entry, err := service.catalog.Card(context, card.CardID)
		switch {
		case err == nil:
			if card.CardName == "" {
				card.CardName = entry.Name
			}
			if card.CardImage == nil {
				card.CardImage = entry.Image
			}
		case errors.Is(err, catalog.ErrCardNotFound):
			// Caller-supplied names are enough on their own
		default:
			return CardRef{}, err
		}
	}

	if card.CardName == "" {
		return CardRef{}, validate.RequiredError(FieldCardName, "Card name is required for cards outside the catalog")
	}
	return card, nil
}

// uniqueSlug derives a slug from name that no other binder of the owner uses.
func (service *Service) uniqueSlug(context context.Context, ownerID, name, binderID string) (string, error) {
	base := slug.From(name)
	if base == "" || uuid.Valid(base) {
		base = defaultSlug
	}

	existing, err := service.repo.FindBySlug(context, ownerID, base)
	if errors.Is(err, ErrNotFound) {
		return base, nil
	}
	if err != nil {
		return "", err
	}
	if existing.ID == binderID {
		return base, nil
	}

	// UUIDv7 tails are random, unlike the timestamp prefix
	suffix := strings.ReplaceAll(binderID, "-", "")
	return base + "-" + suffix[len(suffix)-8:], nil
}

func canRead(binder *Binder, callerID string) bool {
	return binder.OwnerID == callerID || binder.IsPublic
}
