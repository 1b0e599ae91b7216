// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package binder

import (
	"github.com/taibuivan/pokebinder/internal/core/grid"
)

// # Construction

// NewPage returns an empty page sized for the given layout.
func NewPage(number int, size grid.Size) Page {
	slots := make([]Slot, grid.MustSlotsPerPage(size))
	for i := range slots {
		slots[i].Position = i
	}
	return Page{Number: number, Slots: slots}
}

// normalize re-derives every computed field of the document.
//
// Page numbers follow sequence order, slot positions follow slice order and
// totals are counted from the slots. It is called after every mutation and
// after every decode, so stored values are never trusted.
func (b *Binder) normalize() {
	slots := 0
	if b.Size.Valid() {
		slots = grid.MustSlotsPerPage(b.Size)
	}

	total := 0
	for i := range b.Pages {
		page := &b.Pages[i]
		page.Number = i + 1

		// Repair pages whose slot count drifted from the layout
		if slots > 0 && len(page.Slots) != slots {
			resized := make([]Slot, slots)
			copy(resized, page.Slots)
			page.Slots = resized
		}

		for j := range page.Slots {
			page.Slots[j].Position = j
			if page.Slots[j].Occupied() {
				total++
			}
		}
	}

	b.TotalPages = len(b.Pages)
	b.TotalCards = total
}

// Normalize re-derives page numbers, positions and totals. Storage backends
// call it after decoding a document.
func (b *Binder) Normalize() {
	b.normalize()
}

// Clone returns a deep copy that shares no slices or pointers with b.
func (b *Binder) Clone() *Binder {
	if b == nil {
		return nil
	}

	clone := *b
	if b.Description != nil {
		description := *b.Description
		clone.Description = &description
	}

	clone.Pages = make([]Page, len(b.Pages))
	for i, page := range b.Pages {
		slots := make([]Slot, len(page.Slots))
		for j, slot := range page.Slots {
			slots[j] = Slot{Position: slot.Position, Card: slot.Card.clone()}
		}
		clone.Pages[i] = Page{Number: page.Number, Slots: slots}
	}

	return &clone
}

func (c *CardRef) clone() *CardRef {
	if c == nil {
		return nil
	}
	card := *c
	if c.CardImage != nil {
		image := *c.CardImage
		card.CardImage = &image
	}
	if c.UserCardID != nil {
		userCardID := *c.UserCardID
		card.UserCardID = &userCardID
	}
	return &card
}

// Summarize builds the list view of the binder.
func (b *Binder) Summarize() Summary {
	return Summary{
		ID:           b.ID,
		Name:         b.Name,
		Slug:         b.Slug,
		Size:         b.Size,
		Description:  b.Description,
		IsPublic:     b.IsPublic,
		TotalPages:   b.TotalPages,
		TotalCards:   b.TotalCards,
		PreviewCards: b.PreviewCards(PreviewCardCount),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// PreviewCards returns up to limit card ids in page then position order.
func (b *Binder) PreviewCards(limit int) []string {
	preview := make([]string, 0, limit)
	for _, page := range b.Pages {
		for _, slot := range page.Slots {
			if len(preview) == limit {
				return preview
			}
			if slot.Occupied() {
				preview = append(preview, slot.Card.CardID)
			}
		}
	}
	return preview
}

// # Lookup

// SlotAt returns the slot at the address, or ErrSlotAddress.
func (b *Binder) SlotAt(address grid.Address) (*Slot, error) {
	if err := grid.ValidateAddress(address, b.Size, len(b.Pages)); err != nil {
		return nil, ErrSlotAddress.WithMessage("Slot %s does not exist in this binder", address).WithCause(err)
	}
	return &b.Pages[address.Page-1].Slots[address.Position], nil
}

// # Mutations

// The functions below operate on a working copy inside [Repository.Mutate].
// They report whether the document changed so that no-ops are never persisted.

// appendPage adds one empty page at the end of the sequence.
func (b *Binder) appendPage() {
	b.Pages = append(b.Pages, NewPage(len(b.Pages)+1, b.Size))
	b.normalize()
}

// placeCard stores card in the requested slot, or the first empty slot of the
// requested page when position is nil. A nil page means page 1.
func (b *Binder) placeCard(card CardRef, page, position *int) (grid.Address, error) {
	target := grid.Address{Page: 1}
	if page != nil {
		target.Page = *page
	}

	// Explicit slot
	if position != nil {
		target.Position = *position

		slot, err := b.SlotAt(target)
		if err != nil {
			return grid.Address{}, err
		}
		if slot.Occupied() {
			return grid.Address{}, ErrSlotOccupied.WithMessage("Slot %s is already occupied", target)
		}

		slot.Card = card.clone()
		b.normalize()
		return target, nil
	}

	// First empty slot on the page
	if target.Page < 1 || target.Page > len(b.Pages) {
		return grid.Address{}, ErrSlotAddress.WithMessage("Page %d does not exist in this binder", target.Page)
	}

	slots := b.Pages[target.Page-1].Slots
	for i := range slots {
		if !slots[i].Occupied() {
			slots[i].Card = card.clone()
			target.Position = i
			b.normalize()
			return target, nil
		}
	}

	return grid.Address{}, ErrPageFull.WithMessage("Page %d has no empty slot", target.Page)
}

// clearSlot empties the slot at address.
func (b *Binder) clearSlot(address grid.Address) (*CardRef, error) {
	slot, err := b.SlotAt(address)
	if err != nil {
		return nil, err
	}
	if !slot.Occupied() {
		return nil, ErrSlotEmpty.WithMessage("Slot %s is already empty", address)
	}

	removed := slot.Card
	slot.Card = nil
	b.normalize()
	return removed, nil
}

// moveCard relocates the card at source to destination.
//
// Checks run in a fixed order: both addresses must exist, the source must be
// occupied, and a distinct destination must be empty. Moving a card onto its
// own slot succeeds without changing the document.
func (b *Binder) moveCard(source, destination grid.Address) (bool, error) {
	sourceSlot, err := b.SlotAt(source)
	if err != nil {
		return false, err
	}
	destinationSlot, err := b.SlotAt(destination)
	if err != nil {
		return false, err
	}

	if !sourceSlot.Occupied() {
		return false, ErrSourceEmpty.WithMessage("There is no card at slot %s", source)
	}

	if source == destination {
		return false, nil
	}

	if destinationSlot.Occupied() {
		return false, ErrDestinationOccupied.WithMessage("Slot %s is already occupied", destination)
	}

	destinationSlot.Card = sourceSlot.Card
	sourceSlot.Card = nil
	b.normalize()
	return true, nil
}
