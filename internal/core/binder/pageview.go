// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package binder

import (
	"github.com/taibuivan/pokebinder/internal/core/grid"
)

// # Page View Model

// SlotView is a slot enriched with the context needed to address it on its own.
type SlotView struct {
	Page     int      `json:"page"`
	Position int      `json:"position"`
	Row      int      `json:"row"`
	Col      int      `json:"col"`
	Card     *CardRef `json:"card,omitempty"`
}

// Address returns the slot's (page, position) address.
func (s SlotView) Address() grid.Address {
	return grid.Address{Page: s.Page, Position: s.Position}
}

// Occupied reports whether the slot holds a card.
func (s SlotView) Occupied() bool {
	return s.Card != nil
}

// PageView is one page of a binder, ready to render.
type PageView struct {
	BinderID   string     `json:"binder_id"`
	Number     int        `json:"page_number"`
	TotalPages int        `json:"total_pages"`
	Size       grid.Size  `json:"size"`
	Rows       int        `json:"rows"`
	Cols       int        `json:"cols"`
	Slots      []SlotView `json:"slots"`
	HasPrev    bool       `json:"has_prev"`
	HasNext    bool       `json:"has_next"`
}

// Slot returns the view of the slot at position, if it exists.
func (v PageView) Slot(position int) (SlotView, bool) {
	if position < 0 || position >= len(v.Slots) {
		return SlotView{}, false
	}
	return v.Slots[position], true
}

// Row returns the slots of one grid row, left to right.
func (v PageView) Row(row int) []SlotView {
	if v.Cols <= 0 || row < 0 || row >= v.Rows {
		return nil
	}
	start := row * v.Cols
	end := start + v.Cols
	if end > len(v.Slots) {
		end = len(v.Slots)
	}
	if start >= end {
		return nil
	}
	return v.Slots[start:end]
}

/*
ResolvePage derives the page to display from a binder and a requested page number.

Description: The request is clamped to [1, total pages], so any integer is
accepted. The page is looked up by its page number and, should that ever
disagree with the sequence, by its index.

Parameters:
  - binder: *Binder
  - requested: int (1-based, unchecked)

Returns:
  - PageView: The page with every slot addressed by page, position, row and column
  - bool: false only when the binder has no pages at all
*/
func ResolvePage(binder *Binder, requested int) (PageView, bool) {
	if binder == nil {
		return PageView{}, false
	}

	total := len(binder.Pages)
	view := PageView{BinderID: binder.ID, Size: binder.Size, TotalPages: total}

	dims, err := grid.GridDimensions(binder.Size)
	if err == nil {
		view.Rows, view.Cols = dims.Rows, dims.Cols
	}

	if total == 0 {
		return view, false
	}

	safePage := min(max(requested, 1), total)

	page := &binder.Pages[safePage-1]
	for i := range binder.Pages {
		if binder.Pages[i].Number == safePage {
			page = &binder.Pages[i]
			break
		}
	}

	view.Number = safePage
	view.HasPrev = safePage > 1
	view.HasNext = safePage < total
	view.Slots = make([]SlotView, len(page.Slots))

	for i, slot := range page.Slots {
		cell := grid.Cell{}
		if view.Cols > 0 {
			cell = grid.Cell{Row: i / view.Cols, Col: i % view.Cols}
		}
		view.Slots[i] = SlotView{
			Page:     safePage,
			Position: i,
			Row:      cell.Row,
			Col:      cell.Col,
			Card:     slot.Card.clone(),
		}
	}

	return view, true
}
