// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package grid is the slot addressing model of a binder page.

A binder page is a square grid of card sleeves. Sleeves are stored as a flat,
zero-based slice, so every component that needs rows and columns (renderers,
the drag controller, the store) goes through this package to translate
between the two views and to validate addresses.

# Core Responsibility

  - Sizes: The three supported layouts ([Size3x3], [Size4x4], [Size5x5]).
  - Translation: [PositionToGrid] and [GridToPosition] are mutually inverse.
  - Addressing: [Address] names a slot by 1-based page number and 0-based position.

This package has no dependencies on binder storage.
*/
package grid

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/taibuivan/pokebinder/internal/platform/apperr"
)

// # Sizes

// Size is the grid token of a binder (e.g. "3x3").
type Size string

const (
	Size3x3 Size = "3x3"
	Size4x4 Size = "4x4"
	Size5x5 Size = "5x5"
)

// Sizes lists every supported layout, smallest first.
var Sizes = []Size{Size3x3, Size4x4, Size5x5}

// # Errors

const (
	CodeInvalidSize = "INVALID_SIZE"
	CodeOutOfRange  = "OUT_OF_RANGE"
)

var (
	// ErrInvalidSize is returned for any size token other than the supported ones.
	ErrInvalidSize = apperr.New(http.StatusBadRequest, CodeInvalidSize, "Binder size must be one of 3x3, 4x4, 5x5")

	// ErrOutOfRange is returned when a position, row or column falls outside the grid.
	ErrOutOfRange = apperr.New(http.StatusUnprocessableEntity, CodeOutOfRange, "Slot coordinate is outside the grid")
)

// Strings returns the supported size tokens as plain strings.
func Strings() []string {
	tokens := make([]string, len(Sizes))
	for i, size := range Sizes {
		tokens[i] = string(size)
	}
	return tokens
}

// Valid reports whether the size is one of the supported layouts.
func (s Size) Valid() bool {
	switch s {
	case Size3x3, Size4x4, Size5x5:
		return true
	}
	return false
}

// # Dimensions

// Dimensions holds the row and column count of a page grid.
type Dimensions struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// GridDimensions parses the size token on the literal "x".
func GridDimensions(size Size) (Dimensions, error) {
	if !size.Valid() {
		return Dimensions{}, ErrInvalidSize.WithMessage("Unsupported binder size %q", string(size))
	}

	rows, cols, _ := strings.Cut(string(size), "x")

	// Valid() already pinned the token to a known shape
	rowCount, _ := strconv.Atoi(rows)
	colCount, _ := strconv.Atoi(cols)

	return Dimensions{Rows: rowCount, Cols: colCount}, nil
}

// SlotsPerPage returns rows*cols for the size: 9, 16 or 25.
func SlotsPerPage(size Size) (int, error) {
	dims, err := GridDimensions(size)
	if err != nil {
		return 0, err
	}
	return dims.Rows * dims.Cols, nil
}

// MustSlotsPerPage is [SlotsPerPage] for sizes already validated at the boundary.
func MustSlotsPerPage(size Size) int {
	count, err := SlotsPerPage(size)
	if err != nil {
		panic(fmt.Sprintf("grid: %v", err))
	}
	return count
}

// # Translation

// Cell is a row/column coordinate, both zero-based.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PositionToGrid converts a linear slot position into its row and column.
func PositionToGrid(position int, size Size) (Cell, error) {
	dims, err := GridDimensions(size)
	if err != nil {
		return Cell{}, err
	}

	if position < 0 || position >= dims.Rows*dims.Cols {
		return Cell{}, ErrOutOfRange.WithMessage("Position %d is outside a %s grid", position, string(size))
	}

	return Cell{Row: position / dims.Cols, Col: position % dims.Cols}, nil
}

// GridToPosition converts a row and column into a linear slot position (row*cols + col).
func GridToPosition(row, col int, size Size) (int, error) {
	dims, err := GridDimensions(size)
	if err != nil {
		return 0, err
	}

	if row < 0 || row >= dims.Rows || col < 0 || col >= dims.Cols {
		return 0, ErrOutOfRange.WithMessage("Cell (%d, %d) is outside a %s grid", row, col, string(size))
	}

	return row*dims.Cols + col, nil
}

// # Addressing

// Address names one slot of a binder: a 1-based page number and a 0-based position.
type Address struct {
	Page     int `json:"page"`
	Position int `json:"position"`
}

// String renders the address as "page:position".
func (a Address) String() string {
	return fmt.Sprintf("%d:%d", a.Page, a.Position)
}

// ValidateAddress checks an address against a size and a page count.
func ValidateAddress(address Address, size Size, totalPages int) error {
	slots, err := SlotsPerPage(size)
	if err != nil {
		return err
	}

	if address.Page < 1 || address.Page > totalPages {
		return ErrOutOfRange.WithMessage("Page %d does not exist (binder has %d)", address.Page, totalPages)
	}

	if address.Position < 0 || address.Position >= slots {
		return ErrOutOfRange.WithMessage("Position %d is outside a %s page", address.Position, string(size))
	}

	return nil
}
