// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/pokebinder/internal/core/binder"
	"github.com/taibuivan/pokebinder/internal/core/dragdrop"
	"github.com/taibuivan/pokebinder/internal/core/grid"
)

// # Drag Gesture

// Terminal cell geometry used to synthesise pointer positions for the controller.
const (
	cellWidth  = 18
	cellHeight = 1
)

var errNoTarget = errors.New("no drop target: use 'over <slot>' first or 'drop <slot>'")

func (c *CLI) handleDrag(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("drag")
	}
	slot, err := c.slotArg(args[1])
	if err != nil {
		return err
	}

	bounds := cellBounds(slot)
	payload, err := c.controller.Start(slot, center(bounds), bounds)
	if err != nil {
		return err
	}

	data, err := payload.Encode()
	if err != nil {
		c.controller.Cancel()
		return fmt.Errorf("encode drag payload: %w", err)
	}
	c.transfer = data
	c.printf("Picked up %s from %s. Use 'over', 'drop' or 'cancel'.\n", payload.Card.CardName, payload.Slot)
	return nil
}

func (c *CLI) handleOver(_ context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("over")
	}
	slot, err := c.slotArg(args[1])
	if err != nil {
		return err
	}
	if !c.Dragging() {
		c.printf("Nothing is being dragged.\n")
		return nil
	}

	if c.controller.Over(slot) {
		c.printf("%s is free: 'drop' to place %s there.\n", slot.Address(), c.held().Card.CardName)
	} else {
		c.printf("%s is occupied by %s.\n", slot.Address(), slot.Card.CardName)
	}
	return nil
}

// handleLeave moves the pointer just outside the slot's left edge.
func (c *CLI) handleLeave(_ context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("leave")
	}
	slot, err := c.slotArg(args[1])
	if err != nil {
		return err
	}

	bounds := cellBounds(slot)
	c.controller.Leave(slot, dragdrop.Point{X: bounds.X - 1, Y: bounds.Y}, bounds)
	return nil
}

func (c *CLI) handleDrop(ctx context.Context, args []string) error {
	if len(args) > 2 {
		return usageError("drop")
	}
	if err := c.requireBinder(); err != nil {
		return err
	}

	var target binder.SlotView
	if len(args) == 2 {
		slot, err := c.slotArg(args[1])
		if err != nil {
			return err
		}
		target = slot
	} else {
		session, ok := c.controller.Session()
		if !ok || session.Target == nil {
			return errNoTarget
		}
		slot, err := c.slotAt(*session.Target)
		if err != nil {
			return err
		}
		target = slot
	}

	// The drop target only sees what the drag transferred
	payload := dragdrop.DecodePayload(c.transfer)
	c.transfer = nil

	result, err := c.controller.Drop(ctx, payload, target)
	switch result.Outcome {
	case dragdrop.Moved:
		c.printf("Moved %s from %s to %s.\n", payload.Card.CardName, payload.Slot, target.Address())
		c.show(result.Binder, target.Page)
	case dragdrop.Rejected:
		c.printf("%s is occupied; %s stays at %s.\n", target.Address(), payload.Card.CardName, payload.Slot)
	case dragdrop.Failed:
		return fmt.Errorf("%s stays at %s: %w", payload.Card.CardName, payload.Slot, err)
	default:
		c.printf("Nothing to drop.\n")
	}
	return nil
}

func (c *CLI) handleCancel(args []string) error {
	if len(args) != 1 {
		return usageError("cancel")
	}
	if c.controller == nil || !c.controller.Cancel() {
		c.printf("Nothing is being dragged.\n")
		return nil
	}

	c.transfer = nil
	c.printf("Drag cancelled.\n")
	return nil
}

// held decodes the payload of the drag in flight.
func (c *CLI) held() dragdrop.Payload {
	return dragdrop.DecodePayload(c.transfer)
}

// # Slot Resolution

func (c *CLI) slotArg(arg string) (binder.SlotView, error) {
	if err := c.requireBinder(); err != nil {
		return binder.SlotView{}, err
	}
	address, err := c.parseSlot(arg)
	if err != nil {
		return binder.SlotView{}, err
	}
	return c.slotAt(address)
}

// slotAt reads a slot from the loaded binder. Pages other than the one on
// screen are resolved without turning to them.
func (c *CLI) slotAt(address grid.Address) (binder.SlotView, error) {
	view := c.view
	if address.Page != view.Number {
		view, _ = binder.ResolvePage(c.current, address.Page)
	}

	slot, ok := view.Slot(address.Position)
	if view.Number != address.Page || !ok {
		return binder.SlotView{}, grid.ErrOutOfRange.WithMessage("Slot %s does not exist in this binder", address)
	}
	return slot, nil
}

func cellBounds(slot binder.SlotView) dragdrop.Rect {
	return dragdrop.Rect{
		X:      float64(slot.Col * cellWidth),
		Y:      float64(slot.Row * cellHeight),
		Width:  cellWidth,
		Height: cellHeight,
	}
}

func center(bounds dragdrop.Rect) dragdrop.Point {
	return dragdrop.Point{X: bounds.X + bounds.Width/2, Y: bounds.Y + bounds.Height/2}
}
