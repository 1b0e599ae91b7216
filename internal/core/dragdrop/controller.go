// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package dragdrop implements the drag-and-drop interaction for binder pages.

A [Controller] turns pointer gestures over page slots into at most one call to
a [Mover] per gesture:

  - Idle: no drag in progress.
  - Dragging: a card was picked up; hovering tracks the candidate drop slot.
  - Drop or Cancel return to Idle. Only a drop on an empty, distinct slot
    reaches the Mover.

The controller never mutates binder documents itself. Callers refresh their
page view from the binder returned by a successful drop.
*/
package dragdrop

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taibuivan/pokebinder/internal/core/binder"
	"github.com/taibuivan/pokebinder/internal/core/grid"
	"github.com/taibuivan/pokebinder/internal/platform/apperr"
)

// # Contracts

// Mover is the binder store's move operation, bound to one binder.
type Mover interface {
	MoveCard(ctx context.Context, source, destination grid.Address) (*binder.Binder, error)
}

// MoverFunc adapts a function to [Mover].
type MoverFunc func(ctx context.Context, source, destination grid.Address) (*binder.Binder, error)

// MoveCard calls f.
func (f MoverFunc) MoveCard(ctx context.Context, source, destination grid.Address) (*binder.Binder, error) {
	return f(ctx, source, destination)
}

// # Errors

const (
	CodeDragInProgress = "DRAG_IN_PROGRESS"
	CodeNothingToDrag  = "NOTHING_TO_DRAG"
)

var (
	ErrDragInProgress = apperr.StateConflict(CodeDragInProgress, "Another card is already being dragged")
	ErrEmptySlot      = apperr.StateConflict(CodeNothingToDrag, "Only occupied slots can be dragged")
)

// # States

// State is the controller's interaction state.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Outcome classifies how a drop ended.
type Outcome int

const (
	// Ignored drops made no remote call: foreign payloads, stale sessions and same-slot drops.
	Ignored Outcome = iota
	// Rejected drops targeted an occupied slot.
	Rejected
	// Moved drops completed the move.
	Moved
	// Failed drops reached the store and were refused or lost.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "rejected"
	case Moved:
		return "moved"
	case Failed:
		return "failed"
	default:
		return "ignored"
	}
}

// DropResult reports what a drop did. Binder is set only for [Moved].
type DropResult struct {
	Outcome Outcome
	Binder  *binder.Binder
}

// Session is the transient state of one drag gesture.
type Session struct {
	Payload Payload
	// Offset is the pointer position relative to the source slot's origin.
	Offset Point
	// Target is the current droppable candidate, if any.
	Target *grid.Address
}

// # Controller

// Controller runs one drag gesture at a time. It is safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	mover   Mover
	logger  *slog.Logger
	session *Session
}

// NewController creates an idle controller that moves cards through mover.
func NewController(mover Mover, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{mover: mover, logger: logger}
}

// State returns the current interaction state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return Idle
	}
	return Dragging
}

// Session returns a copy of the active session.
func (c *Controller) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return Session{}, false
	}
	session := *c.session
	if session.Target != nil {
		target := *session.Target
		session.Target = &target
	}
	return session, true
}

/*
Start picks up the card in source.

Parameters:
  - source: binder.SlotView (Must be occupied)
  - pointer: Point (Where the gesture began)
  - bounds: Rect (On-screen bounds of the source slot)

Returns:
  - Payload: The payload to hand to the eventual drop
  - error: ErrDragInProgress or ErrEmptySlot
*/
func (c *Controller) Start(source binder.SlotView, pointer Point, bounds Rect) (Payload, error) {
	if !source.Occupied() {
		return Payload{}, ErrEmptySlot
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return Payload{}, ErrDragInProgress
	}

	payload := Payload{Type: PayloadType, Card: *source.Card, Slot: source.Address()}
	c.session = &Session{Payload: payload, Offset: pointer.Sub(bounds.Origin())}

	c.logger.Debug("drag_started", slog.String("card_id", payload.Card.CardID), slog.String("slot", payload.Slot.String()))
	return payload, nil
}

// Over marks slot as the drop candidate when it is empty and reports whether
// it is droppable. An occupied slot clears the candidate.
func (c *Controller) Over(slot binder.SlotView) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return false
	}

	if slot.Occupied() {
		c.session.Target = nil
		return false
	}

	address := slot.Address()
	c.session.Target = &address
	return true
}

// Enter behaves like [Controller.Over].
func (c *Controller) Enter(slot binder.SlotView) bool {
	return c.Over(slot)
}

// Leave clears the candidate when the pointer has really left its bounds.
// Leave events for other slots, or with the pointer still inside, are ignored.
func (c *Controller) Leave(slot binder.SlotView, pointer Point, bounds Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || c.session.Target == nil || *c.session.Target != slot.Address() {
		return
	}
	if bounds.Contains(pointer) {
		return
	}
	c.session.Target = nil
}

/*
Drop ends the gesture on target.

Description: The session is cleared before the move is awaited, so a second
drop for the same gesture is Ignored. Foreign payloads, stale sessions and
drops onto the source slot are Ignored; drops onto occupied slots are
Rejected. Only a drop onto a distinct empty slot calls the Mover.

Parameters:
  - ctx: context.Context
  - payload: Payload (As produced by Start, possibly after transfer)
  - target: binder.SlotView

Returns:
  - DropResult: The outcome, with the updated binder when Moved
  - error: The Mover's error when Failed, nil otherwise
*/
func (c *Controller) Drop(ctx context.Context, payload Payload, target binder.SlotView) (DropResult, error) {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session == nil || !payload.Recognized() || payload.Slot != session.Payload.Slot {
		return DropResult{Outcome: Ignored}, nil
	}

	source, destination := payload.Slot, target.Address()

	if destination == source {
		return DropResult{Outcome: Ignored}, nil
	}
	if target.Occupied() {
		c.logger.Debug("drop_rejected", slog.String("slot", destination.String()))
		return DropResult{Outcome: Rejected}, nil
	}

	updated, err := c.mover.MoveCard(ctx, source, destination)
	if err != nil {
		c.logger.Warn("drop_failed",
			slog.String("from", source.String()),
			slog.String("to", destination.String()),
			slog.Any("error", err),
		)
		return DropResult{Outcome: Failed}, err
	}

	c.logger.Debug("drop_completed", slog.String("from", source.String()), slog.String("to", destination.String()))
	return DropResult{Outcome: Moved, Binder: updated}, nil
}

// Cancel abandons the active gesture without a remote call. It reports whether
// a gesture was active.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := c.session != nil
	c.session = nil
	return active
}

// End handles the end of a gesture that was not dropped on a slot.
func (c *Controller) End() {
	c.Cancel()
}

// KeyEscape is the key name that cancels a drag.
const KeyEscape = "Escape"

// HandleKey cancels the gesture on Escape. It reports whether the key was consumed.
func (c *Controller) HandleKey(key string) bool {
	if key != KeyEscape {
		return false
	}
	return c.Cancel()
}
