// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dragdrop_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pokebinder/internal/core/binder"
	"github.com/taibuivan/pokebinder/internal/core/dragdrop"
	"github.com/taibuivan/pokebinder/internal/core/grid"
)

// recordingMover counts calls and answers with a fixed result.
type recordingMover struct {
	mu    sync.Mutex
	calls []grid.Address
	err   error
}

func (m *recordingMover) MoveCard(_ context.Context, source, destination grid.Address) (*binder.Binder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, source, destination)
	if m.err != nil {
		return nil, m.err
	}
	return &binder.Binder{ID: "b-1"}, nil
}

func (m *recordingMover) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls) / 2
}

func occupied(page, position int) binder.SlotView {
	return binder.SlotView{Page: page, Position: position, Card: &binder.CardRef{CardID: "base1-4", CardName: "Charizard"}}
}

func empty(page, position int) binder.SlotView {
	return binder.SlotView{Page: page, Position: position}
}

var cell = dragdrop.Rect{X: 100, Y: 100, Width: 50, Height: 70}

func TestController_Start(t *testing.T) {
	controller := dragdrop.NewController(&recordingMover{}, nil)
	assert.Equal(t, dragdrop.Idle, controller.State())

	_, err := controller.Start(empty(1, 0), dragdrop.Point{}, cell)
	assert.ErrorIs(t, err, dragdrop.ErrEmptySlot)
	assert.Equal(t, dragdrop.Idle, controller.State())

	payload, err := controller.Start(occupied(1, 0), dragdrop.Point{X: 110, Y: 130}, cell)
	require.NoError(t, err)
	assert.Equal(t, dragdrop.PayloadType, payload.Type)
	assert.Equal(t, grid.Address{Page: 1, Position: 0}, payload.Slot)
	assert.Equal(t, "base1-4", payload.Card.CardID)
	assert.Equal(t, "dragging", controller.State().String())

	session, ok := controller.Session()
	require.True(t, ok)
	assert.Equal(t, dragdrop.Point{X: 10, Y: 30}, session.Offset)

	// Re-entrant starts are refused and keep the first session
	_, err = controller.Start(occupied(1, 1), dragdrop.Point{}, cell)
	assert.ErrorIs(t, err, dragdrop.ErrDragInProgress)
	session, _ = controller.Session()
	assert.Equal(t, 0, session.Payload.Slot.Position)
}

func TestController_HoverAndLeave(t *testing.T) {
	controller := dragdrop.NewController(&recordingMover{}, nil)

	// Hover without a drag does nothing
	assert.False(t, controller.Over(empty(1, 3)))

	_, err := controller.Start(occupied(1, 0), dragdrop.Point{}, cell)
	require.NoError(t, err)

	assert.True(t, controller.Enter(empty(1, 3)))
	session, _ := controller.Session()
	require.NotNil(t, session.Target)
	assert.Equal(t, grid.Address{Page: 1, Position: 3}, *session.Target)

	// Spurious leave from inside the slot keeps the candidate
	controller.Leave(empty(1, 3), dragdrop.Point{X: 120, Y: 120}, cell)
	session, _ = controller.Session()
	assert.NotNil(t, session.Target)

	// Leave for a slot that is not the candidate is ignored
	controller.Leave(empty(1, 4), dragdrop.Point{X: 0, Y: 0}, cell)
	session, _ = controller.Session()
	assert.NotNil(t, session.Target)

	// Leaving for real clears it
	controller.Leave(empty(1, 3), dragdrop.Point{X: 150, Y: 120}, cell)
	session, _ = controller.Session()
	assert.Nil(t, session.Target)

	// Occupied slots are not droppable and clear the candidate
	assert.True(t, controller.Over(empty(1, 3)))
	assert.False(t, controller.Over(occupied(1, 5)))
	session, _ = controller.Session()
	assert.Nil(t, session.Target)
}

func TestController_Drop(t *testing.T) {
	start := func(t *testing.T, controller *dragdrop.Controller) dragdrop.Payload {
		t.Helper()
		payload, err := controller.Start(occupied(1, 0), dragdrop.Point{}, cell)
		require.NoError(t, err)
		return payload
	}

	t.Run("moves_to_empty_slot", func(t *testing.T) {
		mover := &recordingMover{}
		controller := dragdrop.NewController(mover, nil)
		payload := start(t, controller)

		result, err := controller.Drop(context.Background(), payload, empty(1, 5))
		require.NoError(t, err)
		assert.Equal(t, dragdrop.Moved, result.Outcome)
		require.NotNil(t, result.Binder)
		assert.Equal(t, []grid.Address{{Page: 1, Position: 0}, {Page: 1, Position: 5}}, mover.calls)
		assert.Equal(t, dragdrop.Idle, controller.State())
	})

	t.Run("same_slot_is_ignored", func(t *testing.T) {
		mover := &recordingMover{}
		controller := dragdrop.NewController(mover, nil)
		payload := start(t, controller)

		result, err := controller.Drop(context.Background(), payload, occupied(1, 0))
		require.NoError(t, err)
		assert.Equal(t, dragdrop.Ignored, result.Outcome)
		assert.Zero(t, mover.count())
		assert.Equal(t, dragdrop.Idle, controller.State())
	})

	t.Run("occupied_destination_is_rejected", func(t *testing.T) {
		mover := &recordingMover{}
		controller := dragdrop.NewController(mover, nil)
		payload := start(t, controller)

		result, err := controller.Drop(context.Background(), payload, occupied(2, 3))
		require.NoError(t, err)
		assert.Equal(t, dragdrop.Rejected, result.Outcome)
		assert.Zero(t, mover.count())
		assert.Equal(t, dragdrop.Idle, controller.State())
	})

	t.Run("foreign_payload_is_ignored", func(t *testing.T) {
		mover := &recordingMover{}
		controller := dragdrop.NewController(mover, nil)
		payload := start(t, controller)
		payload.Type = "text/plain"

		result, err := controller.Drop(context.Background(), payload, empty(1, 5))
		require.NoError(t, err)
		assert.Equal(t, dragdrop.Ignored, result.Outcome)
		assert.Zero(t, mover.count())
		assert.Equal(t, dragdrop.Idle, controller.State())
	})

	t.Run("drop_without_drag_is_ignored", func(t *testing.T) {
		mover := &recordingMover{}
		controller := dragdrop.NewController(mover, nil)

		result, err := controller.Drop(context.Background(), dragdrop.Payload{Type: dragdrop.PayloadType}, empty(1, 5))
		require.NoError(t, err)
		assert.Equal(t, dragdrop.Ignored, result.Outcome)
		assert.Zero(t, mover.count())
	})

	t.Run("failure_is_propagated", func(t *testing.T) {
		mover := &recordingMover{err: binder.ErrDestinationOccupied}
		controller := dragdrop.NewController(mover, nil)
		payload := start(t, controller)

		result, err := controller.Drop(context.Background(), payload, empty(1, 5))
		assert.ErrorIs(t, err, binder.ErrDestinationOccupied)
		assert.Equal(t, dragdrop.Failed, result.Outcome)
		assert.Nil(t, result.Binder)
		assert.Equal(t, dragdrop.Idle, controller.State())
	})
}

func TestController_Cancel(t *testing.T) {
	mover := &recordingMover{}
	controller := dragdrop.NewController(mover, nil)

	assert.False(t, controller.Cancel())

	_, err := controller.Start(occupied(1, 0), dragdrop.Point{}, cell)
	require.NoError(t, err)
	assert.False(t, controller.HandleKey("Enter"))
	assert.Equal(t, dragdrop.Dragging, controller.State())
	assert.True(t, controller.HandleKey(dragdrop.KeyEscape))
	assert.Equal(t, dragdrop.Idle, controller.State())

	payload, err := controller.Start(occupied(1, 0), dragdrop.Point{}, cell)
	require.NoError(t, err)
	controller.End()
	assert.Equal(t, dragdrop.Idle, controller.State())

	// A drop after cancellation is stale
	result, err := controller.Drop(context.Background(), payload, empty(1, 5))
	require.NoError(t, err)
	assert.Equal(t, dragdrop.Ignored, result.Outcome)
	assert.Zero(t, mover.count())
}

/*
TestController_DropFiresOnce checks that a second drop arriving while the first
is awaiting the store cannot trigger another move.
*/
func TestController_DropFiresOnce(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32

	controller := dragdrop.NewController(dragdrop.MoverFunc(func(ctx context.Context, _, _ grid.Address) (*binder.Binder, error) {
		calls.Add(1)
		<-release
		return &binder.Binder{}, nil
	}), nil)

	payload, err := controller.Start(occupied(1, 0), dragdrop.Point{}, cell)
	require.NoError(t, err)

	first := make(chan dragdrop.DropResult)
	go func() {
		result, _ := controller.Drop(context.Background(), payload, empty(1, 5))
		first <- result
	}()

	// Wait until the first drop is inside the mover
	require.Eventually(t, func() bool { return calls.Load() == 1 }, timeout, tick)

	second, err := controller.Drop(context.Background(), payload, empty(1, 6))
	require.NoError(t, err)
	assert.Equal(t, dragdrop.Ignored, second.Outcome)

	close(release)
	assert.Equal(t, dragdrop.Moved, (<-first).Outcome)
	assert.Equal(t, int32(1), calls.Load())
}

func TestController_ConcurrentStarts(t *testing.T) {
	controller := dragdrop.NewController(&recordingMover{}, nil)

	var wg sync.WaitGroup
	var started atomic.Int32
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := controller.Start(occupied(1, i), dragdrop.Point{}, cell); err == nil {
				started.Add(1)
			} else {
				assert.True(t, errors.Is(err, dragdrop.ErrDragInProgress))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), started.Load())
}
