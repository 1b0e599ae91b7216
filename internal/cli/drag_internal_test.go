// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pokebinder/internal/core/binder"
	"github.com/taibuivan/pokebinder/internal/core/dragdrop"
	"github.com/taibuivan/pokebinder/internal/core/grid"
)

func newFossilShell(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()

	service := binder.NewService(binder.NewMemoryRepository(), nil, nil)
	out := &bytes.Buffer{}
	shell := New(NewLocalBackend(service, "ash"), out, nil)

	for _, line := range []string{"create Fossil", "add base1-4 Charizard 0"} {
		require.NoError(t, shell.ExecuteCommand(context.Background(), ParseArgs(line)), line)
	}
	return shell, out
}

func TestDrag_TransfersEncodedPayload(t *testing.T) {
	shell, _ := newFossilShell(t)
	ctx := context.Background()

	require.NoError(t, shell.ExecuteCommand(ctx, ParseArgs("drag 0")))
	require.NotEmpty(t, shell.transfer)

	payload := dragdrop.DecodePayload(shell.transfer)
	assert.True(t, payload.Recognized())
	assert.Equal(t, "Charizard", payload.Card.CardName)
	assert.Equal(t, grid.Address{Page: 1, Position: 0}, payload.Slot)

	require.NoError(t, shell.ExecuteCommand(ctx, ParseArgs("drop 4")))
	assert.Nil(t, shell.transfer)
	assert.Equal(t, "Charizard", shell.Current().Pages[0].Slots[4].Card.CardName)
}

func TestDrag_ForeignTransferIsIgnored(t *testing.T) {
	for name, data := range map[string][]byte{
		"garbled": []byte("{not json"),
		"foreign": []byte(`{"type":"text/plain","slot":{"page":1,"position":0}}`),
	} {
		t.Run(name, func(t *testing.T) {
			shell, out := newFossilShell(t)
			ctx := context.Background()

			require.NoError(t, shell.ExecuteCommand(ctx, ParseArgs("drag 0")))
			shell.transfer = data

			out.Reset()
			require.NoError(t, shell.ExecuteCommand(ctx, ParseArgs("drop 4")))
			assert.Contains(t, out.String(), "Nothing to drop")
			assert.False(t, shell.Dragging())
			assert.Nil(t, shell.transfer)

			slots := shell.Current().Pages[0].Slots
			assert.Equal(t, "Charizard", slots[0].Card.CardName)
			assert.False(t, slots[4].Occupied())
		})
	}
}
