// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pokebinder/internal/catalog"
	"github.com/taibuivan/pokebinder/internal/cli"
	"github.com/taibuivan/pokebinder/internal/core/binder"
	"github.com/taibuivan/pokebinder/internal/core/dragdrop"
	"github.com/taibuivan/pokebinder/internal/core/grid"
	"github.com/taibuivan/pokebinder/internal/platform/apperr"
)

func newBackend() *cli.LocalBackend {
	lookup := catalog.NewStaticLookup(
		catalog.Card{ID: "base1-4", Name: "Charizard"},
		catalog.Card{ID: "base1-2", Name: "Blastoise"},
		catalog.Card{ID: "base1-15", Name: "Venusaur"},
	)
	service := binder.NewService(binder.NewMemoryRepository(), lookup, nil)
	return cli.NewLocalBackend(service, "ash")
}

func newShell(t *testing.T, backend cli.Backend) (*cli.CLI, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	return cli.New(backend, out, nil), out
}

// run executes each line and fails the test on the first error.
func run(t *testing.T, shell *cli.CLI, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, shell.ExecuteCommand(context.Background(), cli.ParseArgs(line)), line)
	}
}

func exec(shell *cli.CLI, line string) error {
	return shell.ExecuteCommand(context.Background(), cli.ParseArgs(line))
}

func slotAt(t *testing.T, shell *cli.CLI, page, position int) binder.Slot {
	t.Helper()
	current := shell.Current()
	require.NotNil(t, current)
	require.GreaterOrEqual(t, len(current.Pages), page)
	return current.Pages[page-1].Slots[position]
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"   ", nil},
		{"list", []string{"list"}},
		{"move  1:4   2:0", []string{"move", "1:4", "2:0"}},
		{`create "Base Set" 3x3`, []string{"create", "Base Set", "3x3"}},
		{`add base1-4 ""`, []string{"add", "base1-4", ""}},
		{`rename "Jungle`, []string{"rename", "Jungle"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.ParseArgs(tt.input))
		})
	}
}

func TestCLI_BinderLifecycle(t *testing.T) {
	shell, out := newShell(t, newBackend())
	assert.Equal(t, "binder> ", shell.Prompt)

	run(t, shell, `create "Base Set" 3x3 yes First print`)
	require.NotNil(t, shell.Current())
	assert.Equal(t, "base-set", shell.Current().Slug)
	assert.True(t, shell.Current().IsPublic)
	assert.Equal(t, "First print", *shell.Current().Description)
	assert.Equal(t, "base-set[1/1]> ", shell.Prompt)
	assert.Contains(t, out.String(), "page 1 of 1")

	// Catalog names fill in, explicit slots win over first-free
	run(t, shell, "add base1-4", "add base1-2 Blastoise 4")
	assert.Equal(t, "Charizard", slotAt(t, shell, 1, 0).Card.CardName)
	assert.Equal(t, "Blastoise", slotAt(t, shell, 1, 4).Card.CardName)
	assert.Contains(t, out.String(), "Charizard")

	run(t, shell, "addpage")
	assert.Equal(t, 2, shell.View().Number)
	assert.Equal(t, "base-set[2/2]> ", shell.Prompt)

	out.Reset()
	run(t, shell, "next")
	assert.Contains(t, out.String(), "Already on page 2 of 2")

	run(t, shell, "prev", "move 0 2:3")
	assert.Equal(t, 2, shell.View().Number)
	assert.False(t, slotAt(t, shell, 1, 0).Occupied())
	assert.Equal(t, "base1-4", slotAt(t, shell, 2, 3).Card.CardID)

	run(t, shell, "remove 2:3")
	assert.False(t, slotAt(t, shell, 2, 3).Occupied())
	assert.Equal(t, 1, shell.Current().TotalCards)

	run(t, shell, "show 99")
	assert.Equal(t, 2, shell.View().Number)

	run(t, shell, "rename Base Set Unlimited", "publish no")
	assert.Equal(t, "base-set-unlimited", shell.Current().Slug)
	assert.False(t, shell.Current().IsPublic)

	out.Reset()
	run(t, shell, "list")
	assert.Contains(t, out.String(), "base-set-unlimited")
	assert.Contains(t, out.String(), "private")
	assert.Contains(t, out.String(), "(1 binders)")

	err := exec(shell, "delete base-set")
	assert.ErrorContains(t, err, "does not match")

	run(t, shell, "delete base-set-unlimited")
	assert.Nil(t, shell.Current())
	assert.Equal(t, "binder> ", shell.Prompt)

	out.Reset()
	run(t, shell, "list")
	assert.Contains(t, out.String(), "No binders yet")
}

func TestCLI_OpenAndPeek(t *testing.T) {
	backend := newBackend()
	shell, out := newShell(t, backend)

	run(t, shell, "create Jungle 4x4", "add base1-15", "close")
	assert.Nil(t, shell.Current())

	out.Reset()
	run(t, shell, "peek jungle 7")
	assert.Contains(t, out.String(), "page 1 of 1")
	assert.Contains(t, out.String(), "Venusaur")
	assert.Nil(t, shell.Current())

	run(t, shell, "open jungle")
	require.NotNil(t, shell.Current())
	assert.Equal(t, grid.Size4x4, shell.View().Size)
	assert.Len(t, shell.View().Slots, 16)

	err := exec(shell, "open missing")
	assert.ErrorIs(t, err, binder.ErrNotFound)
}

func TestCLI_DragAndDrop(t *testing.T) {
	shell, out := newShell(t, newBackend())
	run(t, shell, "create Fossil", "add base1-4 Charizard 0", "add base1-2 Blastoise 1")

	// Empty slots cannot be picked up
	err := exec(shell, "drag 8")
	assert.ErrorIs(t, err, dragdrop.ErrEmptySlot)
	assert.False(t, shell.Dragging())

	run(t, shell, "drag 0")
	assert.True(t, shell.Dragging())
	assert.Equal(t, "fossil[1/1] drag 1:0> ", shell.Prompt)

	err = exec(shell, "drag 1")
	assert.ErrorIs(t, err, dragdrop.ErrDragInProgress)

	out.Reset()
	run(t, shell, "over 1")
	assert.Contains(t, out.String(), "occupied by Blastoise")

	run(t, shell, "over 5", "leave 5")
	assert.ErrorContains(t, exec(shell, "drop"), "no drop target")
	assert.True(t, shell.Dragging())

	out.Reset()
	run(t, shell, "over 5")
	assert.Contains(t, out.String(), "1:5 is free")

	run(t, shell, "drop")
	assert.False(t, shell.Dragging())
	assert.False(t, slotAt(t, shell, 1, 0).Occupied())
	assert.Equal(t, "Charizard", slotAt(t, shell, 1, 5).Card.CardName)
	assert.Equal(t, "fossil[1/1]> ", shell.Prompt)

	// Occupied targets reject without moving anything
	out.Reset()
	run(t, shell, "drag 5", "drop 1")
	assert.Contains(t, out.String(), "1:1 is occupied")
	assert.Equal(t, "Charizard", slotAt(t, shell, 1, 5).Card.CardName)
	assert.False(t, shell.Dragging())

	// Dropping back onto the source is a no-op
	out.Reset()
	run(t, shell, "drag 5", "drop 5")
	assert.Contains(t, out.String(), "Nothing to drop")
	assert.Equal(t, "Charizard", slotAt(t, shell, 1, 5).Card.CardName)

	// Drops can land on pages other than the one on screen
	run(t, shell, "addpage", "prev", "drag 5", "drop 2:8")
	assert.Equal(t, 2, shell.View().Number)
	assert.Equal(t, "Charizard", slotAt(t, shell, 2, 8).Card.CardName)

	err = exec(shell, "drop 3:0")
	assert.ErrorIs(t, err, grid.ErrOutOfRange)
}

func TestCLI_DragCancel(t *testing.T) {
	shell, out := newShell(t, newBackend())
	run(t, shell, "create Fossil", "add base1-4 Charizard 0")

	run(t, shell, "drag 0", "cancel")
	assert.False(t, shell.Dragging())
	assert.Contains(t, out.String(), "Drag cancelled.")

	out.Reset()
	run(t, shell, "cancel")
	assert.Contains(t, out.String(), "Nothing is being dragged.")

	// Ctrl-C acts as Escape
	run(t, shell, "drag 0")
	assert.True(t, shell.Interrupt())
	assert.False(t, shell.Dragging())
	assert.False(t, shell.Interrupt())

	// Opening another binder abandons the gesture
	run(t, shell, "drag 0", "create Jungle")
	assert.False(t, shell.Dragging())
	assert.Equal(t, "jungle", shell.Current().Slug)
}

// failingBackend refuses every drag move.
type failingBackend struct {
	*cli.LocalBackend
}

func (failingBackend) Mover(string) dragdrop.Mover {
	return dragdrop.MoverFunc(func(context.Context, grid.Address, grid.Address) (*binder.Binder, error) {
		return nil, apperr.Transport(errors.New("connection reset"))
	})
}

func TestCLI_DropFailureKeepsCard(t *testing.T) {
	shell, _ := newShell(t, failingBackend{newBackend()})
	run(t, shell, "create Fossil", "add base1-4 Charizard 0", "drag 0")

	err := exec(shell, "drop 3")
	require.Error(t, err)
	assert.True(t, apperr.As(err).Retryable())
	assert.ErrorContains(t, err, "Charizard stays at 1:0")

	assert.False(t, shell.Dragging())
	assert.True(t, slotAt(t, shell, 1, 0).Occupied())
	assert.False(t, slotAt(t, shell, 1, 3).Occupied())
}

func TestCLI_Errors(t *testing.T) {
	shell, out := newShell(t, newBackend())

	tests := []struct {
		line    string
		wantErr string
	}{
		{"show", "no binder open"},
		{"add base1-4", "no binder open"},
		{"drag 0", "no binder open"},
		{"dance", "unknown command: dance"},
		{"open", "usage: open <id|slug>"},
		{"MOVE 1", "usage: move <from> <to>"},
		{"help nothing", "no help for unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.ErrorContains(t, exec(shell, tt.line), tt.wantErr)
		})
	}

	run(t, shell, "create Fossil")
	assert.ErrorContains(t, exec(shell, "remove x:1"), "invalid slot")
	assert.ErrorIs(t, exec(shell, "remove 0"), binder.ErrSlotEmpty)
	assert.ErrorIs(t, exec(shell, "exit"), io.EOF)

	// Validation failures print their field details
	err := exec(shell, `create "" 7x7`)
	require.Error(t, err)

	out.Reset()
	shell.PrintError(err)
	assert.Contains(t, out.String(), "Error [VALIDATION_ERROR]")
	assert.Contains(t, out.String(), "  name: ")

	out.Reset()
	shell.PrintError(errors.New("plain"))
	assert.Equal(t, "Error: plain\n", out.String())
}

func TestCLI_Help(t *testing.T) {
	shell, out := newShell(t, newBackend())

	run(t, shell, "help")
	assert.Contains(t, out.String(), "drag")
	assert.Contains(t, out.String(), "move")

	out.Reset()
	run(t, shell, "help DROP")
	assert.Contains(t, out.String(), "Syntax: drop [slot]")
}

// scriptedReader replays lines, then reports end of input.
type scriptedReader struct {
	lines   []string
	prompts []string
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	if line == "^C" {
		return "", readline.ErrInterrupt
	}
	return line, nil
}

func (r *scriptedReader) SetPrompt(prompt string) {
	r.prompts = append(r.prompts, prompt)
}

func TestCLI_Loop(t *testing.T) {
	shell, out := newShell(t, newBackend())
	reader := &scriptedReader{lines: []string{
		"create Fossil",
		"",
		"bogus",
		"^C",
		"add base1-4 Charizard 0",
		"drag 0",
		"^C",
		"exit",
		"create Never",
	}}

	shell.Loop(context.Background(), reader)

	output := out.String()
	assert.Contains(t, output, "Error: unknown command: bogus")
	assert.Contains(t, output, "Use 'exit' or 'quit' to exit the program.")
	assert.Contains(t, output, "Drag cancelled.")
	assert.Equal(t, []string{"create Never"}, reader.lines)
	assert.Contains(t, reader.prompts, "fossil[1/1] drag 1:0> ")
	assert.False(t, shell.Dragging())
}

func TestCLI_ExecuteScript(t *testing.T) {
	shell, _ := newShell(t, newBackend())

	path := filepath.Join(t.TempDir(), "setup.binder")
	script := strings.Join([]string{
		"# starter binder",
		`create "Base Set"`,
		"",
		"add base1-4",
		"add base1-2",
		"move 1 8",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o600))

	require.NoError(t, shell.ExecuteScript(context.Background(), path))
	assert.Equal(t, 2, shell.Current().TotalCards)
	assert.Equal(t, "Blastoise", slotAt(t, shell, 1, 8).Card.CardName)

	broken := filepath.Join(t.TempDir(), "broken.binder")
	require.NoError(t, os.WriteFile(broken, []byte("open base-set\nremove 5\n"), 0o600))
	err := shell.ExecuteScript(context.Background(), broken)
	assert.ErrorContains(t, err, "line 2 (remove 5)")
	assert.ErrorIs(t, err, binder.ErrSlotEmpty)

	assert.Error(t, shell.ExecuteScript(context.Background(), filepath.Join(t.TempDir(), "missing")))
}
