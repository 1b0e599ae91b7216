// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cli implements binderctl, an interactive shell for browsing and
arranging binders.

The shell renders one page at a time as a grid and supports two ways of moving
cards: the direct 'move' command, and a drag gesture ('drag', 'over', 'leave',
'drop', 'cancel') that runs through the same [dragdrop.Controller] a graphical
front-end would use.
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/taibuivan/pokebinder/internal/core/binder"
	"github.com/taibuivan/pokebinder/internal/core/dragdrop"
	"github.com/taibuivan/pokebinder/internal/core/grid"
	"github.com/taibuivan/pokebinder/pkg/pagination"
)

// Backend is the binder store the shell talks to. *client.Client satisfies it,
// as does [LocalBackend].
type Backend interface {
	List(ctx context.Context, params pagination.Params) ([]binder.Summary, pagination.Meta, error)
	Create(ctx context.Context, request binder.CreateRequest) (*binder.Binder, error)
	Get(ctx context.Context, identifier string) (*binder.Binder, error)
	Update(ctx context.Context, id string, request binder.UpdateRequest) (*binder.Binder, error)
	Delete(ctx context.Context, id string) error
	AddPage(ctx context.Context, id string) (*binder.Binder, error)
	Page(ctx context.Context, identifier string, page int) (binder.PageView, error)
	AddCard(ctx context.Context, id string, request binder.AddCardRequest) (*binder.Binder, error)
	RemoveCard(ctx context.Context, id string, address grid.Address) (*binder.Binder, error)
	MoveCard(ctx context.Context, id string, source, destination grid.Address) (*binder.Binder, error)
	Mover(id string) dragdrop.Mover
}

// ErrExit is returned by ExecuteCommand when the user asks to leave the shell.
var ErrExit = fmt.Errorf("exit requested: %w", io.EOF)

var errNoBinder = errors.New("no binder open: use 'open <id|slug>' first")

// CLI is the shell state: the open binder, the page on screen and any drag in flight.
type CLI struct {
	backend Backend
	out     io.Writer
	logger  *slog.Logger

	current    *binder.Binder
	view       binder.PageView
	controller *dragdrop.Controller
	// transfer is the encoded payload of the drag in flight, nil when idle.
	transfer []byte

	Prompt string
}

// New creates a shell that writes its output to out.
func New(backend Backend, out io.Writer, logger *slog.Logger) *CLI {
	if logger == nil {
		logger = slog.Default()
	}
	c := &CLI{backend: backend, out: out, logger: logger}
	c.UpdatePrompt()
	return c
}

// Current returns the open binder, or nil.
func (c *CLI) Current() *binder.Binder {
	return c.current
}

// View returns the page on screen.
func (c *CLI) View() binder.PageView {
	return c.view
}

// Dragging reports whether a drag gesture is in flight.
func (c *CLI) Dragging() bool {
	return c.controller != nil && c.controller.State() == dragdrop.Dragging
}

// UpdatePrompt refreshes the prompt from the open binder, page and drag state.
func (c *CLI) UpdatePrompt() {
	if c.current == nil {
		c.Prompt = "binder> "
		return
	}

	prompt := fmt.Sprintf("%s[%d/%d]", c.current.Slug, c.view.Number, c.view.TotalPages)
	if c.Dragging() {
		prompt += " drag " + c.held().Slot.String()
	}
	c.Prompt = prompt + "> "
}

/*
ParseArgs splits a command line into arguments.

Description: Arguments are separated by spaces. Double quotes group words into
one argument and are stripped.

Parameters:
  - input: string

Returns:
  - []string: The arguments, empty for a blank line
*/
func ParseArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	pending := false

	for _, char := range input {
		switch {
		case char == '"':
			inQuotes = !inQuotes
			pending = true
		case char == ' ' && !inQuotes:
			if pending {
				args = append(args, current.String())
				current.Reset()
				pending = false
			}
		default:
			current.WriteRune(char)
			pending = true
		}
	}
	if pending {
		args = append(args, current.String())
	}
	return args
}

/*
ExecuteCommand runs one parsed command line.

Parameters:
  - ctx: context.Context
  - args: []string (As returned by [ParseArgs])

Returns:
  - error: [ErrExit] on 'exit', otherwise the command's failure
*/
func (c *CLI) ExecuteCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	defer c.UpdatePrompt()

	command := strings.ToLower(args[0])
	switch command {
	case "list", "ls":
		return c.handleList(ctx, args)
	case "create":
		return c.handleCreate(ctx, args)
	case "open":
		return c.handleOpen(ctx, args)
	case "close":
		return c.handleClose(args)
	case "show":
		return c.handleShow(ctx, args)
	case "peek":
		return c.handlePeek(ctx, args)
	case "next":
		return c.handleTurn(args, 1)
	case "prev":
		return c.handleTurn(args, -1)
	case "addpage":
		return c.handleAddPage(ctx, args)
	case "add":
		return c.handleAdd(ctx, args)
	case "remove", "rm":
		return c.handleRemove(ctx, args)
	case "move", "mv":
		return c.handleMove(ctx, args)
	case "rename":
		return c.handleRename(ctx, args)
	case "publish":
		return c.handlePublish(ctx, args)
	case "delete":
		return c.handleDelete(ctx, args)
	case "drag":
		return c.handleDrag(ctx, args)
	case "over":
		return c.handleOver(ctx, args)
	case "leave":
		return c.handleLeave(ctx, args)
	case "drop":
		return c.handleDrop(ctx, args)
	case "cancel":
		return c.handleCancel(args)
	case "help":
		return c.handleHelp(args)
	case "exit", "quit":
		return ErrExit
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for a list)", args[0])
	}
}

// Interrupt handles Ctrl-C as the Escape key. It reports whether a drag was cancelled.
func (c *CLI) Interrupt() bool {
	if c.controller == nil || !c.controller.HandleKey(dragdrop.KeyEscape) {
		return false
	}
	c.transfer = nil
	c.printf("Drag cancelled.\n")
	c.UpdatePrompt()
	return true
}

// # State

// show replaces the open binder and moves to page. The drag controller is
// rebuilt whenever a different binder is opened.
func (c *CLI) show(updated *binder.Binder, page int) {
	if c.current == nil || c.current.ID != updated.ID {
		if c.controller != nil {
			c.controller.Cancel()
		}
		c.controller = dragdrop.NewController(c.backend.Mover(updated.ID), c.logger)
		c.transfer = nil
	}

	c.current = updated
	c.view, _ = binder.ResolvePage(updated, page)
	c.render()
}

func (c *CLI) requireBinder() error {
	if c.current == nil {
		return errNoBinder
	}
	return nil
}

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
