// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/taibuivan/pokebinder/internal/core/binder"
	"github.com/taibuivan/pokebinder/internal/core/grid"
	"github.com/taibuivan/pokebinder/pkg/convert"
	"github.com/taibuivan/pokebinder/pkg/pagination"
	"github.com/taibuivan/pokebinder/pkg/pointer"
	"github.com/taibuivan/pokebinder/pkg/slice"
)

// # Binder Commands

func (c *CLI) handleList(ctx context.Context, args []string) error {
	params := pagination.Params{Page: pagination.DefaultPage, Limit: pagination.DefaultLimit}
	if len(args) > 1 {
		params.Page = min(max(convert.ToIntD(args[1], pagination.DefaultPage), 1), pagination.MaxPage)
	}

	summaries, meta, err := c.backend.List(ctx, params)
	if err != nil {
		return err
	}

	c.renderList(summaries, meta)
	return nil
}

func (c *CLI) handleCreate(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("create")
	}

	request := binder.CreateRequest{Name: args[1], Size: grid.Size3x3}
	if len(args) > 2 {
		request.Size = grid.Size(strings.ToLower(args[2]))
	}
	if len(args) > 3 {
		request.IsPublic = convert.ToBool(args[3])
	}
	if len(args) > 4 {
		request.Description = pointer.To(strings.Join(args[4:], " "))
	}

	created, err := c.backend.Create(ctx, request)
	if err != nil {
		return err
	}

	c.printf("Created binder %q (%s).\n", created.Name, created.Slug)
	c.show(created, 1)
	return nil
}

func (c *CLI) handleOpen(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("open")
	}

	opened, err := c.backend.Get(ctx, args[1])
	if err != nil {
		return err
	}

	c.show(opened, 1)
	return nil
}

func (c *CLI) handleClose(args []string) error {
	if len(args) != 1 {
		return usageError("close")
	}
	if err := c.requireBinder(); err != nil {
		return err
	}

	if c.controller != nil {
		c.controller.Cancel()
	}
	c.current, c.controller = nil, nil
	c.view = binder.PageView{}
	return nil
}

// handleShow reloads a page from the backend, so changes made elsewhere show up.
func (c *CLI) handleShow(ctx context.Context, args []string) error {
	if err := c.requireBinder(); err != nil {
		return err
	}

	page := c.view.Number
	if len(args) > 1 {
		page = convert.ToIntD(args[1], page)
	}

	reloaded, err := c.backend.Get(ctx, c.current.ID)
	if err != nil {
		return err
	}

	c.show(reloaded, page)
	return nil
}

// handlePeek shows a page of any readable binder without opening it.
func (c *CLI) handlePeek(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return usageError("peek")
	}

	page := 1
	if len(args) == 3 {
		page = convert.ToIntD(args[2], page)
	}

	view, err := c.backend.Page(ctx, args[1], page)
	if err != nil {
		return err
	}

	c.renderPage(args[1], view, slice.Count(view.Slots, binder.SlotView.Occupied))
	return nil
}

func (c *CLI) handleTurn(args []string, step int) error {
	if len(args) != 1 {
		return usageError(args[0])
	}
	if err := c.requireBinder(); err != nil {
		return err
	}

	if (step > 0 && !c.view.HasNext) || (step < 0 && !c.view.HasPrev) {
		c.printf("Already on page %d of %d.\n", c.view.Number, c.view.TotalPages)
		return nil
	}

	c.show(c.current, c.view.Number+step)
	return nil
}

func (c *CLI) handleAddPage(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("addpage")
	}
	if err := c.requireBinder(); err != nil {
		return err
	}

	updated, err := c.backend.AddPage(ctx, c.current.ID)
	if err != nil {
		return err
	}

	c.show(updated, updated.TotalPages)
	return nil
}

func (c *CLI) handleRename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("rename")
	}
	if err := c.requireBinder(); err != nil {
		return err
	}

	name := strings.Join(args[1:], " ")
	updated, err := c.backend.Update(ctx, c.current.ID, binder.UpdateRequest{Name: &name})
	if err != nil {
		return err
	}

	c.printf("Renamed to %q (%s).\n", updated.Name, updated.Slug)
	c.show(updated, c.view.Number)
	return nil
}

func (c *CLI) handlePublish(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("publish")
	}
	if err := c.requireBinder(); err != nil {
		return err
	}

	updated, err := c.backend.Update(ctx, c.current.ID, binder.UpdateRequest{IsPublic: pointer.To(convert.ToBool(args[1]))})
	if err != nil {
		return err
	}

	c.printf("%s is now %s.\n", updated.Name, visibility(updated.IsPublic))
	c.show(updated, c.view.Number)
	return nil
}

// handleDelete removes the open binder. The slug must be repeated as confirmation.
func (c *CLI) handleDelete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("delete")
	}
	if err := c.requireBinder(); err != nil {
		return err
	}
	if args[1] != c.current.Slug && args[1] != c.current.ID {
		return fmt.Errorf("confirmation %q does not match the open binder %q", args[1], c.current.Slug)
	}

	if err := c.backend.Delete(ctx, c.current.ID); err != nil {
		return err
	}

	c.printf("Deleted %q.\n", c.current.Name)
	return c.handleClose([]string{"close"})
}

// # Card Commands

func (c *CLI) handleAdd(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 4 {
		return usageError("add")
	}
	if err := c.requireBinder(); err != nil {
		return err
	}

	request := binder.AddCardRequest{CardID: args[1], PageNumber: pointer.To(c.view.Number)}
	if len(args) > 2 {
		request.CardName = args[2]
	}
	if len(args) > 3 {
		address, err := c.parseSlot(args[3])
		if err != nil {
			return err
		}
		request.PageNumber = pointer.To(address.Page)
		request.Position = pointer.To(address.Position)
	}

	updated, err := c.backend.AddCard(ctx, c.current.ID, request)
	if err != nil {
		return err
	}

	c.show(updated, *request.PageNumber)
	return nil
}

func (c *CLI) handleRemove(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("remove")
	}
	if err := c.requireBinder(); err != nil {
		return err
	}

	address, err := c.parseSlot(args[1])
	if err != nil {
		return err
	}

	updated, err := c.backend.RemoveCard(ctx, c.current.ID, address)
	if err != nil {
		return err
	}

	c.show(updated, address.Page)
	return nil
}

func (c *CLI) handleMove(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return usageError("move")
	}
	if err := c.requireBinder(); err != nil {
		return err
	}

	source, err := c.parseSlot(args[1])
	if err != nil {
		return err
	}
	destination, err := c.parseSlot(args[2])
	if err != nil {
		return err
	}

	updated, err := c.backend.MoveCard(ctx, c.current.ID, source, destination)
	if err != nil {
		return err
	}

	c.show(updated, destination.Page)
	return nil
}

// # Helpers

/*
parseSlot reads a slot argument.

Description: "<position>" addresses the page on screen, "<page>:<position>" any
page. Positions are 0-based, pages 1-based. Range checks are left to the store.
*/
func (c *CLI) parseSlot(arg string) (grid.Address, error) {
	pageText, positionText, qualified := strings.Cut(arg, ":")
	if !qualified {
		pageText, positionText = strconv.Itoa(c.view.Number), arg
	}

	page, err := strconv.Atoi(pageText)
	if err != nil {
		return grid.Address{}, fmt.Errorf("invalid slot %q: want <position> or <page>:<position>", arg)
	}
	position, err := strconv.Atoi(positionText)
	if err != nil {
		return grid.Address{}, fmt.Errorf("invalid slot %q: want <position> or <page>:<position>", arg)
	}

	return grid.Address{Page: page, Position: position}, nil
}

func visibility(public bool) string {
	if public {
		return "public"
	}
	return "private"
}
