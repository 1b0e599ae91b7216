// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/taibuivan/pokebinder/internal/core/binder"
	"github.com/taibuivan/pokebinder/internal/core/dragdrop"
	"github.com/taibuivan/pokebinder/internal/platform/apperr"
	"github.com/taibuivan/pokebinder/pkg/pagination"
	"github.com/taibuivan/pokebinder/pkg/slice"
)

// # Rendering

const (
	nameWidth   = cellWidth - 6
	emptyMarker = "."
)

// render prints the page on screen as a grid. The drag source is marked '*'
// and the current drop candidate '+'.
func (c *CLI) render() {
	title := fmt.Sprintf("%s (%s)", c.current.Name, c.view.Size)
	c.renderPage(title, c.view, c.current.TotalCards)
}

func (c *CLI) renderPage(title string, view binder.PageView, totalCards int) {
	occupied := slice.Count(view.Slots, binder.SlotView.Occupied)

	c.printf("%s  page %d of %d  %d/%d slots filled  %d cards total\n",
		title, view.Number, view.TotalPages, occupied, len(view.Slots), totalCards)

	session, dragging := c.sessionMarkers()
	dragging = dragging && c.current != nil && view.BinderID == c.current.ID
	border := "+" + strings.Repeat(strings.Repeat("-", cellWidth)+"+", view.Cols)

	c.printf("%s\n", border)
	for row := range view.Rows {
		cells := slice.Map(view.Row(row), func(slot binder.SlotView) string {
			marker := " "
			switch address := slot.Address(); {
			case dragging && address == session.Payload.Slot:
				marker = "*"
			case dragging && session.Target != nil && address == *session.Target:
				marker = "+"
			}

			name := emptyMarker
			if slot.Occupied() {
				name = truncate(slot.Card.CardName, nameWidth)
			}
			return fmt.Sprintf("%s%3d %-*s", marker, slot.Position, nameWidth+1, name)
		})
		c.printf("|%s|\n", strings.Join(cells, "|"))
	}
	c.printf("%s\n", border)

	var hints []string
	if view.HasPrev {
		hints = append(hints, "< prev")
	}
	if view.HasNext {
		hints = append(hints, "next >")
	}
	if len(hints) > 0 {
		c.printf("%s\n", strings.Join(hints, "   "))
	}
}

func (c *CLI) renderList(summaries []binder.Summary, meta pagination.Meta) {
	if len(summaries) == 0 {
		c.printf("No binders yet. Use 'create <name> [size]' to start one.\n")
		return
	}

	table := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "SLUG\tNAME\tSIZE\tPAGES\tCARDS\tVISIBILITY\tPREVIEW")
	for _, summary := range summaries {
		fmt.Fprintf(table, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			summary.Slug, summary.Name, summary.Size, summary.TotalPages, summary.TotalCards,
			visibility(summary.IsPublic), strings.Join(summary.PreviewCards, ", "))
	}
	_ = table.Flush()

	c.printf("Page %d of %d (%d binders)\n", meta.Page, max(meta.TotalPages, 1), meta.Total)
}

// PrintError writes err in the shell's error format, with field details for
// validation failures.
func (c *CLI) PrintError(err error) {
	ae := apperr.As(err)
	if ae == nil {
		c.printf("Error: %v\n", err)
		return
	}

	c.printf("Error [%s]: %s\n", ae.Code, err.Error())
	for _, detail := range ae.Details {
		c.printf("  %s: %s\n", detail.Field, detail.Message)
	}
}

func (c *CLI) sessionMarkers() (dragdrop.Session, bool) {
	if c.controller == nil {
		return dragdrop.Session{}, false
	}
	return c.controller.Session()
}

func truncate(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width-1]) + "~"
}
