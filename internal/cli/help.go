// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"sort"
	"strings"
)

// # Help

var commandHelp = map[string]string{
	"list": "Syntax: list [page]\n" +
		"Description: Lists your binders, most recently changed first.\n" +
		"Example: list 2",
	"create": "Syntax: create <name> [size] [public] [description...]\n" +
		"Description: Creates a binder with one empty page and opens it. Size is 3x3, 4x4 or 5x5 (default 3x3).\n" +
		"Example: create \"Base Set\" 3x3 yes Original 1999 print run",
	"open": "Syntax: open <id|slug>\n" +
		"Description: Opens a binder on its first page.\n" +
		"Example: open base-set",
	"close": "Syntax: close\n" +
		"Description: Closes the open binder.\n" +
		"Example: close",
	"show": "Syntax: show [page]\n" +
		"Description: Reloads the open binder and shows a page. Out-of-range pages are clamped.\n" +
		"Example: show 3",
	"peek": "Syntax: peek <id|slug> [page]\n" +
		"Description: Shows one page of any binder you can read, without opening it.\n" +
		"Example: peek 0190a1b2-7c3d-7e4f-8a9b-0c1d2e3f4a5b 2",
	"next": "Syntax: next\n" +
		"Description: Turns to the next page.\n" +
		"Example: next",
	"prev": "Syntax: prev\n" +
		"Description: Turns to the previous page.\n" +
		"Example: prev",
	"addpage": "Syntax: addpage\n" +
		"Description: Appends an empty page and turns to it.\n" +
		"Example: addpage",
	"add": "Syntax: add <card_id> [card_name] [slot]\n" +
		"Description: Places a card. Without a slot the first free slot of the page on screen is used. A slot is <position> or <page>:<position>.\n" +
		"Example: add base1-4 Charizard 2:0",
	"remove": "Syntax: remove <slot>\n" +
		"Description: Takes the card out of a slot.\n" +
		"Example: remove 4",
	"move": "Syntax: move <from> <to>\n" +
		"Description: Moves a card to an empty slot, on any page.\n" +
		"Example: move 1:4 2:0",
	"rename": "Syntax: rename <name...>\n" +
		"Description: Renames the open binder. Its slug follows the new name.\n" +
		"Example: rename Jungle Holos",
	"publish": "Syntax: publish <yes|no>\n" +
		"Description: Makes the open binder visible to everyone, or private again.\n" +
		"Example: publish yes",
	"delete": "Syntax: delete <slug>\n" +
		"Description: Deletes the open binder. Repeat its slug to confirm.\n" +
		"Example: delete base-set",
	"drag": "Syntax: drag <slot>\n" +
		"Description: Picks up the card in a slot. Ctrl-C cancels the drag.\n" +
		"Example: drag 4",
	"over": "Syntax: over <slot>\n" +
		"Description: Hovers the dragged card over a slot and reports whether it can be dropped there.\n" +
		"Example: over 2:0",
	"leave": "Syntax: leave <slot>\n" +
		"Description: Moves the dragged card away from a slot.\n" +
		"Example: leave 2:0",
	"drop": "Syntax: drop [slot]\n" +
		"Description: Drops the dragged card on a slot, or on the last slot hovered.\n" +
		"Example: drop 5",
	"cancel": "Syntax: cancel\n" +
		"Description: Puts the dragged card back.\n" +
		"Example: cancel",
	"help": "Syntax: help [command]\n" +
		"Description: Lists commands, or describes one.\n" +
		"Example: help move",
	"exit": "Syntax: exit\n" +
		"Description: Leaves the shell. 'quit' works too.\n" +
		"Example: exit",
}

func (c *CLI) handleHelp(args []string) error {
	if len(args) > 2 {
		return usageError("help")
	}
	if len(args) == 2 {
		text, ok := commandHelp[strings.ToLower(args[1])]
		if !ok {
			return fmt.Errorf("no help for unknown command %q", args[1])
		}
		c.printf("%s\n", text)
		return nil
	}

	commands := make([]string, 0, len(commandHelp))
	for command := range commandHelp {
		commands = append(commands, command)
	}
	sort.Strings(commands)

	c.printf("Commands: %s\n", strings.Join(commands, ", "))
	c.printf("Type 'help <command>' for details.\n")
	return nil
}

func usageError(command string) error {
	syntax, _, _ := strings.Cut(commandHelp[strings.ToLower(command)], "\n")
	return fmt.Errorf("usage: %s", strings.TrimPrefix(syntax, "Syntax: "))
}
