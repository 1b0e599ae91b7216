// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
)

// # Shell Loop

// LineReader is the interactive input. *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

/*
Run reads and executes one command line.

Returns:
  - error: readline.ErrInterrupt on Ctrl-C outside a drag, io.EOF (possibly
    wrapped) when the shell should close, otherwise the command's failure
*/
func (c *CLI) Run(ctx context.Context, reader LineReader) error {
	reader.SetPrompt(c.Prompt)

	line, err := reader.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		if c.Interrupt() {
			return nil
		}
		return err
	}
	if err != nil {
		return err
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	return c.ExecuteCommand(ctx, ParseArgs(line))
}

/*
Loop runs the shell until the user exits or input ends.

Description: Command failures are printed and the loop continues.
*/
func (c *CLI) Loop(ctx context.Context, reader LineReader) {
	for {
		err := c.Run(ctx, reader)
		switch {
		case err == nil:
		case errors.Is(err, readline.ErrInterrupt):
			c.printf("Use 'exit' or 'quit' to exit the program.\n")
		case errors.Is(err, io.EOF):
			return
		default:
			c.PrintError(err)
		}
	}
}

/*
ExecuteScript runs the commands of a file, one per line.

Description: Blank lines and lines starting with '#' are skipped. Execution
stops at the first failing command.
*/
func (c *CLI) ExecuteScript(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer file.Close()

	return c.executeLines(ctx, file)
}

func (c *CLI) executeLines(ctx context.Context, input io.Reader) error {
	scanner := bufio.NewScanner(input)
	number := 0
	for scanner.Scan() {
		number++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		err := c.ExecuteCommand(ctx, ParseArgs(line))
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d (%s): %w", number, line, err)
		}
	}
	return scanner.Err()
}
