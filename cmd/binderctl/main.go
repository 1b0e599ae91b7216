// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command binderctl is an interactive terminal client for binders.
//
// It talks to the API server at BINDER_API_URL, or, when BINDER_LOCAL_PATH is
// set, works offline against a local badger store. Any arguments are script
// files whose commands run before the prompt opens.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/chzyer/readline"

	"github.com/taibuivan/pokebinder/internal/cli"
	"github.com/taibuivan/pokebinder/internal/client"
	"github.com/taibuivan/pokebinder/internal/core/binder"
	"github.com/taibuivan/pokebinder/internal/platform/config"
	"github.com/taibuivan/pokebinder/internal/platform/constants"
)

func main() {
	// Diagnostics go to stderr so they never interleave with the grid
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})).
		With(slog.String("app", constants.AppName+"-cli"))

	cfg, err := config.LoadClient()
	if err != nil {
		log.Error("load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Backend: remote API or local store
	var backend cli.Backend
	if cfg.Offline() {
		store, err := binder.OpenBadgerRepository(cfg.LocalPath, log)
		if err != nil {
			log.Error("open local store", slog.String("path", cfg.LocalPath), slog.Any("error", err))
			os.Exit(1)
		}
		defer store.Close()

		backend = cli.NewLocalBackend(binder.NewService(store, nil, log), cfg.LocalUser)
	} else {
		backend = client.New(cfg.APIURL, client.WithToken(cfg.APIToken), client.WithTimeout(cfg.Timeout))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Error("initialize readline", slog.Any("error", err))
		os.Exit(1)
	}
	defer rl.Close()

	ctx := context.Background()
	shell := cli.New(backend, rl.Stdout(), log)

	for _, script := range os.Args[1:] {
		if err := shell.ExecuteScript(ctx, script); err != nil {
			shell.PrintError(err)
		}
	}

	shell.Loop(ctx, rl)
}
