// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

// iridium is a terminal shell with an embedded modal buffer editor.
// Named buffers survive restarts through a compressed, optionally
// encrypted buffer database committed atomically on every session
// boundary.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/iridium-shell/iridium/lib/buffer"
	"github.com/iridium-shell/iridium/lib/config"
	"github.com/iridium-shell/iridium/lib/persist"
	"github.com/iridium-shell/iridium/lib/shell"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "iridium: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := pflag.String("config", "", "configuration file (default IRIDIUM_CONFIG or ~/.iridiumrc)")
	databasePath := pflag.String("db-path", "", "buffer database path (overrides config and environment)")
	noPersist := pflag.Bool("no-persist", false, "disable the buffer database for this session")
	verbose := pflag.Bool("verbose", false, "log at info level instead of warn")
	pflag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var model *config.Model
	if *configPath != "" {
		loaded, err := config.LoadFile(config.ExpandHome(*configPath))
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		model = loaded
	} else {
		model = config.Load(logger)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		logger.Warn("stdin is not a terminal; buffer sessions need an interactive terminal")
	}

	persistConfig, err := persist.ResolveConfig(model, logger)
	if err != nil {
		return fmt.Errorf("resolving persistence configuration: %w", err)
	}
	if *noPersist {
		persistConfig.Close()
		persistConfig = &persist.Config{Enabled: false}
	}
	if *databasePath != "" && persistConfig.Enabled {
		persistConfig.DatabasePath = config.ExpandHome(*databasePath)
	}

	manager := persist.NewManager(persistConfig, logger)
	defer manager.Close()

	// One store, one lock, created here and passed by handle. Hydrate
	// before wrapping so startup never races the prompt loop.
	store := buffer.NewStore()
	manager.Hydrate(store)
	shared := buffer.NewShared(store)

	interactive := shell.New(shared, manager, model, logger)
	if err := interactive.Run(); err != nil {
		return err
	}
	if err := interactive.PersistOnExit(); err != nil {
		logger.Warn("could not persist buffer database on exit", "error", err)
	}
	return nil
}
