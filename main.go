// llm-assistant - terminal client for the LLM Assistant service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/api"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/auth"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/cli"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/config"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/logging"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/store"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/styles"
)

func main() {
	os.Exit(run())
}

func run() int {
	args := cli.Parse(os.Args[1:])

	switch args.Command {
	case cli.CmdVersion:
		return cli.RunVersion()
	case cli.CmdHelp:
		return cli.RunHelp()
	case cli.CmdAsk:
		return cli.RunAsk(args)
	case cli.CmdUpload:
		return cli.RunUpload(args)
	case cli.CmdLogin:
		return cli.RunLogin()
	case cli.CmdLogout:
		return cli.RunLogout()
	default:
		return runTUI()
	}
}

func runTUI() int {
	cfg := config.Get()

	dir, err := config.ConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "llm-assistant: %v\n", err)
		return 1
	}
	// The TUI owns the terminal; logs go to a file.
	if err := logging.Setup(dir, cfg.Logging.Level); err != nil {
		fmt.Fprintf(os.Stderr, "llm-assistant: %v\n", err)
		return 1
	}
	defer logging.Close()

	client := api.New(cfg.API.BaseURL).
		WithTimeout(time.Duration(cfg.API.TimeoutSeconds) * time.Second)
	st := store.Open(dir)
	manager := auth.NewManager(client, st, auth.Config{
		CheckInterval:    time.Duration(cfg.Auth.CheckIntervalSeconds) * time.Second,
		RefreshThreshold: time.Duration(cfg.Auth.RefreshThresholdSeconds) * time.Second,
	})

	theme := styles.NewTheme(cfg.UI.Theme)
	app := ui.NewApp(theme, client, st, manager)

	// Live-reload the config file while the TUI runs. Reloads only touch
	// the shared config; a URL change applies on next start.
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	go func() {
		if err := config.Watch(watchCtx, nil); err != nil && watchCtx.Err() == nil {
			log.Warn().Err(err).Msg("config watcher stopped")
		}
	}()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("TUI crashed")
		fmt.Fprintf(os.Stderr, "llm-assistant: %v\n", err)
		return 1
	}
	return 0
}
