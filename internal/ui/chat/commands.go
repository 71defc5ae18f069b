// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/api"
)

// =============================================================================
// COMMANDS - Async operations returned as tea.Cmd closures
// =============================================================================

const requestTimeout = 120 * time.Second

func loadHistoryCmd(client *api.Client, bearer, sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		hist, err := client.History(ctx, bearer, sessionID)
		return HistoryLoadedMsg{History: hist, Err: err}
	}
}

func loadModelsCmd(client *api.Client, bearer string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resp, err := client.Models(ctx, bearer)
		return ModelsLoadedMsg{Resp: resp, Err: err}
	}
}

// sendCmd posts one chat turn. Generation can be slow, so this uses the
// long request timeout.
func sendCmd(client *api.Client, bearer string, req api.ChatRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := client.Chat(ctx, bearer, req)
		return SendResultMsg{Resp: resp, Err: err}
	}
}
