// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/Roger-Zhou0/llm-assistant-tui/internal/api"

// =============================================================================
// MESSAGE TYPES - Centralized message definitions for the chat view
// =============================================================================

// HistoryLoadedMsg carries the fetched transcript.
type HistoryLoadedMsg struct {
	History api.HistoryResponse
	Err     error
}

// SendResultMsg carries the assistant's reply or the send failure.
type SendResultMsg struct {
	Resp api.ChatResponse
	Err  error
}

// ModelsLoadedMsg carries the model catalog.
type ModelsLoadedMsg struct {
	Resp api.ModelsResponse
	Err  error
}
