// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/model"
)

// ChatRequest is one user turn. Provider and Model must be set together or
// not at all; when absent the backend uses the session's saved selection or
// its default.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Model     string `json:"model,omitempty"`
}

// ChatResponse is the assistant's reply plus the session's effective model.
type ChatResponse struct {
	Reply     string          `json:"reply"`
	Session   model.Selection `json:"session"`
	SessionID string          `json:"session_id"`
}

// HistoryResponse is the persisted transcript for a session.
type HistoryResponse struct {
	Messages []model.Message `json:"messages"`
	Session  model.Selection `json:"session"`
}

// ModelsResponse is the deployment's model catalog.
type ModelsResponse struct {
	Models  []model.ModelInfo `json:"models"`
	Default *model.Selection  `json:"default"`
}

// Chat sends a message and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, bearer string, chat ChatRequest) (ChatResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/chat", bearer, chat)
	if err != nil {
		return ChatResponse{}, err
	}
	var out ChatResponse
	if err := c.do(req, &out); err != nil {
		return ChatResponse{}, err
	}
	return out, nil
}

// History fetches the persisted transcript for sessionID.
func (c *Client) History(ctx context.Context, bearer, sessionID string) (HistoryResponse, error) {
	path := "/api/history"
	if sessionID != "" {
		path += "?session_id=" + url.QueryEscape(sessionID)
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, bearer, nil)
	if err != nil {
		return HistoryResponse{}, err
	}
	var out HistoryResponse
	if err := c.do(req, &out); err != nil {
		return HistoryResponse{}, err
	}
	return out, nil
}

// Models fetches the enabled model catalog and the deployment default.
func (c *Client) Models(ctx context.Context, bearer string) (ModelsResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/models", bearer, nil)
	if err != nil {
		return ModelsResponse{}, err
	}
	var out ModelsResponse
	if err := c.do(req, &out); err != nil {
		return ModelsResponse{}, err
	}
	return out, nil
}
