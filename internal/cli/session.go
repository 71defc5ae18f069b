// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"time"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/api"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/auth"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/config"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/store"
)

// session bundles the pieces every command needs.
type session struct {
	client  *api.Client
	store   *store.Store
	manager *auth.Manager
}

// newSession builds the API client, session store, and auth manager from
// the loaded configuration.
func newSession() (*session, error) {
	cfg := config.Get()
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.API.BaseURL).
		WithTimeout(time.Duration(cfg.API.TimeoutSeconds) * time.Second)
	st := store.Open(dir)
	manager := auth.NewManager(client, st, auth.Config{
		CheckInterval:    time.Duration(cfg.Auth.CheckIntervalSeconds) * time.Second,
		RefreshThreshold: time.Duration(cfg.Auth.RefreshThresholdSeconds) * time.Second,
	})

	return &session{client: client, store: st, manager: manager}, nil
}

// requireAuth bootstraps the session and returns the bearer credential, or
// an empty string when the user is not signed in.
func (s *session) requireAuth(ctx context.Context) string {
	if s.manager.Bootstrap(ctx) != auth.StateAuthenticated {
		return ""
	}
	return s.manager.AccessToken()
}
