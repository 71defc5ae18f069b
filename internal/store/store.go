// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists session state between runs.
//
// State lives in a single JSON file under the application directory and is
// written atomically on every mutation. A corrupt or missing file yields an
// empty session rather than an error so the app always starts.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/model"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/util"
)

const sessionFileName = "session.json"

// sessionState is the on-disk shape.
type sessionState struct {
	// AccessToken is the bearer credential for API calls.
	AccessToken string `json:"access_token,omitempty"`
	// RefreshCookie is the refresh_token cookie value captured from the
	// backend, replayed on silent refresh.
	RefreshCookie string `json:"refresh_cookie,omitempty"`
	// ChatSessionID is the active conversation id.
	ChatSessionID string `json:"chat_session_id,omitempty"`
	// Models maps a conversation id to its chosen provider/model pair so
	// switching sessions restores the selection.
	Models map[string]model.Selection `json:"models,omitempty"`
}

// Store is a mutex-protected view over the session file.
type Store struct {
	mu    sync.Mutex
	path  string
	state sessionState
}

// Open loads the session file from dir, tolerating absence and corruption.
func Open(dir string) *Store {
	s := &Store{path: filepath.Join(dir, sessionFileName)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("failed to read session file, starting empty")
		}
		return s
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		// RELIABILITY: A corrupt file must not brick the client.
		log.Warn().Err(err).Msg("session file corrupt, starting empty")
		s.state = sessionState{}
	}
	return s
}

// SECURITY: Session file holds a live credential, owner read/write only.
func (s *Store) save() {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("failed to encode session state")
		return
	}
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		log.Error().Err(err).Msg("failed to persist session state")
	}
}

// AccessToken returns the stored bearer credential, empty when logged out.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken
}

// SetAccessToken stores a new bearer credential.
func (s *Store) SetAccessToken(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AccessToken = tok
	s.save()
}

// RefreshCookie returns the stored refresh cookie value.
func (s *Store) RefreshCookie() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RefreshCookie
}

// SetRefreshCookie stores the refresh cookie captured from a Set-Cookie
// response header.
func (s *Store) SetRefreshCookie(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.RefreshCookie = v
	s.save()
}

// ClearCredentials drops the access token and refresh cookie. Chat session
// state survives logout so the conversation id is reused on the next login.
func (s *Store) ClearCredentials() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AccessToken = ""
	s.state.RefreshCookie = ""
	s.save()
}

// ChatSessionID returns the active conversation id, empty when none exists.
func (s *Store) ChatSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ChatSessionID
}

// SetChatSessionID records the active conversation id.
func (s *Store) SetChatSessionID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ChatSessionID = id
	s.save()
}

// ModelFor returns the saved model selection for a conversation, zero when
// none was saved.
func (s *Store) ModelFor(sessionID string) model.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Models[sessionID]
}

// SetModelFor saves the model selection for a conversation.
func (s *Store) SetModelFor(sessionID string, sel model.Selection) {
	if sessionID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Models == nil {
		s.state.Models = make(map[string]model.Selection)
	}
	s.state.Models[sessionID] = sel
	s.save()
}
