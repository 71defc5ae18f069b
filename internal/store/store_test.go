// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/model"
)

func TestOpenEmptyDir(t *testing.T) {
	s := Open(t.TempDir())
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.ChatSessionID())
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := Open(dir)
	s.SetAccessToken("tok-123")
	s.SetRefreshCookie("cookie-456")
	s.SetChatSessionID("sess-1")
	s.SetModelFor("sess-1", model.Selection{Provider: "openai", Model: "gpt-4o-mini"})

	// Reopen from disk.
	s2 := Open(dir)
	assert.Equal(t, "tok-123", s2.AccessToken())
	assert.Equal(t, "cookie-456", s2.RefreshCookie())
	assert.Equal(t, "sess-1", s2.ChatSessionID())
	assert.Equal(t, model.Selection{Provider: "openai", Model: "gpt-4o-mini"}, s2.ModelFor("sess-1"))
	assert.True(t, s2.ModelFor("other").IsZero(), "unknown session should have no selection")
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, sessionFileName), []byte("{broken"), 0600))

	s := Open(dir)
	assert.Empty(t, s.AccessToken(), "corrupt file should yield an empty session")

	// A write after corruption must produce a valid file again.
	s.SetAccessToken("fresh")
	assert.Equal(t, "fresh", Open(dir).AccessToken())
}

func TestClearCredentialsKeepsChatState(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir)
	s.SetAccessToken("tok")
	s.SetRefreshCookie("cookie")
	s.SetChatSessionID("sess-9")

	s.ClearCredentials()

	s2 := Open(dir)
	assert.Empty(t, s2.AccessToken())
	assert.Empty(t, s2.RefreshCookie())
	assert.Equal(t, "sess-9", s2.ChatSessionID())
}

func TestFilePermissions(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir)
	s.SetAccessToken("secret")

	info, err := os.Stat(filepath.Join(dir, sessionFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
