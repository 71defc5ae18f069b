// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/api"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/model"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/store"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/styles"
)

func newTestChat(t *testing.T) (Model, *store.Store) {
	t.Helper()
	st := store.Open(t.TempDir())
	m := New(styles.NewTheme("dark"), api.New("http://test.invalid"), st, func() string { return "tok" })
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, st
}

func TestNewMintsAndPersistsSessionID(t *testing.T) {
	st := store.Open(t.TempDir())
	m := New(styles.NewTheme("dark"), api.New("http://test.invalid"), st, func() string { return "" })

	if m.SessionID() == "" {
		t.Fatal("no session id")
	}
	if st.ChatSessionID() != m.SessionID() {
		t.Error("session id not persisted")
	}

	// A second construction reuses the stored id.
	m2 := New(styles.NewTheme("dark"), api.New("http://test.invalid"), st, func() string { return "" })
	if m2.SessionID() != m.SessionID() {
		t.Error("stored session id not reused")
	}
}

func TestStartNewSession(t *testing.T) {
	m, st := newTestChat(t)
	old := m.SessionID()
	m.entries = []entry{{msg: model.Message{Role: model.RoleUser, Content: "old"}}}
	def := model.Selection{Provider: "openai", Model: "gpt-4o"}
	m.defaultSel = &def

	m, _ = m.StartNewSession()

	if m.SessionID() == old {
		t.Error("session id not changed")
	}
	if len(m.entries) != 0 {
		t.Error("transcript not cleared")
	}
	if st.ChatSessionID() != m.SessionID() {
		t.Error("new session id not persisted")
	}
	// No saved selection for a fresh id, so the default applies.
	if m.Selection() != def {
		t.Errorf("selection = %v, want default", m.Selection())
	}
}

func TestHistoryLoaded(t *testing.T) {
	m, _ := newTestChat(t)

	m, _ = m.Update(HistoryLoadedMsg{History: api.HistoryResponse{
		Messages: []model.Message{
			{Role: model.RoleUser, Content: "q"},
			{Role: model.RoleAssistant, Content: "a"},
		},
		Session: model.Selection{Provider: "openai", Model: "gpt-4o"},
	}})

	if len(m.entries) != 2 {
		t.Fatalf("entries = %d", len(m.entries))
	}
	if m.Selection().Model != "gpt-4o" {
		t.Errorf("selection = %v", m.Selection())
	}
}

func TestSendFailureRendersInlineError(t *testing.T) {
	m, _ := newTestChat(t)

	m, _ = m.Update(SendResultMsg{Err: &api.APIError{Status: 502, Detail: "upstream provider failed"}})

	if len(m.entries) != 1 {
		t.Fatalf("entries = %d", len(m.entries))
	}
	e := m.entries[0]
	if !e.isError || e.msg.Role != model.RoleAssistant {
		t.Errorf("entry = %+v", e)
	}
	if !strings.Contains(e.msg.Content, "upstream provider failed") {
		t.Errorf("content = %q", e.msg.Content)
	}
}

func TestSendSuccessPersistsSelection(t *testing.T) {
	m, st := newTestChat(t)

	sel := model.Selection{Provider: "anthropic", Model: "claude-3-5-sonnet"}
	m, _ = m.Update(SendResultMsg{Resp: api.ChatResponse{
		Reply:     "hello",
		Session:   sel,
		SessionID: m.SessionID(),
	}})

	if m.Selection() != sel {
		t.Errorf("selection = %v", m.Selection())
	}
	if st.ModelFor(m.SessionID()) != sel {
		t.Error("selection not persisted for session")
	}
}

func TestSendAppendsUserMessage(t *testing.T) {
	m, _ := newTestChat(t)
	m.input.SetValue("hello there")

	m, cmd := m.send()

	if len(m.entries) != 1 || m.entries[0].msg.Role != model.RoleUser {
		t.Fatalf("entries = %+v", m.entries)
	}
	if cmd == nil {
		t.Error("send returned no command")
	}
	if m.input.Value() != "" {
		t.Error("input not cleared")
	}
	if !m.sending {
		t.Error("sending flag not set")
	}

	// A second send while one is in flight is a no-op.
	m.input.SetValue("again")
	m, cmd = m.send()
	if len(m.entries) != 1 || cmd != nil {
		t.Error("concurrent send not blocked")
	}
}

func TestModelPickerSelection(t *testing.T) {
	m, st := newTestChat(t)
	m, _ = m.Update(ModelsLoadedMsg{Resp: api.ModelsResponse{
		Models: []model.ModelInfo{
			{Provider: "openai", Model: "gpt-4o", DisplayName: "GPT-4o"},
			{Provider: "anthropic", Model: "claude-3-5-sonnet", DisplayName: "Claude"},
		},
		Default: &model.Selection{Provider: "openai", Model: "gpt-4o"},
	}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	if !m.pickerOpen {
		t.Fatal("picker not open")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	want := model.Selection{Provider: "anthropic", Model: "claude-3-5-sonnet"}
	if m.Selection() != want {
		t.Errorf("selection = %v", m.Selection())
	}
	if st.ModelFor(m.SessionID()) != want {
		t.Error("picker selection not persisted")
	}
	if m.pickerOpen {
		t.Error("picker still open after selection")
	}
}
