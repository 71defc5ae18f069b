// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/api"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/model"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/store"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/components"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/styles"
)

// entry is one rendered transcript line. Send failures become assistant
// styled error entries instead of modal dialogs, so the conversation flow
// is never interrupted.
type entry struct {
	msg     model.Message
	isError bool
}

// Model is the chat view: transcript, input area, and model picker.
type Model struct {
	theme  *styles.Theme
	client *api.Client
	store  *store.Store

	// bearer returns the current access credential.
	bearer func() string

	sessionID string
	selection model.Selection

	entries []entry

	catalog    []model.ModelInfo
	defaultSel *model.Selection

	viewport viewport.Model
	input    textarea.Model
	spinner  components.Spinner
	banner   components.Banner

	pickerOpen  bool
	pickerIndex int

	renderer *glamour.TermRenderer

	sending bool
	loading bool
	width   int
	height  int
	ready   bool
}

// New creates the chat view. The session id is restored from the store when
// present, otherwise a new one is minted and persisted.
func New(theme *styles.Theme, client *api.Client, st *store.Store, bearer func() string) Model {
	input := textarea.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 8192
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.Focus()

	sessionID := st.ChatSessionID()
	if sessionID == "" {
		sessionID = model.NewSessionID()
		st.SetChatSessionID(sessionID)
	}

	return Model{
		theme:     theme,
		client:    client,
		store:     st,
		bearer:    bearer,
		sessionID: sessionID,
		selection: st.ModelFor(sessionID),
		input:     input,
		spinner:   components.NewSpinner(theme, "Thinking"),
		banner:    components.NewBanner(theme),
	}
}

// Init fetches the transcript and the model catalog.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadHistoryCmd(m.client, m.bearer(), m.sessionID),
		loadModelsCmd(m.client, m.bearer()),
	)
}

// SessionID returns the active conversation id.
func (m Model) SessionID() string {
	return m.sessionID
}

// Selection returns the active model selection for the status bar.
func (m Model) Selection() model.Selection {
	return m.selection
}

// StartNewSession resets the conversation: fresh id, empty transcript, and
// the model selection saved for the new id when one exists, else the
// deployment default.
func (m Model) StartNewSession() (Model, tea.Cmd) {
	m.sessionID = model.NewSessionID()
	m.store.SetChatSessionID(m.sessionID)
	m.entries = nil

	m.selection = m.store.ModelFor(m.sessionID)
	if m.selection.IsZero() && m.defaultSel != nil {
		m.selection = *m.defaultSel
	}

	m.syncViewport()
	return m, nil
}
