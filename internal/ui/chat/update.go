// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/api"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/model"
)

// Update handles chat view messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case HistoryLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.banner.ShowError("could not load history: " + errorText(msg.Err))
			return m, nil
		}
		m.entries = m.entries[:0]
		for _, message := range msg.History.Messages {
			m.entries = append(m.entries, entry{msg: message})
		}
		if !msg.History.Session.IsZero() {
			m.selection = msg.History.Session
		}
		m.syncViewport()
		m.viewport.GotoBottom()
		return m, nil

	case ModelsLoadedMsg:
		if msg.Err != nil {
			// The picker stays empty; chat still works with the default.
			m.banner.ShowError("could not load models: " + errorText(msg.Err))
			return m, nil
		}
		m.catalog = msg.Resp.Models
		m.defaultSel = msg.Resp.Default
		if m.selection.IsZero() && m.defaultSel != nil {
			m.selection = *m.defaultSel
		}
		return m, nil

	case SendResultMsg:
		m.sending = false
		m.spinner.Stop()
		if msg.Err != nil {
			m.entries = append(m.entries, entry{
				msg:     model.Message{Role: model.RoleAssistant, Content: errorText(msg.Err)},
				isError: true,
			})
			m.syncViewport()
			m.viewport.GotoBottom()
			return m, nil
		}
		m.entries = append(m.entries, entry{msg: model.Message{
			Role:     model.RoleAssistant,
			Content:  msg.Resp.Reply,
			Provider: msg.Resp.Session.Provider,
			Model:    msg.Resp.Session.Model,
		}})
		if !msg.Resp.Session.IsZero() {
			m.selection = msg.Resp.Session
			m.store.SetModelFor(m.sessionID, m.selection)
		}
		m.syncViewport()
		m.viewport.GotoBottom()
		return m, nil
	}

	return m.updateChildren(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.pickerOpen {
		return m.handlePickerKey(msg)
	}

	switch {
	case keyMatches(msg, keys.Send):
		return m.send()
	case keyMatches(msg, keys.NewSession):
		return m.StartNewSession()
	case keyMatches(msg, keys.ModelPicker):
		if len(m.catalog) > 0 {
			m.pickerOpen = true
			m.pickerIndex = m.catalogIndex(m.selection)
		}
		return m, nil
	case keyMatches(msg, keys.Dismiss):
		if m.banner.Visible() {
			m.banner.Dismiss()
			return m, nil
		}
	}

	return m.updateChildren(msg)
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.pickerIndex > 0 {
			m.pickerIndex--
		}
	case "down", "j":
		if m.pickerIndex < len(m.catalog)-1 {
			m.pickerIndex++
		}
	case "enter":
		m.selection = m.catalog[m.pickerIndex].Selection()
		m.store.SetModelFor(m.sessionID, m.selection)
		m.pickerOpen = false
	case "esc", "ctrl+p":
		m.pickerOpen = false
	}
	return m, nil
}

func (m Model) send() (Model, tea.Cmd) {
	if m.sending {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	m.entries = append(m.entries, entry{msg: model.Message{Role: model.RoleUser, Content: text}})
	m.input.Reset()
	m.sending = true
	m.syncViewport()
	m.viewport.GotoBottom()

	req := api.ChatRequest{
		Message:   text,
		SessionID: m.sessionID,
		Provider:  m.selection.Provider,
		Model:     m.selection.Model,
	}
	return m, tea.Batch(m.spinner.Start(), sendCmd(m.client, m.bearer(), req))
}

func (m Model) updateChildren(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := m.spinner.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) catalogIndex(sel model.Selection) int {
	for i, info := range m.catalog {
		if info.Selection() == sel {
			return i
		}
	}
	return 0
}

// errorText flattens an API error for inline display.
func errorText(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}
