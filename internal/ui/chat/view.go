// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/model"
)

// resize lays the view out for a new terminal size and rebuilds the
// markdown renderer at the matching wrap width.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	inputHeight := 5
	viewportHeight := height - inputHeight - 2
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = viewportHeight
	}
	m.input.SetWidth(width - 2)

	wrap := width - 10
	if wrap < 20 {
		wrap = 20
	}
	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	); err == nil {
		m.renderer = r
	}

	m.syncViewport()
}

// syncViewport re-renders the transcript into the viewport.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderEntry(e))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}

func (m *Model) renderEntry(e entry) string {
	if e.isError {
		return m.theme.ErrorBanner.Render(e.msg.Content)
	}

	switch e.msg.Role {
	case model.RoleUser:
		return m.theme.UserBubble.Render(e.msg.Content)
	default:
		content := e.msg.Content
		if m.renderer != nil {
			if rendered, err := m.renderer.Render(content); err == nil {
				content = strings.TrimRight(rendered, "\n")
			}
		}
		out := m.theme.AssistantBubble.Render(content)
		if e.msg.Model != "" {
			out += "\n" + m.theme.MessageMeta.Render(e.msg.Provider+"/"+e.msg.Model)
		}
		return out
	}
}

// View renders the chat layout: banner, transcript, spinner, input.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var sections []string
	if m.banner.Visible() {
		sections = append(sections, m.banner.View(m.width))
	}
	sections = append(sections, m.viewport.View())
	if m.spinner.Active() {
		sections = append(sections, m.spinner.View())
	}
	sections = append(sections, m.input.View())

	out := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.pickerOpen {
		out = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.pickerView())
	}
	return out
}

func (m Model) pickerView() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Select model"))
	b.WriteString("\n\n")
	for i, info := range m.catalog {
		label := info.DisplayName
		if label == "" {
			label = info.Selection().String()
		}
		if i == m.pickerIndex {
			b.WriteString(m.theme.PickerSelected.Render("> " + label))
		} else {
			b.WriteString(m.theme.PickerItem.Render("  " + label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.HelpDesc.Render("enter select | esc cancel"))
	return m.theme.PickerBox.Render(b.String())
}
