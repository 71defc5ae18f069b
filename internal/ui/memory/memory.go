// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package memory implements the stored-memory browser: a paginated list
// with add, delete, and clear-all operations. Failures show in a banner and
// never drop the list that was already on screen.
package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/api"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/components"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/styles"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/util"
)

// PageSize is the number of entries fetched per page. The backend reports
// no total count, so a full page implies more may follow.
const PageSize = 10

// =============================================================================
// MESSAGES
// =============================================================================

// PageLoadedMsg carries one fetched page.
type PageLoadedMsg struct {
	Offset  int
	Entries []string
	Err     error
}

// MutationDoneMsg reports the outcome of add/delete/clear. The view
// refetches the current page on success since indices shift.
type MutationDoneMsg struct {
	Err error
}

// =============================================================================
// MODEL
// =============================================================================

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirmClear
)

// Model is the memory browser state.
type Model struct {
	theme  *styles.Theme
	client *api.Client
	bearer func() string

	entries  []string
	offset   int
	selected int
	// hasMore is inferred: a full page means another page may exist.
	hasMore bool
	loading bool

	mode     mode
	addInput textinput.Model
	banner   components.Banner
	spinner  components.Spinner

	width  int
	height int
}

// New creates the memory browser.
func New(theme *styles.Theme, client *api.Client, bearer func() string) Model {
	input := textinput.New()
	input.Placeholder = "something to remember"
	input.CharLimit = 4096

	return Model{
		theme:    theme,
		client:   client,
		bearer:   bearer,
		addInput: input,
		banner:   components.NewBanner(theme),
		spinner:  components.NewSpinner(theme, "Loading"),
	}
}

// Init fetches the first page.
func (m Model) Init() tea.Cmd {
	return m.loadPage(0)
}

// SetSize records the terminal dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) loadPage(offset int) tea.Cmd {
	client, bearer := m.client, m.bearer()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		entries, err := client.Memories(ctx, bearer, offset, PageSize)
		return PageLoadedMsg{Offset: offset, Entries: entries, Err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles browser input and API results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.handleAddKey(msg)
		case modeConfirmClear:
			return m.handleConfirmKey(msg)
		default:
			return m.handleListKey(msg)
		}

	case PageLoadedMsg:
		m.loading = false
		m.spinner.Stop()
		if msg.Err != nil {
			m.banner.ShowError("could not load memories: " + errorText(msg.Err))
			return m, nil
		}
		m.offset = msg.Offset
		m.entries = msg.Entries
		m.hasMore = len(msg.Entries) == PageSize
		if m.selected >= len(m.entries) {
			m.selected = max(0, len(m.entries)-1)
		}
		return m, nil

	case MutationDoneMsg:
		m.spinner.Stop()
		if msg.Err != nil {
			m.banner.ShowError(errorText(msg.Err))
			return m, nil
		}
		// Indices shifted; refetch the page we are on.
		offset := m.offset
		if offset > 0 && len(m.entries) == 1 {
			offset -= PageSize
		}
		return m, m.loadPage(offset)
	}

	var cmd tea.Cmd
	if c := m.spinner.Update(msg); c != nil {
		cmd = c
	}
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.entries)-1 {
			m.selected++
		}
	case "right", "n":
		if m.hasMore {
			return m, m.loadPage(m.offset + PageSize)
		}
	case "left", "p":
		if m.offset > 0 {
			return m, m.loadPage(max(0, m.offset-PageSize))
		}
	case "r":
		return m, m.loadPage(m.offset)
	case "a":
		m.mode = modeAdd
		m.addInput.Reset()
		return m, m.addInput.Focus()
	case "d":
		if len(m.entries) > 0 {
			return m, m.deleteCmd(m.offset + m.selected)
		}
	case "C":
		if len(m.entries) > 0 || m.offset > 0 {
			m.mode = modeConfirmClear
		}
	case "esc":
		if m.banner.Visible() {
			m.banner.Dismiss()
		}
	}
	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.addInput.Value())
		if text == "" {
			m.mode = modeList
			return m, nil
		}
		m.mode = modeList
		return m, m.rememberCmd(text)
	case "esc":
		m.mode = modeList
		return m, nil
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeList
		return m, m.clearCmd()
	case "n", "N", "esc":
		m.mode = modeList
	}
	return m, nil
}

func (m Model) rememberCmd(text string) tea.Cmd {
	client, bearer := m.client, m.bearer()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return MutationDoneMsg{Err: client.Remember(ctx, bearer, text)}
	}
}

func (m Model) deleteCmd(index int) tea.Cmd {
	client, bearer := m.client, m.bearer()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return MutationDoneMsg{Err: client.DeleteMemory(ctx, bearer, index)}
	}
}

func (m Model) clearCmd() tea.Cmd {
	client, bearer := m.client, m.bearer()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return MutationDoneMsg{Err: client.ClearMemory(ctx, bearer)}
	}
}

func errorText(err error) string {
	if errors.Is(err, api.ErrNotFound) {
		return "memory entry no longer exists"
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the list, page indicator, and active banner or prompt.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Memories"))
	b.WriteString("\n\n")

	if m.banner.Visible() {
		b.WriteString(m.banner.View(m.width))
		b.WriteString("\n")
	}

	switch {
	case m.mode == modeAdd:
		b.WriteString(m.theme.FormLabel.Render("New memory"))
		b.WriteString("\n")
		b.WriteString(m.addInput.View())
		b.WriteString("\n\n")
		b.WriteString(m.theme.HelpDesc.Render("enter save | esc cancel"))
		return b.String()
	case m.mode == modeConfirmClear:
		b.WriteString(m.theme.FormError.Render("Delete ALL memories? This cannot be undone."))
		b.WriteString("\n\n")
		b.WriteString(m.theme.HelpDesc.Render("y confirm | n cancel"))
		return b.String()
	}

	if len(m.entries) == 0 {
		b.WriteString(m.theme.MemoryMeta.Render("No memories stored."))
		b.WriteString("\n")
	}
	for i, e := range m.entries {
		line := fmt.Sprintf("%3d. %s", m.offset+i+1, util.FirstLine(e))
		if m.width > 4 {
			line = util.TruncateWidth(line, m.width-4)
		}
		if i == m.selected {
			b.WriteString(m.theme.MemoryItemSelected.Render(line))
		} else {
			b.WriteString(m.theme.MemoryItem.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	page := m.offset/PageSize + 1
	pageInfo := fmt.Sprintf("page %d", page)
	if m.hasMore {
		pageInfo += " (more)"
	}
	b.WriteString(m.theme.MemoryMeta.Render(pageInfo))
	b.WriteString("\n")
	b.WriteString(m.theme.HelpDesc.Render("a add | d delete | C clear all | n/p page | r refresh | ctrl+t chat"))
	return b.String()
}
