// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/auth"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/model"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/styles"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar renders the bottom line: identity, session countdown, active
// model, and contextual key hints.
type StatusBar struct {
	theme *styles.Theme
	width int

	status auth.Status
	model  model.Selection
	hints  string
}

// NewStatusBar creates a status bar bound to the theme.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{theme: theme}
}

// SetWidth sets the render width.
func (b *StatusBar) SetWidth(w int) {
	b.width = w
}

// SetAuth updates the identity and countdown segment.
func (b *StatusBar) SetAuth(s auth.Status) {
	b.status = s
}

// SetModel updates the active model segment.
func (b *StatusBar) SetModel(sel model.Selection) {
	b.model = sel
}

// SetHints sets the contextual key hint text.
func (b *StatusBar) SetHints(hints string) {
	b.hints = hints
}

// View renders the bar at the configured width.
func (b *StatusBar) View() string {
	var left []string

	switch b.status.State {
	case auth.StateAuthenticated:
		left = append(left, b.theme.StatusIdentity.Render(b.status.Email))
		left = append(left, b.theme.StatusCountdown.Render("exp "+auth.FormatCountdown(b.status.Remaining)))
	case auth.StateBootstrapping:
		left = append(left, b.theme.StatusIdentity.Render("connecting..."))
	default:
		left = append(left, b.theme.StatusIdentity.Render("anonymous"))
	}

	if !b.model.IsZero() {
		left = append(left, b.theme.StatusModel.Render(b.model.String()))
	}

	leftStr := strings.Join(left, b.theme.StatusBar.Render(" | "))
	rightStr := b.theme.HelpDesc.Render(b.hints)

	if b.width <= 0 {
		return leftStr + "  " + rightStr
	}

	gap := b.width - lipgloss.Width(leftStr) - lipgloss.Width(rightStr) - 2
	if gap < 1 {
		// Too narrow: drop the hints, truncate what remains.
		return util.TruncateWidth(leftStr, b.width)
	}
	return b.theme.StatusBar.
		Width(b.width).
		Render(leftStr + strings.Repeat(" ", gap) + rightStr)
}
