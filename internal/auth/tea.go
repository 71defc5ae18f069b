// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives the session check loop from the Bubble Tea runtime.
type TickMsg time.Time

// BootstrapDoneMsg reports the resolved initial state.
type BootstrapDoneMsg struct {
	State State
}

// RefreshDoneMsg reports the session state after a silent refresh attempt.
type RefreshDoneMsg struct {
	State State
}

// BootstrapCmd resolves the initial session state off the UI thread.
func (m *Manager) BootstrapCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return BootstrapDoneMsg{State: m.Bootstrap(ctx)}
	}
}

// TickCmd schedules the next session check tick.
func (m *Manager) TickCmd() tea.Cmd {
	return tea.Tick(m.cfg.CheckInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// HandleTick runs one check and schedules the next tick. The returned status
// feeds the status bar. When a refresh is due it comes back as a command so
// the HTTP round-trip never blocks the update loop.
func (m *Manager) HandleTick(TickMsg) (Status, tea.Cmd) {
	status, gen, needRefresh := m.Check()
	cmds := []tea.Cmd{m.TickCmd()}
	if needRefresh {
		cmds = append(cmds, m.refreshCmd(gen))
	}
	return status, tea.Batch(cmds...)
}

// refreshCmd runs one reserved refresh attempt off the update loop.
func (m *Manager) refreshCmd(gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		m.refresh(ctx, gen)
		return RefreshDoneMsg{State: m.State()}
	}
}
