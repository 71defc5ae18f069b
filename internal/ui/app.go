// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui wires the screens together. The root model routes on the auth
// state: a splash while bootstrapping, login/signup while anonymous, and
// chat/memory once authenticated. The login form is never flashed before
// the first session check resolves.
package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/api"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/auth"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/store"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/chat"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/components"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/login"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/memory"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/signup"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/styles"
)

// screen identifies the active view.
type screen int

const (
	screenSplash screen = iota
	screenLogin
	screenSignup
	screenChat
	screenMemory
)

// App is the root model.
type App struct {
	theme   *styles.Theme
	client  *api.Client
	store   *store.Store
	manager *auth.Manager

	screen screen

	login  login.Model
	signup signup.Model
	chat   chat.Model
	memory memory.Model

	statusBar components.StatusBar

	width  int
	height int
}

// NewApp builds the root model and its screens.
func NewApp(theme *styles.Theme, client *api.Client, st *store.Store, manager *auth.Manager) App {
	bearer := manager.AccessToken

	return App{
		theme:     theme,
		client:    client,
		store:     st,
		manager:   manager,
		screen:    screenSplash,
		login:     login.New(theme, client),
		signup:    signup.New(theme, client),
		chat:      chat.New(theme, client, st, bearer),
		memory:    memory.New(theme, client, bearer),
		statusBar: components.NewStatusBar(theme),
	}
}

// Init starts the bootstrap and the session tick loop.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.manager.BootstrapCmd(), a.manager.TickCmd())
}

// Update routes messages to the active screen and handles transitions.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.theme.SetSize(msg.Width, msg.Height)
		a.statusBar.SetWidth(msg.Width)
		a.login.SetSize(msg.Width, msg.Height-1)
		a.signup.SetSize(msg.Width, msg.Height-1)
		a.memory.SetSize(msg.Width, msg.Height-1)
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 1})
		return a, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+d":
			if a.screen == screenChat || a.screen == screenMemory {
				a.manager.Logout()
				a.screen = screenLogin
				return a, nil
			}
		case "ctrl+t":
			switch a.screen {
			case screenChat:
				a.screen = screenMemory
				return a, a.memory.Init()
			case screenMemory:
				a.screen = screenChat
				return a, nil
			}
		}

	case auth.BootstrapDoneMsg:
		if msg.State == auth.StateAuthenticated {
			a.screen = screenChat
			return a, a.chat.Init()
		}
		a.screen = screenLogin
		return a, nil

	case auth.TickMsg:
		status, cmd := a.manager.HandleTick(msg)
		a.statusBar.SetAuth(status)
		if status.State == auth.StateAnonymous &&
			(a.screen == screenChat || a.screen == screenMemory) {
			a.screen = screenLogin
		}
		return a, cmd

	case auth.RefreshDoneMsg:
		a.statusBar.SetAuth(a.manager.Snapshot())
		// A failed refresh demotes to Anonymous.
		if msg.State == auth.StateAnonymous &&
			(a.screen == screenChat || a.screen == screenMemory) {
			a.screen = screenLogin
		}
		return a, nil

	case login.ResultMsg:
		if msg.Err == nil {
			a.manager.Adopt(msg.Result)
			a.screen = screenChat
			var cmd tea.Cmd
			a.login, cmd = a.login.Update(msg)
			return a, tea.Batch(cmd, a.chat.Init())
		}

	case login.SwitchToSignupMsg:
		a.screen = screenSignup
		return a, nil

	case signup.SwitchToLoginMsg:
		a.screen = screenLogin
		return a, nil

	case signup.DoneMsg:
		a.screen = screenLogin
		a.login.SetNotice("Account created for " + msg.Email + ". Sign in to continue.")
		return a, nil
	}

	return a.updateScreen(msg)
}

func (a App) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case screenLogin:
		a.login, cmd = a.login.Update(msg)
	case screenSignup:
		a.signup, cmd = a.signup.Update(msg)
	case screenChat:
		a.chat, cmd = a.chat.Update(msg)
	case screenMemory:
		a.memory, cmd = a.memory.Update(msg)
	}
	return a, cmd
}

// View renders the active screen above the status bar.
func (a App) View() string {
	var body string
	switch a.screen {
	case screenSplash:
		body = a.splashView()
	case screenLogin:
		body = a.login.View()
	case screenSignup:
		body = a.signup.View()
	case screenChat:
		a.statusBar.SetModel(a.chat.Selection())
		a.statusBar.SetHints(chat.Hints)
		body = a.chat.View()
	case screenMemory:
		a.statusBar.SetModel(a.chat.Selection())
		a.statusBar.SetHints("")
		body = a.memory.View()
	}

	if a.screen == screenSplash {
		return body
	}
	return body + "\n" + a.statusBar.View()
}

func (a App) splashView() string {
	text := strings.Join([]string{
		a.theme.HeaderTitle.Render("LLM Assistant"),
		"",
		a.theme.Splash.Render("checking session..."),
	}, "\n")
	if a.width > 0 && a.height > 0 {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, text)
	}
	return text
}
