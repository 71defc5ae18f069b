// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login implements the login form.
package login

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/api"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/components"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ResultMsg carries the outcome of a login attempt. On success the root
// model adopts the credential.
type ResultMsg struct {
	Result api.AuthResult
	Err    error
}

// SwitchToSignupMsg asks the root model to show the signup form.
type SwitchToSignupMsg struct{}

// =============================================================================
// MODEL
// =============================================================================

const (
	fieldEmail = iota
	fieldPassword
	fieldCaptcha
	fieldCount
)

// Model is the login form state.
type Model struct {
	theme  *styles.Theme
	client *api.Client

	inputs  [fieldCount]textinput.Model
	focus   int
	spinner components.Spinner

	submitting bool
	errText    string
	notice     string

	width  int
	height int
}

// New creates the login form. The CAPTCHA field may be left empty when the
// deployment has bot verification disabled.
func New(theme *styles.Theme, client *api.Client) Model {
	m := Model{
		theme:   theme,
		client:  client,
		spinner: components.NewSpinner(theme, "Signing in"),
	}

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 128

	captcha := textinput.New()
	captcha.Placeholder = "captcha token (when required)"
	captcha.CharLimit = 2048

	m.inputs[fieldEmail] = email
	m.inputs[fieldPassword] = password
	m.inputs[fieldCaptcha] = captcha
	return m
}

// SetNotice shows a one-line notice above the form, used after signup.
func (m *Model) SetNotice(text string) {
	m.notice = text
	m.errText = ""
}

// SetSize records the terminal dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles form input and submission.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "enter":
			return m.submit()
		case "ctrl+s":
			return m, func() tea.Msg { return SwitchToSignupMsg{} }
		}

	case ResultMsg:
		m.submitting = false
		m.spinner.Stop()
		if msg.Err != nil {
			m.errText = loginErrorText(msg.Err)
			return m, nil
		}
		// Success is handled by the root model; clear the password so it
		// is not kept in memory longer than needed.
		m.inputs[fieldPassword].SetValue("")
		m.errText = ""
		return m, nil
	}

	var cmds []tea.Cmd
	if cmd := m.spinner.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) setFocus(idx int) {
	m.inputs[m.focus].Blur()
	m.focus = idx
	m.inputs[m.focus].Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	if email == "" || password == "" {
		m.errText = "email and password are required"
		return m, nil
	}

	m.submitting = true
	m.errText = ""
	m.notice = ""
	creds := api.Credentials{
		Email:        email,
		Password:     password,
		CaptchaToken: strings.TrimSpace(m.inputs[fieldCaptcha].Value()),
	}
	return m, tea.Batch(m.spinner.Start(), loginCmd(m.client, creds))
}

func loginCmd(client *api.Client, creds api.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		res, err := client.Login(ctx, creds)
		return ResultMsg{Result: res, Err: err}
	}
}

// loginErrorText maps API failures to form-level text.
func loginErrorText(err error) string {
	if errors.Is(err, api.ErrUnauthorized) {
		return "invalid email or password"
	}
	if errors.Is(err, api.ErrRateLimited) {
		return "too many attempts, try again shortly"
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return "could not reach the server"
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the form centered in the available space.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.FormTitle.Render("Sign in"))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(m.theme.FormNotice.Render(m.notice))
		b.WriteString("\n\n")
	}

	labels := [fieldCount]string{"Email", "Password", "CAPTCHA"}
	for i := range m.inputs {
		b.WriteString(m.theme.FormLabel.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if m.submitting {
		b.WriteString("\n" + m.spinner.View() + "\n")
	}
	if m.errText != "" {
		b.WriteString("\n" + m.theme.FormError.Render(m.errText) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.HelpKey.Render("enter") + m.theme.HelpDesc.Render(" sign in  "))
	b.WriteString(m.theme.HelpKey.Render("ctrl+s") + m.theme.HelpDesc.Render(" create account  "))
	b.WriteString(m.theme.HelpKey.Render("ctrl+c") + m.theme.HelpDesc.Render(" quit"))

	box := m.theme.FormBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
