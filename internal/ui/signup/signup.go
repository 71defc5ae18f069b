// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package signup implements the account creation form. The backend does not
// log a new account in, so a successful signup routes back to the login
// form with a notice.
package signup

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

// DoneMsg reports a successful signup. The root returns to the login form.
type DoneMsg struct {
	Email string
}

// SwitchToLoginMsg asks the root model to show the login form.
type SwitchToLoginMsg struct{}

// resultMsg is the raw API outcome, internal to this view.
type resultMsg struct {
	identity api.Identity
	err      error
}

// =============================================================================
// MODEL
// =============================================================================

const (
	fieldEmail = iota
	fieldPassword
	fieldConfirm
	fieldCaptcha
	fieldCount
)

// Model is the signup form state.
type Model struct {
	theme  *styles.Theme
	client *api.Client

	inputs  [fieldCount]textinput.Model
	focus   int
	spinner components.Spinner

	submitting bool
	errText    string

	width  int
	height int
}

// New creates the signup form.
func New(theme *styles.Theme, client *api.Client) Model {
	m := Model{
		theme:   theme,
		client:  client,
		spinner: components.NewSpinner(theme, "Creating account"),
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

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '*'
	confirm.CharLimit = 128

	captcha := textinput.New()
	captcha.Placeholder = "captcha token (when required)"
	captcha.CharLimit = 2048

	m.inputs[fieldEmail] = email
	m.inputs[fieldPassword] = password
	m.inputs[fieldConfirm] = confirm
	m.inputs[fieldCaptcha] = captcha
	return m
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
		case "esc", "ctrl+s":
			return m, func() tea.Msg { return SwitchToLoginMsg{} }
		}

	case resultMsg:
		m.submitting = false
		m.spinner.Stop()
		if msg.err != nil {
			m.errText = signupErrorText(msg.err)
			return m, nil
		}
		email := msg.identity.Email
		return m, func() tea.Msg { return DoneMsg{Email: email} }
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
	confirm := m.inputs[fieldConfirm].Value()

	switch {
	case email == "" || password == "":
		m.errText = "email and password are required"
		return m, nil
	case password != confirm:
		m.errText = "passwords do not match"
		return m, nil
	case len(password) < 8:
		m.errText = "password must be at least 8 characters"
		return m, nil
	}

	m.submitting = true
	m.errText = ""
	creds := api.Credentials{
		Email:        email,
		Password:     password,
		CaptchaToken: strings.TrimSpace(m.inputs[fieldCaptcha].Value()),
	}
	return m, tea.Batch(m.spinner.Start(), signupCmd(m.client, creds))
}

func signupCmd(client *api.Client, creds api.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		id, err := client.Signup(ctx, creds)
		return resultMsg{identity: id, err: err}
	}
}

func signupErrorText(err error) string {
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
	b.WriteString(m.theme.FormTitle.Render("Create account"))
	b.WriteString("\n")

	labels := [fieldCount]string{"Email", "Password", "Confirm password", "CAPTCHA"}
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
	b.WriteString(m.theme.HelpKey.Render("enter") + m.theme.HelpDesc.Render(" create  "))
	b.WriteString(m.theme.HelpKey.Render("esc") + m.theme.HelpDesc.Render(" back to sign in"))

	box := m.theme.FormBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
