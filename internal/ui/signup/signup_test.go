// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package signup

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/api"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/styles"
)

func newTestForm() Model {
	m := New(styles.NewTheme("dark"), api.New("http://test.invalid"))
	m.SetSize(80, 24)
	return m
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		confirm  string
		want     string
	}{
		{"empty", "", "", "", "email and password are required"},
		{"mismatch", "a@b.c", "longenough1", "different1", "passwords do not match"},
		{"short", "a@b.c", "short", "short", "password must be at least 8 characters"},
	}

	for _, tc := range tests {
		m := newTestForm()
		m.inputs[fieldEmail].SetValue(tc.email)
		m.inputs[fieldPassword].SetValue(tc.password)
		m.inputs[fieldConfirm].SetValue(tc.confirm)

		m2, cmd := m.submit()
		if cmd != nil {
			t.Errorf("%s: submit produced a command", tc.name)
		}
		if m2.errText != tc.want {
			t.Errorf("%s: errText = %q, want %q", tc.name, m2.errText, tc.want)
		}
	}
}

func TestSubmitValidCredentials(t *testing.T) {
	m := newTestForm()
	m.inputs[fieldEmail].SetValue("new@b.c")
	m.inputs[fieldPassword].SetValue("longenough1")
	m.inputs[fieldConfirm].SetValue("longenough1")

	m, cmd := m.submit()
	if cmd == nil {
		t.Fatal("submit produced no command")
	}
	if !m.submitting {
		t.Error("submitting flag not set")
	}
}

func TestResultSuccessEmitsDone(t *testing.T) {
	m := newTestForm()
	m.submitting = true

	_, cmd := m.Update(resultMsg{identity: api.Identity{ID: 7, Email: "new@b.c"}})
	if cmd == nil {
		t.Fatal("no command after successful signup")
	}
	done, ok := cmd().(DoneMsg)
	if !ok || done.Email != "new@b.c" {
		t.Errorf("msg = %#v", cmd())
	}
}

func TestResultErrorShowsDetail(t *testing.T) {
	m := newTestForm()
	m.submitting = true

	m, _ = m.Update(resultMsg{err: &api.APIError{Status: 400, Detail: "Email already registered"}})
	if m.submitting {
		t.Error("submitting flag not cleared")
	}
	if m.errText != "Email already registered" {
		t.Errorf("errText = %q", m.errText)
	}
}

func TestEscReturnsToLogin(t *testing.T) {
	m := newTestForm()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("no command for esc")
	}
	if _, ok := cmd().(SwitchToLoginMsg); !ok {
		t.Error("esc did not return to login")
	}
}
