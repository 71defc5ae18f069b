// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/auth"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/model"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

func TestStatusBarAuthenticated(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetAuth(auth.Status{
		State:     auth.StateAuthenticated,
		Email:     "user@example.com",
		Remaining: 14*time.Minute + 5*time.Second,
	})
	bar.SetModel(model.Selection{Provider: "openai", Model: "gpt-4o"})

	out := bar.View()
	for _, want := range []string{"user@example.com", "14:05", "openai/gpt-4o"} {
		if !strings.Contains(out, want) {
			t.Errorf("status bar missing %q: %q", want, out)
		}
	}
}

func TestStatusBarAnonymous(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetAuth(auth.Status{State: auth.StateAnonymous})

	if out := bar.View(); !strings.Contains(out, "anonymous") {
		t.Errorf("status bar = %q", out)
	}
}

func TestBannerLifecycle(t *testing.T) {
	b := NewBanner(testTheme())
	if b.Visible() {
		t.Fatal("new banner visible")
	}

	b.ShowError("request failed")
	if !b.Visible() {
		t.Fatal("banner not visible after ShowError")
	}
	if out := b.View(80); !strings.Contains(out, "request failed") {
		t.Errorf("banner view = %q", out)
	}

	b.Dismiss()
	if b.Visible() || b.View(80) != "" {
		t.Error("banner still renders after Dismiss")
	}
}

func TestSpinnerLifecycle(t *testing.T) {
	s := NewSpinner(testTheme(), "Thinking")

	if s.View() != "" {
		t.Error("inactive spinner renders")
	}
	if cmd := s.Start(); cmd == nil {
		t.Error("Start returned nil cmd")
	}
	if !strings.Contains(s.View(), "Thinking") {
		t.Errorf("spinner view = %q", s.View())
	}
	s.Stop()
	if s.Active() {
		t.Error("spinner active after Stop")
	}
}
