// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/model"
)

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Message != "hi" || req.SessionID != "s-1" {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"reply":      "hello",
			"session":    map[string]string{"provider": "openai", "model": "gpt-4o"},
			"session_id": "s-1",
		})
	}))
	defer srv.Close()

	out, err := New(srv.URL).Chat(context.Background(), "tok", ChatRequest{Message: "hi", SessionID: "s-1"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if out.Reply != "hello" {
		t.Errorf("Reply = %q", out.Reply)
	}
	if out.Session != (model.Selection{Provider: "openai", Model: "gpt-4o"}) {
		t.Errorf("Session = %+v", out.Session)
	}
}

func TestChatRejectedModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Selected model is not available"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Chat(context.Background(), "tok", ChatRequest{Message: "x", Provider: "acme", Model: "nope"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("err = %v", err)
	}
}

func TestHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("session_id"); got != "s-2" {
			t.Errorf("session_id = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"messages": []map[string]string{
				{"role": "user", "content": "q"},
				{"role": "assistant", "content": "a", "provider": "openai", "model": "gpt-4o"},
			},
			"session": map[string]string{"provider": "openai", "model": "gpt-4o"},
		})
	}))
	defer srv.Close()

	out, err := New(srv.URL).History(context.Background(), "tok", "s-2")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(out.Messages) != 2 {
		t.Fatalf("len(Messages) = %d", len(out.Messages))
	}
	if out.Messages[0].Role != model.RoleUser {
		t.Errorf("first role = %q", out.Messages[0].Role)
	}
	if out.Messages[1].Model != "gpt-4o" {
		t.Errorf("assistant model = %q", out.Messages[1].Model)
	}
}

func TestModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{
				{"provider": "openai", "model": "gpt-4o", "display_name": "GPT-4o"},
				{"provider": "anthropic", "model": "claude-3-5-sonnet", "display_name": "Claude 3.5 Sonnet"},
			},
			"default": map[string]string{"provider": "openai", "model": "gpt-4o"},
		})
	}))
	defer srv.Close()

	out, err := New(srv.URL).Models(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Models failed: %v", err)
	}
	if len(out.Models) != 2 {
		t.Fatalf("len(Models) = %d", len(out.Models))
	}
	if out.Models[1].DisplayName != "Claude 3.5 Sonnet" {
		t.Errorf("DisplayName = %q", out.Models[1].DisplayName)
	}
	if out.Default == nil || out.Default.Provider != "openai" {
		t.Errorf("Default = %+v", out.Default)
	}
}

func TestModelsNullDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models": [], "default": null}`))
	}))
	defer srv.Close()

	out, err := New(srv.URL).Models(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Models failed: %v", err)
	}
	if out.Default != nil {
		t.Errorf("Default = %+v, want nil", out.Default)
	}
}
