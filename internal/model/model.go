// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the core chat domain types shared across the API
// client and the UI.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn. Assistant turns carry the provider/model
// that produced them.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Provider  string    `json:"provider,omitempty"`
	Model     string    `json:"model,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Selection names a backend model as a provider/model pair.
type Selection struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// IsZero reports whether no model is selected.
func (s Selection) IsZero() bool {
	return s.Provider == "" && s.Model == ""
}

// String renders the selection for the status bar.
func (s Selection) String() string {
	if s.IsZero() {
		return ""
	}
	return s.Provider + "/" + s.Model
}

// ModelInfo is one entry from the model catalog.
type ModelInfo struct {
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	DisplayName string `json:"display_name"`
}

// Selection returns the catalog entry as a Selection.
func (m ModelInfo) Selection() Selection {
	return Selection{Provider: m.Provider, Model: m.Model}
}

// NewSessionID mints a fresh conversation id.
func NewSessionID() string {
	return uuid.NewString()
}
