// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation view: transcript rendering with
// markdown, the message input area, session switching, and the model picker.
package chat
