// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the shared visual UI components for the TUI:
// the status bar, loading spinner, and dismissable banners.
package components
