// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates application settings.
//
// Settings come from three layers, lowest to highest precedence: built-in
// defaults, ~/.llm-assistant/config.toml, and LLM_ASSISTANT_* environment
// variables. The file is watched at runtime and reloaded on change.
package config
