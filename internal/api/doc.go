// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the LLM-Assistant backend.
//
// The client is stateless: bearer credentials and the refresh cookie are
// passed per call and owned by the auth session manager. Each method maps to
// exactly one endpoint and makes a single attempt; retry policy belongs to
// callers. Backend failures arrive as *APIError values that satisfy
// errors.Is against the package sentinels.
package api
