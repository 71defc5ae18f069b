// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth owns the client-side session lifecycle.
//
// The Manager starts in Bootstrapping, resolves once to Authenticated or
// Anonymous, and then keeps the access credential alive with a periodic
// check loop: each tick recomputes the expiry countdown and, when it first
// drops below the refresh threshold, performs one silent refresh. A failed
// refresh demotes the session to Anonymous. Logout is synchronous and
// purely local.
package auth
