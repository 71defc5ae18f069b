// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package token decodes access tokens for display purposes.
//
// SECURITY: Decoding here is unverified by design. The backend is the sole
// authority on token validity; the client only needs the subject and expiry
// to drive the status bar and the refresh schedule. A forged token gains
// nothing because every API call is still checked server-side.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned when a credential cannot be decoded as a JWT.
var ErrMalformed = errors.New("malformed token")

// Claims holds the decoded fields the UI cares about.
type Claims struct {
	// Subject identifies the account, typically the email address.
	Subject string
	// ExpiresAt is the token expiry instant.
	ExpiresAt time.Time
}

// Decode extracts display claims from a JWT without verifying its signature.
// A credential without an exp claim is rejected: the refresh schedule cannot
// run without an expiry, so such a token is treated as absent rather than
// partially trusted. It never panics, whatever the input.
func Decode(credential string) (Claims, error) {
	if credential == "" {
		return Claims{}, ErrMalformed
	}

	parser := jwt.NewParser()
	tok, _, err := parser.ParseUnverified(credential, jwt.MapClaims{})
	if err != nil {
		return Claims{}, ErrMalformed
	}

	var claims Claims
	if sub, err := tok.Claims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	exp, err := tok.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, ErrMalformed
	}
	claims.ExpiresAt = exp.Time
	return claims, nil
}

// TimeRemaining reports how long the credential stays valid past now,
// clamped at zero. ok is false when the credential cannot be decoded, in
// which case the caller must treat it as unusable.
func TimeRemaining(credential string, now time.Time) (time.Duration, bool) {
	claims, err := Decode(credential)
	if err != nil {
		return 0, false
	}
	remaining := claims.ExpiresAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}
