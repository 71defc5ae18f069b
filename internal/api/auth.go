// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
)

// Identity is the authenticated account as reported by the backend.
type Identity struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// Credentials is the login/signup request body. CaptchaToken is the opaque
// Turnstile response; the backend rejects requests without one when bot
// verification is enabled.
type Credentials struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaToken string `json:"turnstile_token,omitempty"`
}

// tokenResponse is the backend's access-token envelope.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthResult is a successful login or refresh: the new access credential
// plus the refresh cookie the server set, if any.
type AuthResult struct {
	AccessToken   string
	RefreshCookie string
}

// Login exchanges credentials for an access token. The backend also sets the
// refresh cookie, returned in the result for the caller to persist.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", "", creds)
	if err != nil {
		return AuthResult{}, err
	}

	var tok tokenResponse
	resp, err := c.doRaw(req, &tok)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{
		AccessToken:   tok.AccessToken,
		RefreshCookie: refreshCookieFrom(resp),
	}, nil
}

// Signup registers a new account. The backend does not log the user in;
// callers return to the login flow on success.
func (c *Client) Signup(ctx context.Context, creds Credentials) (Identity, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/signup", "", creds)
	if err != nil {
		return Identity{}, err
	}
	var id Identity
	if err := c.do(req, &id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Refresh trades the refresh cookie for a new access token. The cookie is
// sent explicitly because this client keeps it in the session store rather
// than a cookie jar. The server may rotate the cookie; when it does, the
// result carries the new value, otherwise RefreshCookie is empty and the
// caller keeps the old one.
func (c *Client) Refresh(ctx context.Context, refreshCookie string) (AuthResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/refresh", "", nil)
	if err != nil {
		return AuthResult{}, err
	}
	if refreshCookie != "" {
		req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: refreshCookie})
	}

	var tok tokenResponse
	resp, err := c.doRaw(req, &tok)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{
		AccessToken:   tok.AccessToken,
		RefreshCookie: refreshCookieFrom(resp),
	}, nil
}

// Me validates the access token and returns the account it belongs to.
func (c *Client) Me(ctx context.Context, bearer string) (Identity, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/me", bearer, nil)
	if err != nil {
		return Identity{}, err
	}
	var id Identity
	if err := c.do(req, &id); err != nil {
		return Identity{}, err
	}
	return id, nil
}
