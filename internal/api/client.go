// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// DefaultTimeout bounds a single request end to end.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize caps how much of a response body is read.
	// PERFORMANCE: A misbehaving server cannot exhaust memory.
	MaxResponseSize = 10 * 1024 * 1024

	userAgent = "llm-assistant-tui/1.0"

	// refreshCookieName is the cookie the backend uses for silent refresh.
	refreshCookieName = "refresh_token"
)

// =============================================================================
// Errors
// =============================================================================

// Sentinel errors for the status classes callers branch on.
var (
	ErrUnauthorized = errors.New("authentication failed")
	ErrNotFound     = errors.New("resource not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrServer       = errors.New("server error")
)

// APIError carries the backend's error payload. The backend reports failures
// as {"detail": ...} where detail is usually a string but can be a structured
// object on upstream provider failures.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// Is maps the error onto the sentinel for its status class so callers can
// use errors.Is without inspecting codes.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	case ErrServer:
		return e.Status >= 500
	}
	return false
}

// =============================================================================
// Client
// =============================================================================

// sharedTransport pools connections across all clients in the process.
var sharedTransport = &http.Transport{
	MaxIdleConns:        10,
	MaxIdleConnsPerHost: 5,
	IdleConnTimeout:     90 * time.Second,
}

// Client issues requests against the backend. Stateless: credentials are
// passed per call, never stored here.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given backend origin.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: sharedTransport,
		},
	}
}

// WithTimeout overrides the per-request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.httpClient = &http.Client{
		Timeout:   d,
		Transport: c.httpClient.Transport,
	}
	return c
}

// WithHTTPClient swaps the underlying HTTP client. Used in tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// Request plumbing
// =============================================================================

// newRequest builds a request with standard headers. body may be nil; a
// non-nil body is JSON-encoded.
func (c *Client) newRequest(ctx context.Context, method, path, bearer string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return req, nil
}

// do sends req, checks the status, and decodes the JSON body into out when
// out is non-nil. The response body is size-capped.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// doRaw is do plus access to the response for cookie capture.
func (c *Client) doRaw(req *http.Request, out any) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp.StatusCode, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp, nil
}

// decodeError turns a non-2xx body into an *APIError. The detail field may
// be a plain string or a structured object; objects are kept as compact JSON
// so nothing the server said is lost.
func decodeError(status int, body []byte) error {
	apiErr := &APIError{Status: status}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 {
		var s string
		if err := json.Unmarshal(envelope.Detail, &s); err == nil {
			apiErr.Detail = s
		} else {
			apiErr.Detail = string(envelope.Detail)
		}
	} else if len(body) > 0 {
		apiErr.Detail = strings.TrimSpace(string(body))
	}
	return apiErr
}

// refreshCookieFrom extracts the refresh cookie value from a response, empty
// when the server set none.
func refreshCookieFrom(resp *http.Response) string {
	for _, ck := range resp.Cookies() {
		if ck.Name == refreshCookieName {
			return ck.Value
		}
	}
	return ""
}
