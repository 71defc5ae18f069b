// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIErrorSentinels(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusBadGateway, ErrServer},
	}
	for _, tc := range tests {
		err := &APIError{Status: tc.status}
		if !errors.Is(err, tc.target) {
			t.Errorf("status %d: errors.Is(%v) = false", tc.status, tc.target)
		}
	}

	if errors.Is(&APIError{Status: http.StatusBadRequest}, ErrUnauthorized) {
		t.Error("400 should not match ErrUnauthorized")
	}
}

func TestDecodeErrorStringDetail(t *testing.T) {
	err := decodeError(401, []byte(`{"detail": "Invalid credentials"}`))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T", err)
	}
	if apiErr.Detail != "Invalid credentials" {
		t.Errorf("Detail = %q", apiErr.Detail)
	}
	if apiErr.Status != 401 {
		t.Errorf("Status = %d", apiErr.Status)
	}
}

func TestDecodeErrorObjectDetail(t *testing.T) {
	body := `{"detail": {"provider": "openai", "error": "upstream timeout"}}`
	err := decodeError(502, []byte(body))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T", err)
	}
	// Structured detail is preserved as JSON, not dropped.
	if apiErr.Detail == "" {
		t.Error("Detail empty for object payload")
	}
}

func TestDecodeErrorNonJSONBody(t *testing.T) {
	err := decodeError(500, []byte("  Internal Server Error\n"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T", err)
	}
	if apiErr.Detail != "Internal Server Error" {
		t.Errorf("Detail = %q", apiErr.Detail)
	}
}

func TestDoSetsHeaders(t *testing.T) {
	var gotAuth, gotUA, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		gotCT = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	req, err := c.newRequest(context.Background(), http.MethodPost, "/x", "tok-1", map[string]string{"a": "b"})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.do(req, nil); err != nil {
		t.Fatal(err)
	}

	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotUA != userAgent {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotCT != "application/json" {
		t.Errorf("Content-Type = %q", gotCT)
	}
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	if got := New("http://x/").BaseURL(); got != "http://x" {
		t.Errorf("BaseURL = %q", got)
	}
}
