// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Memory entries are plain text strings addressed by their index in the
// user's store. Deleting an entry shifts every later index down by one, so
// views refetch after mutations instead of patching locally.

// askRequest doubles as the body for Ask and Remember; the backend uses the
// same shape for both.
type askRequest struct {
	Query string `json:"query"`
}

// statusResponse is the backend's generic acknowledgement.
type statusResponse struct {
	Status string `json:"status"`
}

// AskResponse is a memory-grounded answer plus the model that produced it.
type AskResponse struct {
	Answer   string `json:"answer"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Memories returns a page of the user's memory entries. A page shorter than
// limit means the end was reached.
func (c *Client) Memories(ctx context.Context, bearer string, offset, limit int) ([]string, error) {
	path := fmt.Sprintf("/api/memory?offset=%d&limit=%d", offset, limit)
	req, err := c.newRequest(ctx, http.MethodGet, path, bearer, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Memory []string `json:"memory"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Memory, nil
}

// Remember stores a single text entry in the user's memory.
func (c *Client) Remember(ctx context.Context, bearer, text string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/remember", bearer, askRequest{Query: text})
	if err != nil {
		return err
	}
	return c.do(req, &statusResponse{})
}

// DeleteMemory removes the entry at index. The backend answers 404 when the
// index is out of range, surfaced as ErrNotFound.
func (c *Client) DeleteMemory(ctx context.Context, bearer string, index int) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/memory/%d", index), bearer, nil)
	if err != nil {
		return err
	}
	return c.do(req, &statusResponse{})
}

// ClearMemory removes every memory entry.
func (c *Client) ClearMemory(ctx context.Context, bearer string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/memory", bearer, nil)
	if err != nil {
		return err
	}
	return c.do(req, &statusResponse{})
}

// Ask runs a one-off question answered from the user's stored memory.
func (c *Client) Ask(ctx context.Context, bearer, question string) (AskResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/ask", bearer, askRequest{Query: question})
	if err != nil {
		return AskResponse{}, err
	}
	var out AskResponse
	if err := c.do(req, &out); err != nil {
		return AskResponse{}, err
	}
	return out, nil
}

// Upload ingests a text or PDF file into the user's memory store. Returns
// the backend's status line.
func (c *Client) Upload(ctx context.Context, bearer, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to read upload content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	var out statusResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}
