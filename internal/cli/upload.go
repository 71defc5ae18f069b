// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// upload.go - Memory ingestion command.
//
// Command: upload <file>
//
// Uploads a text or PDF file; the backend chunks it into the user's memory
// store for later retrieval by chat and ask.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunUpload executes the upload command and returns the process exit code.
func RunUpload(args Args) int {
	if args.File == "" {
		return fail("usage: llm-assistant upload <file>")
	}

	f, err := os.Open(args.File)
	if err != nil {
		return fail("%v", err)
	}
	defer f.Close()

	sess, err := newSession()
	if err != nil {
		return fail("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	bearer := sess.requireAuth(ctx)
	cancel()
	if bearer == "" {
		return fail("not signed in, run: llm-assistant login")
	}

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	status, err := sess.client.Upload(ctx, bearer, filepath.Base(args.File), f)
	if err != nil {
		return fail("upload failed: %v", err)
	}
	fmt.Println(status)
	return 0
}
