// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the process-wide zerolog logger.
//
// Logs go to a file under the application directory, never to stdout or
// stderr: the terminal is owned by the TUI and stray writes corrupt the
// rendered view.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const logFileName = "assistant.log"

// PERFORMANCE: Keep the log file from growing without bound.
const maxLogSize = 10 * 1024 * 1024

var (
	mu      sync.Mutex
	logFile *os.File
)

// Setup opens the log file under dir and installs it as the global zerolog
// output. level accepts zerolog level names ("debug", "info", "warn",
// "error"); unknown values fall back to info.
func Setup(dir, level string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, logFileName)
	rotateIfLarge(path)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = f

	zerolog.SetGlobalLevel(parseLevel(level))
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return nil
}

// Close flushes and closes the log file. Safe to call when Setup never ran.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func parseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// rotateIfLarge keeps a single previous generation as assistant.log.old.
func rotateIfLarge(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Size() < maxLogSize {
		return
	}
	os.Rename(path, path+".old")
}
