// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch reloads the configuration when the config file changes on disk and
// calls onReload with the new value. It blocks until ctx is cancelled.
// Invalid edits are logged and skipped so a typo never tears down a running
// session.
func Watch(ctx context.Context, onReload func(*Config)) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files via rename
	// and the watch would silently die with the old inode.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	// Editors fire bursts of events per save. Debounce so we reload once.
	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Name != path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(200*time.Millisecond, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("config watcher error")
		case <-reload:
			cfg, err := LoadFrom(path)
			if err != nil {
				log.Warn().Err(err).Msg("ignoring invalid config change")
				continue
			}
			SetGlobal(cfg)
			log.Info().Msg("configuration reloaded")
			if onReload != nil {
				onReload(cfg)
			}
		}
	}
}
