// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"log/slog"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// ParseLevel maps a config string onto a slog level. Unknown strings fall
// back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WatchLogLevel reloads the log level whenever the config file changes.
// Only the level is hot; everything else still requires a restart. The
// watcher runs until the file's directory becomes unwatchable.
func WatchLogLevel(path string, level *slog.LevelVar, logger *slog.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, open := <-watcher.Events:
				if !open {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					logger.Warn("config reload failed", "path", path, "error", err)
					continue
				}
				next := ParseLevel(cfg.Log.Level)
				if next != level.Level() {
					level.Set(next)
					logger.Info("log level changed", "level", next.String())
				}
			case err, open := <-watcher.Errors:
				if !open {
					return
				}
				logger.Warn("config watch error", "error", err)
			}
		}
	}()
	return watcher, nil
}
