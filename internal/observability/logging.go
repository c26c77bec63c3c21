// Copyright 2025 EasyAgent
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package observability wires up structured logging for the engine
// and CLI. It does not participate in the core algorithm; it exists
// so worker lifecycle and chunking can be logged instead of
// printed with fmt, the way the reference implementation's
// printf-per-thread debugging is normally replaced in a production Go
// service.
package observability

import (
	"log/slog"
	"os"
)

// Level is a logging verbosity, kept as a plain string type rather
// than tied to slog directly.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Config selects the verbosity and encoding of the default logger.
type Config struct {
	Level  Level
	Format string // "json" or "text"
}

// Init builds a slog.Logger from cfg, installs it as the process
// default, and returns it.
func Init(cfg Config) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
