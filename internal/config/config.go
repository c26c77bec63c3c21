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

// Package config loads and validates the run configuration described
// in the engine's external interface: a File_Name, an XPath, a
// sequential/parallel switch, and a thread count.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is a fully validated run configuration.
type Config struct {
	FileName string
	XPath    string
	Parallel bool
	Threads  int
}

// Load reads the key=value configuration file at path. The reference
// format documents its keys inline, e.g.
// "number-of-threads(no less than 1 and no more than 10)=4"; those are
// normalized to plain identifiers (threads=4) before parsing so the
// rest of the line can be handled by godotenv like any other dotenv
// file, rather than hand-rolling a second key=value scanner next to
// the one godotenv already provides.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	normalized := normalizeKeys(string(raw))
	values, err := godotenv.Parse(strings.NewReader(normalized))
	if err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return fromValues(values)
}

var keyPrefixes = map[string]string{
	"File_Name":         "File_Name",
	"XPath":             "XPath",
	"version":           "version",
	"number-of-threads": "threads",
}

// normalizeKeys rewrites each "key(...)=value" or "key description=value"
// line to "canonical_key=value", leaving the value untouched.
func normalizeKeys(raw string) string {
	var out strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}
		idx := strings.Index(trimmed, "=")
		if idx == -1 {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}
		rawKey := strings.TrimSpace(trimmed[:idx])
		value := trimmed[idx+1:]
		canonical := rawKey
		for prefix, name := range keyPrefixes {
			if strings.HasPrefix(rawKey, prefix) {
				canonical = name
				break
			}
		}
		fmt.Fprintf(&out, "%s=%s\n", canonical, value)
	}
	return out.String()
}

func fromValues(values map[string]string) (*Config, error) {
	cfg := &Config{
		FileName: strings.TrimSpace(values["File_Name"]),
		XPath:    strings.TrimSpace(values["XPath"]),
	}

	if cfg.FileName == "" {
		return nil, fmt.Errorf("%w: File_Name", ErrConfigMissing)
	}
	if cfg.XPath == "" {
		return nil, fmt.Errorf("%w: XPath", ErrConfigMissing)
	}

	versionRaw := strings.TrimSpace(values["version"])
	version, err := strconv.Atoi(versionRaw)
	if err != nil || (version != 0 && version != 1) {
		return nil, fmt.Errorf("%w: version must be 0 or 1, got %q", ErrConfigInvalid, versionRaw)
	}
	cfg.Parallel = version == 1

	if cfg.Parallel {
		threadsRaw := strings.TrimSpace(values["threads"])
		threads, err := strconv.Atoi(threadsRaw)
		if err != nil || threads < 1 || threads > 10 {
			return nil, fmt.Errorf("%w: number-of-threads must be in [1,10], got %q", ErrConfigInvalid, threadsRaw)
		}
		cfg.Threads = threads
	} else {
		cfg.Threads = 1
	}

	return cfg, nil
}
