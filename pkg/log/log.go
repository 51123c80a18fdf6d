// Copyright 2026 Chainguard, Inc.
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

package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// DefaultPolicy sends logs to stderr.
var DefaultPolicy = []string{"builtin:stderr"}

// writerFromTarget opens a log target: builtin:stderr, builtin:stdout,
// builtin:discard or a file path to append to.
func writerFromTarget(target string) (io.Writer, error) {
	switch target {
	case "builtin:stderr":
		return os.Stderr, nil
	case "builtin:stdout":
		return os.Stdout, nil
	case "builtin:discard":
		return io.Discard, nil
	default:
		if strings.Contains(target, "/") {
			parent := filepath.Dir(target)
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}

		out, err := os.OpenFile(target, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			return nil, err
		}

		return out, nil
	}
}

// writer fans out to every target.
func writer(targets []string) (io.Writer, error) {
	if len(targets) == 0 {
		targets = DefaultPolicy
	}
	if len(targets) == 1 {
		return writerFromTarget(targets[0])
	}

	writers := make([]io.Writer, 0, len(targets))
	for _, target := range targets {
		w, err := writerFromTarget(target)
		if err != nil {
			return nil, fmt.Errorf("log target %q: %w", target, err)
		}
		writers = append(writers, w)
	}

	return io.MultiWriter(writers...), nil
}

// Handler returns a slog.Handler that renders records for humans and sends
// them to every target in logPolicy.
func Handler(logPolicy []string, level slog.Level) (slog.Handler, error) {
	out, err := writer(logPolicy)
	if err != nil {
		return nil, err
	}
	return charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		Level:           charmlog.Level(level),
	}), nil
}
