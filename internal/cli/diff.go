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

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"chainguard.dev/fuzztree/pkg/snapshot"
)

// ErrDifferent is returned by diff when the two trees do not match.
var ErrDifferent = errors.New("trees differ")

func diffCmd() *cobra.Command {
	var ignoreMtime, ignoreDev bool

	cmd := &cobra.Command{
		Use:   "diff A B",
		Short: "Compare two trees or snapshots",
		Long: `Compare two directory trees. Each argument is either a directory, which is
snapshotted on the fly, or a .yaml file written by "fuzztree snapshot".

Prints the differences and exits non-zero when the trees differ.`,
		Example: `  fuzztree diff before.yaml /tmp/extracted
  fuzztree diff --ignore-mtime --ignore-dev /tmp/a /tmp/b`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return DiffImpl(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], diffOptions(ignoreMtime, ignoreDev)...)
		},
	}

	cmd.Flags().BoolVar(&ignoreMtime, "ignore-mtime", false, "ignore modification times")
	cmd.Flags().BoolVar(&ignoreDev, "ignore-dev", false, "ignore the device holding each entry")

	return cmd
}

func diffOptions(ignoreMtime, ignoreDev bool) []snapshot.DiffOption {
	var opts []snapshot.DiffOption
	if ignoreMtime {
		opts = append(opts, snapshot.IgnoreMtime())
	}
	if ignoreDev {
		opts = append(opts, snapshot.IgnoreDev())
	}
	return opts
}

// DiffImpl compares a and b, writing a diff to w. It returns ErrDifferent
// when they do not match.
func DiffImpl(ctx context.Context, w io.Writer, a, b string, opts ...snapshot.DiffOption) error {
	want, err := load(ctx, a)
	if err != nil {
		return err
	}
	got, err := load(ctx, b)
	if err != nil {
		return err
	}

	diff := snapshot.Diff(want, got, opts...)
	if diff == "" {
		clog.FromContext(ctx).Infof("%s and %s match (%d entries)", a, b, len(want))
		return nil
	}
	if _, err := fmt.Fprintf(w, "(-%s +%s):\n%s", a, b, diff); err != nil {
		return err
	}
	return ErrDifferent
}

// load snapshots a directory or decodes a snapshot file.
func load(ctx context.Context, path string) ([]snapshot.Record, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return capture(ctx, path)
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("%s: expected a directory or a .yaml snapshot", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := snapshot.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return records, nil
}
