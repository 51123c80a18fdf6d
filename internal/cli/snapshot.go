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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"chainguard.dev/fuzztree/pkg/snapshot"
)

func snapshotCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "snapshot DIR",
		Short: "Capture a directory tree as a YAML snapshot",
		Long: `Capture every entry beneath DIR, sorted by path, with inode numbers
remapped and symlink targets under DIR rewritten relative to "/", so that
snapshots of equivalent trees compare equal.`,
		Example: `  fuzztree snapshot /tmp/fuzztree-1234
  fuzztree snapshot /tmp/fuzztree-1234 --output tree.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return SnapshotImpl(cmd.Context(), cmd.OutOrStdout(), args[0])
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			if err := SnapshotImpl(cmd.Context(), f, args[0]); err != nil {
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write the snapshot to (defaults to stdout)")

	return cmd
}

// SnapshotImpl writes the YAML snapshot of dir to w.
func SnapshotImpl(ctx context.Context, w io.Writer, dir string) error {
	records, err := capture(ctx, dir)
	if err != nil {
		return err
	}
	return snapshot.Encode(w, records)
}

// capture snapshots dir with symlink targets rebased onto it, so trees
// generated under different roots can be compared.
func capture(ctx context.Context, dir string) ([]snapshot.Record, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	records, err := snapshot.List(ctx, abs)
	if err != nil {
		return nil, err
	}
	snapshot.Rebase(records, abs)
	return records, nil
}
