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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"chainguard.dev/fuzztree/pkg/dirgen"
	"chainguard.dev/fuzztree/pkg/snapshot"
)

func testOptions(t *testing.T) generateOptions {
	t.Helper()
	mock := clock.NewMock()
	mock.Set(time.Unix(1_700_000_000, 0))
	printable := true
	return generateOptions{
		printableNames: &printable,
		budget:         256,
		count:          1,
		jobs:           1,
		baseDir:        t.TempDir(),
		fileTypes:      []string{"regular", "fifo", "symlink", "hardlink"},
		genOpts:        []dirgen.Option{dirgen.WithClock(mock)},
	}
}

func roots(t *testing.T, out string) []string {
	t.Helper()
	var rs []string
	for _, l := range strings.Split(strings.TrimSpace(out), "\n") {
		if l != "" {
			rs = append(rs, l)
		}
	}
	return rs
}

func TestGenerateKeep(t *testing.T) {
	ctx := context.Background()
	o := testOptions(t)
	o.keep = true
	o.count = 5
	o.jobs = 3
	o.seed = 100

	var out bytes.Buffer
	require.NoError(t, GenerateImpl(ctx, &out, o))

	kept := roots(t, out.String())
	for _, root := range kept {
		require.True(t, strings.HasPrefix(root, o.baseDir), "root %s outside base dir", root)
		fi, err := os.Stat(root)
		require.NoError(t, err)
		require.True(t, fi.IsDir())
	}

	entries, err := os.ReadDir(o.baseDir)
	require.NoError(t, err)
	require.Len(t, entries, len(kept))
}

func TestGenerateRemovesTrees(t *testing.T) {
	ctx := context.Background()
	o := testOptions(t)
	o.count = 4
	o.jobs = 2

	var out bytes.Buffer
	require.NoError(t, GenerateImpl(ctx, &out, o))
	require.Empty(t, out.String())

	entries, err := os.ReadDir(o.baseDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestGenerateSnapshotMatchesTree(t *testing.T) {
	ctx := context.Background()
	o := testOptions(t)
	o.keep = true
	o.seed = 7
	o.snapshotOut = filepath.Join(t.TempDir(), "tree.yaml")
	o.archiveOut = filepath.Join(t.TempDir(), "tree.tar.gz")

	var out bytes.Buffer
	require.NoError(t, GenerateImpl(ctx, &out, o))

	_, err := os.Stat(o.archiveOut)
	require.NoError(t, err)

	kept := roots(t, out.String())
	if len(kept) == 0 {
		t.Skip("seed ran out of input before a tree was built")
	}
	require.Len(t, kept, 1)

	var diff bytes.Buffer
	require.NoError(t, DiffImpl(ctx, &diff, o.snapshotOut, kept[0]))
	require.Empty(t, diff.String())
}

func TestGenerateFromInput(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// A run of ones draws an entry count of one and enough decisions to
	// finish that entry.
	full := filepath.Join(dir, "full")
	require.NoError(t, os.WriteFile(full, bytes.Repeat([]byte{1}, 64), 0o644))
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	o := testOptions(t)
	o.keep = true
	o.fileTypes = []string{"regular"}
	o.inputs = []string{full, empty}

	var out bytes.Buffer
	require.NoError(t, GenerateImpl(ctx, &out, o))

	// The empty input cannot even draw an entry count.
	kept := roots(t, out.String())
	require.Len(t, kept, 1)

	records, err := snapshot.List(ctx, kept[0])
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "regular", records[0].Kind())
}

func TestGenerateDeterministic(t *testing.T) {
	ctx := context.Background()

	run := func() string {
		o := testOptions(t)
		o.keep = true
		o.seed = 3
		o.count = 10
		o.jobs = 4
		o.snapshotOut = filepath.Join(t.TempDir(), "tree.yaml")
		var out bytes.Buffer
		require.NoError(t, GenerateImpl(ctx, &out, o))
		return filepath.Dir(o.snapshotOut)
	}

	a, b := run(), run()
	for i := 0; i < 10; i++ {
		name := indexedPath("tree.yaml", i, 10)
		_, errA := os.Stat(filepath.Join(a, name))
		_, errB := os.Stat(filepath.Join(b, name))
		require.Equal(t, errA == nil, errB == nil, name)
		if errA != nil {
			continue
		}
		var diff bytes.Buffer
		err := DiffImpl(ctx, &diff, filepath.Join(a, name), filepath.Join(b, name),
			snapshot.IgnoreMtime(), snapshot.IgnoreDev())
		require.NoError(t, err, diff.String())
	}
}

func TestGenerateErrors(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name   string
		modify func(*generateOptions)
		want   string
	}{{
		name:   "bad file type",
		modify: func(o *generateOptions) { o.fileTypes = []string{"pipe"} },
		want:   `unknown file type "pipe"`,
	}, {
		name:   "zero count",
		modify: func(o *generateOptions) { o.count = 0 },
		want:   "--count must be at least 1",
	}, {
		name:   "missing config",
		modify: func(o *generateOptions) { o.configFile = "/does/not/exist.yaml" },
		want:   "configuring generator",
	}, {
		name:   "missing input",
		modify: func(o *generateOptions) { o.inputs = []string{"/does/not/exist"} },
		want:   "reading input",
	}} {
		t.Run(tc.name, func(t *testing.T) {
			o := testOptions(t)
			tc.modify(&o)
			err := GenerateImpl(ctx, &bytes.Buffer{}, o)
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestIndexedPath(t *testing.T) {
	for _, tc := range []struct {
		path         string
		index, total int
		want         string
	}{
		{"out.tar.gz", 0, 1, "out.tar.gz"},
		{"out.tar.gz", 3, 5, "out-3.tar.gz"},
		{"dir/tree.yaml", 1, 2, "dir/tree-1.yaml"},
		{"snap", 2, 4, "snap-2"},
	} {
		require.Equal(t, tc.want, indexedPath(tc.path, tc.index, tc.total), tc.path)
	}
}
