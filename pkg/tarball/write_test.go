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

package tarball

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"chainguard.dev/fuzztree/pkg/dirgen"
	"chainguard.dev/fuzztree/pkg/entropy"
	"chainguard.dev/fuzztree/pkg/snapshot"
)

type entry struct {
	hdr  *tar.Header
	data []byte
}

func readTargz(t *testing.T, r io.Reader) []entry {
	t.Helper()
	zr, err := pgzip.NewReader(r)
	require.NoError(t, err)
	defer zr.Close()

	var out []entry
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		out = append(out, entry{hdr: hdr, data: data})
	}
}

func TestWriteTargz(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a"), []byte("hello"), 0o640))
	require.NoError(t, os.Link(filepath.Join(root, "a"), filepath.Join(root, "b")))
	require.NoError(t, os.Symlink("a", filepath.Join(root, "s")))
	require.NoError(t, os.Mkdir(filepath.Join(root, "d"), 0o750))
	require.NoError(t, unix.Mkfifo(filepath.Join(root, "d", "p"), 0o600))

	sock, err := unix.Socket(unix.AF_UNIX, unix.SOCK_DGRAM, 0)
	require.NoError(t, err)
	require.NoError(t, unix.Bind(sock, &unix.SockaddrUnix{Name: filepath.Join(root, "sock")}))
	require.NoError(t, unix.Close(sock))

	epoch := time.Unix(1_000_000, 0)
	c, err := NewContext(WithSourceDateEpoch(epoch), WithOverrideUIDGID(1000, 1000))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.WriteTargz(context.Background(), &buf, root))

	entries := readTargz(t, &buf)
	var names []string
	for _, e := range entries {
		names = append(names, e.hdr.Name)
		require.Equal(t, 1000, e.hdr.Uid)
		require.True(t, e.hdr.ModTime.Equal(epoch), e.hdr.Name)
	}
	// The socket cannot be archived and is left out.
	require.Equal(t, []string{"a", "b", "d/", "d/p", "s"}, names)

	require.Equal(t, byte(tar.TypeReg), entries[0].hdr.Typeflag)
	require.Equal(t, []byte("hello"), entries[0].data)
	require.EqualValues(t, 0o640, entries[0].hdr.Mode&0o777)

	require.Equal(t, byte(tar.TypeLink), entries[1].hdr.Typeflag)
	require.Equal(t, "a", entries[1].hdr.Linkname)
	require.Empty(t, entries[1].data)

	require.Equal(t, byte(tar.TypeDir), entries[2].hdr.Typeflag)
	require.Equal(t, byte(tar.TypeFifo), entries[3].hdr.Typeflag)

	require.Equal(t, byte(tar.TypeSymlink), entries[4].hdr.Typeflag)
	require.Equal(t, "a", entries[4].hdr.Linkname)
}

func TestWriteTarCancelled(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a"), nil, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, err := NewContext()
	require.NoError(t, err)
	err = c.WriteTar(ctx, io.Discard, root)
	require.ErrorIs(t, err, context.Canceled)
}

func TestArchiveMatchesSnapshot(t *testing.T) {
	ctx := context.Background()
	g, err := dirgen.New(
		dirgen.WithTempDir(t.TempDir(), ""),
		dirgen.WithNodeMaker(dirgen.NoDevices{}),
		dirgen.WithFileTypes(dirgen.Regular, dirgen.Fifo, dirgen.Socket, dirgen.Symlink, dirgen.HardLink),
	)
	require.NoError(t, err)

	c, err := NewContext()
	require.NoError(t, err)

	for seed := uint64(0); seed < 20; seed++ {
		tree, err := g.Generate(ctx, entropy.NewRand(entropy.SeedFromInt(seed), 200))
		if err != nil {
			continue
		}

		records, err := snapshot.List(ctx, tree.Path())
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, c.WriteTargz(ctx, &buf, tree.Path()))

		var want, got []string
		for _, r := range records {
			if r.Kind() == "socket" {
				continue
			}
			name := r.Path
			if r.IsDir() {
				name += "/"
			}
			want = append(want, name)
		}
		for _, e := range readTargz(t, &buf) {
			got = append(got, e.hdr.Name)
			if e.hdr.Typeflag == tar.TypeLink {
				require.False(t, strings.HasSuffix(e.hdr.Linkname, "/"))
			}
		}
		// Both are in walk order: the snapshot's component order only
		// differs from it for names containing bytes below '/'.
		require.ElementsMatch(t, want, got, "seed %d", seed)
		require.NoError(t, tree.Close())
	}
}
