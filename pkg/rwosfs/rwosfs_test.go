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

package rwosfs

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRel(t *testing.T) {
	for in, want := range map[string]string{
		"a":           "a",
		"a/b":         "a/b",
		"/a":          "a",
		"//a/b":       "a/b",
		"./a/./b/":    "a/b",
		"../../x":     "x",
		"a/../../b":   "b",
		"a/..":        ".",
		"..":          ".",
		"":            ".",
		"/":           ".",
		"x/y/../z/..": "x",
	} {
		require.Equal(t, want, Rel(in), "Rel(%q)", in)
	}
}

func TestSanitize(t *testing.T) {
	fsys, err := New(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"a", "a/b", ".", ""} {
		p, err := fsys.Join(name)
		require.NoError(t, err, name)
		require.True(t, strings.HasPrefix(p, fsys.Root()), name)
	}

	for _, name := range []string{"..", "../x", "a/../../x"} {
		_, err := fsys.Join(name)
		require.Error(t, err, name)
		require.Contains(t, err.Error(), "tainted")
	}

	// A sibling sharing the root as a string prefix is still outside.
	_, err = fsys.Join("../" + filepath.Base(fsys.Root()) + "-evil")
	require.Error(t, err)
}

func TestWriteLinkAndTimes(t *testing.T) {
	fsys, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fsys.MkdirAll("d/e", 0o755))
	require.NoError(t, fsys.WriteFile("d/e/f", []byte("data"), 0o600))
	require.NoError(t, fsys.Chmod("d/e/f", 0o640))
	require.NoError(t, fsys.Link("d/e/f", "g"))
	require.NoError(t, fsys.Symlink("d/e/f", "s"))

	got, err := os.ReadFile(filepath.Join(fsys.Root(), "g"))
	require.NoError(t, err)
	require.Equal(t, []byte("data"), got)

	fi, err := fsys.Lstat("d/e/f")
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), fi.Mode().Perm())

	li, err := fsys.Lstat("s")
	require.NoError(t, err)
	require.Equal(t, os.ModeSymlink, li.Mode()&os.ModeSymlink)

	mtime := time.Unix(1234567, 89)
	require.NoError(t, fsys.Chtimes("g", mtime))
	fi, err = fsys.Lstat("d/e/f")
	require.NoError(t, err)
	require.Equal(t, mtime.Unix(), fi.ModTime().Unix())
}

func TestSpecialFiles(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no special files on windows")
	}
	fsys, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fsys.Mkfifo("p", 0o600))
	fi, err := fsys.Lstat("p")
	require.NoError(t, err)
	require.Equal(t, os.ModeNamedPipe, fi.Mode().Type())

	require.NoError(t, fsys.BindSocket("sock"))
	fi, err = fsys.Lstat("sock")
	require.NoError(t, err)
	require.Equal(t, os.ModeSocket, fi.Mode().Type())
}
