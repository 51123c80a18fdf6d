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

package dirgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("overrides defaults", func(t *testing.T) {
		p := filepath.Join(dir, "full.yaml")
		require.NoError(t, os.WriteFile(p, []byte(`printable-names: true
file-types:
  - symlink
  - regular
  - char-device
`), 0o644))

		cfg, err := LoadConfig(p)
		require.NoError(t, err)
		require.True(t, cfg.PrintableNames)
		require.Equal(t, []FileType{Symlink, Regular, CharDevice}, cfg.FileTypes)
	})

	t.Run("keeps unset fields", func(t *testing.T) {
		p := filepath.Join(dir, "partial.yaml")
		require.NoError(t, os.WriteFile(p, []byte("printable-names: true\n"), 0o644))

		cfg, err := LoadConfig(p)
		require.NoError(t, err)
		require.Equal(t, DefaultFileTypes(), cfg.FileTypes)
	})

	t.Run("unknown type", func(t *testing.T) {
		p := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(p, []byte("file-types: [regular, whiteout]\n"), 0o644))

		_, err := LoadConfig(p)
		require.ErrorContains(t, err, `unknown file type "whiteout"`)
	})

	t.Run("empty type set", func(t *testing.T) {
		p := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(p, []byte("file-types: []\n"), 0o644))

		_, err := LoadConfig(p)
		require.ErrorContains(t, err, "no file types configured")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})
}

func TestConfigMarshal(t *testing.T) {
	out, err := yaml.Marshal(Config{FileTypes: []FileType{HardLink, BlockDevice}})
	require.NoError(t, err)
	require.Equal(t, "printable-names: false\nfile-types:\n    - hardlink\n    - block-device\n", string(out))
}

func TestNormalized(t *testing.T) {
	cfg := Config{FileTypes: []FileType{HardLink, Regular, HardLink, Fifo}}.normalized()
	require.Equal(t, []FileType{Regular, Fifo, HardLink}, cfg.FileTypes)
}

func TestNewOptions(t *testing.T) {
	_, err := New(WithFileTypes())
	require.Error(t, err)

	_, err = New(WithConfig(Config{}))
	require.Error(t, err)

	g, err := New(WithFileTypes(Symlink, Regular), WithPrintableNames(true))
	require.NoError(t, err)
	require.Equal(t, Config{PrintableNames: true, FileTypes: []FileType{Regular, Symlink}}, g.Config())
}

func TestFileTypeNames(t *testing.T) {
	for _, ft := range AllFileTypes {
		parsed, err := ParseFileType(ft.String())
		require.NoError(t, err)
		require.Equal(t, ft, parsed)
	}
	require.Len(t, AllFileTypes, 8)
	require.Equal(t, "FileType(42)", FileType(42).String())

	_, err := FileType(42).MarshalText()
	require.Error(t, err)

	require.True(t, Symlink.IsLink())
	require.True(t, HardLink.IsLink())
	require.False(t, Regular.IsLink())
}
