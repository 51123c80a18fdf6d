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

// Package rwosfs is a read-write view of an OS directory that refuses to
// touch anything outside of it.
package rwosfs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type FS struct {
	root string
}

// New returns an FS rooted at root, creating root if needed.
func New(root string) (*FS, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &FS{root: abs}, nil
}

func (f *FS) Root() string { return f.root }

// Rel lexically normalizes name as if it were rooted at the FS root: a
// leading separator is dropped and ".." never climbs above the root. The
// result is "." for the root itself.
func Rel(name string) string {
	clean := filepath.Clean(string(filepath.Separator) + name)
	clean = strings.TrimPrefix(clean, string(filepath.Separator))
	if clean == "" {
		return "."
	}
	return clean
}

// Join returns the absolute path of the root-relative name.
func (f *FS) Join(name string) (string, error) {
	return f.sanitize(name)
}

func (f *FS) MkdirAll(name string, perm fs.FileMode) error {
	v, err := f.sanitize(name)
	if err != nil {
		return err
	}
	return os.MkdirAll(v, perm)
}

func (f *FS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	v, err := f.sanitize(name)
	if err != nil {
		return err
	}
	return os.WriteFile(v, data, perm)
}

func (f *FS) Chmod(name string, perm fs.FileMode) error {
	v, err := f.sanitize(name)
	if err != nil {
		return err
	}
	return os.Chmod(v, perm)
}

// Chtimes sets the modification time of name and leaves its access time
// alone. It follows symlinks.
func (f *FS) Chtimes(name string, mtime time.Time) error {
	v, err := f.sanitize(name)
	if err != nil {
		return err
	}
	return os.Chtimes(v, time.Time{}, mtime)
}

func (f *FS) Lstat(name string) (fs.FileInfo, error) {
	v, err := f.sanitize(name)
	if err != nil {
		return nil, err
	}
	return os.Lstat(v)
}

// Symlink creates name pointing at oldname. oldname is stored verbatim and
// is not confined to the root.
func (f *FS) Symlink(oldname, name string) error {
	v, err := f.sanitize(name)
	if err != nil {
		return err
	}
	return os.Symlink(oldname, v)
}

// Link creates name as a hard link to the root-relative oldname.
func (f *FS) Link(oldname, name string) error {
	o, err := f.sanitize(oldname)
	if err != nil {
		return err
	}
	v, err := f.sanitize(name)
	if err != nil {
		return err
	}
	return os.Link(o, v)
}

// sanitize ensures that any path given is within the root of the filesystem.
func (f *FS) sanitize(name string) (string, error) {
	v := filepath.Join(f.root, name)
	if v == f.root || strings.HasPrefix(v, f.root+string(filepath.Separator)) {
		return v, nil
	}
	return "", fmt.Errorf("%s: %s", "content filepath is tainted", name)
}
