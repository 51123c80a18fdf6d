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

// Package tempdir manages uniquely named scratch directories that are
// removed, contents and all, when their owner is done with them.
package tempdir

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Dir is a scratch directory owned by a single caller.
type Dir struct {
	path string

	once sync.Once
	keep bool
	err  error
}

// New creates base/<prefix><uuid>. An empty base means os.TempDir().
func New(base, prefix string) (*Dir, error) {
	if base == "" {
		base = os.TempDir()
	}
	p := filepath.Join(base, prefix+uuid.NewString())
	if err := os.Mkdir(p, 0o700); err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		_ = os.Remove(p)
		return nil, err
	}
	return &Dir{path: abs}, nil
}

func (d *Dir) Path() string { return d.path }

// Keep detaches the directory from its owner: Close becomes a no-op.
func (d *Dir) Keep() {
	d.once.Do(func() { d.keep = true })
}

// Kept reports whether Keep was called.
func (d *Dir) Kept() bool { return d.keep }

// Close removes the directory tree. Only the first call does any work;
// later calls return the same result.
func (d *Dir) Close() error {
	d.once.Do(func() {
		d.err = removeAll(d.path)
	})
	return d.err
}

// removeAll is os.RemoveAll for trees that may contain directories their
// owner cannot write to.
func removeAll(root string) error {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if perm := info.Mode().Perm(); perm&0o700 != 0o700 {
			_ = os.Chmod(p, perm|0o700)
		}
		return nil
	})
	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf("removing scratch directory: %w", err)
	}
	return nil
}
