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
	"slices"

	"chainguard.dev/fuzztree/pkg/tempdir"
)

// Entry describes one entry a run created.
type Entry struct {
	// Path is relative to the tree root.
	Path string
	Type FileType
	// Mode holds the permission bits that were applied. It is zero for
	// sockets and links, whose modes are left to the OS.
	Mode uint32
	// Target is the root-relative path a Symlink or HardLink refers to.
	Target string
}

// Tree is a generated directory tree. It owns its root: Close removes it.
type Tree struct {
	dir     *tempdir.Dir
	entries []Entry
}

// Path is the absolute path of the root.
func (t *Tree) Path() string { return t.dir.Path() }

// Entries lists what was created, in creation order. Parent directories
// created only to hold an entry are not listed.
func (t *Tree) Entries() []Entry { return slices.Clone(t.entries) }

// Close removes the tree. It is safe to call more than once.
func (t *Tree) Close() error { return t.dir.Close() }

// Keep leaves the tree on disk when Close is called.
func (t *Tree) Keep() { t.dir.Keep() }

// IntoDir hands ownership of the root to the caller.
func (t *Tree) IntoDir() *tempdir.Dir { return t.dir }
