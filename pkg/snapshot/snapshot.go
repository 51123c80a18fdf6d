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

// Package snapshot captures a directory tree as a canonical list of records
// that can be compared across independently created trees.
//
// Records are sorted by path and inode numbers are replaced by dense
// identifiers assigned in that order, so two trees with the same shape and
// the same hard-link structure produce equal snapshots even though the OS
// gave them different inodes.
package snapshot

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
)

// Metadata is the canonical subset of an entry's lstat(2) data.
type Metadata struct {
	Dev   uint64 `yaml:"dev"`
	Ino   uint64 `yaml:"ino"`
	Mode  uint32 `yaml:"mode"`
	UID   uint32 `yaml:"uid"`
	GID   uint32 `yaml:"gid"`
	Nlink uint32 `yaml:"nlink"`
	// Rdev is only meaningful for device nodes.
	Rdev uint64 `yaml:"rdev"`
	// Mtime is in whole seconds since the epoch.
	Mtime int64  `yaml:"mtime"`
	Size  uint64 `yaml:"size"`
}

// Record is one entry below the snapshot root.
type Record struct {
	// Path is relative to the root, never "." or empty.
	Path     string
	Metadata Metadata
	// Content is the data of a regular file, the target of a symlink, and
	// empty for everything else.
	Content []byte
}

// List walks root and returns a record for every entry beneath it, sorted
// by path, with inodes remapped. Symlinks are described, not followed. Any
// error aborts the walk; no partial result is returned.
func List(ctx context.Context, root string) ([]Record, error) {
	_, span := otel.Tracer("fuzztree").Start(ctx, "Snapshot")
	defer span.End()

	var records []Record
	if err := filepath.WalkDir(root, func(p string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// skip the root path, superfluous
		if p == root {
			return nil
		}

		md, err := lstat(p)
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}

		var content []byte
		switch md.Mode & modeTypeMask {
		case modeRegular:
			if content, err = os.ReadFile(p); err != nil {
				return err
			}
		case modeSymlink:
			target, err := os.Readlink(p)
			if err != nil {
				return err
			}
			content = []byte(target)
		}
		if len(content) == 0 {
			content = nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		records = append(records, Record{Path: rel, Metadata: md, Content: content})
		return nil
	}); err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}

	Sort(records)
	RemapInodes(records)

	clog.FromContext(ctx).Debugf("captured %d entries under %s", len(records), root)
	return records, nil
}

// ComparePaths orders paths component by component, comparing each
// component byte-wise. Unlike a plain string comparison, "a/b" sorts
// before "a-c".
func ComparePaths(a, b string) int {
	sep := string(filepath.Separator)
	return slices.Compare(strings.Split(a, sep), strings.Split(b, sep))
}

// Sort orders records by path.
func Sort(records []Record) {
	slices.SortFunc(records, func(a, b Record) int {
		return ComparePaths(a.Path, b.Path)
	})
}

// RemapInodes replaces inode numbers with identifiers counted from 0 in
// order of first appearance. Records sharing an inode share an identifier.
func RemapInodes(records []Record) {
	seen := make(map[uint64]uint64, len(records))
	for i := range records {
		old := records[i].Metadata.Ino
		id, ok := seen[old]
		if !ok {
			id = uint64(len(seen))
			seen[old] = id
		}
		records[i].Metadata.Ino = id
	}
}

// Rebase rewrites symlink targets that lie under root as if root were the
// filesystem root, and adjusts their size to match. Snapshots of the same
// tree generated under different roots then compare equal. Targets outside
// root are left alone.
func Rebase(records []Record, root string) {
	sep := string(filepath.Separator)
	prefix := strings.TrimSuffix(filepath.Clean(root), sep) + sep
	for i := range records {
		r := &records[i]
		if r.Metadata.Mode&modeTypeMask != modeSymlink {
			continue
		}
		rest, ok := strings.CutPrefix(string(r.Content), prefix)
		if !ok {
			continue
		}
		r.Content = []byte(sep + rest)
		r.Metadata.Size = uint64(len(r.Content))
	}
}
