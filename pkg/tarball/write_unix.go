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

//go:build unix

package tarball

import (
	"fmt"
	"io/fs"
	"syscall"

	"golang.org/x/sys/unix"
)

type fileID struct {
	dev, ino uint64
}

// hardlinkID returns the identity of a file that has more than one name.
func hardlinkID(fi fs.FileInfo) (fileID, bool) {
	si, ok := fi.Sys().(*syscall.Stat_t)
	// if we don't have inodes, we just assume the filesystem
	// does not support hardlinks
	if !ok || si == nil || si.Nlink <= 1 {
		return fileID{}, false
	}
	return fileID{dev: uint64(si.Dev), ino: uint64(si.Ino)}, true
}

func deviceNumbers(fi fs.FileInfo) (major, minor uint32, _ error) {
	si, ok := fi.Sys().(*syscall.Stat_t)
	if !ok || si == nil {
		return 0, 0, fmt.Errorf("unable to stat underlying file")
	}
	return unix.Major(uint64(si.Rdev)), unix.Minor(uint64(si.Rdev)), nil
}
