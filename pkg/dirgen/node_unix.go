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

//go:build linux || darwin

package dirgen

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type unixNodeMaker struct{}

func defaultNodeMaker() NodeMaker { return unixNodeMaker{} }

func (unixNodeMaker) Mknod(path string, kind FileType, perm uint32, major, minor uint32) error {
	var typ uint32
	switch kind {
	case BlockDevice:
		typ = unix.S_IFBLK
	case CharDevice:
		typ = unix.S_IFCHR
	default:
		return fmt.Errorf("mknod: %s is not a device type", kind)
	}
	return unix.Mknod(path, typ|perm, int(unix.Mkdev(major, minor)))
}
