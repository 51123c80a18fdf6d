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

package rwosfs

import (
	"golang.org/x/sys/unix"
)

// Mkfifo creates a named pipe. The mode is subject to the umask.
func (f *FS) Mkfifo(name string, perm uint32) error {
	v, err := f.sanitize(name)
	if err != nil {
		return err
	}
	return unix.Mkfifo(v, perm)
}

// BindSocket leaves a local-domain socket endpoint at name. The socket is
// closed right away; the filesystem node outlives it.
func (f *FS) BindSocket(name string) error {
	v, err := f.sanitize(name)
	if err != nil {
		return err
	}
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_DGRAM, 0)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	return unix.Bind(fd, &unix.SockaddrUnix{Name: v})
}
