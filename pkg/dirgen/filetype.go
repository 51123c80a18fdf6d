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
	"fmt"
	"strings"
)

// FileType is one of the kinds of entry the generator can produce.
type FileType int

const (
	Regular FileType = iota
	Directory
	Fifo
	Socket
	BlockDevice
	CharDevice
	Symlink
	HardLink
)

// AllFileTypes lists every FileType in declaration order.
var AllFileTypes = []FileType{
	Regular,
	Directory,
	Fifo,
	Socket,
	BlockDevice,
	CharDevice,
	Symlink,
	HardLink,
}

var fileTypeNames = map[FileType]string{
	Regular:     "regular",
	Directory:   "directory",
	Fifo:        "fifo",
	Socket:      "socket",
	BlockDevice: "block-device",
	CharDevice:  "char-device",
	Symlink:     "symlink",
	HardLink:    "hardlink",
}

func (t FileType) String() string {
	if s, ok := fileTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("FileType(%d)", int(t))
}

// IsLink reports whether t needs an existing entry to point at.
func (t FileType) IsLink() bool {
	return t == Symlink || t == HardLink
}

// ParseFileType maps a name as printed by String back to its FileType.
func ParseFileType(s string) (FileType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range fileTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown file type %q", s)
}

func (t FileType) MarshalText() ([]byte, error) {
	if _, ok := fileTypeNames[t]; !ok {
		return nil, fmt.Errorf("unknown file type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *FileType) UnmarshalText(text []byte) error {
	v, err := ParseFileType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// DefaultFileTypes returns the kinds enabled when the caller does not choose.
// It is a default only: device kinds can still be requested explicitly.
func DefaultFileTypes() []FileType {
	return defaultFileTypes()
}
