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

package snapshot

// POSIX st_mode file type bits.
const (
	modeTypeMask = 0o170000
	modeSocket   = 0o140000
	modeSymlink  = 0o120000
	modeRegular  = 0o100000
	modeBlock    = 0o060000
	modeDir      = 0o040000
	modeChar     = 0o020000
	modeFifo     = 0o010000
)

// Kind names the file type encoded in the record's mode.
func (r Record) Kind() string {
	switch r.Metadata.Mode & modeTypeMask {
	case modeRegular:
		return "regular"
	case modeDir:
		return "directory"
	case modeSymlink:
		return "symlink"
	case modeFifo:
		return "fifo"
	case modeSocket:
		return "socket"
	case modeBlock:
		return "block-device"
	case modeChar:
		return "char-device"
	default:
		return "unknown"
	}
}

// Perm returns the permission bits of the record's mode.
func (r Record) Perm() uint32 { return r.Metadata.Mode & 0o7777 }

// IsDir reports whether the record describes a directory.
func (r Record) IsDir() bool { return r.Metadata.Mode&modeTypeMask == modeDir }
