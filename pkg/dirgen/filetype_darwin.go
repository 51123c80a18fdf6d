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

//go:build darwin

package dirgen

// Device nodes cannot be created on APFS volumes without elevated privileges.
func defaultFileTypes() []FileType {
	return []FileType{Regular, Directory, Fifo, Socket, Symlink, HardLink}
}

const defaultPrintableNames = true

// /dev/null
const nullMajor, nullMinor = 3, 2
