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

//go:build !unix

package tarball

import (
	"errors"
	"io/fs"
)

type fileID struct{}

func hardlinkID(fs.FileInfo) (fileID, bool) { return fileID{}, false }

func deviceNumbers(fs.FileInfo) (uint32, uint32, error) {
	return 0, 0, errors.ErrUnsupported
}
