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
	"errors"
	"fmt"
)

// loop0
const loopMajor, loopMinor = 7, 0

// NodeMaker creates device special files. Platforms without the capability
// report an error wrapping errors.ErrUnsupported instead of attempting the
// call.
type NodeMaker interface {
	Mknod(path string, kind FileType, perm uint32, major, minor uint32) error
}

// NoDevices is a NodeMaker for sandboxes where device nodes are off limits.
type NoDevices struct{}

func (NoDevices) Mknod(path string, kind FileType, _ uint32, _, _ uint32) error {
	return fmt.Errorf("creating %s %s: %w", kind, path, errors.ErrUnsupported)
}

// DefaultNodeMaker returns the NodeMaker for the running platform.
func DefaultNodeMaker() NodeMaker {
	return defaultNodeMaker()
}
