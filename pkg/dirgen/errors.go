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

	"chainguard.dev/fuzztree/pkg/entropy"
)

var (
	// ErrExhausted reports that the decision source ran dry mid-generation.
	// It matches entropy.ErrExhausted under errors.Is.
	ErrExhausted = fmt.Errorf("generating tree: %w", entropy.ErrExhausted)

	// ErrFilesystemOperation matches every *FilesystemError under errors.Is.
	ErrFilesystemOperation = errors.New("filesystem operation failed")
)

// FilesystemError is returned when creating or modifying an entry fails.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

func (e *FilesystemError) Is(target error) bool {
	return target == ErrFilesystemOperation
}

func fsError(op, path string, err error) error {
	return &FilesystemError{Op: op, Path: path, Err: err}
}

// HardLinkInvariantError is the panic value raised when a hard link cannot
// be created even though its target was taken from the pool of entries this
// run created. It signals a broken environment, not bad input.
type HardLinkInvariantError struct {
	Target string
	Path   string
	Err    error
}

func (e *HardLinkInvariantError) Error() string {
	return fmt.Sprintf("hard link invariant violated: original = %q, path = %q: %v", e.Target, e.Path, e.Err)
}

func (e *HardLinkInvariantError) Unwrap() error { return e.Err }

// drawErr converts a decision source failure into the generator's taxonomy.
func drawErr(err error) error {
	if errors.Is(err, entropy.ErrExhausted) {
		return ErrExhausted
	}
	return fmt.Errorf("drawing decision: %w", err)
}
