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

package rwosfs

import (
	"errors"
	"fmt"
)

func (f *FS) Mkfifo(name string, _ uint32) error {
	return fmt.Errorf("mkfifo %s: %w", name, errors.ErrUnsupported)
}

func (f *FS) BindSocket(name string) error {
	return fmt.Errorf("bind %s: %w", name, errors.ErrUnsupported)
}
