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

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// DiffOption adjusts which parts of two snapshots are compared.
type DiffOption func(*diffOptions)

type diffOptions struct {
	ignoreDev   bool
	ignoreMtime bool
}

// IgnoreDev drops device ids from the comparison, for trees that live on
// different filesystems.
func IgnoreDev() DiffOption {
	return func(o *diffOptions) { o.ignoreDev = true }
}

// IgnoreMtime drops modification times from the comparison.
func IgnoreMtime() DiffOption {
	return func(o *diffOptions) { o.ignoreMtime = true }
}

// Diff returns a human-readable report of the differences between want and
// got, or "" if they are equal.
func Diff(want, got []Record, opts ...DiffOption) string {
	var o diffOptions
	for _, opt := range opts {
		opt(&o)
	}
	cmpOpts := []cmp.Option{cmpopts.EquateEmpty()}
	if o.ignoreDev || o.ignoreMtime {
		cmpOpts = append(cmpOpts, cmp.Transformer("masked", func(m Metadata) Metadata {
			if o.ignoreDev {
				m.Dev = 0
			}
			if o.ignoreMtime {
				m.Mtime = 0
			}
			return m
		}))
	}
	return cmp.Diff(want, got, cmpOpts...)
}

// Equal reports whether two snapshots are identical.
func Equal(a, b []Record, opts ...DiffOption) bool {
	return Diff(a, b, opts...) == ""
}
