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

// Package tarball writes a directory tree to a tar stream, preserving the
// things archivers most often get wrong: hard links, device numbers, fifos
// and symlinks.
package tarball

import "time"

// Context holds the normalizations applied to every header written.
// The zero value writes entries exactly as they are on disk.
type Context struct {
	// SourceDateEpoch, when set, replaces every entry timestamp.
	SourceDateEpoch time.Time

	// OverrideUIDGID makes every entry owned by UID:GID.
	OverrideUIDGID bool
	UID, GID       int
}

type Option func(*Context) error

// NewContext applies opts to a zero Context.
func NewContext(opts ...Option) (*Context, error) {
	var c Context
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// WithSourceDateEpoch stamps every entry with t instead of its own times.
func WithSourceDateEpoch(t time.Time) Option {
	return func(c *Context) error {
		c.SourceDateEpoch = t
		return nil
	}
}

// WithOverrideUIDGID records every entry as owned by uid:gid, with no user
// or group names.
func WithOverrideUIDGID(uid, gid int) Option {
	return func(c *Context) error {
		c.OverrideUIDGID = true
		c.UID, c.GID = uid, gid
		return nil
	}
}
