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

package tarball

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"
	"github.com/klauspost/pgzip"
	"go.opentelemetry.io/otel"
)

func (c *Context) writeTar(ctx context.Context, tw *tar.Writer, root string) error {
	log := clog.FromContext(ctx)
	seenFiles := map[fileID]string{}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			return err
		}
		// skip the root path, superfluous
		if path == root {
			return nil
		}

		name, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name = filepath.ToSlash(name)

		info, err := d.Info()
		if err != nil {
			return err
		}

		if info.Mode()&fs.ModeSocket != 0 {
			log.Debugf("socket ignored: %s", name)
			return nil
		}

		var link string
		if info.Mode()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		// work around some weirdness, without this we wind up with just the basename
		header.Name = name
		if info.IsDir() {
			header.Name += "/"
		}

		if info.Mode()&fs.ModeDevice != 0 {
			major, minor, err := deviceNumbers(info)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			header.Devmajor = int64(major)
			header.Devminor = int64(minor)
		}

		if !c.SourceDateEpoch.IsZero() {
			header.ModTime = c.SourceDateEpoch
			header.AccessTime = c.SourceDateEpoch
			header.ChangeTime = c.SourceDateEpoch
		}

		if c.OverrideUIDGID {
			header.Uid = c.UID
			header.Gid = c.GID
			header.Uname = ""
			header.Gname = ""
		}

		if !info.IsDir() {
			if id, ok := hardlinkID(info); ok {
				if oldpath, ok := seenFiles[id]; ok {
					header.Typeflag = tar.TypeLink
					header.Linkname = oldpath
					header.Size = 0
				} else {
					seenFiles[id] = header.Name
				}
			}
		}

		if err := tw.WriteHeader(header); err != nil {
			return err
		}

		if header.Typeflag == tar.TypeReg && header.Size > 0 {
			data, err := os.Open(path)
			if err != nil {
				return err
			}
			defer data.Close()

			if _, err := io.Copy(tw, data); err != nil {
				return err
			}
		}

		return nil
	})
}

// WriteTargz writes a gzipped tarball of the tree under root to dst.
func (c *Context) WriteTargz(ctx context.Context, dst io.Writer, root string) error {
	ctx, span := otel.Tracer("fuzztree").Start(ctx, "WriteTargz")
	defer span.End()

	gzw := pgzip.NewWriter(dst)
	if err := c.WriteTar(ctx, gzw, root); err != nil {
		gzw.Close()
		return err
	}
	return gzw.Close()
}

// WriteTar writes a tarball of the tree under root to dst. The root itself
// is not part of the archive; entries are named relative to it.
func (c *Context) WriteTar(ctx context.Context, dst io.Writer, root string) error {
	ctx, span := otel.Tracer("fuzztree").Start(ctx, "WriteTar")
	defer span.End()

	tw := tar.NewWriter(dst)
	if err := c.writeTar(ctx, tw, root); err != nil {
		return fmt.Errorf("writing TAR archive failed: %w", err)
	}
	return tw.Close()
}
