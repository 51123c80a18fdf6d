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

// Package dirgen builds randomized Unix directory trees for fuzzing tools
// that have to cope with arbitrary filesystem contents.
//
// Every decision (how many entries, their names, kinds, modes, contents and
// timestamps) is drawn from an entropy.Source, so a tree is reproducible from
// the bytes that produced it. The only other input is the current time,
// which bounds generated timestamps to at most a day in the future; pass a
// frozen clock with WithClock when exact reproducibility matters.
package dirgen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"

	"chainguard.dev/fuzztree/pkg/entropy"
	"chainguard.dev/fuzztree/pkg/rwosfs"
	"chainguard.dev/fuzztree/pkg/tempdir"
)

const (
	// MaxEntries is the largest number of entries a single run attempts.
	MaxEntries = 10

	maxNameLen = 10

	// parentPerm is used for directories created only to hold an entry.
	parentPerm os.FileMode = 0o755

	futureSlack = 24 * time.Hour
)

// Generator creates trees. It holds no state between runs and can be shared
// by goroutines, each of which must bring its own Source.
type Generator struct {
	cfg    Config
	clock  clock.Clock
	nodes  NodeMaker
	base   string
	prefix string
}

type Option func(*Generator) error

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(g *Generator) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		g.cfg = cfg
		return nil
	}
}

// WithPrintableNames restricts generated names to lowercase ASCII letters.
func WithPrintableNames(v bool) Option {
	return func(g *Generator) error {
		g.cfg.PrintableNames = v
		return nil
	}
}

// WithFileTypes sets the kinds of entry that may be generated.
func WithFileTypes(types ...FileType) Option {
	return func(g *Generator) error {
		cfg := g.cfg
		cfg.FileTypes = types
		if err := cfg.Validate(); err != nil {
			return err
		}
		g.cfg = cfg
		return nil
	}
}

// WithClock sets the source of "now" used to bound timestamps.
func WithClock(c clock.Clock) Option {
	return func(g *Generator) error {
		g.clock = c
		return nil
	}
}

// WithNodeMaker sets how device nodes get created.
func WithNodeMaker(n NodeMaker) Option {
	return func(g *Generator) error {
		g.nodes = n
		return nil
	}
}

// WithTempDir sets where roots are created and how their names start.
func WithTempDir(base, prefix string) Option {
	return func(g *Generator) error {
		g.base = base
		g.prefix = prefix
		return nil
	}
}

// New returns a Generator using DefaultConfig modified by opts.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		cfg:    DefaultConfig(),
		clock:  clock.New(),
		nodes:  DefaultNodeMaker(),
		prefix: "fuzztree-",
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	g.cfg = g.cfg.normalized()
	return g, nil
}

// Config returns the effective configuration.
func (g *Generator) Config() Config {
	c := g.cfg
	c.FileTypes = append([]FileType(nil), c.FileTypes...)
	return c
}

// Generate creates a fresh root and fills it with up to MaxEntries entries.
//
// It fails with ErrExhausted when src runs dry and with a *FilesystemError
// when the OS refuses an operation. Either way the partial root is removed
// and no Tree is returned. A hard link that cannot be created panics with a
// *HardLinkInvariantError; the root is removed on that path too.
func (g *Generator) Generate(ctx context.Context, src entropy.Source) (*Tree, error) {
	ctx, span := otel.Tracer("fuzztree").Start(ctx, "Generate")
	defer span.End()

	log := clog.FromContext(ctx)

	dir, err := tempdir.New(g.base, g.prefix)
	if err != nil {
		return nil, fsError("create", g.base, err)
	}
	done := false
	defer func() {
		if !done {
			if err := dir.Close(); err != nil {
				log.Warnf("cleaning up %s: %v", dir.Path(), err)
			}
		}
	}()

	fsys, err := rwosfs.New(dir.Path())
	if err != nil {
		return nil, fsError("open", dir.Path(), err)
	}

	r := &run{
		g:    g,
		src:  src,
		fsys: fsys,
		seen: map[string]bool{},
		now:  g.clock.Now(),
	}

	n, err := src.IntInRange(0, MaxEntries)
	if err != nil {
		return nil, drawErr(err)
	}
	log.Debugf("generating up to %d entries in %s", n, dir.Path())

	for i := uint64(0); i < n; i++ {
		e, err := r.step()
		if err != nil {
			return nil, err
		}
		if e == nil {
			log.Debugf("skipped candidate %d", i)
			continue
		}
		log.Debugf("created %s %q", e.Type, e.Path)
	}

	log.Infof("generated %d entries in %s", len(r.entries), dir.Path())
	done = true
	return &Tree{dir: dir, entries: r.entries}, nil
}

// Generate creates a tree with the default configuration.
func Generate(ctx context.Context, src entropy.Source) (*Tree, error) {
	g, err := New()
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, src)
}

// run is the state of one Generate call.
type run struct {
	g    *Generator
	src  entropy.Source
	fsys *rwosfs.FS
	now  time.Time

	// seen holds every generated path; pool the non-directories among them,
	// in creation order, as candidates for links.
	seen    map[string]bool
	pool    []string
	entries []Entry
}

// step makes one attempt at adding an entry. A nil Entry with a nil error
// means the candidate path was rejected.
func (r *run) step() (*Entry, error) {
	name, err := r.drawName()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}

	rel := rwosfs.Rel(name)
	if rel == "." || r.seen[rel] {
		return nil, nil
	}
	if fi, err := r.fsys.Lstat(rel); err == nil && fi.IsDir() {
		return nil, nil
	}

	if err := r.fsys.MkdirAll(filepath.Dir(rel), parentPerm); err != nil {
		return nil, fsError("mkdir", filepath.Dir(rel), err)
	}

	kind, err := r.drawType()
	if err != nil {
		return nil, err
	}
	mtime, err := r.drawTime()
	if err != nil {
		return nil, err
	}

	e := Entry{Path: rel, Type: kind}
	if err := r.create(&e, mtime); err != nil {
		return nil, err
	}

	r.seen[rel] = true
	if kind != Directory {
		r.pool = append(r.pool, rel)
	}
	r.entries = append(r.entries, e)
	return &e, nil
}

func (r *run) drawName() (string, error) {
	if r.g.cfg.PrintableNames {
		n, err := r.src.IntInRange(1, maxNameLen)
		if err != nil {
			return "", drawErr(err)
		}
		name := make([]byte, n)
		for i := range name {
			c, err := r.src.IntInRange('a', 'z')
			if err != nil {
				return "", drawErr(err)
			}
			name[i] = byte(c)
		}
		return string(name), nil
	}

	raw, err := r.src.Bytes()
	if err != nil {
		return "", drawErr(err)
	}
	// Paths cannot carry NUL.
	return string(bytes.ReplaceAll(raw, []byte{0}, nil)), nil
}

func (r *run) drawType() (FileType, error) {
	types := r.g.cfg.FileTypes
	i, err := r.src.Choose(len(types))
	if err != nil {
		return 0, drawErr(err)
	}
	kind := types[i]
	if kind.IsLink() && len(r.pool) == 0 {
		kind = Regular
	}
	return kind, nil
}

func (r *run) drawTime() (time.Time, error) {
	limit := r.now.Add(futureSlack).Unix()
	if limit < 0 {
		limit = 0
	}
	sec, err := r.src.IntInRange(0, uint64(limit))
	if err != nil {
		return time.Time{}, drawErr(err)
	}
	nsec, err := r.src.IntInRange(0, 999_999_999)
	if err != nil {
		return time.Time{}, drawErr(err)
	}
	return time.Unix(int64(sec), int64(nsec)), nil
}

func (r *run) drawMode(lo, hi, force uint64) (uint32, error) {
	m, err := r.src.IntInRange(lo, hi)
	if err != nil {
		return 0, drawErr(err)
	}
	return uint32(m | force), nil
}

func (r *run) pickTarget() (string, error) {
	i, err := r.src.Choose(len(r.pool))
	if err != nil {
		return "", drawErr(err)
	}
	return r.pool[i], nil
}

// create materializes e. Modes are set with an explicit chmod so the umask
// never leaks into the tree.
func (r *run) create(e *Entry, mtime time.Time) error {
	rel := e.Path

	switch e.Type {
	case Regular:
		mode, err := r.drawMode(0, 0o777, 0o400)
		if err != nil {
			return err
		}
		content, err := r.src.Bytes()
		if err != nil {
			return drawErr(err)
		}
		if err := r.fsys.WriteFile(rel, content, 0o600); err != nil {
			return fsError("write", rel, err)
		}
		e.Mode = mode
		return r.finish(rel, mode, mtime)

	case Directory:
		mode, err := r.drawMode(0, 0o777, 0o500)
		if err != nil {
			return err
		}
		if err := r.fsys.MkdirAll(rel, os.FileMode(mode)); err != nil {
			return fsError("mkdir", rel, err)
		}
		e.Mode = mode
		return r.finish(rel, mode, mtime)

	case Fifo:
		mode, err := r.drawMode(0, 0o777, 0o400)
		if err != nil {
			return err
		}
		if err := r.fsys.Mkfifo(rel, mode); err != nil {
			return fsError("mkfifo", rel, err)
		}
		e.Mode = mode
		return r.finish(rel, mode, mtime)

	case Socket:
		if err := r.fsys.BindSocket(rel); err != nil {
			return fsError("bind", rel, err)
		}
		if err := r.fsys.Chtimes(rel, mtime); err != nil {
			return fsError("chtimes", rel, err)
		}
		return nil

	case BlockDevice, CharDevice:
		mode, err := r.drawMode(0o400, 0o777, 0)
		if err != nil {
			return err
		}
		major, minor := uint32(loopMajor), uint32(loopMinor)
		if e.Type == CharDevice {
			major, minor = nullMajor, nullMinor
		}
		abs, err := r.fsys.Join(rel)
		if err != nil {
			return fsError("mknod", rel, err)
		}
		if err := r.g.nodes.Mknod(abs, e.Type, mode, major, minor); err != nil {
			return fsError("mknod", rel, err)
		}
		e.Mode = mode
		return r.finish(rel, mode, mtime)

	case Symlink:
		target, err := r.pickTarget()
		if err != nil {
			return err
		}
		// Absolute, so the link still resolves when a hard link to it
		// lands in another directory.
		abs, err := r.fsys.Join(target)
		if err != nil {
			return fsError("symlink", rel, err)
		}
		if err := r.fsys.Symlink(abs, rel); err != nil {
			return fsError("symlink", rel, err)
		}
		e.Target = target
		return nil

	case HardLink:
		target, err := r.pickTarget()
		if err != nil {
			return err
		}
		if err := r.fsys.Link(target, rel); err != nil {
			panic(&HardLinkInvariantError{Target: target, Path: rel, Err: err})
		}
		e.Target = target
		return nil
	}

	return fmt.Errorf("unhandled file type %s", e.Type)
}

func (r *run) finish(rel string, mode uint32, mtime time.Time) error {
	if err := r.fsys.Chmod(rel, os.FileMode(mode)); err != nil {
		return fsError("chmod", rel, err)
	}
	if err := r.fsys.Chtimes(rel, mtime); err != nil {
		return fsError("chtimes", rel, err)
	}
	return nil
}
