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

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"chainguard.dev/fuzztree/pkg/dirgen"
	"chainguard.dev/fuzztree/pkg/entropy"
	"chainguard.dev/fuzztree/pkg/snapshot"
	"chainguard.dev/fuzztree/pkg/tarball"
)

type generateOptions struct {
	configFile     string
	printableNames *bool
	fileTypes      []string
	inputs         []string
	seed           uint64
	budget         int
	count          int
	jobs           int
	baseDir        string
	keep           bool
	snapshotOut    string
	archiveOut     string
	genOpts        []dirgen.Option
}

func generateCmd() *cobra.Command {
	var (
		o              generateOptions
		printableNames bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate randomized directory trees",
		Long: `Generate one or more randomized directory trees.

Each tree is built from a source of decisions: either the bytes of a corpus
file given with --input (one tree per file), or a seeded pseudo-random stream
(--seed, --budget) producing --count trees from consecutive seeds.

Trees are removed once their snapshot and archive have been written, unless
--keep is given, in which case the root of every tree is printed.`,
		Example: `  fuzztree generate --seed 42 --keep
  fuzztree generate --input testdata/fuzz/FuzzGenerate/abc123 --snapshot tree.yaml
  fuzztree generate --count 100 --jobs 8 --file-types regular,symlink,hardlink --archive out.tar.gz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("printable-names") {
				o.printableNames = &printableNames
			}
			return GenerateImpl(cmd.Context(), cmd.OutOrStdout(), o)
		},
	}

	cmd.Flags().StringVar(&o.configFile, "config", "", "path to a YAML generator configuration")
	cmd.Flags().BoolVar(&printableNames, "printable-names", false, "restrict names to lowercase ASCII letters")
	cmd.Flags().StringSliceVar(&o.fileTypes, "file-types", nil, "kinds of entry to generate (e.g. regular,directory,symlink,hardlink)")
	cmd.Flags().StringSliceVar(&o.inputs, "input", nil, "corpus files to use as decision bytes, one tree per file")
	cmd.Flags().Uint64Var(&o.seed, "seed", 0, "seed of the first pseudo-random tree")
	cmd.Flags().IntVar(&o.budget, "budget", 256, "number of draws a pseudo-random tree may make")
	cmd.Flags().IntVar(&o.count, "count", 1, "number of pseudo-random trees to generate")
	cmd.Flags().IntVarP(&o.jobs, "jobs", "j", 1, "number of trees to generate in parallel")
	cmd.Flags().StringVar(&o.baseDir, "base-dir", "", "directory to create tree roots in (defaults to the system temp dir)")
	cmd.Flags().BoolVar(&o.keep, "keep", false, "keep generated trees and print their roots")
	cmd.Flags().StringVar(&o.snapshotOut, "snapshot", "", "write a YAML snapshot of each tree to this path")
	cmd.Flags().StringVar(&o.archiveOut, "archive", "", "write a tar.gz of each tree to this path")

	cmd.MarkFlagsMutuallyExclusive("input", "seed")
	cmd.MarkFlagsMutuallyExclusive("input", "count")

	return cmd
}

// job is one tree to generate. Exactly one of input and seed applies.
type job struct {
	index int
	input string
	seed  uint64
}

func (j job) source(budget int) (entropy.Source, error) {
	if j.input == "" {
		return entropy.NewRand(entropy.SeedFromInt(j.seed), budget), nil
	}
	data, err := os.ReadFile(j.input)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return entropy.NewBuffer(data), nil
}

func (j job) String() string {
	if j.input != "" {
		return j.input
	}
	return fmt.Sprintf("seed %d", j.seed)
}

func (o generateOptions) generator() (*dirgen.Generator, error) {
	var opts []dirgen.Option
	if o.configFile != "" {
		cfg, err := dirgen.LoadConfig(o.configFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dirgen.WithConfig(cfg))
	}
	if o.printableNames != nil {
		opts = append(opts, dirgen.WithPrintableNames(*o.printableNames))
	}
	if len(o.fileTypes) > 0 {
		types := make([]dirgen.FileType, 0, len(o.fileTypes))
		for _, s := range o.fileTypes {
			t, err := dirgen.ParseFileType(strings.TrimSpace(s))
			if err != nil {
				return nil, err
			}
			types = append(types, t)
		}
		opts = append(opts, dirgen.WithFileTypes(types...))
	}
	if o.baseDir != "" {
		if err := os.MkdirAll(o.baseDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating base dir: %w", err)
		}
		opts = append(opts, dirgen.WithTempDir(o.baseDir, "fuzztree-"))
	}
	opts = append(opts, o.genOpts...)
	return dirgen.New(opts...)
}

func (o generateOptions) plan() []job {
	if len(o.inputs) > 0 {
		jobs := make([]job, len(o.inputs))
		for i, in := range o.inputs {
			jobs[i] = job{index: i, input: in}
		}
		return jobs
	}
	jobs := make([]job, o.count)
	for i := range jobs {
		jobs[i] = job{index: i, seed: o.seed + uint64(i)}
	}
	return jobs
}

// GenerateImpl generates every requested tree and writes the roots of kept
// trees to w, in job order.
func GenerateImpl(ctx context.Context, w io.Writer, o generateOptions) error {
	log := clog.FromContext(ctx)

	if o.count < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", o.count)
	}
	if o.jobs < 1 {
		o.jobs = 1
	}

	gen, err := o.generator()
	if err != nil {
		return fmt.Errorf("configuring generator: %w", err)
	}
	cfg := gen.Config()
	log.Debugf("generator config: printable-names=%t file-types=%v", cfg.PrintableNames, cfg.FileTypes)

	jobs := o.plan()
	roots := make([]string, len(jobs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.jobs)
	for _, j := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			root, err := o.runJob(ctx, gen, j, len(jobs))
			if err != nil {
				return fmt.Errorf("%s: %w", j, err)
			}
			roots[j.index] = root
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, root := range roots {
		if root == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, root); err != nil {
			return err
		}
	}
	return nil
}

// runJob generates one tree and writes its outputs. It returns the root if
// the tree was kept.
func (o generateOptions) runJob(ctx context.Context, gen *dirgen.Generator, j job, total int) (string, error) {
	log := clog.FromContext(ctx).With("job", j.String())

	src, err := j.source(o.budget)
	if err != nil {
		return "", err
	}

	tree, err := gen.Generate(ctx, src)
	if errors.Is(err, dirgen.ErrExhausted) {
		log.Warnf("decision input ran out, no tree generated")
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer func() {
		if err := tree.Close(); err != nil {
			log.Warnf("removing %s: %v", tree.Path(), err)
		}
	}()

	if o.snapshotOut != "" {
		if err := writeSnapshot(ctx, indexedPath(o.snapshotOut, j.index, total), tree.Path()); err != nil {
			return "", err
		}
	}
	if o.archiveOut != "" {
		if err := writeArchive(ctx, indexedPath(o.archiveOut, j.index, total), tree.Path()); err != nil {
			return "", err
		}
	}

	if !o.keep {
		return "", nil
	}
	tree.Keep()
	log.Infof("kept %d entries in %s", len(tree.Entries()), tree.Path())
	return tree.Path(), nil
}

func writeSnapshot(ctx context.Context, out, root string) error {
	records, err := capture(ctx, root)
	if err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer f.Close()

	if err := snapshot.Encode(f, records); err != nil {
		return err
	}
	return f.Close()
}

func writeArchive(ctx context.Context, out, root string) error {
	tc, err := tarball.NewContext()
	if err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}
	defer f.Close()

	if err := tc.WriteTargz(ctx, f, root); err != nil {
		return err
	}
	return f.Close()
}

// indexedPath returns path unchanged for a single tree, and otherwise
// inserts the tree index before the extension: out.tar.gz becomes
// out-3.tar.gz.
func indexedPath(path string, index, total int) string {
	if total == 1 {
		return path
	}
	dir, base := filepath.Split(path)
	name, ext, found := strings.Cut(base, ".")
	if !found {
		return fmt.Sprintf("%s%s-%d", dir, name, index)
	}
	return fmt.Sprintf("%s%s-%d.%s", dir, name, index, ext)
}
