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
	"log/slog"

	"github.com/chainguard-dev/clog/slag"
	"github.com/spf13/cobra"
	"sigs.k8s.io/release-utils/version"

	"chainguard.dev/fuzztree/pkg/log"
)

// New returns the fuzztree root command.
func New() *cobra.Command {
	var (
		verbose   int
		quiet     bool
		logPolicy []string
	)
	level := slag.Level(slog.LevelInfo)

	cmd := &cobra.Command{
		Use:               "fuzztree",
		Short:             "Generate, capture and compare randomized directory trees",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case quiet:
				level = slag.Level(slog.LevelError)
			case verbose == 1:
				level = slag.Level(slog.LevelDebug)
			case verbose > 1:
				level = slag.Level(slog.LevelDebug - 1)
			}

			h, err := log.Handler(logPolicy, slog.Level(level))
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(h))
			return nil
		},
	}

	cmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (repeat for more)")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only report errors")
	cmd.PersistentFlags().Var(&level, "log-level", "log level (e.g. debug, info, warn, error)")
	cmd.PersistentFlags().StringSliceVar(&logPolicy, "log-policy", []string{}, "logging policy to use")

	cmd.AddCommand(generateCmd())
	cmd.AddCommand(snapshotCmd())
	cmd.AddCommand(diffCmd())
	cmd.AddCommand(version.Version())

	return cmd
}
