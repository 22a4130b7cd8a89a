// Copyright 2025 walteh LLC
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

package commands

import (
	"context"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/walteh/pasterules/cmd/pasterc/opts"
	"github.com/walteh/pasterules/pkg/config"
	"github.com/walteh/pasterules/pkg/log"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate rule files",
		Long: `Check loads and compiles each rule file against the built-in schema.
Files are checked concurrently and every problem of every file is reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			reports := make([]log.RuleFileReport, len(args))
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(runtime.GOMAXPROCS(0))
			for i, path := range args {
				g.Go(func() error {
					n, err := checkFile(gctx, o, path)
					reports[i] = log.RuleFileReport{Path: path, Rules: n, Err: err}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return errors.Errorf("checking rule files: %w", err)
			}

			o.Logger.Header("checking rule files")
			failed := 0
			for _, r := range reports {
				o.Logger.LogRuleFile(ctx, r)
				if r.Err != nil {
					failed++
				}
			}
			o.Logger.LogNewline()

			if failed > 0 {
				o.Logger.Errorf("%d of %d rule files are invalid", failed, len(reports))
				return errors.Errorf("%d rule files are invalid", failed)
			}
			o.Logger.Successf("%d rule files are valid", len(reports))
			return nil
		},
	}

	return cmd
}

func checkFile(ctx context.Context, o *opts.RootOpts, path string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	set, err := config.Compile(ctx, path, o.Schema, (&fileRecorder{}).handlers())
	if err != nil {
		return 0, err
	}
	return set.Len(), nil
}
