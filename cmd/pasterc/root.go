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

package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/pasterules/cmd/pasterc/commands"
	"github.com/walteh/pasterules/cmd/pasterc/opts"
	"github.com/walteh/pasterules/pkg/content/basic"
	"github.com/walteh/pasterules/pkg/log"
)

// newRootCmd wires the commands around shared options
func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{Schema: basic.Schema}
	var debug bool

	cmd := &cobra.Command{
		Use:   "pasterc",
		Short: "Run paste rule files against an in-memory editor",
		Long: `pasterc loads declarative paste rules (YAML, JSON or HCL) and runs
paste and drop events through them, printing the rewritten content.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			o.Logger = log.New(cmd.OutOrStdout(), logLevel(debug))
			cmd.SetContext(log.NewContext(cmd.Context(), o.Logger))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	cmd.AddCommand(
		commands.NewCheckCmd(o),
		commands.NewPasteCmd(o),
		commands.NewDropCmd(o),
		newVersionCmd(),
	)
	return cmd
}

// logLevel maps the debug flag to a zerolog level
func logLevel(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), FormatVersion())
			return err
		},
	}
}
