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
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
	"github.com/walteh/pasterules/cmd/pasterc/opts"
	"github.com/walteh/pasterules/pkg/config"
	"github.com/walteh/pasterules/pkg/host"
	"github.com/walteh/pasterules/pkg/host/hosttest"
	"github.com/walteh/pasterules/pkg/log"
	"github.com/walteh/pasterules/pkg/paste"
	"gitlab.com/tozd/go/errors"
)

// NewDropCmd creates a new drop command
func NewDropCmd(o *opts.RootOpts) *cobra.Command {
	var rulesPath string
	cmd := &cobra.Command{
		Use:   "drop PATH...",
		Short: "Drop files onto the editor",
		Long: `Drop sniffs the MIME type of each file and runs a drop event carrying
them through the file rules of a rule file. Rule files may use the built-in
handlers "accept" (claims the files) and "log" (records them and passes).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rec := &fileRecorder{}
			set, err := config.Compile(ctx, rulesPath, o.Schema, rec.handlers())
			if err != nil {
				return errors.Errorf("loading rules: %w", err)
			}

			files := make([]host.File, 0, len(args))
			for _, path := range args {
				f, err := readFile(path)
				if err != nil {
					return err
				}
				files = append(files, f)
			}

			h, err := paste.New(paste.Options{Rules: set, View: hosttest.NewView(), Schema: o.Schema})
			if err != nil {
				return errors.Errorf("creating handler: %w", err)
			}

			ev := &host.Event{Type: host.EventDrop, Files: files}
			handled, herr := h.Handle(ctx, ev)

			o.Logger.StartSession(ctx, rulesPath)
			for _, f := range rec.seen {
				o.Logger.Infof("offered %s (%s)", f.Name, f.MimeType)
			}
			for _, f := range rec.accepted {
				o.Logger.Successf("accepted %s (%s, %d bytes)", f.Name, f.MimeType, f.Size)
			}
			o.Logger.LogEvent(ctx, log.EventReport{
				Event:   string(ev.Type),
				Source:  sources(files),
				Status:  status(handled, herr),
				Handled: handled,
				Files:   len(files),
				Claimed: rec.claimedBy,
			})
			o.Logger.EndSession(ctx)

			if herr != nil {
				return errors.Errorf("handling drop: %w", herr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "rule file path")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

// readFile loads a file and sniffs its MIME type, without parameters
func readFile(path string) (host.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return host.File{}, errors.Errorf("reading %s: %w", path, err)
	}
	mt, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return host.File{
		Name:     filepath.Base(path),
		MimeType: strings.TrimSpace(mt),
		Size:     int64(len(data)),
		Data:     data,
	}, nil
}

func sources(files []host.File) string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return strings.Join(names, ",")
}
