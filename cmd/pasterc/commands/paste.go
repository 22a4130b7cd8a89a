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
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/pasterules/cmd/pasterc/opts"
	"github.com/walteh/pasterules/pkg/config"
	"github.com/walteh/pasterules/pkg/content"
	"github.com/walteh/pasterules/pkg/host"
	"github.com/walteh/pasterules/pkg/host/hosttest"
	"github.com/walteh/pasterules/pkg/log"
	"github.com/walteh/pasterules/pkg/paste"
	"gitlab.com/tozd/go/errors"
)

type pasteFlags struct {
	rules  string
	text   string
	input  string
	doc    string
	parent string
	marks  []string
	json   bool
}

// NewPasteCmd creates a new paste command
func NewPasteCmd(o *opts.RootOpts) *cobra.Command {
	f := &pasteFlags{}
	cmd := &cobra.Command{
		Use:   "paste",
		Short: "Paste content through a rule file",
		Long: `Paste runs a paste event through the rules of a rule file.
The pasted content is either plain text (--text) or a JSON fragment (--input).
The cursor sits at the end of a textblock holding --doc, of type --parent,
with --marks active.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if (f.text == "") == (f.input == "") {
				return errors.Errorf("exactly one of --text or --input is required")
			}

			set, err := config.Compile(ctx, f.rules, o.Schema, (&fileRecorder{}).handlers())
			if err != nil {
				return errors.Errorf("loading rules: %w", err)
			}

			frag, source, err := readFragment(o.Schema, f)
			if err != nil {
				return err
			}

			view, err := newView(o.Schema, f.doc, f.parent, f.marks)
			if err != nil {
				return err
			}

			h, err := paste.New(paste.Options{Rules: set, View: view, Schema: o.Schema})
			if err != nil {
				return errors.Errorf("creating handler: %w", err)
			}

			ev := &host.Event{Type: host.EventPaste, Fragment: frag}
			handled, herr := h.Handle(ctx, ev)

			out := frag
			if n := len(view.Dispatched); n > 0 {
				out = view.Dispatched[n-1].Fragment
			}

			if f.json {
				if err := json.NewEncoder(cmd.OutOrStdout()).Encode(out); err != nil {
					return errors.Errorf("encoding fragment: %w", err)
				}
			} else {
				tree, err := renderTree(out)
				if err != nil {
					return errors.Errorf("rendering fragment: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), tree)
				o.Logger.Infof("textblock: %q", view.Text())
				o.Logger.LogEvent(ctx, log.EventReport{
					Event:    string(ev.Type),
					Source:   source,
					Status:   status(handled, herr),
					Handled:  handled,
					Fallback: handled && herr != nil,
					Rules:    len(set.RegexRules()),
				})
			}

			if herr != nil {
				return errors.Errorf("handling paste: %w", herr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.rules, "rules", "r", "", "rule file path")
	cmd.Flags().StringVarP(&f.text, "text", "t", "", "plain text to paste")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "JSON fragment file to paste")
	cmd.Flags().StringVar(&f.doc, "doc", "", "text already in the textblock")
	cmd.Flags().StringVar(&f.parent, "parent", "paragraph", "textblock node type")
	cmd.Flags().StringSliceVar(&f.marks, "marks", nil, "marks active at the cursor")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the inserted fragment as JSON")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

func status(handled bool, err error) string {
	switch {
	case handled && err != nil:
		return "fallback"
	case handled:
		return "handled"
	}
	return "not handled"
}

func readFragment(s *content.Schema, f *pasteFlags) (content.Fragment, string, error) {
	if f.text != "" {
		return content.NewFragment(s.Text(f.text)), "--text", nil
	}
	data, err := os.ReadFile(f.input)
	if err != nil {
		return content.EmptyFragment, "", errors.Errorf("reading input: %w", err)
	}
	frag, err := s.FragmentFromJSON(data)
	if err != nil {
		return content.EmptyFragment, "", errors.Errorf("decoding %s: %w", f.input, err)
	}
	return frag, f.input, nil
}

func newView(s *content.Schema, doc, parent string, marks []string) (*hosttest.View, error) {
	nt, ok := s.NodeType(parent)
	if !ok {
		return nil, errors.Errorf("node type %q is not in the schema", parent)
	}

	var active content.MarkSet
	for _, name := range marks {
		m, err := s.Mark(strings.TrimSpace(name), nil)
		if err != nil {
			return nil, errors.Errorf("active mark: %w", err)
		}
		active = active.AddToSet(m)
	}

	var inline []content.Node
	if doc != "" {
		inline = append(inline, s.Text(doc, active...))
	}
	view := hosttest.NewView(inline...)
	view.Parent = nt.Name
	view.ParentIsCode = nt.IsCode()
	if len(active) > 0 {
		view.StoredMarks = active
	}
	return view, nil
}

// renderTree draws the fragment as a pterm tree
func renderTree(f content.Fragment) (string, error) {
	root := pterm.TreeNode{Text: "fragment"}
	f.ForEach(func(n content.Node, _ int) {
		root.Children = append(root.Children, treeNode(n))
	})
	return pterm.DefaultTree.WithRoot(root).Srender()
}

func treeNode(n content.Node) pterm.TreeNode {
	el, ok := n.(*content.Element)
	if !ok {
		return pterm.TreeNode{Text: fmt.Sprint(n)}
	}
	label := el.TypeName()
	if len(el.Attrs) > 0 {
		parts := make([]string, 0, len(el.Attrs))
		for _, k := range slices.Sorted(maps.Keys(el.Attrs)) {
			parts = append(parts, fmt.Sprintf("%s=%v", k, el.Attrs[k]))
		}
		label += " {" + strings.Join(parts, " ") + "}"
	}
	node := pterm.TreeNode{Text: label}
	el.Content.ForEach(func(c content.Node, _ int) {
		node.Children = append(node.Children, treeNode(c))
	})
	return node
}
