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

package transform

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/pasterules/pkg/content"
	"github.com/walteh/pasterules/pkg/rule"
)

// 🔧 Options configure code-region classification. A nil predicate falls back
// to the code flag of the node or mark type.
type Options struct {
	IsCodeNode func(typeName string) bool
	IsCodeMark func(typeName string) bool
}

// SchemaOptions classifies code regions with the schema's predicates.
func SchemaOptions(s *content.Schema) Options {
	return Options{IsCodeNode: s.IsCodeNode, IsCodeMark: s.IsCodeMark}
}

func (o Options) codeNode(el *content.Element) bool {
	if o.IsCodeNode != nil {
		return o.IsCodeNode(el.TypeName())
	}
	return el.IsCode()
}

func (o Options) codeMarks(set content.MarkSet) bool {
	if o.IsCodeMark == nil {
		return set.HasCode()
	}
	for _, m := range set {
		if o.IsCodeMark(m.Name()) {
			return true
		}
	}
	return false
}

// frame is one element being rebuilt on the scan worklist.
type frame struct {
	el       *content.Element
	children content.Fragment
	next     int
	out      []content.Node
}

// Scan rebuilds frag with one rule applied to every reachable text leaf.
// Ignored and code elements are copied without being entered; text carrying an
// ignored or code mark is copied as is. frag itself is never modified.
func Scan(ctx context.Context, frag content.Fragment, r rule.RegexRule, opts Options) (content.Fragment, error) {
	base := r.Common()
	stack := []*frame{{children: frag}}
	leaves := 0

	for {
		top := stack[len(stack)-1]

		if top.next == top.children.Len() {
			built := content.NewFragment(top.out...)
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				zerolog.Ctx(ctx).Debug().
					Str("rule", base.DisplayName(r.Kind())).
					Int("leaves", leaves).
					Msg("scanned fragment")
				return built, nil
			}
			parent := stack[len(stack)-1]
			parent.out = append(parent.out, top.el.Copy(built))
			continue
		}

		idx := top.next
		top.next++

		switch n := top.children.Child(idx).(type) {
		case *content.Element:
			if base.IgnoresNode(n.TypeName()) || opts.codeNode(n) || n.IsLeaf() ||
				base.IgnoresAnyMark(n.Marks.Names()) || opts.codeMarks(n.Marks) {
				top.out = append(top.out, n)
				continue
			}
			stack = append(stack, &frame{el: n, children: n.Content})

		case *content.Text:
			if base.IgnoresAnyMark(n.Marks.Names()) || opts.codeMarks(n.Marks) {
				top.out = append(top.out, n)
				continue
			}
			leaves++
			nodes, err := Transform(Leaf{Text: n, Parent: top.el, Index: idx}, r)
			if err != nil {
				return content.EmptyFragment, err
			}
			top.out = append(top.out, nodes...)
		}
	}
}

// Apply runs Scan once per rule in the given order, each rule reading the
// previous rule's output.
func Apply(ctx context.Context, frag content.Fragment, rules []rule.RegexRule, opts Options) (content.Fragment, error) {
	cur := frag
	for _, r := range rules {
		next, err := Scan(ctx, cur, r, opts)
		if err != nil {
			return content.EmptyFragment, err
		}
		cur = next
	}
	return cur, nil
}
