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
	"strings"
	"unicode/utf8"

	"github.com/walteh/pasterules/pkg/content"
	"github.com/walteh/pasterules/pkg/rule"
)

// Leaf is a text node together with where it sits in the tree.
type Leaf struct {
	Text *content.Text
	// Parent is nil for the top level of the pasted fragment.
	Parent *content.Element
	// Index is the position of Text among its siblings.
	Index int
}

// Transform rewrites a single text leaf against one regex rule and returns the
// nodes replacing it. Unmatched text is kept with its marks.
func Transform(leaf Leaf, r rule.RegexRule) ([]content.Node, error) {
	base := r.Common()
	name := base.DisplayName(r.Kind())
	t := leaf.Text

	if mr, ok := r.(*rule.MarkRule); ok && leaf.Parent != nil && !leaf.Parent.AllowsMark(mr.MarkType.Name) {
		return []content.Node{t}, nil
	}

	matches, err := FindMatches(r.Pattern(), t.Text)
	if err != nil {
		return nil, &TransformError{Rule: name, Stage: StageMatch, Err: err}
	}
	if len(matches) == 0 {
		return []content.Node{t}, nil
	}

	textRule, isText := r.(*rule.TextRule)
	replacesWhole := isText && textRule.TransformMatch != nil

	var nodes []content.Node
	pos := 0
	for i := range matches {
		m := &matches[i]

		if base.IgnoreWhitespace && m.HasCapture && strings.TrimSpace(m.CapturedValue) == "" {
			continue
		}
		if base.StartOfTextBlock && (leaf.Index != 0 || m.Start != 0) {
			continue
		}

		if m.Start > pos {
			nodes = append(nodes, t.Cut(pos, m.Start))
		}

		span := t.Cut(m.Start, m.End)
		capStart := runeIndex(m.FullValue, m.CapturedValue)
		if !replacesWhole && m.HasCapture && m.CapturedValue != "" && capStart >= 0 {
			// Only the whitespace prefix survives. Unlike a plain
			// first-non-whitespace search, the prefix is clamped to the
			// capture start, so a capture group that itself begins with
			// whitespace never has those characters emitted twice.
			if lead := min(leadingSpace(m.FullValue), capStart); lead > 0 {
				nodes = append(nodes, t.Cut(m.Start, m.Start+lead))
			}
			textStart := m.Start + capStart
			span = t.Cut(textStart, textStart+utf8.RuneCountInString(m.CapturedValue))
		}

		out, err := apply(r, name, span, m)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, out...)
		pos = m.End
	}

	if pos < t.TextLength() {
		nodes = append(nodes, t.Cut(pos, -1))
	}
	return nodes, nil
}

func apply(r rule.RegexRule, name string, span *content.Text, m *rule.Match) ([]content.Node, error) {
	switch v := r.(type) {
	case *rule.MarkRule:
		attrs, err := rule.ResolveAttributes(v.Attributes, m)
		if err != nil {
			return nil, &TransformError{Rule: name, Stage: StageAttributes, Err: err}
		}
		mark := v.MarkType.Create(attrs)
		return []content.Node{span.WithMarks(span.Marks.AddToSet(mark))}, nil

	case *rule.NodeRule:
		attrs, err := rule.ResolveAttributes(v.Attributes, m)
		if err != nil {
			return nil, &TransformError{Rule: name, Stage: StageAttributes, Err: err}
		}
		var inner []content.Node
		if !v.NodeType.Leaf {
			inner = append(inner, span)
		}
		el, err := v.NodeType.Create(attrs, inner...)
		if err != nil {
			return nil, &TransformError{Rule: name, Stage: StageCreate, Err: err}
		}
		return []content.Node{el}, nil

	case *rule.TextRule:
		if v.TransformMatch == nil {
			return []content.Node{span}, nil
		}
		replacement, err := v.TransformMatch(m)
		if err != nil {
			return nil, &TransformError{Rule: name, Stage: StageTransformMatch, Err: err}
		}
		if replacement == "" {
			return nil, nil
		}
		return []content.Node{span.WithText(replacement)}, nil
	}
	return []content.Node{span}, nil
}
