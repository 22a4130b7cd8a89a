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

package content

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TextTypeName is the type name every text leaf reports.
const TextTypeName = "text"

// 🌳 Node is a content tree node: either *Text or *Element.
type Node interface {
	// TypeName returns the schema type name of the node.
	TypeName() string
	// TextContent concatenates all text below the node.
	TextContent() string
	// TextLength is the rune length of TextContent.
	TextLength() int

	sealed()
}

// 📝 Text is a leaf holding a run of characters and its marks.
type Text struct {
	Text  string
	Marks MarkSet
}

// NewText creates a text leaf.
func NewText(text string, marks MarkSet) *Text {
	return &Text{Text: text, Marks: marks}
}

func (t *Text) sealed() {}

func (t *Text) TypeName() string { return TextTypeName }

func (t *Text) TextContent() string { return t.Text }

func (t *Text) TextLength() int { return utf8.RuneCountInString(t.Text) }

// Cut returns a new leaf with the runes in [from, to) and the same marks. A
// negative to means the end of the text.
func (t *Text) Cut(from, to int) *Text {
	runes := []rune(t.Text)
	if to < 0 || to > len(runes) {
		to = len(runes)
	}
	if from < 0 {
		from = 0
	}
	if from > to {
		from = to
	}
	return &Text{Text: string(runes[from:to]), Marks: t.Marks}
}

// WithText returns a copy carrying different text.
func (t *Text) WithText(text string) *Text {
	return &Text{Text: text, Marks: t.Marks}
}

// WithMarks returns a copy carrying a different mark set.
func (t *Text) WithMarks(marks MarkSet) *Text {
	return &Text{Text: t.Text, Marks: marks}
}

func (t *Text) String() string {
	if len(t.Marks) == 0 {
		return fmt.Sprintf("%q", t.Text)
	}
	return fmt.Sprintf("%s(%q)", t.Marks.String(), t.Text)
}

// 📦 Element is a typed container (or leaf, such as an image) with children.
type Element struct {
	Type    *NodeType
	Attrs   Attrs
	Content Fragment
	Marks   MarkSet
}

func (e *Element) sealed() {}

func (e *Element) TypeName() string {
	if e.Type == nil {
		return ""
	}
	return e.Type.Name
}

func (e *Element) TextContent() string { return e.Content.TextContent() }

func (e *Element) TextLength() int { return e.Content.TextLength() }

// IsLeaf reports whether the element may not hold content.
func (e *Element) IsLeaf() bool {
	return e.Type != nil && e.Type.Leaf
}

// IsCode reports whether the element is a code region.
func (e *Element) IsCode() bool {
	return e.Type != nil && e.Type.IsCode()
}

// AllowsMark reports whether inline content of the element may carry the
// named mark.
func (e *Element) AllowsMark(name string) bool {
	if e.Type == nil {
		return true
	}
	return e.Type.AllowsMark(name)
}

// Copy returns a new element of the same type, attributes and marks with
// different content.
func (e *Element) Copy(content Fragment) *Element {
	return &Element{Type: e.Type, Attrs: e.Attrs, Content: content, Marks: e.Marks}
}

func (e *Element) String() string {
	if e.Content.Len() == 0 {
		return e.TypeName()
	}
	return e.TypeName() + "(" + joinNodes(e.Content.nodes) + ")"
}

// Equal reports whether two nodes are structurally identical.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Text:
		y, ok := b.(*Text)
		return ok && x.Text == y.Text && x.Marks.Eq(y.Marks)
	case *Element:
		y, ok := b.(*Element)
		return ok &&
			x.TypeName() == y.TypeName() &&
			x.Attrs.Equal(y.Attrs) &&
			x.Marks.Eq(y.Marks) &&
			x.Content.Eq(y.Content)
	}
	return a == nil && b == nil
}

func joinNodes(nodes []Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, fmt.Sprint(n))
	}
	return strings.Join(parts, ", ")
}
