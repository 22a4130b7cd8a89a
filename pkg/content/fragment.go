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

import "strings"

// Fragment is an immutable ordered sequence of sibling nodes.
type Fragment struct {
	nodes []Node
}

// EmptyFragment holds no nodes.
var EmptyFragment = Fragment{}

// NewFragment builds a fragment from nodes. Empty text leaves are dropped and
// adjacent text leaves with equal marks are joined.
func NewFragment(nodes ...Node) Fragment {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		t, ok := n.(*Text)
		if !ok {
			out = append(out, n)
			continue
		}
		if t.Text == "" {
			continue
		}
		if len(out) > 0 {
			if prev, ok := out[len(out)-1].(*Text); ok && prev.Marks.Eq(t.Marks) {
				out[len(out)-1] = &Text{Text: prev.Text + t.Text, Marks: prev.Marks}
				continue
			}
		}
		out = append(out, t)
	}
	return Fragment{nodes: out}
}

// Len returns the number of direct children.
func (f Fragment) Len() int { return len(f.nodes) }

// Child returns the i-th child.
func (f Fragment) Child(i int) Node { return f.nodes[i] }

// Nodes returns a copy of the children.
func (f Fragment) Nodes() []Node {
	out := make([]Node, len(f.nodes))
	copy(out, f.nodes)
	return out
}

// ForEach calls fn with every direct child and its index.
func (f Fragment) ForEach(fn func(n Node, i int)) {
	for i, n := range f.nodes {
		fn(n, i)
	}
}

// TextContent concatenates the text of every descendant.
func (f Fragment) TextContent() string {
	var sb strings.Builder
	for _, n := range f.nodes {
		sb.WriteString(n.TextContent())
	}
	return sb.String()
}

// TextLength is the rune length of TextContent.
func (f Fragment) TextLength() int {
	total := 0
	for _, n := range f.nodes {
		total += n.TextLength()
	}
	return total
}

// Eq reports whether both fragments are structurally identical.
func (f Fragment) Eq(o Fragment) bool {
	if len(f.nodes) != len(o.nodes) {
		return false
	}
	for i := range f.nodes {
		if !Equal(f.nodes[i], o.nodes[i]) {
			return false
		}
	}
	return true
}

func (f Fragment) String() string {
	return "<" + joinNodes(f.nodes) + ">"
}
