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

// Package hosttest provides an in-memory host.View over a single textblock.
// Positions are rune offsets into the textblock's text.
package hosttest

import (
	"context"

	"github.com/walteh/pasterules/pkg/content"
	"github.com/walteh/pasterules/pkg/host"
	"gitlab.com/tozd/go/errors"
)

// Dispatch records one DispatchTransform call.
type Dispatch struct {
	Fragment content.Fragment
	From     int
	To       int
}

// View is an in-memory textblock. The zero value is an empty paragraph.
type View struct {
	// Parent is the textblock type name. Defaults to "paragraph".
	Parent       string
	ParentIsCode bool

	// Inline is the textblock content.
	Inline content.Fragment
	Sel    host.Selection

	// StoredMarks, when set, are active at every position.
	StoredMarks content.MarkSet

	// Coords maps drop coordinates. nil maps nothing.
	Coords func(x, y float64) (int, bool)

	// Unresolvable makes every ResolvePosition call fail.
	Unresolvable bool

	// DispatchErr makes every DispatchTransform call fail.
	DispatchErr error

	Dispatched []Dispatch
}

var _ host.View = (*View)(nil)

// NewView creates a paragraph holding inline nodes with the cursor at the end.
func NewView(inline ...content.Node) *View {
	frag := content.NewFragment(inline...)
	end := frag.TextLength()
	return &View{Parent: "paragraph", Inline: frag, Sel: host.Selection{Anchor: end, Head: end}}
}

// Text returns the text of the textblock.
func (v *View) Text() string {
	return v.Inline.TextContent()
}

func (v *View) ResolvePosition(pos int) (*host.ResolvedPos, error) {
	if v.Unresolvable || pos < 0 || pos > v.Inline.TextLength() {
		return nil, errors.Errorf("resolving %d: %w", pos, host.ErrUnresolvable)
	}
	parent := v.Parent
	if parent == "" {
		parent = "paragraph"
	}
	marks := v.StoredMarks
	if marks == nil {
		marks = v.marksAt(pos)
	}
	return &host.ResolvedPos{
		ParentName:     parent,
		ParentIsCode:   v.ParentIsCode,
		ActiveMarks:    marks.Names(),
		CodeMarkActive: marks.HasCode(),
	}, nil
}

// marksAt returns the marks of the text before pos, or after it at the start.
func (v *View) marksAt(pos int) content.MarkSet {
	offset := 0
	var found content.MarkSet
	v.Inline.ForEach(func(n content.Node, _ int) {
		l := n.TextLength()
		t, isText := n.(*content.Text)
		if isText && found == nil && ((pos > offset && pos <= offset+l) || (pos == 0 && offset == 0)) {
			found = t.Marks
			if found == nil {
				found = content.MarkSet{}
			}
		}
		offset += l
	})
	return found
}

func (v *View) CoordsToPosition(x, y float64) (int, bool) {
	if v.Coords == nil {
		return 0, false
	}
	return v.Coords(x, y)
}

func (v *View) Selection() host.Selection {
	return v.Sel
}

// DispatchTransform splices the fragment into the textblock. A fragment made
// of a single non-leaf element contributes its content, as an open slice does.
func (v *View) DispatchTransform(_ context.Context, frag content.Fragment, from, to int) error {
	if v.DispatchErr != nil {
		return v.DispatchErr
	}
	if from < 0 || to < from || to > v.Inline.TextLength() {
		return errors.Errorf("range [%d, %d): %w", from, to, host.ErrUnresolvable)
	}
	v.Dispatched = append(v.Dispatched, Dispatch{Fragment: frag, From: from, To: to})

	inserted := frag
	if frag.Len() == 1 {
		if el, ok := frag.Child(0).(*content.Element); ok && !el.IsLeaf() {
			inserted = el.Content
		}
	}

	nodes := slice(v.Inline, 0, from)
	nodes = append(nodes, inserted.Nodes()...)
	nodes = append(nodes, slice(v.Inline, to, -1)...)
	v.Inline = content.NewFragment(nodes...)

	end := from + inserted.TextLength()
	v.Sel = host.Selection{Anchor: end, Head: end}
	return nil
}

// slice returns the inline nodes within [from, to). A negative to means the
// end. Elements are never split: they belong to the side their start falls on.
func slice(f content.Fragment, from, to int) []content.Node {
	var out []content.Node
	offset := 0
	f.ForEach(func(n content.Node, _ int) {
		start := offset
		end := offset + n.TextLength()
		offset = end

		switch v := n.(type) {
		case *content.Text:
			lo, hi := max(start, from), end
			if to >= 0 {
				hi = min(end, to)
			}
			if lo < hi {
				out = append(out, v.Cut(lo-start, hi-start))
			}
		default:
			if start >= from && (to < 0 || start < to) {
				out = append(out, n)
			}
		}
	})
	return out
}
