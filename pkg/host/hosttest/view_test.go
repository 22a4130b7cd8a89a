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

package hosttest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/pasterules/pkg/content"
	"github.com/walteh/pasterules/pkg/content/basic"
	"github.com/walteh/pasterules/pkg/host"
)

var schema = basic.Schema

func TestResolvePosition(t *testing.T) {
	strong, err := schema.Mark("strong", nil)
	require.NoError(t, err)
	code, err := schema.Mark("code", nil)
	require.NoError(t, err)

	view := NewView(schema.Text("ab"), schema.Text("cd", strong), schema.Text("ef", code))

	tests := []struct {
		pos      int
		marks    []string
		codeMark bool
	}{
		{pos: 0, marks: []string{}},
		{pos: 2, marks: []string{}},
		{pos: 3, marks: []string{"strong"}},
		{pos: 4, marks: []string{"strong"}},
		{pos: 5, marks: []string{"code"}, codeMark: true},
	}
	for _, tt := range tests {
		rp, err := view.ResolvePosition(tt.pos)
		require.NoError(t, err)
		assert.Equal(t, "paragraph", rp.ParentName)
		assert.ElementsMatch(t, tt.marks, rp.ActiveMarks, "marks at %d", tt.pos)
		assert.Equal(t, tt.codeMark, rp.CodeMarkActive, "code mark at %d", tt.pos)
	}

	_, err = view.ResolvePosition(7)
	assert.ErrorIs(t, err, host.ErrUnresolvable)

	view.Unresolvable = true
	_, err = view.ResolvePosition(0)
	assert.ErrorIs(t, err, host.ErrUnresolvable)
}

func TestStoredMarks(t *testing.T) {
	em, err := schema.Mark("em", nil)
	require.NoError(t, err)

	view := NewView()
	view.StoredMarks = content.MarkSet{em}
	rp, err := view.ResolvePosition(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"em"}, rp.ActiveMarks)
}

func TestDispatchTransform(t *testing.T) {
	image, err := schema.Node("image", content.Attrs{"src": "x.png"})
	require.NoError(t, err)
	para, err := schema.Node("paragraph", nil, schema.Text("new"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		frag    content.Fragment
		from    int
		to      int
		want    string
		wantSel int
	}{
		{name: "insert_text", frag: content.NewFragment(schema.Text("XY")), from: 2, to: 2, want: "heXYllo", wantSel: 4},
		{name: "replace_range", frag: content.NewFragment(schema.Text("J")), from: 0, to: 1, want: "Jello", wantSel: 1},
		{name: "unwrap_textblock", frag: content.NewFragment(para), from: 5, to: 5, want: "hellonew", wantSel: 8},
		{name: "leaf_element", frag: content.NewFragment(image), from: 5, to: 5, want: "hello", wantSel: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewView(schema.Text("hello"))
			require.NoError(t, view.DispatchTransform(context.Background(), tt.frag, tt.from, tt.to))
			assert.Equal(t, tt.want, view.Text())
			assert.Equal(t, host.Selection{Anchor: tt.wantSel, Head: tt.wantSel}, view.Selection())
			require.Len(t, view.Dispatched, 1)
		})
	}
}

func TestDispatchTransform_Errors(t *testing.T) {
	view := NewView(schema.Text("ab"))
	assert.ErrorIs(t, view.DispatchTransform(context.Background(), content.EmptyFragment, 1, 5), host.ErrUnresolvable)

	view.DispatchErr = assert.AnError
	assert.ErrorIs(t, view.DispatchTransform(context.Background(), content.EmptyFragment, 0, 0), assert.AnError)
	assert.Empty(t, view.Dispatched)
}
