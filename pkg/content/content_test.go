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

package content_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/pasterules/pkg/content"
	"github.com/walteh/pasterules/pkg/content/basic"
	"gitlab.com/tozd/go/errors"
)

func TestNewFragment(t *testing.T) {
	s := basic.Schema
	strong, err := s.Mark("strong", nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		nodes []content.Node
		want  []string
	}{
		{
			name:  "joins_adjacent_plain_text",
			nodes: []content.Node{s.Text("Hello "), s.Text("World")},
			want:  []string{`"Hello World"`},
		},
		{
			name:  "keeps_different_marks_apart",
			nodes: []content.Node{s.Text("a"), s.Text("b", strong), s.Text("c")},
			want:  []string{`"a"`, `strong("b")`, `"c"`},
		},
		{
			name:  "drops_empty_text",
			nodes: []content.Node{s.Text(""), s.Text("x"), nil},
			want:  []string{`"x"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag := content.NewFragment(tt.nodes...)
			got := make([]string, 0, frag.Len())
			frag.ForEach(func(n content.Node, _ int) {
				got = append(got, n.(*content.Text).String())
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestText_Cut(t *testing.T) {
	txt := content.NewText("héllo wörld", nil)

	assert.Equal(t, "héllo", txt.Cut(0, 5).Text)
	assert.Equal(t, "wörld", txt.Cut(6, -1).Text)
	assert.Equal(t, "", txt.Cut(8, 3).Text, "inverted range should be empty")
	assert.Equal(t, 11, txt.TextLength())
}

func TestMarkSet_AddToSet(t *testing.T) {
	s := basic.Schema
	link1, err := s.Mark("link", content.Attrs{"href": "a"})
	require.NoError(t, err)
	link2, err := s.Mark("link", content.Attrs{"href": "b"})
	require.NoError(t, err)
	strong, err := s.Mark("strong", nil)
	require.NoError(t, err)
	em, err := s.Mark("em", nil)
	require.NoError(t, err)

	set := content.MarkSet{}.AddToSet(strong).AddToSet(link1).AddToSet(em)
	assert.Equal(t, []string{"link", "em", "strong"}, set.Names(), "marks should be ordered by rank")

	replaced := set.AddToSet(link2)
	assert.Equal(t, []string{"link", "em", "strong"}, replaced.Names())
	assert.Equal(t, "b", replaced[0].Attrs["href"], "same-type mark should be replaced")
	assert.Equal(t, "a", set[0].Attrs["href"], "original set should be untouched")
}

func TestSchema_CodeClassification(t *testing.T) {
	s, err := content.NewSchema(
		[]content.NodeSpec{
			{Name: "paragraph", Group: "block"},
			{Name: "code_block", Group: "block code"},
			{Name: "listing", Code: true},
		},
		[]content.MarkSpec{
			{Name: "strong"},
			{Name: "code", Code: true},
			{Name: "kbd", Group: "code"},
		},
	)
	require.NoError(t, err)

	assert.False(t, s.IsCodeNode("paragraph"))
	assert.True(t, s.IsCodeNode("code_block"), "code group membership should classify as code")
	assert.True(t, s.IsCodeNode("listing"), "code flag should classify as code")
	assert.False(t, s.IsCodeNode("missing"))

	assert.False(t, s.IsCodeMark("strong"))
	assert.True(t, s.IsCodeMark("code"))
	assert.True(t, s.IsCodeMark("kbd"))
}

func TestSchema_Errors(t *testing.T) {
	_, err := content.NewSchema([]content.NodeSpec{{Name: "p"}, {Name: "p"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared twice")

	bad := "nope"
	_, err = content.NewSchema([]content.NodeSpec{{Name: "p", Marks: &bad}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, content.ErrUnknownType))

	_, err = basic.Schema.Node("image", nil, basic.Schema.Text("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, content.ErrLeafContent))

	_, err = basic.Schema.Mark("blink", nil)
	assert.True(t, errors.Is(err, content.ErrUnknownType))
}

func TestNodeType_AllowsMark(t *testing.T) {
	codeBlock, ok := basic.Schema.NodeType("code_block")
	require.True(t, ok)
	para, ok := basic.Schema.NodeType("paragraph")
	require.True(t, ok)

	assert.False(t, codeBlock.AllowsMark("strong"))
	assert.True(t, para.AllowsMark("strong"))
}

func TestFragmentJSON(t *testing.T) {
	s := basic.Schema
	data := []byte(`[
		{"type": "paragraph", "content": [
			{"type": "text", "text": "see "},
			{"type": "text", "text": "docs", "marks": [{"type": "link", "attrs": {"href": "https://x.dev"}}]}
		]},
		{"type": "code_block", "content": [{"type": "text", "text": "a := 1"}]}
	]`)

	frag, err := s.FragmentFromJSON(data)
	require.NoError(t, err)
	require.Equal(t, 2, frag.Len())
	assert.Equal(t, "see docsa := 1", frag.TextContent())

	para := frag.Child(0).(*content.Element)
	link := para.Content.Child(1).(*content.Text)
	assert.Equal(t, "https://x.dev", link.Marks[0].Attrs["href"])
	assert.Nil(t, link.Marks[0].Attrs["title"], "defaults should be applied")

	encoded, err := frag.MarshalJSON()
	require.NoError(t, err)
	again, err := s.FragmentFromJSON(encoded)
	require.NoError(t, err)
	assert.True(t, frag.Eq(again), "decoded fragment should equal the original")

	_, err = s.FragmentFromJSON([]byte(`[{"type": "table"}]`))
	assert.True(t, errors.Is(err, content.ErrUnknownType))
}
