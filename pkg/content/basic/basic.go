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

// Package basic defines a small CommonMark-like schema whose types paste rules
// can target out of the box.
package basic

import "github.com/walteh/pasterules/pkg/content"

var noMarks = ""

// Nodes are the node specs of the schema.
var Nodes = []content.NodeSpec{
	{Name: "doc"},
	{Name: "paragraph", Group: "block"},
	{Name: "blockquote", Group: "block"},
	{Name: "heading", Group: "block", Attrs: map[string]any{"level": 1}},
	// A code listing. Holds no marks and is never rewritten by paste rules.
	{Name: "code_block", Group: "block code", Marks: &noMarks, Attrs: map[string]any{"language": ""}},
	{Name: "text", Group: "inline", Inline: true},
	{Name: "image", Group: "inline", Inline: true, Leaf: true, Attrs: map[string]any{"src": "", "alt": nil, "title": nil}},
	{Name: "hard_break", Group: "inline", Inline: true, Leaf: true},
	{Name: "mention", Group: "inline", Inline: true, Attrs: map[string]any{"id": ""}},
}

// Marks are the mark specs of the schema, in rank order.
var Marks = []content.MarkSpec{
	{Name: "link", Attrs: map[string]any{"href": "", "title": nil}},
	{Name: "em"},
	{Name: "strong"},
	{Name: "code", Group: "code"},
}

// Schema is the ready-built basic schema.
var Schema = mustSchema()

func mustSchema() *content.Schema {
	s, err := content.NewSchema(Nodes, Marks)
	if err != nil {
		panic(err)
	}
	return s
}
