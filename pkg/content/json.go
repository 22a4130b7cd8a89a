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
	"bytes"
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

type markJSON struct {
	Type  string `json:"type"`
	Attrs Attrs  `json:"attrs,omitempty"`
}

type nodeJSON struct {
	Type    string     `json:"type"`
	Attrs   Attrs      `json:"attrs,omitempty"`
	Text    string     `json:"text,omitempty"`
	Marks   []markJSON `json:"marks,omitempty"`
	Content []nodeJSON `json:"content,omitempty"`
}

// MarshalJSON encodes the fragment as an array of nodes.
func (f Fragment) MarshalJSON() ([]byte, error) {
	return json.Marshal(fragmentToJSON(f))
}

func fragmentToJSON(f Fragment) []nodeJSON {
	out := make([]nodeJSON, 0, f.Len())
	f.ForEach(func(n Node, _ int) {
		out = append(out, nodeToJSON(n))
	})
	return out
}

func nodeToJSON(n Node) nodeJSON {
	switch v := n.(type) {
	case *Text:
		return nodeJSON{Type: TextTypeName, Text: v.Text, Marks: marksToJSON(v.Marks)}
	case *Element:
		return nodeJSON{
			Type:    v.TypeName(),
			Attrs:   v.Attrs,
			Marks:   marksToJSON(v.Marks),
			Content: fragmentToJSON(v.Content),
		}
	}
	return nodeJSON{}
}

func marksToJSON(set MarkSet) []markJSON {
	if len(set) == 0 {
		return nil
	}
	out := make([]markJSON, 0, len(set))
	for _, m := range set {
		out = append(out, markJSON{Type: m.Name(), Attrs: m.Attrs})
	}
	return out
}

// FragmentFromJSON decodes a JSON array of nodes against the schema.
func (s *Schema) FragmentFromJSON(data []byte) (Fragment, error) {
	var raw []nodeJSON
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		return EmptyFragment, errors.Errorf("parsing JSON: %w", err)
	}
	return s.fragmentFromJSON(raw)
}

func (s *Schema) fragmentFromJSON(raw []nodeJSON) (Fragment, error) {
	nodes := make([]Node, 0, len(raw))
	for i, rn := range raw {
		n, err := s.nodeFromJSON(rn)
		if err != nil {
			return EmptyFragment, errors.Errorf("node %d: %w", i, err)
		}
		nodes = append(nodes, n)
	}
	return NewFragment(nodes...), nil
}

func (s *Schema) nodeFromJSON(rn nodeJSON) (Node, error) {
	marks, err := s.marksFromJSON(rn.Marks)
	if err != nil {
		return nil, err
	}

	if rn.Type == TextTypeName {
		if rn.Text == "" {
			return nil, errors.Errorf("empty text node")
		}
		return NewText(rn.Text, marks), nil
	}

	nt, ok := s.NodeType(rn.Type)
	if !ok {
		return nil, errors.Errorf("node %q: %w", rn.Type, ErrUnknownType)
	}
	children, err := s.fragmentFromJSON(rn.Content)
	if err != nil {
		return nil, errors.Errorf("%s: %w", rn.Type, err)
	}
	el, err := nt.Create(rn.Attrs, children.nodes...)
	if err != nil {
		return nil, err
	}
	el.Marks = marks
	return el, nil
}

func (s *Schema) marksFromJSON(raw []markJSON) (MarkSet, error) {
	var set MarkSet
	for _, rm := range raw {
		m, err := s.Mark(rm.Type, rm.Attrs)
		if err != nil {
			return nil, err
		}
		set = set.AddToSet(m)
	}
	return set, nil
}
