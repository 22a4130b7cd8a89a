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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// CodeGroup is the group name that marks a node or mark type as code.
const CodeGroup = "code"

var (
	// ErrUnknownType is returned when a schema lookup misses.
	ErrUnknownType = errors.Base("unknown type")
	// ErrLeafContent is returned when content is given to a leaf node type.
	ErrLeafContent = errors.Base("leaf node cannot hold content")
)

// NodeSpec declares a node type.
type NodeSpec struct {
	Name string
	// Group is a space separated list of group names.
	Group string
	// Code marks the type as opaque to every regex rule.
	Code bool
	// Leaf types hold no content (images, hard breaks).
	Leaf bool
	// Inline types live inside textblocks.
	Inline bool
	// Marks lists the mark names or groups allowed inside the node. nil or "_"
	// allows all marks, "" allows none.
	Marks *string
	Attrs map[string]any
}

// MarkSpec declares a mark type.
type MarkSpec struct {
	Name  string
	Group string
	Code  bool
	Attrs map[string]any
}

// 🧩 NodeType is a named node type registered in a Schema.
type NodeType struct {
	Name     string
	Groups   []string
	Leaf     bool
	Inline   bool
	code     bool
	defaults map[string]any
	// nil allows every mark
	allowed map[string]bool
}

// IsCode reports whether elements of this type are code regions.
func (t *NodeType) IsCode() bool {
	return t.code
}

// InGroup reports whether the type belongs to the named group.
func (t *NodeType) InGroup(group string) bool {
	for _, g := range t.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// AllowsMark reports whether inline content of this type may carry the mark.
func (t *NodeType) AllowsMark(name string) bool {
	if t.allowed == nil {
		return true
	}
	return t.allowed[name]
}

// Create builds an element of this type around content.
func (t *NodeType) Create(attrs Attrs, content ...Node) (*Element, error) {
	frag := NewFragment(content...)
	if t.Leaf && frag.Len() > 0 {
		return nil, errors.Errorf("creating %s: %w", t.Name, ErrLeafContent)
	}
	return &Element{Type: t, Attrs: withDefaults(t.defaults, attrs), Content: frag}, nil
}

// 📚 Schema is the set of node and mark types a document may use.
type Schema struct {
	nodes map[string]*NodeType
	marks map[string]*MarkType
}

// NewSchema builds a schema. Mark order sets mark rank.
func NewSchema(nodes []NodeSpec, marks []MarkSpec) (*Schema, error) {
	s := &Schema{
		nodes: make(map[string]*NodeType, len(nodes)),
		marks: make(map[string]*MarkType, len(marks)),
	}

	for i, spec := range marks {
		if spec.Name == "" {
			return nil, errors.Errorf("mark %d: name is required", i)
		}
		if _, dup := s.marks[spec.Name]; dup {
			return nil, errors.Errorf("mark %q declared twice", spec.Name)
		}
		groups := strings.Fields(spec.Group)
		mt := &MarkType{
			Name:     spec.Name,
			Groups:   groups,
			Rank:     i,
			defaults: spec.Attrs,
		}
		mt.code = spec.Code || mt.InGroup(CodeGroup)
		s.marks[spec.Name] = mt
	}

	for i, spec := range nodes {
		if spec.Name == "" {
			return nil, errors.Errorf("node %d: name is required", i)
		}
		if spec.Name == TextTypeName {
			// text leaves are built in
			continue
		}
		if _, dup := s.nodes[spec.Name]; dup {
			return nil, errors.Errorf("node %q declared twice", spec.Name)
		}
		nt := &NodeType{
			Name:     spec.Name,
			Groups:   strings.Fields(spec.Group),
			Leaf:     spec.Leaf,
			Inline:   spec.Inline,
			defaults: spec.Attrs,
		}
		nt.code = spec.Code || nt.InGroup(CodeGroup)
		allowed, err := s.resolveAllowedMarks(spec.Marks)
		if err != nil {
			return nil, errors.Errorf("node %q: %w", spec.Name, err)
		}
		nt.allowed = allowed
		s.nodes[spec.Name] = nt
	}

	return s, nil
}

func (s *Schema) resolveAllowedMarks(spec *string) (map[string]bool, error) {
	if spec == nil || strings.TrimSpace(*spec) == "_" {
		return nil, nil
	}
	allowed := map[string]bool{}
	for _, name := range strings.Fields(*spec) {
		if _, ok := s.marks[name]; ok {
			allowed[name] = true
			continue
		}
		found := false
		for _, mt := range s.marks {
			if mt.InGroup(name) {
				allowed[mt.Name] = true
				found = true
			}
		}
		if !found {
			return nil, errors.Errorf("allowed mark %q: %w", name, ErrUnknownType)
		}
	}
	return allowed, nil
}

// NodeType looks up a node type by name.
func (s *Schema) NodeType(name string) (*NodeType, bool) {
	nt, ok := s.nodes[name]
	return nt, ok
}

// MarkType looks up a mark type by name.
func (s *Schema) MarkType(name string) (*MarkType, bool) {
	mt, ok := s.marks[name]
	return mt, ok
}

// IsCodeNode reports whether the named node type is a code region.
func (s *Schema) IsCodeNode(name string) bool {
	nt, ok := s.nodes[name]
	return ok && nt.IsCode()
}

// IsCodeMark reports whether the named mark type is a code mark.
func (s *Schema) IsCodeMark(name string) bool {
	mt, ok := s.marks[name]
	return ok && mt.IsCode()
}

// Text creates a text leaf.
func (s *Schema) Text(text string, marks ...Mark) *Text {
	var set MarkSet
	for _, m := range marks {
		set = set.AddToSet(m)
	}
	return NewText(text, set)
}

// Mark creates a mark of the named type.
func (s *Schema) Mark(name string, attrs Attrs) (Mark, error) {
	mt, ok := s.marks[name]
	if !ok {
		return Mark{}, errors.Errorf("mark %q: %w", name, ErrUnknownType)
	}
	return mt.Create(attrs), nil
}

// Node creates an element of the named type.
func (s *Schema) Node(name string, attrs Attrs, content ...Node) (*Element, error) {
	nt, ok := s.nodes[name]
	if !ok {
		return nil, errors.Errorf("node %q: %w", name, ErrUnknownType)
	}
	return nt.Create(attrs, content...)
}
