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

// 🏷️ MarkType is a named inline annotation type registered in a Schema.
type MarkType struct {
	Name   string
	Groups []string
	// Rank orders marks inside a MarkSet. It follows schema declaration order.
	Rank     int
	code     bool
	defaults map[string]any
}

// IsCode reports whether text carrying this mark is opaque to regex rules.
func (t *MarkType) IsCode() bool {
	return t.code
}

// InGroup reports whether the type belongs to the named group.
func (t *MarkType) InGroup(group string) bool {
	for _, g := range t.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// Create builds a mark of this type. Missing attributes take their defaults.
func (t *MarkType) Create(attrs Attrs) Mark {
	return Mark{Type: t, Attrs: withDefaults(t.defaults, attrs)}
}

// Mark is an annotation attached to a text leaf.
type Mark struct {
	Type  *MarkType
	Attrs Attrs
}

// Name returns the mark's type name.
func (m Mark) Name() string {
	if m.Type == nil {
		return ""
	}
	return m.Type.Name
}

// Eq reports whether both marks share a type and attributes.
func (m Mark) Eq(o Mark) bool {
	return m.Name() == o.Name() && m.Attrs.Equal(o.Attrs)
}

// MarkSet is an ordered set of marks, at most one per mark type.
type MarkSet []Mark

// AddToSet returns a new set containing m. An existing mark of the same type is
// replaced; otherwise m is inserted by rank.
func (s MarkSet) AddToSet(m Mark) MarkSet {
	out := make(MarkSet, 0, len(s)+1)
	placed := false
	for _, cur := range s {
		if cur.Name() == m.Name() {
			if !placed {
				out = append(out, m)
				placed = true
			}
			continue
		}
		if !placed && m.Type != nil && cur.Type != nil && m.Type.Rank < cur.Type.Rank {
			out = append(out, m)
			placed = true
		}
		out = append(out, cur)
	}
	if !placed {
		out = append(out, m)
	}
	return out
}

// Has reports whether the set holds a mark with the given type name.
func (s MarkSet) Has(name string) bool {
	for _, m := range s {
		if m.Name() == name {
			return true
		}
	}
	return false
}

// HasCode reports whether any mark in the set is a code mark.
func (s MarkSet) HasCode() bool {
	for _, m := range s {
		if m.Type != nil && m.Type.IsCode() {
			return true
		}
	}
	return false
}

// Names lists the type names in set order.
func (s MarkSet) Names() []string {
	names := make([]string, 0, len(s))
	for _, m := range s {
		names = append(names, m.Name())
	}
	return names
}

// Eq reports whether both sets hold equal marks in the same order.
func (s MarkSet) Eq(o MarkSet) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !s[i].Eq(o[i]) {
			return false
		}
	}
	return true
}

func (s MarkSet) String() string {
	return strings.Join(s.Names(), ",")
}
