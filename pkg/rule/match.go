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

package rule

import "github.com/walteh/pasterules/pkg/content"

// Match is one regex execution over a text leaf. Offsets are rune offsets.
type Match struct {
	FullValue     string
	CapturedValue string
	// HasCapture is false when the pattern has no first group or it did not
	// participate in the match.
	HasCapture bool
	Start      int
	End        int
	// Groups holds every group value, Groups[0] being FullValue.
	Groups []string
}

// Group returns the i-th group value, or "" when out of range.
func (m *Match) Group(i int) string {
	if i < 0 || i >= len(m.Groups) {
		return ""
	}
	return m.Groups[i]
}

// Attributes yields the attributes of a mark or node created by a rule. It is
// either Static or Computed.
type Attributes interface {
	Resolve(m *Match) (content.Attrs, error)

	sealed()
}

type staticAttributes struct {
	attrs content.Attrs
}

func (s staticAttributes) Resolve(*Match) (content.Attrs, error) { return s.attrs.Clone(), nil }
func (s staticAttributes) sealed() {}

type computedAttributes struct {
	fn func(m *Match) (content.Attrs, error)
}

func (c computedAttributes) Resolve(m *Match) (content.Attrs, error) { return c.fn(m) }
func (c computedAttributes) sealed() {}

// Static returns attributes that never depend on the match.
func Static(attrs content.Attrs) Attributes {
	return staticAttributes{attrs: attrs}
}

// Computed returns attributes derived from each match.
func Computed(fn func(m *Match) (content.Attrs, error)) Attributes {
	return computedAttributes{fn: fn}
}

// ResolveAttributes resolves a, treating nil as no attributes.
func ResolveAttributes(a Attributes, m *Match) (content.Attrs, error) {
	if a == nil {
		return nil, nil
	}
	return a.Resolve(m)
}
