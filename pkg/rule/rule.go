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

import (
	"github.com/dlclark/regexp2"
	"github.com/walteh/pasterules/pkg/content"
	"github.com/walteh/pasterules/pkg/host"
)

// 🏷️ Kind names the variant of a Rule.
type Kind string

const (
	KindMark Kind = "mark"
	KindNode Kind = "node"
	KindText Kind = "text"
	KindFile Kind = "file"
)

// 🎯 Rule is a paste rule: *MarkRule, *NodeRule, *TextRule or *FileRule.
type Rule interface {
	Kind() Kind
	// Common returns the fields shared by every rule kind.
	Common() *Base

	sealed()
}

// 🔍 RegexRule is a rule driven by a regular expression over text content.
type RegexRule interface {
	Rule
	Pattern() *regexp2.Regexp
}

// 🔧 Base holds the fields every rule kind shares.
type Base struct {
	// Name identifies the rule in logs and errors.
	Name string
	// Priority orders rules, higher first. Zero means PriorityLow.
	Priority Priority
	// IgnoredNodes are node type names whose content the rule never touches.
	IgnoredNodes []string
	// IgnoredMarks are mark type names whose text the rule never touches.
	IgnoredMarks []string
	// IgnoreWhitespace discards matches whose capture group is blank.
	IgnoreWhitespace bool
	// StartOfTextBlock restricts matches to the start of a textblock.
	StartOfTextBlock bool
}

func (b *Base) Common() *Base { return b }

// EffectivePriority resolves an unset priority to PriorityLow.
func (b *Base) EffectivePriority() Priority {
	if b.Priority == 0 {
		return PriorityLow
	}
	return b.Priority
}

// IgnoresNode reports whether the node type name is excluded.
func (b *Base) IgnoresNode(name string) bool {
	return contains(b.IgnoredNodes, name)
}

// IgnoresAnyMark reports whether any of the mark names is excluded.
func (b *Base) IgnoresAnyMark(names []string) bool {
	for _, n := range names {
		if contains(b.IgnoredMarks, n) {
			return true
		}
	}
	return false
}

// DisplayName returns the rule name, or its kind when unnamed.
func (b *Base) DisplayName(k Kind) string {
	if b.Name != "" {
		return b.Name
	}
	return string(k) + " rule"
}

// 🖍️ MarkRule adds a mark to matched text.
type MarkRule struct {
	Base
	Regexp     *regexp2.Regexp
	MarkType   *content.MarkType
	Attributes Attributes
}

func (r *MarkRule) Kind() Kind { return KindMark }
func (r *MarkRule) Pattern() *regexp2.Regexp { return r.Regexp }
func (r *MarkRule) sealed() {}

// 📦 NodeRule wraps matched text in a new node.
type NodeRule struct {
	Base
	Regexp     *regexp2.Regexp
	NodeType   *content.NodeType
	Attributes Attributes
}

func (r *NodeRule) Kind() Kind { return KindNode }
func (r *NodeRule) Pattern() *regexp2.Regexp { return r.Regexp }
func (r *NodeRule) sealed() {}

// TransformMatchFunc returns the text replacing a whole match. An empty string
// deletes the match.
type TransformMatchFunc func(m *Match) (string, error)

// ✏️ TextRule replaces matched text.
type TextRule struct {
	Base
	Regexp *regexp2.Regexp
	// TransformMatch is optional. Without it the matched span is kept as is.
	TransformMatch TransformMatchFunc
}

func (r *TextRule) Kind() Kind { return KindText }
func (r *TextRule) Pattern() *regexp2.Regexp { return r.Regexp }
func (r *TextRule) sealed() {}

// 📎 FileRule claims pasted or dropped files.
type FileRule struct {
	Base
	// Regexp filters files by MIME type. Optional.
	Regexp *regexp2.Regexp
	// MimeGlob filters files by a doublestar glob over the MIME type. Optional.
	MimeGlob string
	Handler  host.FileHandler
}

func (r *FileRule) Kind() Kind { return KindFile }
func (r *FileRule) sealed() {}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
