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
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidRule is wrapped by every ConfigurationError.
var ErrInvalidRule = errors.Base("invalid rule")

// ConfigurationError reports a malformed rule found while building a RuleSet.
type ConfigurationError struct {
	Index  int
	Rule   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rule %d (%s): %s", e.Index, e.Rule, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidRule
}

// 📚 RuleSet is the immutable, priority-sorted registry of rules.
type RuleSet struct {
	regex []RegexRule
	files []*FileRule
}

// Configure validates rules, stable-sorts them by descending priority and
// partitions them into regex rules and file rules. The input is not modified.
func Configure(rules []Rule) (*RuleSet, error) {
	for i, r := range rules {
		if err := validate(i, r); err != nil {
			return nil, err
		}
	}

	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Common().EffectivePriority() > sorted[j].Common().EffectivePriority()
	})

	set := &RuleSet{}
	for _, r := range sorted {
		switch v := r.(type) {
		case *FileRule:
			set.files = append(set.files, v)
		case RegexRule:
			set.regex = append(set.regex, v)
		}
	}
	return set, nil
}

// MustConfigure is Configure for rule sets known to be valid at compile time.
func MustConfigure(rules ...Rule) *RuleSet {
	set, err := Configure(rules)
	if err != nil {
		panic(err)
	}
	return set
}

// RegexRules returns the regex rules in application order.
func (s *RuleSet) RegexRules() []RegexRule {
	out := make([]RegexRule, len(s.regex))
	copy(out, s.regex)
	return out
}

// FileRules returns the file rules in dispatch order.
func (s *RuleSet) FileRules() []*FileRule {
	out := make([]*FileRule, len(s.files))
	copy(out, s.files)
	return out
}

// Len is the total number of rules.
func (s *RuleSet) Len() int {
	return len(s.regex) + len(s.files)
}

func validate(i int, r Rule) error {
	if isNil(r) {
		return &ConfigurationError{Index: i, Rule: "<nil>", Reason: "rule is nil"}
	}
	name := r.Common().DisplayName(r.Kind())
	fail := func(reason string) error {
		return &ConfigurationError{Index: i, Rule: name, Reason: reason}
	}

	switch v := r.(type) {
	case *MarkRule:
		if v.Regexp == nil {
			return fail("regexp is required")
		}
		if v.MarkType == nil {
			return fail("markType is required")
		}
	case *NodeRule:
		if v.Regexp == nil {
			return fail("regexp is required")
		}
		if v.NodeType == nil {
			return fail("nodeType is required")
		}
	case *TextRule:
		if v.Regexp == nil {
			return fail("regexp is required")
		}
	case *FileRule:
		if v.Handler == nil {
			return fail("fileHandler is required")
		}
		if v.MimeGlob != "" && !doublestar.ValidatePattern(v.MimeGlob) {
			return fail(fmt.Sprintf("mime glob %q is invalid", v.MimeGlob))
		}
	default:
		return fail(fmt.Sprintf("unsupported rule type %T", r))
	}
	return nil
}

// isNil also catches typed nil pointers such as (*MarkRule)(nil).
func isNil(r Rule) bool {
	switch v := r.(type) {
	case nil:
		return true
	case *MarkRule:
		return v == nil
	case *NodeRule:
		return v == nil
	case *TextRule:
		return v == nil
	case *FileRule:
		return v == nil
	}
	return false
}
