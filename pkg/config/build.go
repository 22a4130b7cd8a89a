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

package config

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/walteh/pasterules/pkg/content"
	"github.com/walteh/pasterules/pkg/host"
	"github.com/walteh/pasterules/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// MatchTimeout bounds a single regexp execution of a compiled rule.
var MatchTimeout = time.Second

// 🗂️ Handlers maps handler names used in rule files to file handlers.
type Handlers map[string]host.FileHandler

// Build compiles the rule entries. Names are resolved against schema and
// handlers; every failure is a *rule.ConfigurationError.
func (f *RuleFile) Build(schema *content.Schema, handlers Handlers) ([]rule.Rule, error) {
	if schema == nil {
		return nil, errors.Errorf("schema is required")
	}
	out := make([]rule.Rule, 0, len(f.Rules))
	for i := range f.Rules {
		r, err := f.Rules[i].build(schema, handlers)
		if err != nil {
			return nil, &rule.ConfigurationError{Index: i, Rule: f.Rules[i].displayName(), Reason: err.Error()}
		}
		out = append(out, r)
	}
	return out, nil
}

// Compile loads a rule file and builds a rule set from it.
func Compile(ctx context.Context, path string, schema *content.Schema, handlers Handlers) (*rule.RuleSet, error) {
	f, err := Load(ctx, path)
	if err != nil {
		return nil, err
	}
	rules, err := f.Build(schema, handlers)
	if err != nil {
		return nil, errors.Errorf("building rules from %s: %w", path, err)
	}
	set, err := rule.Configure(rules)
	if err != nil {
		return nil, errors.Errorf("configuring rules from %s: %w", path, err)
	}
	return set, nil
}

func (s *Spec) build(schema *content.Schema, handlers Handlers) (rule.Rule, error) {
	if reason := s.problem(); reason != "" {
		return nil, errors.New(reason)
	}
	prio, err := rule.ParsePriority(string(s.Priority))
	if err != nil {
		return nil, err
	}
	base := rule.Base{
		Name:             s.Name,
		Priority:         prio,
		IgnoredNodes:     s.IgnoredNodes,
		IgnoredMarks:     s.IgnoredMarks,
		IgnoreWhitespace: s.IgnoreWhitespace,
		StartOfTextBlock: s.StartOfTextBlock,
	}

	var re *regexp2.Regexp
	if s.Regexp != "" {
		if re, err = compilePattern(s.Regexp, s.Flags); err != nil {
			return nil, err
		}
	}

	switch s.Type {
	case TypeMark:
		mt, ok := schema.MarkType(s.Mark)
		if !ok {
			return nil, errors.Errorf("mark type %q is not in the schema", s.Mark)
		}
		return &rule.MarkRule{Base: base, Regexp: re, MarkType: mt, Attributes: compileAttrs(s.Attrs)}, nil
	case TypeNode:
		nt, ok := schema.NodeType(s.Node)
		if !ok {
			return nil, errors.Errorf("node type %q is not in the schema", s.Node)
		}
		return &rule.NodeRule{Base: base, Regexp: re, NodeType: nt, Attributes: compileAttrs(s.Attrs)}, nil
	case TypeText:
		r := &rule.TextRule{Base: base, Regexp: re}
		if s.Replace != nil {
			tpl := *s.Replace
			r.TransformMatch = func(m *rule.Match) (string, error) {
				return expand(tpl, m), nil
			}
		}
		return r, nil
	case TypeFile:
		h, ok := handlers[s.Handler]
		if !ok || h == nil {
			return nil, errors.Errorf("handler %q is not registered", s.Handler)
		}
		return &rule.FileRule{Base: base, Regexp: re, MimeGlob: s.Mime, Handler: h}, nil
	}
	return nil, errors.Errorf("unknown type %q", s.Type)
}

func regexpOptions(flags string) (regexp2.RegexOptions, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 'g', 'u':
		default:
			return 0, errors.Errorf("unsupported regexp flag %q", f)
		}
	}
	return opts, nil
}

func compilePattern(pattern, flags string) (*regexp2.Regexp, error) {
	opts, err := regexpOptions(flags)
	if err != nil {
		return nil, err
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, errors.Errorf("compiling regexp %q: %w", pattern, err)
	}
	re.MatchTimeout = MatchTimeout
	return re, nil
}

func compileAttrs(raw map[string]any) rule.Attributes {
	if len(raw) == 0 {
		return nil
	}
	static := make(content.Attrs, len(raw))
	templated := false
	for k, v := range raw {
		v = normalize(v)
		static[k] = v
		if s, ok := v.(string); ok && hasTemplate(s) {
			templated = true
		}
	}
	if !templated {
		return rule.Static(static)
	}
	return rule.Computed(func(m *rule.Match) (content.Attrs, error) {
		out := static.Clone()
		for k, v := range out {
			if s, ok := v.(string); ok {
				out[k] = expand(s, m)
			}
		}
		return out, nil
	})
}

// normalize turns whole JSON numbers into ints so attrs compare equal to
// schema defaults.
func normalize(v any) any {
	if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int(f)
	}
	return v
}

func hasTemplate(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '$' && (isDigit(s[i+1]) || s[i+1] == '$') {
			return true
		}
	}
	return false
}

// expand replaces $0..$9 with capture groups and $$ with a dollar sign.
func expand(tpl string, m *rule.Match) string {
	var b strings.Builder
	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		if c != '$' || i+1 == len(tpl) {
			b.WriteByte(c)
			continue
		}
		next := tpl[i+1]
		switch {
		case next == '$':
			b.WriteByte('$')
			i++
		case isDigit(next):
			b.WriteString(m.Group(int(next - '0')))
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// String describes the entry for logs.
func (s *Spec) String() string {
	target := s.Mark + s.Node + s.Handler
	if target != "" {
		target = " -> " + target
	}
	return fmt.Sprintf("%s[%s]%s", s.displayName(), s.Type, target)
}
