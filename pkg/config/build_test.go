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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/pasterules/pkg/content"
	"github.com/walteh/pasterules/pkg/content/basic"
	"github.com/walteh/pasterules/pkg/host"
	"github.com/walteh/pasterules/pkg/rule"
	"github.com/walteh/pasterules/pkg/transform"
)

func upload(context.Context, *host.FileContext) (bool, error) { return true, nil }

var testHandlers = Handlers{"upload": upload}

func TestBuild(t *testing.T) {
	f, err := Parse(context.Background(), "rules.yaml", []byte(yamlRules))
	require.NoError(t, err)

	rules, err := f.Build(basic.Schema, testHandlers)
	require.NoError(t, err)
	require.Len(t, rules, 4)

	mention, ok := rules[0].(*rule.NodeRule)
	require.True(t, ok, "first rule should be a node rule")
	assert.Equal(t, "mention", mention.NodeType.Name)
	assert.Equal(t, rule.PriorityHigh, mention.Priority)
	assert.Equal(t, MatchTimeout, mention.Regexp.MatchTimeout)

	attrs, err := rule.ResolveAttributes(mention.Attributes, &rule.Match{Groups: []string{"@ada", "ada"}})
	require.NoError(t, err)
	assert.Equal(t, content.Attrs{"id": "ada"}, attrs)

	heading, ok := rules[1].(*rule.NodeRule)
	require.True(t, ok)
	assert.Equal(t, rule.Priority(500), heading.Priority)
	assert.True(t, heading.StartOfTextBlock)
	attrs, err = rule.ResolveAttributes(heading.Attributes, &rule.Match{})
	require.NoError(t, err)
	assert.Equal(t, content.Attrs{"level": 2}, attrs)

	arrows, ok := rules[2].(*rule.TextRule)
	require.True(t, ok)
	require.NotNil(t, arrows.TransformMatch)
	out, err := arrows.TransformMatch(&rule.Match{FullValue: "->", Groups: []string{"->"}})
	require.NoError(t, err)
	assert.Equal(t, "→", out)
	assert.Equal(t, []string{"code"}, arrows.IgnoredMarks)

	images, ok := rules[3].(*rule.FileRule)
	require.True(t, ok)
	assert.Equal(t, "image/*", images.MimeGlob)
	assert.Nil(t, images.Regexp)
	assert.NotNil(t, images.Handler)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		spec   Spec
		reason string
	}{
		{
			name:   "unknown_mark",
			spec:   Spec{Type: TypeMark, Regexp: "a", Mark: "underline"},
			reason: `mark type "underline" is not in the schema`,
		},
		{
			name:   "unknown_node",
			spec:   Spec{Type: TypeNode, Regexp: "a", Node: "table"},
			reason: `node type "table" is not in the schema`,
		},
		{
			name:   "unregistered_handler",
			spec:   Spec{Type: TypeFile, Handler: "s3"},
			reason: `handler "s3" is not registered`,
		},
		{
			name:   "bad_regexp",
			spec:   Spec{Type: TypeText, Regexp: "(a"},
			reason: "compiling regexp",
		},
		{
			name:   "invalid_entry",
			spec:   Spec{Type: TypeNode, Regexp: "a"},
			reason: "node is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &RuleFile{Rules: []Spec{{Type: TypeText, Regexp: "ok"}, tt.spec}}
			_, err := f.Build(basic.Schema, testHandlers)
			require.Error(t, err)

			var cerr *rule.ConfigurationError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, 1, cerr.Index)
			assert.Contains(t, cerr.Reason, tt.reason)
		})
	}
}

func TestBuild_Flags(t *testing.T) {
	f := &RuleFile{Rules: []Spec{{Type: TypeText, Regexp: "^hello", Flags: "gim"}}}
	rules, err := f.Build(basic.Schema, nil)
	require.NoError(t, err)

	re := rules[0].(*rule.TextRule).Regexp
	ok, err := re.MatchString("x\nHELLO")
	require.NoError(t, err)
	assert.True(t, ok, "i and m flags should apply")
}

func TestExpand(t *testing.T) {
	m := &rule.Match{Groups: []string{"[ada](x)", "ada", "x"}}
	tests := []struct {
		tpl  string
		want string
	}{
		{tpl: "$1", want: "ada"},
		{tpl: "<$1|$2>", want: "<ada|x>"},
		{tpl: "$0", want: "[ada](x)"},
		{tpl: "$9", want: ""},
		{tpl: "$$1", want: "$1"},
		{tpl: "cost: $", want: "cost: $"},
		{tpl: "$a", want: "$a"},
		{tpl: "plain", want: "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.tpl, func(t *testing.T) {
			assert.Equal(t, tt.want, expand(tt.tpl, m))
		})
	}
}

func TestCompileAttrs(t *testing.T) {
	assert.Nil(t, compileAttrs(nil), "no attrs should mean no attributes")

	static := compileAttrs(map[string]any{"href": "https://example.com", "n": float64(3)})
	got, err := static.Resolve(&rule.Match{Groups: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, content.Attrs{"href": "https://example.com", "n": 3}, got)

	computed := compileAttrs(map[string]any{"href": "https://x.test/$1", "title": nil})
	got, err = computed.Resolve(&rule.Match{Groups: []string{"#7", "7"}})
	require.NoError(t, err)
	assert.Equal(t, content.Attrs{"href": "https://x.test/7", "title": nil}, got)

	got, err = computed.Resolve(&rule.Match{Groups: []string{"#8", "8"}})
	require.NoError(t, err)
	assert.Equal(t, "https://x.test/8", got["href"], "templates should be expanded per match")
}

func TestCompile_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.hcl")
	require.NoError(t, os.WriteFile(path, []byte(hclRules), 0o644))

	set, err := Compile(context.Background(), path, basic.Schema, testHandlers)
	require.NoError(t, err)
	assert.Equal(t, 4, set.Len())
	require.Len(t, set.FileRules(), 1)

	regex := set.RegexRules()
	require.Len(t, regex, 3)
	assert.Equal(t, "mention", regex[0].Common().Name, "high priority should run first")
	assert.Equal(t, "heading", regex[1].Common().Name)
	assert.Equal(t, "arrows", regex[2].Common().Name)

	frag := content.NewFragment(basic.Schema.Text("ping @ada -> now"))
	out, err := transform.Apply(context.Background(), frag, regex, transform.SchemaOptions(basic.Schema))
	require.NoError(t, err)
	assert.Equal(t, "ping ada → now", out.TextContent())
}
