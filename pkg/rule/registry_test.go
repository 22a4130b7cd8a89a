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
	"context"
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/pasterules/pkg/content"
	"github.com/walteh/pasterules/pkg/content/basic"
	"github.com/walteh/pasterules/pkg/host"
	"gitlab.com/tozd/go/errors"
)

func acceptAll(context.Context, *host.FileContext) (bool, error) { return true, nil }

func names[T Rule](rules []T) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Common().Name)
	}
	return out
}

func TestConfigure_SortAndPartition(t *testing.T) {
	strong, _ := basic.Schema.MarkType("strong")
	re := regexp2.MustCompile(`(x)`, regexp2.ECMAScript)

	rules := []Rule{
		&MarkRule{Base: Base{Name: "unset"}, Regexp: re, MarkType: strong},
		&TextRule{Base: Base{Name: "high", Priority: PriorityHigh}, Regexp: re},
		&FileRule{Base: Base{Name: "file-low", Priority: PriorityLow}, Handler: acceptAll},
		&MarkRule{Base: Base{Name: "low", Priority: PriorityLow}, Regexp: re, MarkType: strong},
		&FileRule{Base: Base{Name: "file-high", Priority: PriorityHigh}, Handler: acceptAll},
		&TextRule{Base: Base{Name: "high-2", Priority: PriorityHigh}, Regexp: re},
		&TextRule{Base: Base{Name: "lowest", Priority: PriorityLowest}, Regexp: re},
	}

	set, err := Configure(rules)
	require.NoError(t, err)

	assert.Equal(t, []string{"high", "high-2", "unset", "low", "lowest"}, names(set.RegexRules()),
		"regex rules should be sorted by priority, ties in declaration order")
	assert.Equal(t, []string{"file-high", "file-low"}, names(set.FileRules()))
	assert.Equal(t, 7, set.Len())
	assert.Equal(t, "unset", rules[0].Common().Name, "input should not be reordered")
}

func TestConfigure_Rejects(t *testing.T) {
	re := regexp2.MustCompile(`(x)`, regexp2.ECMAScript)
	strong, _ := basic.Schema.MarkType("strong")
	mention, _ := basic.Schema.NodeType("mention")

	tests := []struct {
		name      string
		rule      Rule
		wantError string
	}{
		{name: "nil_rule", rule: nil, wantError: "rule is nil"},
		{name: "typed_nil_mark_rule", rule: (*MarkRule)(nil), wantError: "rule is nil"},
		{name: "typed_nil_file_rule", rule: (*FileRule)(nil), wantError: "rule is nil"},
		{name: "mark_without_regexp", rule: &MarkRule{MarkType: strong}, wantError: "regexp is required"},
		{name: "mark_without_type", rule: &MarkRule{Regexp: re}, wantError: "markType is required"},
		{name: "node_without_type", rule: &NodeRule{Regexp: re}, wantError: "nodeType is required"},
		{name: "text_without_regexp", rule: &TextRule{}, wantError: "regexp is required"},
		{name: "file_without_handler", rule: &FileRule{}, wantError: "fileHandler is required"},
		{name: "file_bad_glob", rule: &FileRule{Handler: acceptAll, MimeGlob: "image/[a"}, wantError: "mime glob"},
		{name: "valid_node", rule: &NodeRule{Regexp: re, NodeType: mention}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Configure([]Rule{tt.rule})
			if tt.wantError == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
			assert.True(t, errors.Is(err, ErrInvalidRule))

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, 0, cfgErr.Index)
		})
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "High", want: PriorityHigh},
		{in: "lowest", want: PriorityLowest},
		{in: "42", want: 42},
		{in: "urgent", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttributes(t *testing.T) {
	m := &Match{FullValue: "@bob", CapturedValue: "bob", HasCapture: true, Groups: []string{"@bob", "bob"}}

	static := Static(content.Attrs{"href": "x"})
	got, err := static.Resolve(m)
	require.NoError(t, err)
	assert.Equal(t, content.Attrs{"href": "x"}, got)

	computed := Computed(func(m *Match) (content.Attrs, error) {
		return content.Attrs{"id": m.Group(1)}, nil
	})
	got, err = computed.Resolve(m)
	require.NoError(t, err)
	assert.Equal(t, content.Attrs{"id": "bob"}, got)

	got, err = ResolveAttributes(nil, m)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Equal(t, "", m.Group(5))
}
