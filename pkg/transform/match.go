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

package transform

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/walteh/pasterules/pkg/rule"
)

// FindMatches runs re over text left to right and returns every non-empty,
// non-overlapping match. Each search resumes at the end of the previous match.
func FindMatches(re *regexp2.Regexp, text string) ([]rule.Match, error) {
	runes := []rune(text)

	var out []rule.Match
	m, err := re.FindRunesMatch(runes)
	for m != nil && err == nil {
		if m.Length > 0 {
			out = append(out, toMatch(m))
		}
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toMatch(m *regexp2.Match) rule.Match {
	groups := m.Groups()
	values := make([]string, len(groups))
	for i, g := range groups {
		if len(g.Captures) > 0 {
			values[i] = g.String()
		}
	}

	out := rule.Match{
		FullValue: m.String(),
		Start:     m.Index,
		End:       m.Index + m.Length,
		Groups:    values,
	}
	if len(groups) > 1 && len(groups[1].Captures) > 0 {
		out.HasCapture = true
		out.CapturedValue = values[1]
	}
	return out
}

// leadingSpace is the rune count of the whitespace prefix of s. A string made
// only of whitespace has no prefix.
func leadingSpace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return n
		}
		n++
	}
	return 0
}

// runeIndex is strings.Index counted in runes.
func runeIndex(s, sub string) int {
	i := strings.Index(s, sub)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(s[:i])
}
