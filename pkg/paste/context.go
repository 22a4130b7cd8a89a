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

package paste

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/pasterules/pkg/host"
	"github.com/walteh/pasterules/pkg/rule"
)

// 📍 PasteContext is what surrounds the insertion point of one event.
type PasteContext struct {
	// Resolved is false when the position could not be resolved. Every rule
	// then applies.
	Resolved    bool
	NodeName    string
	ActiveMarks []string
	// InCode is true inside a code node or under a code mark.
	InCode bool
}

// ComputeContext resolves pos once per event. Resolution failures degrade to
// an unresolved context instead of failing the paste.
func ComputeContext(ctx context.Context, view host.View, pos int) PasteContext {
	rp, err := view.ResolvePosition(pos)
	if err != nil || rp == nil {
		zerolog.Ctx(ctx).Debug().Err(err).Int("pos", pos).Msg("paste position unresolved, rules apply unconditionally")
		return PasteContext{}
	}
	return PasteContext{
		Resolved:    true,
		NodeName:    rp.ParentName,
		ActiveMarks: rp.ActiveMarks,
		InCode:      rp.ParentIsCode || rp.CodeMarkActive,
	}
}

// Allows reports whether r may run for this event. Code regions block regex
// rules only; file rules still see files pasted into code.
func (c PasteContext) Allows(r rule.Rule) bool {
	if !c.Resolved {
		return true
	}
	if c.InCode && r.Kind() != rule.KindFile {
		return false
	}
	b := r.Common()
	return !b.IgnoresNode(c.NodeName) && !b.IgnoresAnyMark(c.ActiveMarks)
}

// RegexRules keeps the rules the context allows, in order.
func (c PasteContext) RegexRules(rules []rule.RegexRule) []rule.RegexRule {
	out := make([]rule.RegexRule, 0, len(rules))
	for _, r := range rules {
		if c.Allows(r) {
			out = append(out, r)
		}
	}
	return out
}

// FileRules keeps the file rules the context allows, in order.
func (c PasteContext) FileRules(rules []*rule.FileRule) []*rule.FileRule {
	out := make([]*rule.FileRule, 0, len(rules))
	for _, r := range rules {
		if c.Allows(r) {
			out = append(out, r)
		}
	}
	return out
}
