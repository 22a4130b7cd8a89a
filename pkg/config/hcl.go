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
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

type hclRule struct {
	Name             string    `hcl:"name,label"`
	Type             string    `hcl:"type"`
	Regexp           string    `hcl:"regexp,optional"`
	Flags            string    `hcl:"flags,optional"`
	Mark             string    `hcl:"mark,optional"`
	Node             string    `hcl:"node,optional"`
	Attrs            cty.Value `hcl:"attrs,optional"`
	Replace          *string   `hcl:"replace,optional"`
	Priority         string    `hcl:"priority,optional"`
	IgnoredNodes     []string  `hcl:"ignored_nodes,optional"`
	IgnoredMarks     []string  `hcl:"ignored_marks,optional"`
	IgnoreWhitespace bool      `hcl:"ignore_whitespace,optional"`
	StartOfTextBlock bool      `hcl:"start_of_text_block,optional"`
	Mime             string    `hcl:"mime,optional"`
	Handler          string    `hcl:"handler,optional"`
}

type hclRuleFile struct {
	Rules []hclRule `hcl:"rule,block"`
}

// 📝 Parse parses the rule file from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*RuleFile, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "rules.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Priority levels may be written as bare words: priority = high
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}
	for name := range priorityLevels {
		evalCtx.Variables[name] = cty.StringVal(name)
	}

	var raw hclRuleFile
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	f := &RuleFile{Rules: make([]Spec, 0, len(raw.Rules))}
	for _, r := range raw.Rules {
		attrs, err := attrsFromCty(r.Attrs)
		if err != nil {
			return nil, errors.Errorf("rule %q: %w", r.Name, err)
		}
		f.Rules = append(f.Rules, Spec{
			Name:             r.Name,
			Type:             r.Type,
			Regexp:           r.Regexp,
			Flags:            r.Flags,
			Mark:             r.Mark,
			Node:             r.Node,
			Attrs:            attrs,
			Replace:          r.Replace,
			Priority:         Priority(r.Priority),
			IgnoredNodes:     r.IgnoredNodes,
			IgnoredMarks:     r.IgnoredMarks,
			IgnoreWhitespace: r.IgnoreWhitespace,
			StartOfTextBlock: r.StartOfTextBlock,
			Mime:             r.Mime,
			Handler:          r.Handler,
		})
	}
	return f, nil
}

var priorityLevels = map[string]bool{
	"lowest": true, "low": true, "default": true, "medium": true,
	"high": true, "highest": true, "critical": true,
}

func attrsFromCty(v cty.Value) (map[string]any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, errors.Errorf("attrs must be known")
	}
	t := v.Type()
	if !t.IsObjectType() && !t.IsMapType() {
		return nil, errors.Errorf("attrs must be an object, got %s", t.FriendlyName())
	}

	out := map[string]any{}
	for it := v.ElementIterator(); it.Next(); {
		k, ev := it.Element()
		val, err := valueFromCty(ev)
		if err != nil {
			return nil, errors.Errorf("attrs.%s: %w", k.AsString(), err)
		}
		out[k.AsString()] = val
	}
	return out, nil
}

func valueFromCty(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Bool:
		return v.True(), nil
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return int(i), nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	}
	return nil, errors.Errorf("unsupported value of type %s", v.Type().FriendlyName())
}
