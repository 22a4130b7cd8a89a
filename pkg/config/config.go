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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/pasterules/pkg/rule"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for rule file parsers
type Parser interface {
	// 📝 Parse parses the rule file from bytes
	Parse(ctx context.Context, data []byte) (*RuleFile, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Rule entry types.
const (
	TypeMark = "mark"
	TypeNode = "node"
	TypeText = "text"
	TypeFile = "file"
)

// Priority is a rule priority as written in a file: a level name or an
// integer. YAML and JSON accept both spellings unquoted.
type Priority string

func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Priority(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Errorf("priority must be a string or a number: %w", err)
	}
	*p = Priority(n.String())
	return nil
}

func (p *Priority) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: priority must be a scalar", node.Line)
	}
	*p = Priority(node.Value)
	return nil
}

// 🧾 Spec is one rule entry of a rule file.
type Spec struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Type   string `json:"type" yaml:"type"`
	Regexp string `json:"regexp,omitempty" yaml:"regexp,omitempty"`
	// Flags are regexp flags: i (ignore case) and m (multiline). g and u are
	// accepted and ignored.
	Flags string `json:"flags,omitempty" yaml:"flags,omitempty"`
	Mark  string `json:"mark,omitempty" yaml:"mark,omitempty"`
	Node  string `json:"node,omitempty" yaml:"node,omitempty"`
	// Attrs of the created mark or node. String values may hold templates.
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	// Replace is the replacement template of a text rule. nil keeps the
	// match, "" deletes it.
	Replace          *string  `json:"replace,omitempty" yaml:"replace,omitempty"`
	Priority         Priority `json:"priority,omitempty" yaml:"priority,omitempty"`
	IgnoredNodes     []string `json:"ignored_nodes,omitempty" yaml:"ignored_nodes,omitempty"`
	IgnoredMarks     []string `json:"ignored_marks,omitempty" yaml:"ignored_marks,omitempty"`
	IgnoreWhitespace bool     `json:"ignore_whitespace,omitempty" yaml:"ignore_whitespace,omitempty"`
	StartOfTextBlock bool     `json:"start_of_text_block,omitempty" yaml:"start_of_text_block,omitempty"`
	// Mime is a doublestar glob over the MIME type of files (file rules).
	Mime    string `json:"mime,omitempty" yaml:"mime,omitempty"`
	Handler string `json:"handler,omitempty" yaml:"handler,omitempty"`
}

// 📚 RuleFile is a parsed rule file.
type RuleFile struct {
	Rules []Spec `json:"rules" yaml:"rules"`

	location string
}

// Location is the path the file was loaded from, if any.
func (f *RuleFile) Location() string {
	return f.location
}

// 🎯 Load reads, parses and validates a rule file. The format is picked by
// extension. Files without a known extension are tried as YAML, then HCL.
func Load(ctx context.Context, path string) (*RuleFile, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading rule file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading rule file: %w", err)
	}

	f, err := Parse(ctx, path, data)
	if err != nil {
		return nil, err
	}
	f.location = path

	logger.Debug().Str("path", path).Int("rules", len(f.Rules)).Msg("loaded rule file")
	return f, nil
}

// Parse parses and validates rule file data. filename only selects the format.
func Parse(ctx context.Context, filename string, data []byte) (*RuleFile, error) {
	var (
		f   *RuleFile
		err error
	)
	if p := GetParser(filename); p != nil {
		f, err = p.Parse(ctx, data)
		if err != nil {
			return nil, errors.Errorf("parsing rule file: %w", err)
		}
	} else {
		// Try YAML first
		f, err = (&YAMLParser{}).Parse(ctx, data)
		if err != nil {
			var herr error
			f, herr = (&HCLParser{}).Parse(ctx, data)
			if herr != nil {
				return nil, errors.Errorf("failed to parse %s as YAML or HCL: %w", filename, errors.Join(err, herr))
			}
		}
	}

	if err := f.Validate(); err != nil {
		return nil, errors.Errorf("validating rule file: %w", err)
	}
	return f, nil
}

// 🔍 Validate checks every entry and reports all problems at once. Each
// problem is a *rule.ConfigurationError.
func (f *RuleFile) Validate() error {
	var errs []error
	for i, s := range f.Rules {
		if reason := s.problem(); reason != "" {
			errs = append(errs, &rule.ConfigurationError{Index: i, Rule: s.displayName(), Reason: reason})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func (s *Spec) displayName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Type != "" {
		return s.Type + " rule"
	}
	return "rule"
}

func (s *Spec) problem() string {
	switch s.Type {
	case TypeMark, TypeNode, TypeText:
		if s.Regexp == "" {
			return "regexp is required"
		}
		if s.Handler != "" || s.Mime != "" {
			return fmt.Sprintf("handler and mime are only valid on %s rules", TypeFile)
		}
	case TypeFile:
		if s.Handler == "" {
			return "handler is required"
		}
		if s.Mime != "" && !doublestar.ValidatePattern(s.Mime) {
			return fmt.Sprintf("mime glob %q is invalid", s.Mime)
		}
	case "":
		return "type is required"
	default:
		return fmt.Sprintf("unknown type %q", s.Type)
	}

	switch {
	case s.Type == TypeMark && s.Mark == "":
		return "mark is required"
	case s.Type == TypeNode && s.Node == "":
		return "node is required"
	case s.Type != TypeText && s.Replace != nil:
		return fmt.Sprintf("replace is only valid on %s rules", TypeText)
	}

	if _, err := rule.ParsePriority(string(s.Priority)); err != nil {
		return err.Error()
	}
	if _, err := regexpOptions(s.Flags); err != nil {
		return err.Error()
	}
	return ""
}
