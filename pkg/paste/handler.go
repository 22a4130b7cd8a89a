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
	"github.com/walteh/pasterules/pkg/content"
	"github.com/walteh/pasterules/pkg/host"
	"github.com/walteh/pasterules/pkg/rule"
	"github.com/walteh/pasterules/pkg/transform"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options configure a Handler.
type Options struct {
	Rules *rule.RuleSet
	View  host.View
	// Schema supplies the code predicates. Without it the code flags of the
	// node and mark types are used.
	Schema *content.Schema
}

// 📋 Handler runs paste and drop events through the rule set.
type Handler struct {
	rules *rule.RuleSet
	view  host.View
	opts  transform.Options
}

// New creates a handler.
func New(opts Options) (*Handler, error) {
	if opts.Rules == nil {
		return nil, errors.Errorf("rule set is required")
	}
	if opts.View == nil {
		return nil, errors.Errorf("view is required")
	}
	h := &Handler{rules: opts.Rules, view: opts.View}
	if opts.Schema != nil {
		h.opts = transform.SchemaOptions(opts.Schema)
	}
	return h, nil
}

// Handle routes the event by type. It returns true when the event was
// consumed, in which case the host must not run its default behaviour.
func (h *Handler) Handle(ctx context.Context, ev *host.Event) (bool, error) {
	switch ev.Type {
	case host.EventPaste:
		return h.HandlePaste(ctx, ev)
	case host.EventDrop:
		return h.HandleDrop(ctx, ev)
	}
	return false, errors.Errorf("unsupported event type %q", ev.Type)
}

// HandlePaste replaces the selection with the rewritten pasted fragment.
func (h *Handler) HandlePaste(ctx context.Context, ev *host.Event) (bool, error) {
	sel := h.view.Selection()
	return h.handle(ctx, ev, sel, sel.From(), sel.To())
}

// HandleDrop inserts the rewritten dropped fragment at the drop position.
func (h *Handler) HandleDrop(ctx context.Context, ev *host.Event) (bool, error) {
	sel := h.view.Selection()
	pos, ok := h.view.CoordsToPosition(ev.ClientX, ev.ClientY)
	if !ok {
		pos = sel.Anchor
	}
	return h.handle(ctx, ev, sel, pos, pos)
}

func (h *Handler) handle(ctx context.Context, ev *host.Event, sel host.Selection, from, to int) (bool, error) {
	logger := zerolog.Ctx(ctx)
	pctx := ComputeContext(ctx, h.view, from)

	if len(ev.Files) > 0 {
		outcome, err := DispatchFiles(ctx, pctx.FileRules(h.rules.FileRules()), host.FileContext{
			Event:     ev,
			View:      h.view,
			Pos:       from,
			Selection: sel,
			Type:      ev.Type,
		})
		if err != nil {
			return false, errors.Errorf("dispatching files: %w", err)
		}
		if outcome == Handled {
			return true, nil
		}
	}

	if ev.Fragment.Len() == 0 {
		return false, nil
	}

	rules := pctx.RegexRules(h.rules.RegexRules())
	if len(rules) == 0 {
		logger.Debug().Str("event", string(ev.Type)).Msg("no paste rule applies")
		return false, nil
	}

	out, err := transform.Apply(ctx, ev.Fragment, rules, h.opts)
	if err != nil {
		// The clipboard content must never be lost: insert it untouched.
		logger.Debug().Err(err).Msg("paste transform failed, inserting original content")
		if derr := h.view.DispatchTransform(ctx, ev.Fragment, from, to); derr != nil {
			return false, errors.Join(err, errors.Errorf("inserting original content: %w", derr))
		}
		ev.PreventDefault()
		return true, err
	}

	if err := h.view.DispatchTransform(ctx, out, from, to); err != nil {
		return false, errors.Errorf("inserting content: %w", err)
	}
	ev.PreventDefault()
	logger.Debug().
		Str("event", string(ev.Type)).
		Int("rules", len(rules)).
		Int("from", from).
		Int("to", to).
		Msg("inserted transformed content")
	return true, nil
}
