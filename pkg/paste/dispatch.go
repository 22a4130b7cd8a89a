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
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/pasterules/pkg/host"
	"github.com/walteh/pasterules/pkg/rule"
)

// Outcome is the result of dispatching an event's files.
type Outcome int

const (
	NotHandled Outcome = iota
	Handled
)

func (o Outcome) String() string {
	if o == Handled {
		return "handled"
	}
	return "not handled"
}

// FileHandlerError wraps an error returned by a file handler.
type FileHandlerError struct {
	Rule string
	Err  error
}

func (e *FileHandlerError) Error() string {
	return fmt.Sprintf("file rule %s: %v", e.Rule, e.Err)
}

func (e *FileHandlerError) Unwrap() error {
	return e.Err
}

// DispatchFiles offers the event's files to each rule in order. A rule only
// sees the files its MIME filter accepts and is skipped when none pass. The
// first handler returning true claims the event, which prevents the default
// behaviour and stops dispatch.
func DispatchFiles(ctx context.Context, rules []*rule.FileRule, fc host.FileContext) (Outcome, error) {
	logger := zerolog.Ctx(ctx)
	if fc.Event == nil || len(fc.Event.Files) == 0 {
		return NotHandled, nil
	}

	for _, r := range rules {
		name := r.DisplayName(r.Kind())

		files, err := acceptedFiles(r, fc.Event.Files)
		if err != nil {
			return NotHandled, &FileHandlerError{Rule: name, Err: err}
		}
		if len(files) == 0 {
			continue
		}

		call := fc
		call.Files = files
		claimed, err := r.Handler(ctx, &call)
		if err != nil {
			return NotHandled, &FileHandlerError{Rule: name, Err: err}
		}
		if claimed {
			fc.Event.PreventDefault()
			logger.Debug().Str("rule", name).Int("files", len(files)).Msg("file rule claimed event")
			return Handled, nil
		}
	}
	return NotHandled, nil
}

func acceptedFiles(r *rule.FileRule, files []host.File) ([]host.File, error) {
	out := make([]host.File, 0, len(files))
	for _, f := range files {
		ok, err := mimeMatches(r, f.MimeType)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func mimeMatches(r *rule.FileRule, mime string) (bool, error) {
	if r.Regexp != nil {
		ok, err := r.Regexp.MatchString(mime)
		if err != nil || !ok {
			return false, err
		}
	}
	if r.MimeGlob != "" {
		return doublestar.Match(r.MimeGlob, mime)
	}
	return true, nil
}
