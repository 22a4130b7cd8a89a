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

package commands

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/pasterules/pkg/config"
	"github.com/walteh/pasterules/pkg/host"
)

// fileRecorder backs the built-in file handlers and remembers what they saw.
//
//   - accept claims every file it is offered
//   - log records the files and lets dispatch continue
type fileRecorder struct {
	mu        sync.Mutex
	accepted  []host.File
	seen      []host.File
	claimedBy string
}

func (r *fileRecorder) handlers() config.Handlers {
	return config.Handlers{
		"accept": func(ctx context.Context, fc *host.FileContext) (bool, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.accepted = append(r.accepted, fc.Files...)
			r.claimedBy = "accept"
			zerolog.Ctx(ctx).Debug().Int("files", len(fc.Files)).Msg("accept handler claimed files")
			return true, nil
		},
		"log": func(ctx context.Context, fc *host.FileContext) (bool, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.seen = append(r.seen, fc.Files...)
			for _, f := range fc.Files {
				zerolog.Ctx(ctx).Info().Str("file", f.Name).Str("mime", f.MimeType).Int64("size", f.Size).Msg("file offered")
			}
			return false, nil
		},
	}
}

// BuiltinHandlerNames lists the handler names rule files may reference.
func BuiltinHandlerNames() []string {
	return slices.Sorted(maps.Keys((&fileRecorder{}).handlers()))
}
