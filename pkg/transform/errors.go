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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// ErrTransform is wrapped by every TransformError.
var ErrTransform = errors.Base("transform failed")

// Stage names the step of a rule application that failed.
type Stage string

const (
	StageMatch          Stage = "match"
	StageAttributes     Stage = "attributes"
	StageTransformMatch Stage = "transform_match"
	StageCreate         Stage = "create"
)

// TransformError aborts the transform of a whole paste event.
type TransformError struct {
	Rule  string
	Stage Stage
	Err   error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("rule %s: %s: %v", e.Rule, e.Stage, e.Err)
}

func (e *TransformError) Unwrap() []error {
	return []error{ErrTransform, e.Err}
}
