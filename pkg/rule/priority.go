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
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Priority orders rules. Higher values run first.
type Priority int

const (
	PriorityLowest   Priority = 1
	PriorityLow      Priority = 10
	PriorityDefault  Priority = 100
	PriorityMedium   Priority = 1_000
	PriorityHigh     Priority = 10_000
	PriorityHighest  Priority = 100_000
	PriorityCritical Priority = 1_000_000
)

var priorityNames = map[string]Priority{
	"lowest":   PriorityLowest,
	"low":      PriorityLow,
	"default":  PriorityDefault,
	"medium":   PriorityMedium,
	"high":     PriorityHigh,
	"highest":  PriorityHighest,
	"critical": PriorityCritical,
}

// ParsePriority accepts a level name ("high") or an integer.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, nil
	}
	if p, ok := priorityNames[s]; ok {
		return p, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Errorf("priority %q is neither a level nor an integer", s)
	}
	return Priority(n), nil
}
