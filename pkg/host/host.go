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

// Package host declares what the paste engine needs from the editor that
// embeds it: a view over the document and the paste/drop events it delivers.
package host

import (
	"context"

	"github.com/walteh/pasterules/pkg/content"
	"gitlab.com/tozd/go/errors"
)

// ErrUnresolvable is returned by View.ResolvePosition when a position cannot
// be resolved against the current document.
var ErrUnresolvable = errors.Base("position cannot be resolved")

// 📍 ResolvedPos describes the document at a position.
type ResolvedPos struct {
	// ParentName is the type name of the node directly containing the position.
	ParentName string
	// ParentIsCode is true when that node is a code region.
	ParentIsCode bool
	// ActiveMarks are the mark type names in effect at the position.
	ActiveMarks []string
	// CodeMarkActive is true when one of ActiveMarks is a code mark.
	CodeMarkActive bool
}

// Selection is the current selection. Anchor and Head may be in either order.
type Selection struct {
	Anchor int
	Head   int
}

// From is the lower bound of the selection.
func (s Selection) From() int { return min(s.Anchor, s.Head) }

// To is the upper bound of the selection.
func (s Selection) To() int { return max(s.Anchor, s.Head) }

// Empty reports whether the selection is a cursor.
func (s Selection) Empty() bool { return s.Anchor == s.Head }

// 🖥️ View is the selection/view provider of the host editor.
type View interface {
	// ResolvePosition describes the document at pos.
	ResolvePosition(pos int) (*ResolvedPos, error)
	// CoordsToPosition maps client coordinates to a document position.
	CoordsToPosition(x, y float64) (int, bool)
	// Selection returns the current selection.
	Selection() Selection
	// DispatchTransform replaces [from, to) with the fragment.
	DispatchTransform(ctx context.Context, frag content.Fragment, from, to int) error
}

// EventType tells paste events from drop events.
type EventType string

const (
	EventPaste EventType = "paste"
	EventDrop  EventType = "drop"
)

// 📎 File is a pasted or dropped binary file.
type File struct {
	Name     string
	MimeType string
	Size     int64
	Data     []byte
}

// 📋 Event is a paste or drop delivered by the host.
type Event struct {
	Type EventType
	// Fragment is the content derived from the clipboard text/html payload.
	Fragment content.Fragment
	Files    []File
	// ClientX and ClientY locate a drop.
	ClientX float64
	ClientY float64

	prevented bool
}

// PreventDefault suppresses the host's default paste/drop behaviour.
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// FileContext is handed to a FileHandler.
type FileContext struct {
	Event *Event
	// Files are the event files accepted by the rule's MIME filter.
	Files []File
	View  View
	// Pos is the drop position, or the selection head for pastes.
	Pos       int
	Selection Selection
	Type      EventType
}

// FileHandler claims files by returning true. Any asynchronous work it
// starts is its own concern.
type FileHandler func(ctx context.Context, fc *FileContext) (bool, error)
