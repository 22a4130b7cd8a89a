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

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_event",
			op: func(t *testing.T, logger *Logger) {
				logger.LogEvent(context.Background(), EventReport{
					Event:   "paste",
					Source:  "--text",
					Status:  "handled",
					Handled: true,
					Rules:   2,
				})
			},
			wantLogs: []string{
				fmt.Sprintf("✓ %-35s %-8s %s", "--text", "paste", "handled"),
			},
		},
		{
			name: "log_rule_files",
			op: func(t *testing.T, logger *Logger) {
				logger.LogRuleFile(context.Background(), RuleFileReport{Path: "a.yaml", Rules: 3})
				logger.LogRuleFile(context.Background(), RuleFileReport{Path: "b.hcl", Err: errors.New("rule 0 (x): type is required")})
			},
			wantLogs: []string{
				fmt.Sprintf("✓ %-35s %s", "a.yaml", "3 rules"),
				fmt.Sprintf("✗ %-35s %s", "b.hcl", "rule 0 (x): type is required"),
			},
		},
		{
			name: "start_session",
			op: func(t *testing.T, logger *Logger) {
				logger.StartSession(context.Background(), "rules.yaml")
			},
			wantLogs: []string{
				"◆ rules.yaml",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("checking rule files")
			},
			wantLogs: []string{
				"pasterc • checking rule files",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewWithZerolog(buf, zerolog.Nop())

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.InfoLevel)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")
	assert.NotEqual(t, zerolog.Disabled, zerolog.Ctx(ctx).GetLevel(), "zerolog logger should travel with the context")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestEventFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		ev   EventReport
		want string
	}{
		{
			name: "handled_paste",
			ev:   EventReport{Event: "paste", Source: "in.json", Status: "handled", Handled: true},
			want: fmt.Sprintf("    ✓ %-35s %-8s %-15s", "in.json", "paste", "handled"),
		},
		{
			name: "claimed_drop",
			ev:   EventReport{Event: "drop", Source: "a.png", Status: "handled", Handled: true, Claimed: "images"},
			want: fmt.Sprintf("    ⇣ %-35s %-8s %-15s", "a.png", "drop", "handled by images"),
		},
		{
			name: "fallback",
			ev:   EventReport{Event: "paste", Source: "--text", Status: "fallback", Handled: true, Fallback: true},
			want: fmt.Sprintf("    ⚠ %-35s %-8s %-15s", "--text", "paste", "fallback"),
		},
		{
			name: "not_handled",
			ev:   EventReport{Event: "drop", Source: "a.mp4", Status: "not handled"},
			want: fmt.Sprintf("    - %-35s %-8s %-15s", "a.mp4", "drop", "not handled"),
		},
	}

	logger := NewWithZerolog(io.Discard, zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.formatEvent(tt.ev))
		})
	}
}

func TestSession(t *testing.T) {
	logger := NewWithZerolog(io.Discard, zerolog.Nop())
	ctx := context.Background()

	assert.Nil(t, logger.EndSession(ctx), "ending without a session should return nothing")

	logger.StartSession(ctx, "rules.yaml")
	logger.LogEvent(ctx, EventReport{Event: "paste", Handled: true})
	logger.LogEvent(ctx, EventReport{Event: "drop"})

	events := logger.EndSession(ctx)
	require.Len(t, events, 2)
	assert.True(t, events[0].Handled)
	assert.False(t, events[1].Handled)

	assert.Nil(t, logger.EndSession(ctx), "session should be reset")
}
