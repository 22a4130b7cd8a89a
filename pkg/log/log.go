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

// Package log reports paste and drop outcomes on the console and mirrors
// every line to zerolog.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	entryIndent = 4  // spaces to indent entries
	nameWidth   = 35 // width for rule file or file names
	kindWidth   = 8  // width for event or entry kind
	statusWidth = 15 // width for status text
)

// 🎯 EventReport describes how one paste or drop event was handled
type EventReport struct {
	Event    string // paste or drop
	Source   string // where the content came from (a file, --text)
	Status   string // handled, not handled, fallback
	Handled  bool   // whether the default behaviour was prevented
	Fallback bool   // whether the original content was inserted after a failure
	Rules    int    // number of regex rules that applied
	Files    int    // number of files offered to file rules
	Claimed  string // file rule that claimed the event, if any
}

// 📦 RuleFileReport describes one loaded rule file
type RuleFileReport struct {
	Path  string // rule file path
	Rules int    // number of rules compiled
	Err   error  // load or build error
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	session string
	events  []EventReport
}

// 🏭 New creates a new logger. Structured output goes to stderr.
func New(console io.Writer, level zerolog.Level) *Logger {
	w := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr })
	return NewWithZerolog(console, zerolog.New(w).With().Timestamp().Logger().Level(level))
}

// 🏭 NewWithZerolog creates a logger mirroring to zlog.
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context, along with its zerolog logger so
// engine packages pick it up through zerolog.Ctx
func NewContext(ctx context.Context, l *Logger) context.Context {
	ctx = l.zlog.WithContext(ctx)
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatEvent formats an event report for display
func (l *Logger) formatEvent(ev EventReport) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case ev.Fallback:
		symbol = '⚠'
		symbolColor = color.FgYellow
	case ev.Handled && ev.Claimed != "":
		symbol = '⇣'
		symbolColor = color.FgBlue
	case ev.Handled:
		symbol = '✓'
		symbolColor = color.FgGreen
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	kindColor := color.FgCyan
	if ev.Event == "drop" {
		kindColor = color.FgMagenta
	}

	status := ev.Status
	if ev.Claimed != "" {
		status += " by " + ev.Claimed
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", entryIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, ev.Source),
		color.New(kindColor).Sprint(fmt.Sprintf("%-*s", kindWidth, ev.Event)),
		fmt.Sprintf("%-*s", statusWidth, status))
}

// 📝 LogEvent logs a paste or drop outcome
func (l *Logger) LogEvent(ctx context.Context, ev EventReport) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, ev)

	fmt.Fprintln(l.console, l.formatEvent(ev))

	l.zlog.Info().
		Str("event", ev.Event).
		Str("source", ev.Source).
		Str("status", ev.Status).
		Bool("handled", ev.Handled).
		Bool("fallback", ev.Fallback).
		Int("rules", ev.Rules).
		Int("files", ev.Files).
		Str("claimed_by", ev.Claimed).
		Msg("paste event")
}

// 📝 LogRuleFile logs the result of loading one rule file
func (l *Logger) LogRuleFile(ctx context.Context, rf RuleFileReport) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rf.Err != nil {
		fmt.Fprintf(l.console, "%*s%s %s %s\n", entryIndent, "",
			color.New(color.FgRed).Sprint("✗"),
			fmt.Sprintf("%-*s", nameWidth, rf.Path),
			color.New(color.FgRed).Sprint(rf.Err.Error()))
		l.zlog.Error().Err(rf.Err).Str("file", rf.Path).Msg("rule file invalid")
		return
	}

	fmt.Fprintf(l.console, "%*s%s %s %s\n", entryIndent, "",
		color.New(color.FgGreen).Sprint("✓"),
		fmt.Sprintf("%-*s", nameWidth, rf.Path),
		color.New(color.Faint).Sprintf("%d rules", rf.Rules))
	l.zlog.Info().Str("file", rf.Path).Int("rules", rf.Rules).Msg("rule file ok")
}

// 📝 StartSession starts a group of events run against one rule file
func (l *Logger) StartSession(ctx context.Context, rulesPath string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.session = rulesPath
	l.events = nil

	fmt.Fprintf(l.console, "%s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(rulesPath))

	l.zlog.Info().Str("rules", rulesPath).Msg("starting session")
}

// 📝 EndSession ends the current session and returns its events
func (l *Logger) EndSession(ctx context.Context) []EventReport {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.session == "" {
		return nil
	}

	handled := 0
	for _, ev := range l.events {
		if ev.Handled {
			handled++
		}
	}
	l.zlog.Info().
		Str("rules", l.session).
		Int("events", len(l.events)).
		Int("handled", handled).
		Msg("session complete")

	events := l.events
	l.session = ""
	l.events = nil
	return events
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("pasterc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
