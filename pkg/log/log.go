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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 45 // Base width for file set names
	typeWidth   = 12 // Width for file type
	statusWidth = 15 // Width for status text
)

// 🚦 Outcome is what happened to one file set during a run
type Outcome int

const (
	OutcomeValid Outcome = iota
	OutcomeProcessed
	OutcomeInvalid
	OutcomeUnrecognized
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "VALID"
	case OutcomeProcessed:
		return "PROCESSED"
	case OutcomeInvalid:
		return "INVALID"
	case OutcomeUnrecognized:
		return "UNRECOGNIZED"
	default:
		return "UNKNOWN"
	}
}

// 🎯 FileSetResult represents one file set outcome for logging
type FileSetResult struct {
	Files   string  // comma-joined base names
	Type    string  // file type tag, empty when unrecognized
	Outcome Outcome // what happened
	Output  string  // processed output path, if any
}

// 🏢 CenterRun represents one center's pass over its input container
type CenterRun struct {
	Center       string
	InputID      string
	OnlyValidate bool
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	current *CenterRun
	results []FileSetResult
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
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

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func (l *Logger) formatFileSet(r FileSetResult) string {
	var symbol rune
	var symbolColor color.Attribute
	switch r.Outcome {
	case OutcomeProcessed:
		symbol = '✓'
		symbolColor = color.FgGreen
	case OutcomeValid:
		symbol = '•'
		symbolColor = color.FgCyan
	case OutcomeInvalid:
		symbol = '✗'
		symbolColor = color.FgRed
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	typ := r.Type
	if typ == "" {
		typ = "?"
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, r.Files),
		color.New(color.FgBlue).Sprint(fmt.Sprintf("%-*s", typeWidth, typ)),
		fmt.Sprintf("%-*s", statusWidth, r.Outcome))
}

// 📝 LogFileSet logs one file set outcome
func (l *Logger) LogFileSet(ctx context.Context, r FileSetResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.results = append(l.results, r)

	fmt.Fprintln(l.console, l.formatFileSet(r))

	l.zlog.Info().
		Str("files", r.Files).
		Str("type", r.Type).
		Str("outcome", r.Outcome.String()).
		Str("output", r.Output).
		Msg("file set")
}

// 📝 StartCenter starts a center's run
func (l *Logger) StartCenter(ctx context.Context, run CenterRun) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &run
	l.results = nil

	mode := "process"
	if run.OnlyValidate {
		mode = "validate only"
	}

	fmt.Fprintf(l.console, "[reading %s]\n",
		color.New(color.FgCyan).Sprint(run.InputID))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(run.Center),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(mode))

	l.zlog.Info().
		Str("center", run.Center).
		Str("input", run.InputID).
		Bool("only_validate", run.OnlyValidate).
		Msg("starting center")
}

// 📝 EndCenter ends the current center's run and returns its outcomes
func (l *Logger) EndCenter(ctx context.Context) []FileSetResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return nil
	}

	results := l.results
	l.zlog.Info().
		Str("center", l.current.Center).
		Int("file_sets", len(results)).
		Msg("center complete")

	l.current = nil
	l.results = nil
	return results
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
	name := color.New(color.Bold, color.FgCyan).Sprint("tabgenie")
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

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
