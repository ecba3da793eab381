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
)

func fileSetLine(symbol, files, typ, outcome string) string {
	return strings.TrimSpace(fmt.Sprintf("%s %-*s %-*s %-*s", symbol, nameWidth, files, typeWidth, typ, statusWidth, outcome))
}

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
			name: "log_file_set",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileSet(context.Background(), FileSetResult{
					Files:   "data_CNA_SAGE.txt",
					Type:    "cna",
					Outcome: OutcomeProcessed,
					Output:  "output/SAGE/data_CNA_SAGE.txt",
				})
			},
			wantLogs: []string{
				fileSetLine("✓", "data_CNA_SAGE.txt", "cna", "PROCESSED"),
			},
		},
		{
			name: "log_center_run",
			op: func(t *testing.T, logger *Logger) {
				logger.StartCenter(context.Background(), CenterRun{
					Center:  "SAGE",
					InputID: "sage/input",
				})
			},
			wantLogs: []string{
				"[reading sage/input]",
				"◆ SAGE • process",
			},
		},
		{
			name: "log_validate_only_run",
			op: func(t *testing.T, logger *Logger) {
				logger.StartCenter(context.Background(), CenterRun{
					Center:       "GOLD",
					InputID:      "gold/input",
					OnlyValidate: true,
				})
			},
			wantLogs: []string{
				"[reading gold/input]",
				"◆ GOLD • validate only",
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
				logger.Header("processing SAGE")
			},
			wantLogs: []string{
				"tabgenie • processing SAGE",
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
			logger := New(buf, zerolog.Disabled)

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
	logger := New(io.Discard, zerolog.Disabled)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestFileSetFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		r    FileSetResult
		want string
	}{
		{
			name: "processed",
			r:    FileSetResult{Files: "a.csv", Type: "csv", Outcome: OutcomeProcessed},
			want: fileSetLine("✓", "a.csv", "csv", "PROCESSED"),
		},
		{
			name: "valid",
			r:    FileSetResult{Files: "a.csv", Type: "csv", Outcome: OutcomeValid},
			want: fileSetLine("•", "a.csv", "csv", "VALID"),
		},
		{
			name: "invalid",
			r:    FileSetResult{Files: "data_CNA_SAGE.txt", Type: "cna", Outcome: OutcomeInvalid},
			want: fileSetLine("✗", "data_CNA_SAGE.txt", "cna", "INVALID"),
		},
		{
			name: "unrecognized",
			r:    FileSetResult{Files: "notes.md", Outcome: OutcomeUnrecognized},
			want: fileSetLine("-", "notes.md", "?", "UNRECOGNIZED"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Disabled)

			logger.LogFileSet(context.Background(), tt.r)

			assert.Equal(t, tt.want, strings.TrimSpace(buf.String()), "formatted output should match")
		})
	}
}

func TestEndCenter(t *testing.T) {
	logger := New(io.Discard, zerolog.Disabled)
	ctx := context.Background()

	assert.Nil(t, logger.EndCenter(ctx), "no run started")

	logger.StartCenter(ctx, CenterRun{Center: "SAGE", InputID: "in"})
	logger.LogFileSet(ctx, FileSetResult{Files: "a.csv", Type: "csv", Outcome: OutcomeProcessed})
	logger.LogFileSet(ctx, FileSetResult{Files: "b.md", Outcome: OutcomeUnrecognized})

	results := logger.EndCenter(ctx)
	require.Len(t, results, 2, "both file sets should be recorded")
	assert.Equal(t, OutcomeProcessed, results[0].Outcome, "first outcome")
	assert.Equal(t, "b.md", results[1].Files, "second files")

	logger.StartCenter(ctx, CenterRun{Center: "GOLD", InputID: "in"})
	assert.Empty(t, logger.EndCenter(ctx), "results reset between centers")
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "UNKNOWN", Outcome(42).String(), "unknown outcome")
	assert.Equal(t, "INVALID", OutcomeInvalid.String(), "invalid outcome")
}
