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
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📢 UserLogger prints verdicts and summaries meant for the submitter
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
	out io.Writer
}

// 🎯 NewUserLogger creates a user logger printing to stdout
func NewUserLogger(ctx context.Context) *UserLogger {
	return NewUserLoggerTo(ctx, os.Stdout)
}

// NewUserLoggerTo creates a user logger printing to out
func NewUserLoggerTo(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

// prefixed swaps the label of p for an emoji, keeping p's style
func prefixed(p pterm.PrefixPrinter, text string) *pterm.PrefixPrinter {
	return p.WithPrefix(pterm.Prefix{Text: text, Style: p.Prefix.Style})
}

// 🔍 LogValidation prints a validation verdict followed by its report
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		prefixed(pterm.Success, "✅").WithWriter(u.out).Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		prefixed(pterm.Error, "❌").WithWriter(u.out).Println(description)
		pterm.Error.WithWriter(u.out).Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}
	prefixed(pterm.Warning, "⚠️").WithWriter(u.out).Println(description)
	u.log.Warn().Msg(description)
}

// 🔄 LogStateChange prints a change made to the project
func (u *UserLogger) LogStateChange(description string) {
	prefixed(pterm.Info, "🔄").WithWriter(u.out).Println(description)
	u.log.Info().Msg(description)
}

// 📦 LogUpload prints one uploaded file
func (u *UserLogger) LogUpload(path, container string) {
	prefixed(pterm.Info, "📦").WithWriter(u.out).Printfln("Uploaded %s to %s", path, container)
	u.log.Info().Str("path", path).Str("container", container).Msg("uploaded")
}

// 📊 RenderSummary prints the outcomes of a center's run as a table
func (u *UserLogger) RenderSummary(center string, results []FileSetResult) error {
	data := pterm.TableData{{"Files", "Type", "Outcome", "Output"}}
	for _, r := range results {
		data = append(data, []string{r.Files, r.Type, r.Outcome.String(), r.Output})
	}

	pterm.DefaultSection.WithWriter(u.out).Println(center)
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(u.out).Render(); err != nil {
		return errors.Errorf("rendering summary of %s: %w", center, err)
	}
	return nil
}

// 📝 RenderErrors prints the invalid-file records of a center
func (u *UserLogger) RenderErrors(center string, rows [][]string) error {
	if len(rows) == 0 {
		prefixed(pterm.Success, "✅").WithWriter(u.out).Printfln("No invalid files for %s", center)
		return nil
	}

	data := pterm.TableData{{"File", "Type", "Recorded", "Errors"}}
	for _, r := range rows {
		row := append([]string(nil), r...)
		if len(row) == 4 {
			row[3] = strings.TrimSpace(row[3])
		}
		data = append(data, row)
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(u.out).Render(); err != nil {
		return errors.Errorf("rendering errors of %s: %w", center, err)
	}
	return nil
}
