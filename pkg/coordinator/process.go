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

package coordinator

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/tabgenie/pkg/format"
	"github.com/walteh/tabgenie/pkg/formats"
	"github.com/walteh/tabgenie/pkg/log"
	"github.com/walteh/tabgenie/pkg/pipeline"
	"github.com/walteh/tabgenie/pkg/store"
	"github.com/walteh/tabgenie/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// 🔧 ProcessOptions selects what Process runs
type ProcessOptions struct {
	// Center restricts the run to one center
	Center string
	// OnlyValidate skips processing and persistence
	OnlyValidate bool
}

// 📊 CenterSummary is the outcome of one center's run
type CenterSummary struct {
	Center  string
	Results []log.FileSetResult
}

// ⚙️ Process validates, and unless OnlyValidate processes, the submissions of
// every released center
func (c *Coordinator) Process(ctx context.Context, opts ProcessOptions) ([]CenterSummary, error) {
	mappings, err := c.client.Tables.CenterMappings(ctx)
	if err != nil {
		return nil, errors.Errorf("loading center mapping: %w", err)
	}

	var runs []store.CenterMapping
	var names []string
	for _, m := range mappings {
		if !m.Release || m.InputID == "" {
			continue
		}
		runs = append(runs, m)
		names = append(names, m.Center)
	}

	if opts.Center != "" {
		if err := pipeline.CheckCenterInput(opts.Center, names); err != nil {
			return nil, err
		}
		for _, m := range runs {
			if m.Center == opts.Center {
				runs = []store.CenterMapping{m}
				break
			}
		}
	}

	summaries := make([]CenterSummary, 0, len(runs))
	for _, m := range runs {
		results, err := c.processCenter(ctx, m, opts.OnlyValidate)
		if err != nil {
			return summaries, errors.Errorf("processing %s: %w", m.Center, err)
		}
		if err := c.user.RenderSummary(m.Center, results); err != nil {
			return summaries, err
		}
		summaries = append(summaries, CenterSummary{Center: m.Center, Results: results})
	}
	return summaries, nil
}

func (c *Coordinator) processCenter(ctx context.Context, m store.CenterMapping, onlyValidate bool) ([]log.FileSetResult, error) {
	ctx = zerolog.Ctx(ctx).With().Str("center", m.Center).Logger().WithContext(ctx)
	console := log.FromContext(ctx)
	console.StartCenter(ctx, log.CenterRun{Center: m.Center, InputID: m.InputID, OnlyValidate: onlyValidate})

	dir, err := os.MkdirTemp("", "tabgenie-"+m.Center+"-")
	if err != nil {
		return nil, errors.Errorf("creating download directory: %w", err)
	}
	defer os.RemoveAll(dir)

	names, err := c.client.Containers.List(ctx, m.InputID)
	if err != nil {
		return nil, errors.Errorf("listing %s: %w", m.InputID, err)
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path, err := c.client.Containers.Download(ctx, m.InputID, name, dir)
		if err != nil {
			return nil, errors.Errorf("downloading %s: %w", name, err)
		}
		paths = append(paths, path)
	}

	var invalid []store.FileError
	for _, files := range GroupFiles(paths) {
		res, err := c.validate(ctx, files, m.Center, "")
		if err != nil {
			return nil, err
		}

		r := log.FileSetResult{Files: files.String(), Type: res.FileType}
		switch {
		case !res.Valid:
			r.Outcome = log.OutcomeInvalid
			if res.FileType == "" {
				r.Outcome = log.OutcomeUnrecognized
			}
			invalid = append(invalid, store.FileError{
				Center:   m.Center,
				FileName: files.String(),
				FileType: res.FileType,
				Errors:   res.Message,
			})
		case onlyValidate:
			r.Outcome = log.OutcomeValid
		default:
			out, err := c.processSet(ctx, m, files, res.FileType)
			if err != nil {
				return nil, err
			}
			r.Outcome = log.OutcomeProcessed
			r.Output = out
		}
		console.LogFileSet(ctx, r)
	}

	if len(invalid) > 0 {
		if err := c.client.Tables.AddErrors(ctx, invalid); err != nil {
			return nil, errors.Errorf("recording invalid files: %w", err)
		}
	}

	return console.EndCenter(ctx), nil
}

// processSet transforms a valid set into output_dir/<center>/, persists the
// result and copies it to the staging container when there is one
func (c *Coordinator) processSet(ctx context.Context, m store.CenterMapping, files format.FileSet, fileType string) (string, error) {
	dbID, err := c.client.Tables.DatabaseID(ctx, fileType)
	if err != nil {
		return "", errors.Errorf("resolving destination of %s: %w", fileType, err)
	}

	outDir := filepath.Join(c.cfg.OutputDir, m.Center)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", errors.Errorf("creating output directory: %w", err)
	}

	params := format.Params{
		format.ParamNewPath: filepath.Join(outDir, outputName(files)),
		ParamProjectID:      c.cfg.ProjectID,
	}
	out, err := pipeline.ProcessFileSet(ctx, c.reg, c.client, files, m.Center, fileType, dbID, params)
	if err != nil {
		return "", errors.Errorf("processing %s: %w", files, err)
	}

	tbl, err := table.ReadFile(out)
	if err != nil {
		return "", errors.Errorf("reading processed output: %w", err)
	}
	if err := c.persist(ctx, dbID, tbl, m.Center); err != nil {
		return "", err
	}

	if m.StagingID != "" {
		if err := c.client.Containers.Upload(ctx, m.StagingID, out); err != nil {
			return "", errors.Errorf("staging %s: %w", out, err)
		}
		c.user.LogUpload(out, m.StagingID)
	}

	return out, nil
}

// 📤 persist writes a processed table into its destination, retrying
// transient failures
func (c *Coordinator) persist(ctx context.Context, dbID string, tbl *table.Table, center string) error {
	logger := zerolog.Ctx(ctx)

	opts := store.UpdateOptions{DeleteAbsent: c.cfg.Upload.DeleteAbsent}
	if c.cfg.Upload.FilterByCenter {
		if tbl.Has(formats.ColumnCenter) {
			opts.FilterColumn = formats.ColumnCenter
			opts.FilterValue = center
		} else {
			logger.Warn().Str("table", dbID).Msgf("output has no %s column, updating the whole table", formats.ColumnCenter)
		}
	}

	// zero means retry forever to retry-go
	attempts := max(c.cfg.Upload.Attempts, 1)

	err := retry.Do(
		func() error {
			return c.client.Tables.UpdateTable(ctx, dbID, tbl, opts)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.cfg.Upload.Delay.Duration),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn().Err(err).Uint("attempt", n+1).Str("table", dbID).Msg("retrying table update")
		}),
	)
	if err != nil {
		return errors.Errorf("updating %s: %w", dbID, err)
	}
	return nil
}

// clinicalPair matches either half of a clinical sample/patient pair
const clinicalPair = "data_clinical_supp_{sample,patient}_*"

// pairBase returns the name a clinical pair half shares with its sibling
func pairBase(name string) (string, bool) {
	if ok, _ := doublestar.Match(clinicalPair, name); !ok {
		return "", false
	}
	rest := strings.TrimPrefix(name, "data_clinical_supp_")
	rest = strings.TrimPrefix(rest, "sample_")
	rest = strings.TrimPrefix(rest, "patient_")
	return "data_clinical_supp_" + rest, true
}

// groupKey is the name itself, except for the halves of a clinical pair which
// share a key no single file can have
func groupKey(path string) string {
	name := filepath.Base(path)
	if base, ok := pairBase(name); ok {
		return "pair/" + base
	}
	return name
}

// 📦 GroupFiles splits downloaded files into file sets. The sample and
// patient halves of a clinical pair form one set; every other file is a set
// of its own. Sets keep the order of their first file.
func GroupFiles(paths []string) []format.FileSet {
	index := map[string]int{}
	var sets []format.FileSet
	for _, p := range paths {
		key := groupKey(p)
		if i, ok := index[key]; ok {
			sets[i] = append(sets[i], p)
			continue
		}
		index[key] = len(sets)
		sets = append(sets, format.FileSet{p})
	}
	return sets
}

// outputName is the file name processed output is written under
func outputName(files format.FileSet) string {
	name := filepath.Base(files[0])
	if base, ok := pairBase(name); ok {
		name = base
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".txt"
}
