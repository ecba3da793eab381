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

package formats

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/tabgenie/pkg/format"
	"github.com/walteh/tabgenie/pkg/store"
	"github.com/walteh/tabgenie/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// Clinical column names
const (
	ColumnSampleID  = "SAMPLE_ID"
	ColumnPatientID = "PATIENT_ID"
	ColumnSex       = "SEX"
	ColumnCenter    = "CENTER"
)

// 🏥 ClinicalHandler handles clinical submissions, either one combined file
// or a sample file plus a patient file
type ClinicalHandler struct {
	format.Base
}

func NewClinical(client *store.Client, center string) format.Handler {
	return &ClinicalHandler{Base: format.NewBase(Clinical, client, center)}
}

func (h *ClinicalHandler) singlePattern() string {
	return "data_clinical_supp_" + escape(h.Center) + ".txt"
}

func (h *ClinicalHandler) pairPattern() string {
	return "data_clinical_supp_{sample,patient}_" + escape(h.Center) + ".txt"
}

func (h *ClinicalHandler) Recognizes(files format.FileSet) bool {
	switch len(files) {
	case 1:
		return matchSingle(files, h.singlePattern())
	case 2:
		_, _, err := h.split(files)
		return err == nil
	default:
		return false
	}
}

// split returns the sample and patient paths of a pair
func (h *ClinicalHandler) split(files format.FileSet) (sample, patient string, err error) {
	pattern := h.pairPattern()
	for _, p := range files {
		name := filepath.Base(p)
		if ok, _ := doublestar.Match(pattern, name); !ok {
			return "", "", errors.Errorf("%s is not a clinical sample or patient file", name)
		}
		if strings.Contains(name, "_sample_") {
			sample = p
		} else {
			patient = p
		}
	}
	if sample == "" || patient == "" {
		return "", "", errors.New("clinical pair needs one sample file and one patient file")
	}
	return sample, patient, nil
}

// Load reads a combined file as is, and merges a pair into one row per
// sample keyed on PATIENT_ID
func (h *ClinicalHandler) Load(ctx context.Context, files format.FileSet) (*table.Table, error) {
	if len(files) != 2 {
		return h.Base.Load(ctx, files)
	}

	samplePath, patientPath, err := h.split(files)
	if err != nil {
		return nil, err
	}
	sample, err := table.ReadFile(samplePath)
	if err != nil {
		return nil, err
	}
	patient, err := table.ReadFile(patientPath)
	if err != nil {
		return nil, err
	}

	merged, err := sample.UpperColumns().LeftJoin(patient.UpperColumns(), ColumnPatientID)
	if err != nil {
		return nil, errors.Errorf("merging clinical files: %w", err)
	}
	return merged, nil
}

func (h *ClinicalHandler) Check(ctx context.Context, tbl *table.Table, params format.Params) (format.Report, error) {
	var rep format.Report
	upper := tbl.UpperColumns()

	checkNotEmpty(&rep, Clinical, upper)

	for _, col := range []string{ColumnSampleID, ColumnPatientID} {
		if !upper.Has(col) {
			rep.Errorf("%s: Must have %s column.", Clinical, col)
		}
	}

	if ids, err := upper.Column(ColumnSampleID); err == nil {
		if dups := duplicates(ids); len(dups) > 0 {
			rep.Errorf("%s: No duplicated %s allowed. Duplicated: %s", Clinical, ColumnSampleID, strings.Join(dups, ", "))
		}
	}

	if !upper.Has(ColumnSex) {
		rep.Warnf("%s: Missing %s column. Sex will be treated as unknown.", Clinical, ColumnSex)
	}

	return rep, nil
}

// Transform upper-cases the headers and stamps every row with the center
func (h *ClinicalHandler) Transform(ctx context.Context, tbl *table.Table, params format.Params) (string, error) {
	return writeOutput(tbl.UpperColumns().WithColumn(ColumnCenter, h.Center), params)
}

// duplicates returns the values that occur more than once, sorted
func duplicates(values []string) []string {
	seen := make(map[string]int, len(values))
	for _, v := range values {
		seen[v]++
	}
	var out []string
	for v, n := range seen {
		if n > 1 {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
