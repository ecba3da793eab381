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
	"strconv"
	"strings"

	"github.com/walteh/tabgenie/pkg/format"
	"github.com/walteh/tabgenie/pkg/store"
	"github.com/walteh/tabgenie/pkg/table"
)

// ColumnHugoSymbol is the gene column every CNA file starts with
const ColumnHugoSymbol = "Hugo_Symbol"

// 🧬 CNAHandler handles copy number matrices: one gene per row, one sample
// per column
type CNAHandler struct {
	format.Base
}

func NewCNA(client *store.Client, center string) format.Handler {
	return &CNAHandler{Base: format.NewBase(CNA, client, center)}
}

func (h *CNAHandler) Recognizes(files format.FileSet) bool {
	return matchSingle(files, "data_CNA_"+escape(h.Center)+".txt")
}

func (h *CNAHandler) Check(ctx context.Context, tbl *table.Table, params format.Params) (format.Report, error) {
	var rep format.Report

	checkNotEmpty(&rep, CNA, tbl)

	if len(tbl.Columns) == 0 || tbl.Columns[0] != ColumnHugoSymbol {
		rep.Errorf("%s: First column header must be %s.", CNA, ColumnHugoSymbol)
		return rep, nil
	}

	var bad []string
	for i := 1; i < len(tbl.Columns); i++ {
		for _, row := range tbl.Rows {
			if !validCopyNumber(row[i]) {
				bad = append(bad, tbl.Columns[i])
				break
			}
		}
	}
	if len(bad) > 0 {
		rep.Errorf("%s: Only integers and half-integers between -2 and 2, NA or blank values are allowed. Offending samples: %s",
			CNA, strings.Join(bad, ", "))
	}

	genes, _ := tbl.Column(ColumnHugoSymbol)
	if dups := duplicates(genes); len(dups) > 0 {
		rep.Warnf("%s: Duplicated %s values: %s", CNA, ColumnHugoSymbol, strings.Join(dups, ", "))
	}

	return rep, nil
}

func (h *CNAHandler) Transform(ctx context.Context, tbl *table.Table, params format.Params) (string, error) {
	return writeOutput(tbl.UpperColumns(), params)
}

// validCopyNumber accepts NA, blank, or a multiple of 0.5 in [-2, 2]
func validCopyNumber(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || v == "NA" {
		return true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < -2 || f > 2 {
		return false
	}
	return f*2 == float64(int(f*2))
}
