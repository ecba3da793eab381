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

	"github.com/walteh/tabgenie/pkg/format"
	"github.com/walteh/tabgenie/pkg/store"
	"github.com/walteh/tabgenie/pkg/table"
)

// 📄 CSVHandler is the reference file type. It keeps the default loader, so
// despite the suffix the content is tab-delimited.
type CSVHandler struct {
	format.Base
}

func NewCSV(client *store.Client, center string) format.Handler {
	return &CSVHandler{Base: format.NewBase(CSV, client, center)}
}

func (h *CSVHandler) Recognizes(files format.FileSet) bool {
	return matchSingle(files, "*.csv")
}

func (h *CSVHandler) Check(ctx context.Context, tbl *table.Table, params format.Params) (format.Report, error) {
	var rep format.Report
	checkNotEmpty(&rep, CSV, tbl)
	return rep, nil
}

func (h *CSVHandler) Transform(ctx context.Context, tbl *table.Table, params format.Params) (string, error) {
	return writeOutput(tbl.UpperColumns(), params)
}
