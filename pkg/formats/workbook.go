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
	"gitlab.com/tozd/go/errors"
)

// 📊 WorkbookHandler takes spreadsheet submissions. Only the first sheet is
// read; the output is tab-delimited like every other type.
type WorkbookHandler struct {
	format.Base
}

func NewWorkbook(client *store.Client, center string) format.Handler {
	return &WorkbookHandler{Base: format.NewBase(Workbook, client, center)}
}

func (h *WorkbookHandler) Recognizes(files format.FileSet) bool {
	return matchSingle(files, "*.xlsx")
}

func (h *WorkbookHandler) Load(ctx context.Context, files format.FileSet) (*table.Table, error) {
	if len(files) == 0 {
		return nil, errors.WithStack(format.ErrEmptyFileSet)
	}
	return table.ReadWorkbook(files[0])
}

func (h *WorkbookHandler) Check(ctx context.Context, tbl *table.Table, params format.Params) (format.Report, error) {
	var rep format.Report
	checkNotEmpty(&rep, Workbook, tbl)
	return rep, nil
}

func (h *WorkbookHandler) Transform(ctx context.Context, tbl *table.Table, params format.Params) (string, error) {
	return writeOutput(tbl.UpperColumns(), params)
}
