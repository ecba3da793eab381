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

package table

import (
	"strings"

	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"
)

// 📗 ReadWorkbook loads the first sheet of an .xlsx file. Leading rows whose
// first cell starts with '#' are skipped, like comment lines in text files.
func ReadWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	for len(rows) > 0 && (len(rows[0]) == 0 || strings.HasPrefix(rows[0][0], string(CommentMarker))) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, errors.WithStack(ErrNoHeader)
	}

	t := New(rows[0]...)
	for _, row := range rows[1:] {
		// excelize drops trailing empty cells and returns empty rows for gaps
		if len(row) == 0 {
			continue
		}
		t.Append(row...)
	}

	return t, nil
}
