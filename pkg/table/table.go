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

	"gitlab.com/tozd/go/errors"
)

// 📋 Table is a loaded submission: named columns and unordered rows.
// Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// 🏭 New creates a table with the given header and no rows
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// ➕ Append adds a row, padding or truncating it to the header width
func (t *Table) Append(row ...string) {
	t.Rows = append(t.Rows, fit(row, len(t.Columns)))
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no rows
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// 🔍 Index returns the position of the named column, or -1
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the named column exists
func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// 📤 Column returns a copy of the values of the named column
func (t *Table) Column(name string) ([]string, error) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, errors.Errorf("column %q not found", name)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	out := New(t.Columns...)
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// 🔠 UpperColumns returns a copy whose column names are upper-cased
func (t *Table) UpperColumns() *Table {
	out := t.Clone()
	for i, c := range out.Columns {
		out.Columns[i] = strings.ToUpper(c)
	}
	return out
}

// WithColumn returns a copy with a constant-valued column added, or
// overwritten when it already exists
func (t *Table) WithColumn(name, value string) *Table {
	out := t.Clone()
	idx := out.Index(name)
	if idx < 0 {
		out.Columns = append(out.Columns, name)
		for i := range out.Rows {
			out.Rows[i] = append(out.Rows[i], value)
		}
		return out
	}
	for i := range out.Rows {
		out.Rows[i][idx] = value
	}
	return out
}

// 🔗 LeftJoin keeps every row of t and adds the columns of right (except the
// key) from the first right row sharing the key value. Unmatched rows get
// empty cells.
func (t *Table) LeftJoin(right *Table, key string) (*Table, error) {
	lk := t.Index(key)
	if lk < 0 {
		return nil, errors.Errorf("left table has no %q column", key)
	}
	rk := right.Index(key)
	if rk < 0 {
		return nil, errors.Errorf("right table has no %q column", key)
	}

	var extra []int
	out := New(t.Columns...)
	for i, c := range right.Columns {
		if i == rk {
			continue
		}
		extra = append(extra, i)
		if t.Has(c) {
			c += "_right"
		}
		out.Columns = append(out.Columns, c)
	}

	lookup := make(map[string][]string, len(right.Rows))
	for _, row := range right.Rows {
		if _, seen := lookup[row[rk]]; !seen {
			lookup[row[rk]] = row
		}
	}

	for _, row := range t.Rows {
		merged := append([]string(nil), row...)
		match, ok := lookup[row[lk]]
		for _, i := range extra {
			if ok {
				merged = append(merged, match[i])
			} else {
				merged = append(merged, "")
			}
		}
		out.Rows = append(out.Rows, merged)
	}

	return out, nil
}

func fit(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
