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
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *Table
		wantErr error
	}{
		{
			name:  "skips_comment_lines",
			input: "#version 1\n#another\nid\tvalue\n1\ta\n2\tb\n",
			want: &Table{
				Columns: []string{"id", "value"},
				Rows:    [][]string{{"1", "a"}, {"2", "b"}},
			},
		},
		{
			name:  "header_only",
			input: "id\tvalue\n",
			want:  &Table{Columns: []string{"id", "value"}},
		},
		{
			name:  "ragged_rows_are_padded",
			input: "a\tb\tc\n1\n1\t2\t3\t4\n",
			want: &Table{
				Columns: []string{"a", "b", "c"},
				Rows:    [][]string{{"1", "", ""}, {"1", "2", "3"}},
			},
		},
		{
			name:  "commas_are_data",
			input: "name\tnote\nx\thello, world\n",
			want: &Table{
				Columns: []string{"name", "note"},
				Rows:    [][]string{{"x", "hello, world"}},
			},
		},
		{
			name:  "quoted_field_with_tab",
			input: "id\tvalue\n1\t\"a\tb\"\n2\tc\n",
			want: &Table{
				Columns: []string{"id", "value"},
				Rows:    [][]string{{"1", "a\tb"}, {"2", "c"}},
			},
		},
		{
			name:    "unterminated_quote",
			input:   "id\tvalue\n1\t\"oops\n2\tb\n3\tc\n",
			wantErr: csv.ErrQuote,
		},
		{
			name:    "bare_quote_in_field",
			input:   "id\tvalue\n1\ta\"b\n",
			wantErr: csv.ErrBareQuote,
		},
		{
			name:    "only_comments",
			input:   "#nothing here\n",
			wantErr: ErrNoHeader,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrNoHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				require.Error(t, err, "Read should fail")
				assert.True(t, errors.Is(err, tt.wantErr), "error should wrap %v", tt.wantErr)
				return
			}
			require.NoError(t, err, "Read should succeed")
			if diff := cmp.Diff(tt.want.Columns, got.Columns); diff != "" {
				t.Errorf("columns mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, len(tt.want.Rows), got.Len(), "row count should match")
			for i := range tt.want.Rows {
				assert.Equal(t, tt.want.Rows[i], got.Rows[i], "row %d should match", i)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")

	in := New("id", "value")
	in.Append("1", "a")
	in.Append("2", "b")

	require.NoError(t, in.UpperColumns().WriteFile(path), "WriteFile should succeed")

	raw, err := os.ReadFile(path)
	require.NoError(t, err, "reading output should succeed")
	assert.Equal(t, "ID\tVALUE\n1\ta\n2\tb\n", string(raw), "output should be tab delimited without index")

	out, err := ReadFile(path)
	require.NoError(t, err, "ReadFile should succeed")
	assert.Equal(t, []string{"ID", "VALUE"}, out.Columns, "headers should be upper-cased")
	if diff := cmp.Diff(in.Rows, out.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteQuotesSeparators(t *testing.T) {
	in := New("note")
	in.Append("tab\there")

	var buf bytes.Buffer
	require.NoError(t, in.Write(&buf), "Write should succeed")

	out, err := Read(&buf)
	require.NoError(t, err, "Read should succeed")
	assert.Equal(t, "tab\there", out.Rows[0][0], "embedded separator should survive")
}

func TestColumnHelpers(t *testing.T) {
	tbl := New("a", "b")
	tbl.Append("1", "2")
	tbl.Append("3", "4")

	col, err := tbl.Column("b")
	require.NoError(t, err, "Column should succeed")
	assert.Equal(t, []string{"2", "4"}, col, "column values should match")

	_, err = tbl.Column("missing")
	assert.Error(t, err, "missing column should fail")

	upper := tbl.UpperColumns()
	assert.Equal(t, []string{"A", "B"}, upper.Columns, "upper columns")
	assert.Equal(t, []string{"a", "b"}, tbl.Columns, "original should be untouched")

	withCenter := tbl.WithColumn("CENTER", "SAGE")
	assert.Equal(t, []string{"a", "b", "CENTER"}, withCenter.Columns, "column should be appended")
	assert.Equal(t, []string{"3", "4", "SAGE"}, withCenter.Rows[1], "value should be filled")

	overwritten := withCenter.WithColumn("CENTER", "GOLD")
	assert.Equal(t, 3, len(overwritten.Columns), "existing column should be reused")
	assert.Equal(t, "GOLD", overwritten.Rows[0][2], "value should be overwritten")
}

func TestLeftJoin(t *testing.T) {
	samples := New("SAMPLE_ID", "PATIENT_ID")
	samples.Append("S1", "P1")
	samples.Append("S2", "P2")
	samples.Append("S3", "P9")

	patients := New("PATIENT_ID", "SEX", "SAMPLE_ID")
	patients.Append("P1", "Male", "x")
	patients.Append("P2", "Female", "y")

	got, err := samples.LeftJoin(patients, "PATIENT_ID")
	require.NoError(t, err, "LeftJoin should succeed")

	assert.Equal(t, []string{"SAMPLE_ID", "PATIENT_ID", "SEX", "SAMPLE_ID_right"}, got.Columns, "columns should merge")
	want := [][]string{
		{"S1", "P1", "Male", "x"},
		{"S2", "P2", "Female", "y"},
		{"S3", "P9", "", ""},
	}
	if diff := cmp.Diff(want, got.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	_, err = samples.LeftJoin(New("OTHER"), "PATIENT_ID")
	assert.Error(t, err, "missing right key should fail")
}

func TestReadWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submission.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"#comment"}), "writing comment row")
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"id", "value"}), "writing header")
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"1", "a"}), "writing row")
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{"2"}), "writing short row")
	require.NoError(t, f.SaveAs(path), "saving workbook")
	require.NoError(t, f.Close(), "closing workbook")

	got, err := ReadWorkbook(path)
	require.NoError(t, err, "ReadWorkbook should succeed")
	assert.Equal(t, []string{"id", "value"}, got.Columns, "header should skip comment row")
	assert.Equal(t, [][]string{{"1", "a"}, {"2", ""}}, got.Rows, "rows should be padded")
}
