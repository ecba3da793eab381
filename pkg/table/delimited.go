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
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

const (
	// Separator is the field separator for both input and output files
	Separator = '\t'
	// CommentMarker starts a line that is not data
	CommentMarker = '#'
)

// ErrNoHeader is returned when a file has no header line
var ErrNoHeader = errors.Base("no columns to parse from file")

// 📥 Read parses a tab-delimited table. Lines starting with '#' are skipped
// before the header is taken. Quoting is strict: an unterminated quote fails
// the read instead of running into the following lines.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = Separator
	reader.Comment = CommentMarker
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.WithStack(ErrNoHeader)
	}
	if err != nil {
		return nil, errors.Errorf("reading header: %w", err)
	}

	t := New(header...)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading row %d: %w", t.Len()+1, err)
		}
		t.Append(record...)
	}

	return t, nil
}

// 📂 ReadFile reads a tab-delimited file from disk
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// 📤 Write emits the header and one line per row, tab separated, with no
// index column
func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	writer.Comma = Separator

	if err := writer.Write(t.Columns); err != nil {
		return errors.Errorf("writing header: %w", err)
	}
	for i, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return errors.Errorf("writing row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// 💾 WriteFile writes the table to path, creating parent directories
func (t *Table) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf("creating %s: %w", path, err)
	}

	if err := t.Write(f); err != nil {
		f.Close()
		return errors.Errorf("writing %s: %w", path, err)
	}

	return f.Close()
}
