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

// Package formats holds the built-in file types.
package formats

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/tabgenie/pkg/format"
	"github.com/walteh/tabgenie/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// Built-in file type tags, in canonical registration order
const (
	Clinical = "clinical"
	CNA      = "cna"
	CSV      = "csv"
	Workbook = "workbook"
)

var builtins = []struct {
	tag     string
	factory format.Factory
}{
	{Clinical, NewClinical},
	{CNA, NewCNA},
	{CSV, NewCSV},
	{Workbook, NewWorkbook},
}

// Defaults returns a registry holding every built-in type in canonical order
func Defaults() *format.Registry {
	reg, err := Registry(nil)
	if err != nil {
		panic(err) // built-in tags are unique
	}
	return reg
}

// 📚 Registry builds a registry restricted to tags, in the given order. No
// tags means every built-in type.
func Registry(tags []string) (*format.Registry, error) {
	if len(tags) == 0 {
		tags = Tags()
	}

	reg := format.NewRegistry()
	for _, tag := range tags {
		factory, ok := lookup(tag)
		if !ok {
			return nil, errors.Errorf("unknown file type %q, expected one of: %s", tag, strings.Join(Tags(), ", "))
		}
		if err := reg.Register(tag, factory); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Tags returns the built-in tags in canonical order
func Tags() []string {
	tags := make([]string, len(builtins))
	for i, b := range builtins {
		tags[i] = b.tag
	}
	return tags
}

func lookup(tag string) (format.Factory, bool) {
	for _, b := range builtins {
		if b.tag == tag {
			return b.factory, true
		}
	}
	return nil, false
}

// matchSingle reports whether the set is exactly one file whose base name
// matches pattern
func matchSingle(files format.FileSet, pattern string) bool {
	if len(files) != 1 {
		return false
	}
	ok, err := doublestar.Match(pattern, filepath.Base(files[0]))
	return err == nil && ok
}

// escape quotes glob metacharacters so a center name matches literally
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// writeOutput writes the table to the newPath parameter
func writeOutput(tbl *table.Table, params format.Params) (string, error) {
	path, err := params.String(format.ParamNewPath)
	if err != nil {
		return "", err
	}
	if err := tbl.WriteFile(path); err != nil {
		return "", errors.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func checkNotEmpty(rep *format.Report, tag string, tbl *table.Table) {
	if tbl.Empty() {
		rep.Errorf("%s: File must not be empty", tag)
	}
}
