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

package format

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/tabgenie/pkg/store"
	"github.com/walteh/tabgenie/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// Parameter names shared by the built-in handlers
const (
	ParamNewPath    = "newPath"    // where Transform writes its output
	ParamDatabaseID = "databaseId" // destination table of the processed data
)

// ErrNoTransform is returned by handlers that do not define an output
var ErrNoTransform = errors.Base("file type does not define a transform")

// 📁 FileSet is one logical submission: a single file or a small fixed group
type FileSet []string

// Names returns the base names of the files, in order
func (fs FileSet) Names() []string {
	names := make([]string, len(fs))
	for i, p := range fs {
		names[i] = filepath.Base(p)
	}
	return names
}

// String joins the base names with commas
func (fs FileSet) String() string {
	return strings.Join(fs.Names(), ",")
}

// 🔌 Handler holds the rules for exactly one file type.
//
// Handlers are created per run and per center by a Factory, and must not keep
// mutable state between calls. The Validate and Process functions of this
// package are the only entry points the pipelines use; they enforce the
// required-parameter contract before any of the data methods run.
type Handler interface {
	// FileType returns the unique tag of the type
	FileType() string
	// ValidationParams lists the parameters Check requires
	ValidationParams() []string
	// ProcessParams lists the parameters Transform requires
	ProcessParams() []string

	// Recognizes tests the file names only. It must not open the files.
	Recognizes(files FileSet) bool
	// Load reads the file set into one table
	Load(ctx context.Context, files FileSet) (*table.Table, error)
	// Check runs the type's validation rules
	Check(ctx context.Context, tbl *table.Table, params Params) (Report, error)
	// Preprocess derives extra parameters before processing
	Preprocess(ctx context.Context, files FileSet, params Params) (Params, error)
	// Transform normalizes the table, writes it and returns the output path
	Transform(ctx context.Context, tbl *table.Table, params Params) (string, error)
}

// 🧱 Base carries the defaults every handler may keep. Concrete handlers
// embed it and override what they need.
type Base struct {
	Type   string
	Client *store.Client
	Center string
}

// NewBase returns a Base bound to a client and a center
func NewBase(fileType string, client *store.Client, center string) Base {
	return Base{Type: fileType, Client: client, Center: center}
}

func (b *Base) FileType() string {
	return b.Type
}

func (b *Base) ValidationParams() []string {
	return nil
}

func (b *Base) ProcessParams() []string {
	return []string{ParamNewPath, ParamDatabaseID}
}

// Recognizes claims every file set. A handler relying on it has to be
// registered last.
func (b *Base) Recognizes(files FileSet) bool {
	return true
}

// Load reads the first file as a tab-delimited table
func (b *Base) Load(ctx context.Context, files FileSet) (*table.Table, error) {
	if len(files) == 0 {
		return nil, errors.WithStack(ErrEmptyFileSet)
	}
	return table.ReadFile(files[0])
}

func (b *Base) Check(ctx context.Context, tbl *table.Table, params Params) (Report, error) {
	zerolog.Ctx(ctx).Info().Str("file_type", b.Type).Msgf("no validation for %s files", b.Type)
	return Report{}, nil
}

func (b *Base) Preprocess(ctx context.Context, files FileSet, params Params) (Params, error) {
	return Params{}, nil
}

func (b *Base) Transform(ctx context.Context, tbl *table.Table, params Params) (string, error) {
	return "", errors.Errorf("%s: %w", b.Type, ErrNoTransform)
}
