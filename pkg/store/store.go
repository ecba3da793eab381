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

package store

import (
	"context"
	"time"

	"github.com/walteh/tabgenie/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// Well-known entries of the database mapping
const (
	DatabaseCenterMapping = "centerMapping"
	DatabaseErrorTracker  = "errorTracker"
)

var (
	// ErrAccessDenied is returned when the caller cannot read a container
	ErrAccessDenied = errors.Base("access denied")
	// ErrNotContainer is returned when an id names something other than a container
	ErrNotContainer = errors.Base("not a container")
	// ErrNotFound is returned when a mapping entry does not exist
	ErrNotFound = errors.Base("not found")
)

// 🏢 CenterMapping is one row of the center mapping table
type CenterMapping struct {
	Center    string
	InputID   string // container holding the center's submissions
	StagingID string // container receiving processed output, optional
	Release   bool   // whether the center takes part in processing runs
}

// 🔧 UpdateOptions scopes a table update
type UpdateOptions struct {
	// FilterColumn and FilterValue restrict the update to matching rows.
	// An empty FilterColumn scopes the update to the whole table.
	FilterColumn string
	FilterValue  string
	// DeleteAbsent removes rows in scope that are not part of the new set
	DeleteAbsent bool
}

// 📝 FileError is one invalid-file record kept by the error tracker
type FileError struct {
	ID        string
	Center    string
	FileName  string
	FileType  string
	Errors    string
	CreatedAt time.Time
}

// 🗄️ TableStore is the tabular side of the remote store
type TableStore interface {
	// CenterMappings returns every row of the center mapping table
	CenterMappings(ctx context.Context) ([]CenterMapping, error)
	// PutCenter inserts or replaces a center mapping row
	PutCenter(ctx context.Context, m CenterMapping) error
	// DatabaseID resolves a database name (a file type or a well-known
	// table) to its destination table id
	DatabaseID(ctx context.Context, name string) (string, error)
	// PutDatabase points a database name at a table id
	PutDatabase(ctx context.Context, name, id string) error
	// CreateTable creates an empty destination table
	CreateTable(ctx context.Context, id string, columns []string) error
	// Columns returns the column names of a destination table
	Columns(ctx context.Context, id string) ([]string, error)
	// UpdateTable writes a record set into a destination table
	UpdateTable(ctx context.Context, id string, tbl *table.Table, opts UpdateOptions) error
	// AddErrors records invalid files
	AddErrors(ctx context.Context, errs []FileError) error
	// CenterErrors returns the invalid files recorded for a center
	CenterErrors(ctx context.Context, center string) ([]FileError, error)
}

// 📦 ContainerInfo describes a container
type ContainerInfo struct {
	ID   string
	Name string
}

// 📂 ContainerStore holds center input folders
type ContainerStore interface {
	// Stat checks that id is a readable container
	Stat(ctx context.Context, id string) (ContainerInfo, error)
	// Ensure creates the container when missing
	Ensure(ctx context.Context, id string) error
	// List returns the file names directly inside the container
	List(ctx context.Context, id string) ([]string, error)
	// Download copies a file out of the container into dir and returns the local path
	Download(ctx context.Context, id, name, dir string) (string, error)
	// Upload copies a local file into the container
	Upload(ctx context.Context, id, path string) error
}

// 🔌 Client is the store handle shared by every handler in a run
type Client struct {
	Tables     TableStore
	Containers ContainerStore
}
