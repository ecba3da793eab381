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

package coordinator

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/walteh/tabgenie/pkg/store"
	"github.com/walteh/tabgenie/pkg/table"
)

// 🎭 MockTables is a mock implementation of store.TableStore
type MockTables struct {
	mock.Mock
}

var _ store.TableStore = (*MockTables)(nil)

func (m *MockTables) CenterMappings(ctx context.Context) ([]store.CenterMapping, error) {
	args := m.Called(ctx)
	mappings, _ := args.Get(0).([]store.CenterMapping)
	return mappings, args.Error(1)
}

func (m *MockTables) PutCenter(ctx context.Context, c store.CenterMapping) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockTables) DatabaseID(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockTables) PutDatabase(ctx context.Context, name, id string) error {
	return m.Called(ctx, name, id).Error(0)
}

func (m *MockTables) CreateTable(ctx context.Context, id string, columns []string) error {
	return m.Called(ctx, id, columns).Error(0)
}

func (m *MockTables) Columns(ctx context.Context, id string) ([]string, error) {
	args := m.Called(ctx, id)
	cols, _ := args.Get(0).([]string)
	return cols, args.Error(1)
}

func (m *MockTables) UpdateTable(ctx context.Context, id string, tbl *table.Table, opts store.UpdateOptions) error {
	return m.Called(ctx, id, tbl, opts).Error(0)
}

func (m *MockTables) AddErrors(ctx context.Context, errs []store.FileError) error {
	return m.Called(ctx, errs).Error(0)
}

func (m *MockTables) CenterErrors(ctx context.Context, center string) ([]store.FileError, error) {
	args := m.Called(ctx, center)
	errs, _ := args.Get(0).([]store.FileError)
	return errs, args.Error(1)
}
