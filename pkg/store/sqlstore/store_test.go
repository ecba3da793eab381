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

package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/tabgenie/pkg/store"
	"github.com/walteh/tabgenie/pkg/table"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Config{
		Driver: DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "db", "tabgenie.db"),
	})
	require.NoError(t, err, "opening store")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "sqlite", cfg: Config{Driver: DriverSQLite, DSN: "x.db"}},
		{name: "postgres", cfg: Config{Driver: DriverPostgres, DSN: "postgres://localhost/db", PingTimeout: time.Second}},
		{name: "bad_driver", cfg: Config{Driver: "mysql", DSN: "x"}, wantErr: "unsupported store driver"},
		{name: "no_dsn", cfg: Config{Driver: DriverSQLite}, wantErr: "dsn is required"},
		{name: "negative_timeout", cfg: Config{Driver: DriverSQLite, DSN: "x", PingTimeout: -1}, wantErr: "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err, "config should be valid")
				return
			}
			assert.ErrorContains(t, err, tt.wantErr, "error should match")
		})
	}
}

func TestDialect(t *testing.T) {
	assert.Equal(t, "?, ?, ?", dialectFor(DriverSQLite).binds(1, 3), "sqlite placeholders")
	assert.Equal(t, "$2, $3", dialectFor(DriverPostgres).binds(2, 2), "postgres placeholders")
	assert.Equal(t, `"a""b"`, quote(`a"b`), "identifier quoting")
}

func TestMappings(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.DatabaseID(ctx, "clinical")
	assert.ErrorIs(t, err, store.ErrNotFound, "unmapped database")

	require.NoError(t, s.PutDatabase(ctx, "clinical", "clinical_v1"))
	require.NoError(t, s.PutDatabase(ctx, "clinical", "clinical_v2"))
	id, err := s.DatabaseID(ctx, "clinical")
	require.NoError(t, err, "mapped database")
	assert.Equal(t, "clinical_v2", id, "latest mapping wins")

	all, err := s.Databases(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"clinical": "clinical_v2"}, all, "mapping should match")

	require.NoError(t, s.PutCenter(ctx, store.CenterMapping{Center: "WOW", InputID: "in/WOW"}))
	require.NoError(t, s.PutCenter(ctx, store.CenterMapping{Center: "SAGE", InputID: "in/SAGE", Release: true}))
	require.NoError(t, s.PutCenter(ctx, store.CenterMapping{Center: "SAGE", InputID: "in/SAGE2", StagingID: "stage", Release: true}))

	centers, err := s.CenterMappings(ctx)
	require.NoError(t, err)
	want := []store.CenterMapping{
		{Center: "SAGE", InputID: "in/SAGE2", StagingID: "stage", Release: true},
		{Center: "WOW", InputID: "in/WOW"},
	}
	if diff := cmp.Diff(want, centers); diff != "" {
		t.Errorf("center mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateTable(t *testing.T) {
	ctx := context.Background()

	rows := func(cols []string, data ...[]string) *table.Table {
		tbl := table.New(cols...)
		for _, r := range data {
			tbl.Append(r...)
		}
		return tbl
	}
	cols := []string{"ID", "CENTER"}

	tests := []struct {
		name   string
		before *table.Table
		update *table.Table
		opts   store.UpdateOptions
		want   [][]string
	}{
		{
			name:   "append",
			before: rows(cols, []string{"1", "SAGE"}),
			update: rows(cols, []string{"2", "SAGE"}),
			want:   [][]string{{"1", "SAGE"}, {"2", "SAGE"}},
		},
		{
			name:   "replace_whole_table",
			before: rows(cols, []string{"1", "SAGE"}, []string{"9", "WOW"}),
			update: rows(cols, []string{"2", "SAGE"}),
			opts:   store.UpdateOptions{DeleteAbsent: true},
			want:   [][]string{{"2", "SAGE"}},
		},
		{
			name:   "replace_center_scope",
			before: rows(cols, []string{"1", "SAGE"}, []string{"9", "WOW"}),
			update: rows(cols, []string{"2", "SAGE"}, []string{"3", "WOW"}),
			opts:   store.UpdateOptions{DeleteAbsent: true, FilterColumn: "CENTER", FilterValue: "SAGE"},
			want:   [][]string{{"9", "WOW"}, {"2", "SAGE"}},
		},
		{
			name:   "new_column_added",
			before: rows(cols, []string{"1", "SAGE"}),
			update: rows([]string{"ID", "CENTER", "SEX"}, []string{"2", "SAGE", "F"}),
			want:   [][]string{{"1", "SAGE", ""}, {"2", "SAGE", "F"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openTestStore(t)
			require.NoError(t, s.UpdateTable(ctx, "dest", tt.before, store.UpdateOptions{}), "seeding table")
			require.NoError(t, s.UpdateTable(ctx, "dest", tt.update, tt.opts), "updating table")

			got, err := s.ReadTable(ctx, "dest")
			require.NoError(t, err, "reading table")
			assert.ElementsMatch(t, tt.want, got.Rows, "rows should match")
		})
	}

	t.Run("filter_column_missing", func(t *testing.T) {
		s := openTestStore(t)
		err := s.UpdateTable(ctx, "dest", rows([]string{"ID"}, []string{"1"}),
			store.UpdateOptions{DeleteAbsent: true, FilterColumn: "CENTER", FilterValue: "SAGE"})
		assert.ErrorContains(t, err, "has no CENTER column", "missing filter column should fail")
	})
}

func TestCreateTableColumns(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.CreateTable(ctx, "cna_v1", []string{"HUGO_SYMBOL", "S1"}))
	cols, err := s.Columns(ctx, "cna_v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"HUGO_SYMBOL", "S1"}, cols, "columns should match")

	got, err := s.ReadTable(ctx, "cna_v1")
	require.NoError(t, err)
	assert.True(t, got.Empty(), "new table is empty")

	assert.Error(t, s.CreateTable(ctx, "none", nil), "no columns should fail")
}

func TestErrorTracker(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.AddErrors(ctx, []store.FileError{
		{Center: "SAGE", FileName: "b.txt", FileType: "cna", Errors: "bad\n", CreatedAt: first.Add(time.Hour)},
		{Center: "SAGE", FileName: "a.txt", FileType: "csv", Errors: "empty\n", CreatedAt: first},
		{Center: "WOW", FileName: "c.txt", FileType: "csv", Errors: "empty\n"},
	}))
	require.NoError(t, s.AddErrors(ctx, nil), "nothing to record")

	got, err := s.CenterErrors(ctx, "SAGE")
	require.NoError(t, err)
	require.Len(t, got, 2, "only SAGE errors")
	assert.Equal(t, "a.txt", got[0].FileName, "oldest first")
	assert.Equal(t, first, got[0].CreatedAt, "timestamp should round-trip")
	assert.Equal(t, "b.txt", got[1].FileName, "newest last")
	assert.NotEmpty(t, got[0].ID, "id should be generated")
	assert.NotEqual(t, got[0].ID, got[1].ID, "ids should be unique")

	none, err := s.CenterErrors(ctx, "FOO")
	require.NoError(t, err)
	assert.Empty(t, none, "unknown center has no errors")
}
