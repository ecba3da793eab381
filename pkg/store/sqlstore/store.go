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

// Package sqlstore keeps the mapping tables, the error tracker and the
// destination tables in a SQL database.
package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/tabgenie/pkg/store"
	"github.com/walteh/tabgenie/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// Fixed tables
const (
	TableDatabaseMapping = "tabgenie_db_mapping"
	TableCenterMapping   = "tabgenie_center_mapping"
	TableErrorTracker    = "tabgenie_error_tracker"
)

var _ store.TableStore = (*Store)(nil)

// timestamps are fixed-width so they sort as text
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// 🗄️ Store implements store.TableStore on database/sql
type Store struct {
	db      *sql.DB
	dialect dialect
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + TableDatabaseMapping + ` (
			name TEXT PRIMARY KEY,
			id TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ` + TableCenterMapping + ` (
			center TEXT PRIMARY KEY,
			input_id TEXT NOT NULL,
			staging_id TEXT NOT NULL DEFAULT '',
			release_enabled BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS ` + TableErrorTracker + ` (
			id TEXT PRIMARY KEY,
			center TEXT NOT NULL,
			file_name TEXT NOT NULL,
			file_type TEXT NOT NULL,
			errors TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Errorf("migrating: %w", err)
		}
	}
	return nil
}

func (s *Store) CenterMappings(ctx context.Context) ([]store.CenterMapping, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT center, input_id, staging_id, release_enabled FROM `+TableCenterMapping+` ORDER BY center`)
	if err != nil {
		return nil, errors.Errorf("querying center mapping: %w", err)
	}
	defer rows.Close()

	var out []store.CenterMapping
	for rows.Next() {
		var m store.CenterMapping
		if err := rows.Scan(&m.Center, &m.InputID, &m.StagingID, &m.Release); err != nil {
			return nil, errors.Errorf("scanning center mapping: %w", err)
		}
		out = append(out, m)
	}
	return out, errors.WithStack(rows.Err())
}

func (s *Store) PutCenter(ctx context.Context, m store.CenterMapping) error {
	q := `INSERT INTO ` + TableCenterMapping + ` (center, input_id, staging_id, release_enabled) VALUES (` + s.dialect.binds(1, 4) + `)
		ON CONFLICT (center) DO UPDATE SET input_id = excluded.input_id, staging_id = excluded.staging_id, release_enabled = excluded.release_enabled`
	if _, err := s.db.ExecContext(ctx, q, m.Center, m.InputID, m.StagingID, m.Release); err != nil {
		return errors.Errorf("storing center %s: %w", m.Center, err)
	}
	return nil
}

func (s *Store) DatabaseID(ctx context.Context, name string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM `+TableDatabaseMapping+` WHERE name = `+s.dialect.bind(1), name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.Errorf("database %q: %w", name, store.ErrNotFound)
	}
	if err != nil {
		return "", errors.Errorf("resolving database %q: %w", name, err)
	}
	return id, nil
}

func (s *Store) PutDatabase(ctx context.Context, name, id string) error {
	q := `INSERT INTO ` + TableDatabaseMapping + ` (name, id) VALUES (` + s.dialect.binds(1, 2) + `)
		ON CONFLICT (name) DO UPDATE SET id = excluded.id`
	if _, err := s.db.ExecContext(ctx, q, name, id); err != nil {
		return errors.Errorf("mapping database %s: %w", name, err)
	}
	return nil
}

// Databases returns the whole database mapping
func (s *Store) Databases(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, id FROM `+TableDatabaseMapping)
	if err != nil {
		return nil, errors.Errorf("querying database mapping: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var name, id string
		if err := rows.Scan(&name, &id); err != nil {
			return nil, errors.Errorf("scanning database mapping: %w", err)
		}
		out[name] = id
	}
	return out, errors.WithStack(rows.Err())
}

func (s *Store) CreateTable(ctx context.Context, id string, columns []string) error {
	return s.ensureTable(ctx, s.db, id, columns)
}

func (s *Store) Columns(ctx context.Context, id string) ([]string, error) {
	return columnsOf(ctx, s.db, id)
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func columnsOf(ctx context.Context, q querier, id string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT * FROM `+quote(id)+` WHERE 1 = 0`)
	if err != nil {
		return nil, errors.Errorf("reading columns of %s: %w", id, err)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Errorf("reading columns of %s: %w", id, err)
	}
	return cols, nil
}

// ensureTable creates the table, or adds the columns it is missing
func (s *Store) ensureTable(ctx context.Context, q querier, id string, columns []string) error {
	if len(columns) == 0 {
		return errors.Errorf("creating table %s: no columns", id)
	}

	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = quote(c) + " TEXT"
	}
	if _, err := q.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+quote(id)+` (`+strings.Join(defs, ", ")+`)`); err != nil {
		return errors.Errorf("creating table %s: %w", id, err)
	}

	existing, err := columnsOf(ctx, q, id)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c] = true
	}
	for _, c := range columns {
		if have[c] {
			continue
		}
		if _, err := q.ExecContext(ctx, `ALTER TABLE `+quote(id)+` ADD COLUMN `+quote(c)+` TEXT`); err != nil {
			return errors.Errorf("adding column %s to %s: %w", c, id, err)
		}
	}
	return nil
}

// 📤 UpdateTable writes the record set inside one transaction. With
// DeleteAbsent the rows in scope are replaced, otherwise the new rows are
// appended.
func (s *Store) UpdateTable(ctx context.Context, id string, tbl *table.Table, opts store.UpdateOptions) error {
	if opts.FilterColumn != "" && !tbl.Has(opts.FilterColumn) {
		return errors.Errorf("updating %s: record set has no %s column", id, opts.FilterColumn)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Errorf("updating %s: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.ensureTable(ctx, tx, id, tbl.Columns); err != nil {
		return err
	}

	var deleted int64
	if opts.DeleteAbsent {
		q := `DELETE FROM ` + quote(id)
		var args []any
		if opts.FilterColumn != "" {
			q += ` WHERE ` + quote(opts.FilterColumn) + ` = ` + s.dialect.bind(1)
			args = append(args, opts.FilterValue)
		}
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return errors.Errorf("clearing %s: %w", id, err)
		}
		deleted, _ = res.RowsAffected()
	}

	cols := make([]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		cols[i] = quote(c)
	}
	insert := `INSERT INTO ` + quote(id) + ` (` + strings.Join(cols, ", ") + `) VALUES (` + s.dialect.binds(1, len(cols)) + `)`
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return errors.Errorf("preparing insert into %s: %w", id, err)
	}
	defer stmt.Close()

	for _, row := range tbl.Rows {
		if opts.FilterColumn != "" && row[tbl.Index(opts.FilterColumn)] != opts.FilterValue {
			continue
		}
		args := make([]any, len(row))
		for i, v := range row {
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.Errorf("inserting into %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Errorf("committing %s: %w", id, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("table", id).
		Int("rows", tbl.Len()).
		Int64("deleted", deleted).
		Msg("table updated")
	return nil
}

// ReadTable returns every row of a destination table
func (s *Store) ReadTable(ctx context.Context, id string) (*table.Table, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT * FROM `+quote(id))
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", id, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", id, err)
	}
	out := table.New(cols...)
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Errorf("scanning %s: %w", id, err)
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = v.String
		}
		out.Append(row...)
	}
	return out, errors.WithStack(rows.Err())
}

func (s *Store) AddErrors(ctx context.Context, errs []store.FileError) error {
	if len(errs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Errorf("recording file errors: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := `INSERT INTO ` + TableErrorTracker + ` (id, center, file_name, file_type, errors, created_at) VALUES (` + s.dialect.binds(1, 6) + `)`
	for _, e := range errs {
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		created := e.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		if _, err := tx.ExecContext(ctx, q, id, e.Center, e.FileName, e.FileType, e.Errors, created.UTC().Format(timeLayout)); err != nil {
			return errors.Errorf("recording error for %s: %w", e.FileName, err)
		}
	}
	return errors.WithStack(tx.Commit())
}

func (s *Store) CenterErrors(ctx context.Context, center string) ([]store.FileError, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, center, file_name, file_type, errors, created_at FROM `+TableErrorTracker+
			` WHERE center = `+s.dialect.bind(1)+` ORDER BY created_at, file_name`, center)
	if err != nil {
		return nil, errors.Errorf("querying errors of %s: %w", center, err)
	}
	defer rows.Close()

	var out []store.FileError
	for rows.Next() {
		var (
			e       store.FileError
			created string
		)
		if err := rows.Scan(&e.ID, &e.Center, &e.FileName, &e.FileType, &e.Errors, &created); err != nil {
			return nil, errors.Errorf("scanning errors of %s: %w", center, err)
		}
		if e.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, errors.Errorf("parsing error timestamp %q: %w", created, err)
		}
		out = append(out, e)
	}
	return out, errors.WithStack(rows.Err())
}
