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
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"gitlab.com/tozd/go/errors"
	_ "modernc.org/sqlite"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultPingTimeout bounds the connection check in Open
const DefaultPingTimeout = 2 * time.Second

// 🔧 Config selects and reaches the database
type Config struct {
	Driver      string
	DSN         string
	PingTimeout time.Duration
}

func (c Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return errors.Errorf("unsupported store driver %q", c.Driver)
	}
	if c.DSN == "" {
		return errors.New("store dsn is required")
	}
	if c.PingTimeout < 0 {
		return errors.New("store ping timeout must not be negative")
	}
	return nil
}

// 🔌 Open connects, checks the connection and prepares the schema
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := dialectFor(cfg.Driver)

	if cfg.Driver == DriverSQLite && !strings.HasPrefix(cfg.DSN, "file:") && cfg.DSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0o755); err != nil {
			return nil, errors.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open(d.driverName, cfg.DSN)
	if err != nil {
		return nil, errors.Errorf("opening %s database: %w", cfg.Driver, err)
	}
	if cfg.Driver == DriverSQLite {
		// one writer at a time, and every caller sees the same in-memory database
		db.SetMaxOpenConns(1)
	}

	timeout := cfg.PingTimeout
	if timeout == 0 {
		timeout = DefaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Errorf("pinging %s database: %w", cfg.Driver, err)
	}

	s := &Store{db: db, dialect: d}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

type dialect struct {
	driverName string
	positional bool
}

func dialectFor(driver string) dialect {
	if driver == DriverPostgres {
		return dialect{driverName: "pgx", positional: true}
	}
	return dialect{driverName: "sqlite"}
}

// bind returns the placeholder for the n-th (1-based) argument
func (d dialect) bind(n int) string {
	if d.positional {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func (d dialect) binds(from, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = d.bind(from + i)
	}
	return strings.Join(parts, ", ")
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
