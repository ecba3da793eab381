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

package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gitlab.com/tozd/go/errors"
)

// Defaults applied to unset fields
const (
	DefaultOutputDir     = "output"
	DefaultStoreDriver   = "sqlite"
	DefaultStoreDSN      = ".tabgenie/tabgenie.db"
	DefaultPingTimeout   = 2 * time.Second
	DefaultUploadAttempt = 3
	DefaultUploadDelay   = time.Second
)

// 📚 Config represents the complete configuration
type Config struct {
	ProjectID   string            `json:"project_id" yaml:"project_id" envconfig:"PROJECT_ID" validate:"required"`
	Formats     []string          `json:"formats,omitempty" yaml:"formats,omitempty" envconfig:"FORMATS"`
	OutputDir   string            `json:"output_dir,omitempty" yaml:"output_dir,omitempty" envconfig:"OUTPUT_DIR"`
	LocalRoot   string            `json:"local_root,omitempty" yaml:"local_root,omitempty" envconfig:"LOCAL_ROOT"`
	Store       StoreConfig       `json:"store" yaml:"store" envconfig:"STORE"`
	ObjectStore ObjectStoreConfig `json:"object_store" yaml:"object_store" envconfig:"OBJECT_STORE"`
	Upload      UploadConfig      `json:"upload" yaml:"upload" envconfig:"UPLOAD"`

	location string
}

// 🗄️ StoreConfig selects the tabular store
type StoreConfig struct {
	Driver      string   `json:"driver,omitempty" yaml:"driver,omitempty" envconfig:"DRIVER" validate:"oneof=postgres sqlite"`
	DSN         string   `json:"dsn,omitempty" yaml:"dsn,omitempty" envconfig:"DSN" validate:"required"`
	PingTimeout Duration `json:"ping_timeout,omitempty" yaml:"ping_timeout,omitempty" envconfig:"PING_TIMEOUT"`
}

// 🪣 ObjectStoreConfig reaches an S3-compatible bucket holding the containers
type ObjectStoreConfig struct {
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" envconfig:"ENDPOINT"`
	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty" envconfig:"ACCESS_KEY" validate:"required_with=SecretKey"`
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty" envconfig:"SECRET_KEY" validate:"required_with=AccessKey"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty" envconfig:"REGION"`
	UseSSL    bool   `json:"use_ssl,omitempty" yaml:"use_ssl,omitempty" envconfig:"USE_SSL"`
	Bucket    string `json:"bucket,omitempty" yaml:"bucket,omitempty" envconfig:"BUCKET" validate:"required_with=Endpoint"`
}

// 📤 UploadConfig controls how processed output reaches the destination tables
type UploadConfig struct {
	// FilterByCenter scopes each update to the rows of the processed center
	FilterByCenter bool `json:"filter_by_center,omitempty" yaml:"filter_by_center,omitempty" envconfig:"FILTER_BY_CENTER"`
	// DeleteAbsent replaces the rows in scope instead of appending
	DeleteAbsent bool     `json:"delete_absent,omitempty" yaml:"delete_absent,omitempty" envconfig:"DELETE_ABSENT"`
	Attempts     uint     `json:"attempts,omitempty" yaml:"attempts,omitempty" envconfig:"ATTEMPTS"`
	Delay        Duration `json:"delay,omitempty" yaml:"delay,omitempty" envconfig:"DELAY"`
}

// Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// UsesObjectStore reports whether containers live in a bucket rather than on disk
func (cfg *Config) UsesObjectStore() bool {
	return cfg.ObjectStore.Endpoint != ""
}

// 🔧 SetDefaults fills unset fields
func (cfg *Config) SetDefaults() {
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DefaultStoreDriver
	}
	if cfg.Store.DSN == "" && cfg.Store.Driver == DefaultStoreDriver {
		cfg.Store.DSN = DefaultStoreDSN
	}
	if cfg.Store.PingTimeout.Duration == 0 {
		cfg.Store.PingTimeout.Duration = DefaultPingTimeout
	}
	if cfg.Upload.Attempts == 0 {
		cfg.Upload.Attempts = DefaultUploadAttempt
	}
	if cfg.Upload.Delay.Duration == 0 {
		cfg.Upload.Delay.Duration = DefaultUploadDelay
	}
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	if cfg.LocalRoot != "" {
		cfg.LocalRoot = filepath.Clean(cfg.LocalRoot)
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return errors.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return errors.Errorf("invalid config: %w", err)
	}

	if cfg.UsesObjectStore() == (cfg.LocalRoot != "") {
		return errors.New("exactly one of object_store.endpoint and local_root must be set")
	}
	if cfg.Store.PingTimeout.Duration < 0 || cfg.Upload.Delay.Duration < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

// 🔑 Hash returns a short stable digest of the config, used to correlate logs
func (cfg *Config) Hash() string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:12]
}

// 📝 String returns a one-line summary. Credentials are left out.
func (cfg *Config) String() string {
	containers := "local:" + cfg.LocalRoot
	if cfg.UsesObjectStore() {
		containers = "s3:" + cfg.ObjectStore.Endpoint + "/" + cfg.ObjectStore.Bucket
	}
	formats := "all"
	if len(cfg.Formats) > 0 {
		formats = strings.Join(cfg.Formats, ",")
	}
	return fmt.Sprintf("%s [%s] store=%s containers=%s formats=%s", cfg.ProjectID, cfg.Hash(), cfg.Store.Driver, containers, formats)
}

// ⏱️ Duration reads "1m30s" style strings from every config source
type Duration struct {
	time.Duration
}

func (d *Duration) parse(s string) error {
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return errors.Errorf("parsing duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

// Decode is used by envconfig
func (d *Duration) Decode(value string) error {
	return d.parse(value)
}

func (d *Duration) UnmarshalText(text []byte) error {
	return d.parse(string(text))
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
