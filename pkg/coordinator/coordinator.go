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

// Package coordinator drives whole runs: single-file validation, center
// processing, infrastructure bootstrap and table maintenance.
package coordinator

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/tabgenie/pkg/config"
	"github.com/walteh/tabgenie/pkg/format"
	"github.com/walteh/tabgenie/pkg/log"
	"github.com/walteh/tabgenie/pkg/pipeline"
	"github.com/walteh/tabgenie/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// ParamProjectID carries the project id into every validation
const ParamProjectID = "project_id"

// TablePrefix names the destination tables created by Bootstrap
const TablePrefix = "tabgenie_"

// 🔧 Options contains what a coordinator needs
type Options struct {
	Config     *config.Config
	Registry   *format.Registry
	Client     *store.Client
	UserLogger *log.UserLogger
}

// 🎮 Coordinator runs commands against one project
type Coordinator struct {
	cfg    *config.Config
	reg    *format.Registry
	client *store.Client
	user   *log.UserLogger
	now    func() time.Time
}

// 🏭 New creates a coordinator with the given options
func New(opts Options) (*Coordinator, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Registry == nil {
		return nil, errors.Errorf("registry is required")
	}
	if opts.Client == nil || opts.Client.Tables == nil || opts.Client.Containers == nil {
		return nil, errors.Errorf("store client is required")
	}
	if opts.UserLogger == nil {
		return nil, errors.Errorf("user logger is required")
	}
	return &Coordinator{
		cfg:    opts.Config,
		reg:    opts.Registry,
		client: opts.Client,
		user:   opts.UserLogger,
		now:    time.Now,
	}, nil
}

// 📋 ValidateOptions selects what ValidateSingleFile checks
type ValidateOptions struct {
	Files    []string
	Center   string
	FileType string
	// ParentID is the container receiving the files when they are valid
	ParentID string
}

// 🔍 ValidateSingleFile validates local files for a center, prints the
// verdict and uploads the files to ParentID when they pass.
func (c *Coordinator) ValidateSingleFile(ctx context.Context, opts ValidateOptions) (pipeline.Result, error) {
	if err := pipeline.CheckParentIDInput(opts.ParentID, opts.FileType); err != nil {
		return pipeline.Result{}, err
	}
	if err := pipeline.CheckParentIDPermissionContainer(ctx, c.client.Containers, opts.ParentID); err != nil {
		return pipeline.Result{}, err
	}

	centers, err := c.centers(ctx)
	if err != nil {
		return pipeline.Result{}, err
	}
	if err := pipeline.CheckCenterInput(opts.Center, centers); err != nil {
		return pipeline.Result{}, err
	}

	res, err := c.validate(ctx, format.FileSet(opts.Files), opts.Center, opts.FileType)
	if err != nil {
		return pipeline.Result{}, err
	}

	c.user.LogValidation(res.Valid, res.Message, nil)

	if res.Valid && opts.ParentID != "" {
		for _, path := range opts.Files {
			if err := c.client.Containers.Upload(ctx, opts.ParentID, path); err != nil {
				return res, errors.Errorf("uploading %s: %w", path, err)
			}
			c.user.LogUpload(path, opts.ParentID)
		}
	}

	return res, nil
}

// validate runs the validation pipeline. A set no handler recognizes, or
// one that cannot be read, is an invalid result rather than an error.
func (c *Coordinator) validate(ctx context.Context, files format.FileSet, center, fileType string) (pipeline.Result, error) {
	params := format.Params{ParamProjectID: c.cfg.ProjectID}

	res, err := pipeline.ValidateFileSet(ctx, c.reg, c.client, files, center, fileType, params)

	var unrecognized *format.UnrecognizedFileTypeError
	if errors.As(err, &unrecognized) {
		zerolog.Ctx(ctx).Debug().Str("files", files.String()).Msg("unrecognized file set")
		return pipeline.Result{Valid: false, Message: unrecognized.Error()}, nil
	}

	var unreadable *format.LoadError
	if errors.As(err, &unreadable) {
		zerolog.Ctx(ctx).Warn().Err(err).Str("files", files.String()).Msg("unreadable file set")
		return pipeline.Result{
			Valid:    false,
			Message:  pipeline.ErrorsBanner + unreadable.Error() + "\n",
			FileType: unreadable.FileType,
		}, nil
	}

	if err != nil {
		return pipeline.Result{}, errors.Errorf("validating %s: %w", files, err)
	}
	return res, nil
}

// centers lists every mapped center in mapping order
func (c *Coordinator) centers(ctx context.Context) ([]string, error) {
	mappings, err := c.client.Tables.CenterMappings(ctx)
	if err != nil {
		return nil, errors.Errorf("loading center mapping: %w", err)
	}
	var out []string
	for _, m := range mappings {
		out = append(out, m.Center)
	}
	return out, nil
}

// 📝 FileErrors returns the invalid files recorded for a center
func (c *Coordinator) FileErrors(ctx context.Context, center string) ([]store.FileError, error) {
	centers, err := c.centers(ctx)
	if err != nil {
		return nil, err
	}
	if err := pipeline.CheckCenterInput(center, centers); err != nil {
		return nil, err
	}

	errs, err := c.client.Tables.CenterErrors(ctx, center)
	if err != nil {
		return nil, errors.Errorf("reading errors of %s: %w", center, err)
	}
	return errs, nil
}

// 🔄 ReplaceTable points a file type at a fresh empty table carrying the
// current table's columns. The old table is left in place. An empty
// tableName defaults to the file type.
func (c *Coordinator) ReplaceTable(ctx context.Context, fileType, tableName string) (string, error) {
	oldID, err := c.client.Tables.DatabaseID(ctx, fileType)
	if errors.Is(err, store.ErrNotFound) {
		return "", errors.Errorf("Must specify existing database type: %w", err)
	}
	if err != nil {
		return "", err
	}

	columns, err := c.client.Tables.Columns(ctx, oldID)
	if err != nil {
		return "", errors.Errorf("reading current table of %s: %w", fileType, err)
	}

	if tableName == "" {
		tableName = fileType
	}
	newID := tableName + " - " + c.now().Format(time.DateOnly)

	if err := c.client.Tables.CreateTable(ctx, newID, columns); err != nil {
		return "", errors.Errorf("creating replacement table: %w", err)
	}
	if err := c.client.Tables.PutDatabase(ctx, fileType, newID); err != nil {
		return "", errors.Errorf("repointing %s: %w", fileType, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("file_type", fileType).
		Str("old", oldID).
		Str("new", newID).
		Msg("table replaced")

	return newID, nil
}
