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

package main

import (
	"context"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/tabgenie/cmd/tabgenie/commands"
	"github.com/walteh/tabgenie/cmd/tabgenie/opts"
	"github.com/walteh/tabgenie/pkg/config"
	"github.com/walteh/tabgenie/pkg/coordinator"
	"github.com/walteh/tabgenie/pkg/formats"
	"github.com/walteh/tabgenie/pkg/log"
	"github.com/walteh/tabgenie/pkg/store"
	"github.com/walteh/tabgenie/pkg/store/objectstore"
	"github.com/walteh/tabgenie/pkg/store/sqlstore"
	"gitlab.com/tozd/go/errors"
)

// DefaultConfigFile is read when present and --config is not given
const DefaultConfigFile = ".tabgenie"

// skipSetup marks commands that run without config or stores
const skipSetup = "tabgenie/skip-setup"

func newRootCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabgenie",
		Short: "Validate and process tabular submissions from contributing centers",
		Long: `tabgenie validates tabular files submitted by contributing centers,
transforms the valid ones and loads them into per-type destination tables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), o.Debug)
			cmd.SetContext(ctx)
			if cmd.Annotations[skipSetup] == "true" {
				return nil
			}
			return setup(ctx, cmd, o)
		},
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(
		commands.NewValidateCmd(o),
		commands.NewProcessCmd(o),
		commands.NewBootstrapCmd(o),
		commands.NewFileErrorsCmd(o),
		commands.NewReplaceDBCmd(o),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", DefaultConfigFile, "config file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging sets the level of the context logger and adds the console logger
func setupLogging(ctx context.Context, debug bool) context.Context {
	level := zerolog.InfoLevel
	consoleLevel := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
		consoleLevel = zerolog.DebugLevel
	}
	logger := zerolog.Ctx(ctx).Level(level)
	ctx = logger.WithContext(ctx)
	return log.NewContext(ctx, log.New(os.Stdout, consoleLevel))
}

// setup loads the configuration and opens the stores the commands run against
func setup(ctx context.Context, cmd *cobra.Command, o *opts.RootOpts) error {
	path := o.ConfigFile
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.LoadConfig(ctx, path)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	reg, err := formats.Registry(cfg.Formats)
	if err != nil {
		return errors.Errorf("building format registry: %w", err)
	}

	tables, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:      cfg.Store.Driver,
		DSN:         cfg.Store.DSN,
		PingTimeout: cfg.Store.PingTimeout.Duration,
	})
	if err != nil {
		return errors.Errorf("opening table store: %w", err)
	}
	o.OnClose(tables.Close)

	containers, err := newContainers(cfg)
	if err != nil {
		return err
	}

	user := log.NewUserLogger(ctx)
	coord, err := coordinator.New(coordinator.Options{
		Config:     cfg,
		Registry:   reg,
		Client:     &store.Client{Tables: tables, Containers: containers},
		UserLogger: user,
	})
	if err != nil {
		return errors.Errorf("creating coordinator: %w", err)
	}

	o.Config = cfg
	o.Coordinator = coord
	o.UserLogger = user

	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("configuration loaded")
	return nil
}

// newContainers picks the container store the configuration names
func newContainers(cfg *config.Config) (store.ContainerStore, error) {
	if !cfg.UsesObjectStore() {
		local, err := objectstore.NewLocal(cfg.LocalRoot)
		if err != nil {
			return nil, errors.Errorf("opening local containers: %w", err)
		}
		return local, nil
	}

	m, err := objectstore.NewMinio(objectstore.MinioConfig{
		Endpoint:  cfg.ObjectStore.Endpoint,
		AccessKey: cfg.ObjectStore.AccessKey,
		SecretKey: cfg.ObjectStore.SecretKey,
		Region:    cfg.ObjectStore.Region,
		UseSSL:    cfg.ObjectStore.UseSSL,
		Bucket:    cfg.ObjectStore.Bucket,
	})
	if err != nil {
		return nil, errors.Errorf("opening object store: %w", err)
	}
	return m, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write([]byte(FormatVersion()))
			return errors.WithStack(err)
		},
	}
}
