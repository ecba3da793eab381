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

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/tabgenie/cmd/tabgenie/opts"
	"gitlab.com/tozd/go/errors"
)

// NewBootstrapCmd creates the bootstrap-infra command
func NewBootstrapCmd(opts *opts.RootOpts) *cobra.Command {
	var centers []string

	cmd := &cobra.Command{
		Use:   "bootstrap-infra",
		Short: "Create the mappings and containers of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Coordinator.Bootstrap(cmd.Context(), centers); err != nil {
				return errors.Errorf("bootstrapping: %w", err)
			}
			opts.UserLogger.LogStateChange(fmt.Sprintf("bootstrapped %s for %d centers", opts.Config.ProjectID, len(centers)))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&centers, "centers", nil, "centers to create")
	_ = cmd.MarkFlagRequired("centers")

	return cmd
}
