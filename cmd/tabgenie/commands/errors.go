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
	"time"

	"github.com/spf13/cobra"
	"github.com/walteh/tabgenie/cmd/tabgenie/opts"
	"gitlab.com/tozd/go/errors"
)

// NewFileErrorsCmd creates the get-file-errors command
func NewFileErrorsCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-file-errors CENTER",
		Short: "Show the invalid files recorded for a center",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			center := args[0]
			errs, err := opts.Coordinator.FileErrors(cmd.Context(), center)
			if err != nil {
				return errors.Errorf("getting file errors: %w", err)
			}

			rows := make([][]string, len(errs))
			for i, e := range errs {
				rows[i] = []string{e.FileName, e.FileType, e.CreatedAt.Format(time.RFC3339), e.Errors}
			}
			return opts.UserLogger.RenderErrors(center, rows)
		},
	}

	return cmd
}
