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
	"github.com/spf13/cobra"
	"github.com/walteh/tabgenie/cmd/tabgenie/opts"
	"github.com/walteh/tabgenie/pkg/coordinator"
	"github.com/walteh/tabgenie/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewProcessCmd creates the process command
func NewProcessCmd(opts *opts.RootOpts) *cobra.Command {
	var center string
	var onlyValidate bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Validate and load the submissions of released centers",
		Long: `Process runs every released center, or only --center.
It will:
1. Download the center's input container
2. Validate every file set and record invalid ones
3. Transform valid sets into the output directory
4. Load the output into the destination tables`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)
			console.Header("processing " + opts.Config.ProjectID)

			summaries, err := opts.Coordinator.Process(ctx, coordinator.ProcessOptions{
				Center:       center,
				OnlyValidate: onlyValidate,
			})
			if err != nil {
				return errors.Errorf("processing: %w", err)
			}

			var invalid int
			for _, s := range summaries {
				for _, r := range s.Results {
					if r.Outcome == log.OutcomeInvalid || r.Outcome == log.OutcomeUnrecognized {
						invalid++
					}
				}
			}
			if invalid > 0 {
				console.Warningf("%d invalid file sets, see get-file-errors", invalid)
			}
			console.Successf("%d centers done", len(summaries))
			return nil
		},
	}

	cmd.Flags().StringVar(&center, "center", "", "only process this center")
	cmd.Flags().BoolVar(&onlyValidate, "only-validate", false, "validate without processing")

	return cmd
}
