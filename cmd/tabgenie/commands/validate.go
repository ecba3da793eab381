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
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/tabgenie/cmd/tabgenie/opts"
	"github.com/walteh/tabgenie/pkg/coordinator"
	"github.com/walteh/tabgenie/pkg/formats"
	"gitlab.com/tozd/go/errors"
)

// NewValidateCmd creates the validate-single-file command
func NewValidateCmd(opts *opts.RootOpts) *cobra.Command {
	var fileType, parentID string

	cmd := &cobra.Command{
		Use:   "validate-single-file FILE... CENTER",
		Short: "Validate submission files for a center",
		Long: `Validate checks one file set for a center and prints the report.
It will:
1. Check the --parentid and --filetype combination
2. Check that the center is mapped
3. Recognize the file type from the names, unless --filetype is given
4. Print the errors and warnings found
5. Upload the files to --parentid when they are valid`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := opts.Coordinator.ValidateSingleFile(cmd.Context(), coordinator.ValidateOptions{
				Files:    args[:len(args)-1],
				Center:   args[len(args)-1],
				FileType: fileType,
				ParentID: parentID,
			})
			if err != nil {
				return errors.Errorf("validating: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fileType, "filetype", "", "file type to validate as, one of: "+strings.Join(formats.Tags(), ", "))
	cmd.Flags().StringVar(&parentID, "parentid", "", "container to upload valid files to")

	return cmd
}
