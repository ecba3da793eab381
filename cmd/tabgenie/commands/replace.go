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
	"gitlab.com/tozd/go/errors"
)

// NewReplaceDBCmd creates the replace-db command
func NewReplaceDBCmd(opts *opts.RootOpts) *cobra.Command {
	var tableName string

	cmd := &cobra.Command{
		Use:   "replace-db FILETYPE",
		Short: "Point a file type at a fresh empty table",
		Long: `Replace-db creates an empty table with the columns of the file type's
current table, named after --table-name and today's date, and points the
file type at it. The current table is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileType := args[0]
			id, err := opts.Coordinator.ReplaceTable(cmd.Context(), fileType, tableName)
			if err != nil {
				return errors.Errorf("replacing table: %w", err)
			}
			opts.UserLogger.LogStateChange(fileType + " now points at " + id)
			return nil
		},
	}

	cmd.Flags().StringVar(&tableName, "table-name", "", "name of the new table, defaults to the file type")

	return cmd
}
