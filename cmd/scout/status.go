// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-scout/internal/state"
)

func newStatusCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status [root...]",
		Short: "Show the persisted discovery state of each root",
		Long: `Show the persisted discovery state of each root node without contacting
the simulation API. A root is completed, resumable (a previous run stopped
part way), unusable (its document is corrupt and will be replaced) or absent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global, args, nil)
			if err != nil {
				return err
			}
			if err := initLogging(cfg, cmd.ErrOrStderr()); err != nil {
				return err
			}
			renderStatus(cmd.OutOrStdout(), state.NewStore(cfg.Storage.StateDir), cfg.Discovery.Roots)
			return nil
		},
	}
}

func renderStatus(w io.Writer, store *state.Store, roots []string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Target", "State", "Endpoints", "Paths", "Max Depth", "Requests", "Started"})
	table.SetAutoFormatHeaders(false)

	for _, root := range roots {
		doc, err := store.Peek(root)
		switch {
		case err != nil:
			table.Append([]string{root, "unusable", "-", "-", "-", "-", "-"})
		case doc == nil:
			table.Append([]string{root, "absent", "0", "0", "-", "0", "-"})
		default:
			stateName := "resumable"
			if doc.Completed {
				stateName = "completed"
			}
			table.Append([]string{
				root,
				stateName,
				fmt.Sprint(len(doc.Endpoints)),
				fmt.Sprint(len(doc.CompletedPaths)),
				fmt.Sprint(doc.MaxDepthAchieved),
				fmt.Sprint(doc.TotalRequests),
				doc.DiscoveredAt.Local().Format("2006-01-02 15:04:05"),
			})
		}
	}
	table.Render()
}
