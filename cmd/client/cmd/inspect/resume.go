package inspect

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sitecheck/internal/app/client"
)

var ResumeCmd = &cobra.Command{
	Use:   "resume <report-id>",
	Short: "Resume an inspection",
	Long: `Loads an existing report, reconciling server state with any local
draft. Fields edited on both sides are merged; the merge summary shows
which side won where.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := client.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		reportID := args[0]
		if err := app.Session.LoadInspection(cmd.Context(), reportID); err != nil {
			return fmt.Errorf("failed to resume inspection: %w", err)
		}

		fmt.Printf("Inspection resumed: %s\n", reportID)
		fmt.Printf("Progress: %d%% (%d/%d items)\n",
			app.Session.Progress(), app.Session.CompletedItems(), app.Session.TotalItems())

		if summary := app.Session.LastMerge(); summary != nil {
			if summary.ConflictCount > 0 {
				color.Yellow("Merged %d conflicting item(s): %d field(s) kept local, %d field(s) kept server",
					summary.ConflictCount, summary.LocalWinCount, summary.ServerWinCount)
			} else {
				color.Green("Local draft and server state merged cleanly")
			}
		}

		return nil
	},
}
