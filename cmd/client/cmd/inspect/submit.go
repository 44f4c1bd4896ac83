package inspect

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sitecheck/internal/app/client"
)

var SubmitCmd = &cobra.Command{
	Use:   "submit <report-id>",
	Short: "Submit an inspection",
	Long: `Flushes any unsaved responses, then marks the report submitted on
the server. A submitted report no longer accepts writes. The local draft
is removed once every queued write for the report has flushed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := client.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		reportID := args[0]
		sess := app.Session
		if err := sess.LoadInspection(cmd.Context(), reportID); err != nil {
			return fmt.Errorf("failed to load inspection: %w", err)
		}

		if err := sess.SubmitInspection(cmd.Context()); err != nil {
			return fmt.Errorf("failed to submit inspection: %w", err)
		}

		if err := sess.Cleanup(); err != nil {
			fmt.Printf("Warning: could not clean up local draft: %v\n", err)
		}

		color.Green("Inspection submitted: %s", reportID)
		return nil
	},
}
