package inspect

import (
	"fmt"

	"github.com/spf13/cobra"

	"sitecheck/internal/app/client"
)

var (
	startOrg      string
	startRecord   string
	startTemplate string
	startUser     string
)

var StartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new inspection",
	Long: `Creates a draft report on the server for the given record and
template, and opens it as the active inspection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := client.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		reportID, err := app.Session.StartInspection(cmd.Context(),
			startOrg, startRecord, startTemplate, startUser)
		if err != nil {
			return fmt.Errorf("failed to start inspection: %w", err)
		}

		fmt.Printf("Inspection started.\n")
		fmt.Printf("Report ID: %s\n", reportID)
		fmt.Printf("Items to complete: %d\n", app.Session.TotalItems())
		fmt.Println()
		fmt.Printf("Answer items with: sitecheck inspect answer %s --item <id> --value <value>\n", reportID)

		return nil
	},
}

func init() {
	StartCmd.Flags().StringVar(&startOrg, "org", "", "organisation ID")
	StartCmd.Flags().StringVar(&startRecord, "record", "", "record (site) ID to inspect")
	StartCmd.Flags().StringVar(&startTemplate, "template", "", "template ID")
	StartCmd.Flags().StringVar(&startUser, "user", "", "inspecting user ID")

	StartCmd.MarkFlagRequired("org")
	StartCmd.MarkFlagRequired("record")
	StartCmd.MarkFlagRequired("template")
	StartCmd.MarkFlagRequired("user")
}
