package inspect

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sitecheck/internal/app/client"
	"sitecheck/internal/domain/report"
)

var StatusCmd = &cobra.Command{
	Use:   "status <report-id>",
	Short: "Show inspection progress",
	Args:  cobra.ExactArgs(1),
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

		rep := sess.Report()
		tpl := sess.Template()

		fmt.Printf("Report: %s\n", rep.ID)
		fmt.Printf("Template: %s\n", tpl.Name)
		switch rep.Status {
		case report.StatusSubmitted:
			color.Green("Status: submitted")
		default:
			color.Yellow("Status: draft")
		}
		fmt.Printf("Progress: %d%% (%d/%d items)\n\n",
			sess.Progress(), sess.CompletedItems(), sess.TotalItems())

		responses := make(map[string]client.DraftResponse)
		for _, resp := range sess.Responses() {
			responses[resp.TemplateItemID] = resp
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, section := range tpl.Sections {
			fmt.Fprintf(w, "%s\t\t\t\n", color.New(color.Bold).Sprint(section.Title))
			for _, item := range section.Items {
				resp := responses[item.ID]

				value := "-"
				if resp.ResponseValue != nil {
					value = *resp.ResponseValue
				}
				severity := ""
				if resp.Severity != nil {
					severity = string(*resp.Severity)
				}
				attachments := ""
				if n := len(resp.Photos) + len(resp.Videos); n > 0 {
					attachments = fmt.Sprintf("%d attachment(s)", n)
				}

				fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", item.Label, value, severity, attachments)
			}
		}
		w.Flush()

		pending, err := app.PendingWrites()
		if err == nil && pending > 0 {
			fmt.Println()
			color.Yellow("%d write(s) queued for sync", pending)
		}

		return nil
	},
}
