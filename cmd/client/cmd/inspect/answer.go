package inspect

import (
	"fmt"

	"github.com/spf13/cobra"

	"sitecheck/internal/app/client"
	"sitecheck/internal/domain/report"
)

var (
	answerItem     string
	answerValue    string
	answerSeverity string
	answerNotes    string
	answerPhoto    string
	answerVideo    string
)

var AnswerCmd = &cobra.Command{
	Use:   "answer <report-id>",
	Short: "Answer an inspection item",
	Long: `Records an answer for one template item. The draft is saved locally
right away; the write reaches the server directly when online, or is
queued for the next sync when not.`,
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

		var severity *report.Severity
		if answerSeverity != "" {
			s := report.Severity(answerSeverity)
			if !s.IsValid() {
				return fmt.Errorf("invalid severity %q (use low, medium or high)", answerSeverity)
			}
			severity = &s
		}

		var notes *string
		if answerNotes != "" {
			notes = &answerNotes
		}

		if answerValue != "" {
			if err := sess.SetResponse(answerItem, &answerValue, severity, notes); err != nil {
				return fmt.Errorf("failed to set response: %w", err)
			}
		}

		if answerPhoto != "" {
			if err := sess.AddPhoto(answerItem, answerPhoto); err != nil {
				return fmt.Errorf("failed to attach photo: %w", err)
			}
		}
		if answerVideo != "" {
			if err := sess.AddVideo(answerItem, answerVideo); err != nil {
				return fmt.Errorf("failed to attach video: %w", err)
			}
		}

		if err := sess.SaveResponses(cmd.Context()); err != nil {
			return fmt.Errorf("failed to save responses: %w", err)
		}

		pending, err := app.PendingWrites()
		if err == nil && pending > 0 {
			fmt.Printf("Saved locally. %d write(s) queued for sync.\n", pending)
		} else {
			fmt.Println("Saved.")
		}
		fmt.Printf("Progress: %d%% (%d/%d items)\n",
			sess.Progress(), sess.CompletedItems(), sess.TotalItems())

		return nil
	},
}

func init() {
	AnswerCmd.Flags().StringVar(&answerItem, "item", "", "template item ID")
	AnswerCmd.Flags().StringVar(&answerValue, "value", "", "response value")
	AnswerCmd.Flags().StringVar(&answerSeverity, "severity", "", "severity: low, medium or high")
	AnswerCmd.Flags().StringVar(&answerNotes, "notes", "", "free-form notes")
	AnswerCmd.Flags().StringVar(&answerPhoto, "photo", "", "photo URI to attach")
	AnswerCmd.Flags().StringVar(&answerVideo, "video", "", "video URI to attach")

	AnswerCmd.MarkFlagRequired("item")
}
