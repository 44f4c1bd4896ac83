package sync

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sitecheck/internal/app/client"
)

var syncStatus bool

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replay queued writes against the server",
	Long: `Pushes every queued response write to the server in the order it
was made. Replay stops at the first failure; the remaining entries stay
queued for the next attempt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := client.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		if syncStatus {
			return showStatus(cmd, app)
		}

		pending, err := app.PendingWrites()
		if err != nil {
			return fmt.Errorf("failed to inspect queue: %w", err)
		}
		if pending == 0 {
			fmt.Println("Nothing to sync.")
			return nil
		}

		fmt.Printf("Syncing %d queued write(s)...\n", pending)
		start := time.Now()

		replayed, err := app.Sync(cmd.Context())
		if err != nil {
			if replayed > 0 {
				color.Yellow("Partially synced: %d of %d write(s) replayed", replayed, pending)
			}
			return fmt.Errorf("sync stopped: %w", err)
		}

		color.Green("Synced %d write(s) in %v", replayed, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func showStatus(cmd *cobra.Command, app *client.App) error {
	pending, err := app.PendingWrites()
	if err != nil {
		return fmt.Errorf("failed to inspect queue: %w", err)
	}
	fmt.Printf("Queued writes: %d\n", pending)

	fmt.Print("Server connection: ")
	if err := app.CheckConnection(cmd.Context()); err != nil {
		color.Red("unavailable (%v)", err)
	} else {
		color.Green("OK")
	}

	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&syncStatus, "status", false, "show queue and connection status")
}
