package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"starbook/internal/app/client"
	"starbook/internal/domain/action"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	forceSync   bool
	runOnce     bool
	syncStatus  bool
	clearErrors bool
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replay queued offline actions",
	Long: `Replays bookings and contact forms captured while offline.

By default the command waits for connectivity and drains the whole
queue. Use --status to inspect the queue without syncing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value("app").(*client.App)
		if !ok {
			return fmt.Errorf("application is not initialized")
		}

		if syncStatus {
			return showStatus(cmd.Context(), app)
		}

		if clearErrors {
			app.Sync().ClearSyncErrors()
			color.Green("Sync error log cleared")
			return nil
		}

		return runSync(cmd.Context(), app)
	},
}

func runSync(ctx context.Context, app *client.App) error {
	pending := app.Sync().PendingCount()
	if pending == 0 {
		if !runOnce {
			fmt.Println("Nothing to sync, the offline queue is empty.")
		}
		return nil
	}

	if !app.Monitor().Check(ctx) && !forceSync {
		if !runOnce {
			color.Yellow("Server is unreachable, queued actions stay pending")
		}
		return nil
	}

	fmt.Printf("Syncing %d pending action(s)...\n", pending)
	start := time.Now()

	result, err := app.Sync().PerformSync(ctx, forceSync)
	if err != nil {
		if errors.Is(err, action.ErrSyncInProgress) {
			color.Yellow("A sync pass is already running")
			return nil
		}
		if errors.Is(err, action.ErrOffline) {
			color.Yellow("Offline, try again later or use --force")
			return nil
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	duration := time.Since(start)

	fmt.Println()
	color.Green("Sync finished in %v", duration.Round(time.Millisecond))
	fmt.Printf("Replayed: %d\n", result.Progress.Completed)
	if result.Progress.Failed > 0 {
		color.Red("Failed: %d", result.Progress.Failed)
		for i, syncErr := range result.Errors {
			if i >= 3 {
				fmt.Printf("  ... and %d more error(s)\n", len(result.Errors)-3)
				break
			}
			fmt.Printf("  %s %s: %s\n", syncErr.Kind, syncErr.ActionID, syncErr.Error)
		}
	}

	return nil
}

func showStatus(ctx context.Context, app *client.App) error {
	stats := app.Sync().Stats()

	fmt.Println("=== Offline queue status ===")
	fmt.Printf("Pending bookings:      %d\n", stats.PendingBookings)
	fmt.Printf("Pending contact forms: %d\n", stats.PendingContactForms)
	fmt.Printf("Total pending:         %d\n", stats.TotalPending)
	fmt.Printf("Sync in progress:      %v\n", stats.SyncInProgress)
	if !stats.LastSync.IsZero() {
		fmt.Printf("Last sync:             %s\n", stats.LastSync.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Println("Last sync:             never")
	}

	fmt.Print("Server: ")
	if app.Monitor().Check(ctx) {
		color.Green("reachable")
	} else {
		color.Red("unreachable")
	}

	errs := app.Sync().Errors()
	if len(errs) > 0 {
		fmt.Printf("\nRecent sync errors (%d):\n", len(errs))
		for _, syncErr := range errs {
			fmt.Printf("  %s %s: %s\n", syncErr.Kind, syncErr.ActionID, syncErr.Error)
		}
	}

	return nil
}

func init() {
	SyncCmd.Flags().BoolVarP(&forceSync, "force", "f", false, "sync even when the monitor reports offline")
	SyncCmd.Flags().BoolVar(&runOnce, "once", false, "run a single reconciliation pass and exit")
	SyncCmd.Flags().BoolVar(&syncStatus, "status", false, "show queue status without syncing")
	SyncCmd.Flags().BoolVar(&clearErrors, "clear-errors", false, "clear the recorded sync errors")
}
