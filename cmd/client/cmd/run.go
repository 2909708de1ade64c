// cmd/client/cmd/run.go
package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the resilience layer in the foreground",
	Long: `Starts the background loops: connectivity probing, automatic
replay of the offline queue, and the periodic cache sweep. Blocks
until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Println("StarBook client running, press Ctrl+C to stop.")
		app.Run(ctx)
		fmt.Println("Stopped.")

		return nil
	},
}
