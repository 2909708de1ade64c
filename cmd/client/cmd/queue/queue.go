package queue

import (
	"encoding/json"
	"fmt"
	"os"

	"starbook/internal/app/client"
	"starbook/internal/domain/action"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	asJSON  bool
	dropID  string
	showAll bool
)

var QueueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect the offline action queue",
	Long: `Shows the actions captured while the network was unreachable.

Each entry keeps the exact request body the application intended to
send, so replay issues an identical request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value("app").(*client.App)
		if !ok {
			return fmt.Errorf("application is not initialized")
		}

		if dropID != "" {
			return dropAction(app, dropID)
		}

		return listActions(app)
	},
}

func listActions(app *client.App) error {
	var pending []*action.Action
	for _, kind := range action.Kinds() {
		items, err := app.Storage().PendingActions(kind)
		if err != nil {
			return fmt.Errorf("failed to read queue: %w", err)
		}
		pending = append(pending, items...)
	}

	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(pending)
	}

	if len(pending) == 0 {
		fmt.Println("The offline queue is empty.")
		return nil
	}

	fmt.Printf("%d pending action(s):\n\n", len(pending))
	for _, a := range pending {
		fmt.Printf("  %s  %-14s  %s\n", a.ID, a.Kind, a.CreatedAt.Format("2006-01-02 15:04:05"))
		if showAll {
			fmt.Printf("    payload: %s\n", string(a.Payload))
		}
		if a.LastError != "" {
			color.Red("    last error: %s", a.LastError)
		}
	}

	return nil
}

func dropAction(app *client.App, id string) error {
	if err := app.Storage().DeleteAction(id); err != nil {
		return fmt.Errorf("failed to drop action %s: %w", id, err)
	}
	color.Green("Action %s removed from the queue", id)
	return nil
}

func init() {
	QueueCmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	QueueCmd.Flags().BoolVarP(&showAll, "verbose", "v", false, "include captured payloads")
	QueueCmd.Flags().StringVar(&dropID, "drop", "", "remove the action with the given id")
}
