package booking

import (
	"encoding/json"
	"fmt"

	"starbook/internal/app/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	clientName  string
	email       string
	celebrityID string
	eventDate   string
	message     string
)

type createPayload struct {
	ClientName  string `json:"clientName"`
	Email       string `json:"email,omitempty"`
	CelebrityID string `json:"celebrityId,omitempty"`
	EventDate   string `json:"eventDate"`
	Message     string `json:"message,omitempty"`
}

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a booking request",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value("app").(*client.App)
		if !ok {
			return fmt.Errorf("application is not initialized")
		}

		if clientName == "" {
			return fmt.Errorf("--client-name is required")
		}
		if eventDate == "" {
			return fmt.Errorf("--event-date is required")
		}

		payload, err := json.Marshal(createPayload{
			ClientName:  clientName,
			Email:       email,
			CelebrityID: celebrityID,
			EventDate:   eventDate,
			Message:     message,
		})
		if err != nil {
			return fmt.Errorf("failed to encode booking: %w", err)
		}

		result, err := app.SubmitBooking(cmd.Context(), payload)
		if result != nil && result.Queued {
			color.Yellow("Server unreachable, booking saved to the offline queue (%s)", result.Action.ID)
			fmt.Println("It will be submitted automatically once you are back online.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("booking failed: %w", err)
		}

		color.Green("Booking submitted")
		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVar(&clientName, "client-name", "", "name of the client")
	CreateCmd.Flags().StringVar(&email, "email", "", "contact email")
	CreateCmd.Flags().StringVar(&celebrityID, "celebrity", "", "celebrity id")
	CreateCmd.Flags().StringVar(&eventDate, "event-date", "", "event date, YYYY-MM-DD")
	CreateCmd.Flags().StringVar(&message, "message", "", "additional details")
}
