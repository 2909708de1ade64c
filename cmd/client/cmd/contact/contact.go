package contact

import (
	"encoding/json"
	"fmt"

	"starbook/internal/app/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	name    string
	email   string
	subject string
	message string
)

type submitPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

var ContactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a contact form message",
	Long: `Sends a message through the platform contact form.

When the server is unreachable the message is captured into the
offline queue and replayed automatically once connectivity returns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value("app").(*client.App)
		if !ok {
			return fmt.Errorf("application is not initialized")
		}

		if message == "" {
			return fmt.Errorf("--message is required")
		}

		payload, err := json.Marshal(submitPayload{
			Name:    name,
			Email:   email,
			Subject: subject,
			Message: message,
		})
		if err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}

		result, err := app.SubmitContactForm(cmd.Context(), payload)
		if result != nil && result.Queued {
			color.Yellow("Server unreachable, message saved to the offline queue (%s)", result.Action.ID)
			fmt.Println("It will be submitted automatically once you are back online.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("contact form failed: %w", err)
		}

		color.Green("Message sent")
		return nil
	},
}

func init() {
	ContactCmd.Flags().StringVar(&name, "name", "", "your name")
	ContactCmd.Flags().StringVar(&email, "email", "", "reply-to email")
	ContactCmd.Flags().StringVar(&subject, "subject", "", "message subject")
	ContactCmd.Flags().StringVar(&message, "message", "", "message body")
}
