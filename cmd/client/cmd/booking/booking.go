package booking

import (
	"github.com/spf13/cobra"
)

var BookingCmd = &cobra.Command{
	Use:   "booking",
	Short: "Work with booking requests",
	Long: `Submits booking requests to the platform.

When the server is unreachable the request is captured into the
offline queue and replayed automatically once connectivity returns.`,
}
