// cmd/client/cmd/init.go
package cmd

import (
	"starbook/cmd/client/cmd/auth"
	"starbook/cmd/client/cmd/booking"
	"starbook/cmd/client/cmd/cache"
	"starbook/cmd/client/cmd/contact"
	"starbook/cmd/client/cmd/queue"
	"starbook/cmd/client/cmd/sync"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)

	rootCmd.AddCommand(booking.BookingCmd)
	booking.BookingCmd.AddCommand(booking.CreateCmd)

	rootCmd.AddCommand(contact.ContactCmd)

	rootCmd.AddCommand(sync.SyncCmd)
	rootCmd.AddCommand(queue.QueueCmd)
	rootCmd.AddCommand(cache.CacheCmd)
	rootCmd.AddCommand(runCmd)
}
