package auth

import (
	"fmt"

	"starbook/internal/app/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	email    string
	password string
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and obtain a bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value("app").(*client.App)
		if !ok {
			return fmt.Errorf("application is not initialized")
		}

		if email == "" || password == "" {
			return fmt.Errorf("--email and --password are required")
		}

		token, err := app.Client().Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		app.Client().SetToken(token)
		color.Green("Logged in")
		fmt.Printf("Token: %s\n", token)

		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVar(&email, "email", "", "account email")
	LoginCmd.Flags().StringVar(&password, "password", "", "account password")
}
