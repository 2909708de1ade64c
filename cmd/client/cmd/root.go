// cmd/client/cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/slog"

	"starbook/internal/app/client"
	"starbook/internal/app/client/config"
	"starbook/internal/utils/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	cfg        *config.Config
	log        *slog.Logger
	app        *client.App
	debug      bool
	jsonOutput bool
	serverURL  string
)

var rootCmd = &cobra.Command{
	Use:   "starbook",
	Short: "StarBook - offline-capable client for the celebrity booking platform",
	Long: `StarBook is the client-side resilience layer of the celebrity
booking platform. It caches pages, API responses, and images locally,
captures bookings and contact forms while the network is down, and
replays them automatically once connectivity is restored.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if app != nil {
			app.Shutdown()
		}
		os.Exit(1)
	}
	if app != nil {
		app.Shutdown()
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Command line flags override the configuration.
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}
	if debug {
		cfg.Env = "local"
	}

	log = logger.New(cfg.Env)

	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), "app", app))

	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		configDir := filepath.Join(home, ".starbook")
		viper.AddConfigPath(configDir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file found, defaults apply.
	}

	return config.MustLoad(), nil
}

func init() {
	cobra.OnInitialize()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "StarBook server address")
}
