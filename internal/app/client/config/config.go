package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultLogLevel      = "info"
	defaultEnv           = "local"
	defaultConfigDir     = ".starbook"
)

type Config struct {
	Env           string `mapstructure:"app_env"`
	ServerAddress string `mapstructure:"server_address"`
	LogLevel      string `mapstructure:"log_level"`
	ConfigDir     string `mapstructure:"config_dir"`
	DataPath      string `mapstructure:"data_path"`
	SyncInterval  int    `mapstructure:"sync_interval_seconds"`
	ProbeInterval int    `mapstructure:"probe_interval_seconds"`
	SettleDelay   int    `mapstructure:"settle_delay_seconds"`
	SweepInterval int    `mapstructure:"sweep_interval_seconds"`
	EnableTLS     bool   `mapstructure:"enable_tls"`
}

// MustLoad loads the client configuration from the environment,
// falling back to a .env file when one exists next to the binary.
func MustLoad() *Config {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("failed to load .env file: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("SYNC_INTERVAL_SECONDS", 30)
	viper.SetDefault("PROBE_INTERVAL_SECONDS", 15)
	viper.SetDefault("SETTLE_DELAY_SECONDS", 2)
	viper.SetDefault("SWEEP_INTERVAL_SECONDS", 3600)
	viper.SetDefault("ENABLE_TLS", false)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("failed to create config directory: %v\n", err)
	}

	dataPath := viper.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(configDir, "starbook.db")
	}

	config := &Config{
		Env:           viper.GetString("APP_ENV"),
		ServerAddress: viper.GetString("SERVER_ADDRESS"),
		LogLevel:      viper.GetString("LOG_LEVEL"),
		ConfigDir:     configDir,
		DataPath:      dataPath,
		SyncInterval:  viper.GetInt("SYNC_INTERVAL_SECONDS"),
		ProbeInterval: viper.GetInt("PROBE_INTERVAL_SECONDS"),
		SettleDelay:   viper.GetInt("SETTLE_DELAY_SECONDS"),
		SweepInterval: viper.GetInt("SWEEP_INTERVAL_SECONDS"),
		EnableTLS:     viper.GetBool("ENABLE_TLS"),
	}

	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	return config
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address must not be empty")
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("sync_interval_seconds must be positive")
	}
	if c.ProbeInterval <= 0 {
		return fmt.Errorf("probe_interval_seconds must be positive")
	}
	return nil
}

// BaseURL returns the scheme-qualified server address.
func (c *Config) BaseURL() string {
	scheme := "http://"
	if c.EnableTLS {
		scheme = "https://"
	}
	return scheme + c.ServerAddress
}

// IsProd reports whether the client runs against production.
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsLocal reports whether the client runs in local development.
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
