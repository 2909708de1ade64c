package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env        string
	RunAddress string
	LogLevel   string
}

func NewConfig() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()
	viper.SetDefault("RUN_ADDRESS", ":8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("APP_ENV", EnvLocal)

	return &Config{
		Env:        viper.GetString("APP_ENV"),
		RunAddress: viper.GetString("RUN_ADDRESS"),
		LogLevel:   viper.GetString("LOG_LEVEL"),
	}
}
