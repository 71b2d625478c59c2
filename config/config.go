package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port        int
		Development bool
	}
	Database struct {
		Driver string
		URL    string
	}
	Auth struct {
		JWTSecret string
	}
	Generator struct {
		Token   string
		Model   string
		BaseURL string
	}
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Default values
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.development", false)
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.url", "")
	viper.SetDefault("auth.jwtsecret", "")
	viper.SetDefault("generator.token", "")
	viper.SetDefault("generator.model", "gemini-2.5-flash")
	viper.SetDefault("generator.baseurl", "https://generativelanguage.googleapis.com/v1beta/openai/")

	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("generator.token", "GEMINI_TOKEN")
	viper.BindEnv("auth.jwtsecret", "AUTH_JWT_SECRET")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// Env-only configuration is fine.
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Database.URL == "" {
		return nil, errors.New("DATABASE_URL environment variable is not set")
	}

	return &config, nil
}
