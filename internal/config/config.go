/**
 * @description
 * This file handles configuration for the payout console service. It uses the
 * Viper library to read settings from environment variables or a .env file,
 * and validates the required Mural Pay credentials at startup instead of
 * letting a missing key surface later as an authorization failure.
 *
 * @dependencies
 * - github.com/spf13/viper: For configuration management.
 */
package config

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	MuralAPIBaseURL     string `mapstructure:"MURAL_API_BASE_URL"`
	MuralAPIKey         string `mapstructure:"MURAL_API_KEY"`
	MuralTransferAPIKey string `mapstructure:"MURAL_TRANSFER_API_KEY"`
	ServerPort          string `mapstructure:"SERVER_PORT"`
	SessionTTLMinutes   int    `mapstructure:"SESSION_TTL_MINUTES"`
}

// LoadConfig reads configuration from a .env file or environment variables.
func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SESSION_TTL_MINUTES", 60)

	// Bind envs explicitly so containers pick them up reliably
	_ = viper.BindEnv("MURAL_API_BASE_URL")
	_ = viper.BindEnv("MURAL_API_KEY")
	_ = viper.BindEnv("MURAL_TRANSFER_API_KEY")
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("SESSION_TTL_MINUTES")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"error reading config file\" err=%v", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the fields the service cannot run without. The transfer key
// is not required: without it the console still works, only payout execution
// is degraded.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MuralAPIBaseURL) == "" {
		return errors.New("MURAL_API_BASE_URL must be configured")
	}
	if strings.TrimSpace(c.MuralAPIKey) == "" {
		return errors.New("MURAL_API_KEY must be configured")
	}
	return nil
}
