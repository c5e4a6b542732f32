package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. PLACES_DATABASE_URL for database.url.
const EnvPrefix = "PLACES"

// keys without defaults still have to be bound so Unmarshal sees them
var requiredKeys = []string{
	"database.url",
	"auth.jwt_secret",
	"geocoding.api_key",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 12)

	v.SetDefault("geocoding.provider", "google")
	v.SetDefault("geocoding.base_url", "https://maps.googleapis.com")
	v.SetDefault("geocoding.timeout_seconds", 5)
	v.SetDefault("geocoding.static_lat", 40.7484474)
	v.SetDefault("geocoding.static_lng", -73.9871516)

	v.SetDefault("uploads.dir", "uploads/images")
	v.SetDefault("uploads.max_size_bytes", 500*1000)
}

// Load configuration from environment variables and an optional config.yaml
// in the working directory. Environment variables take precedence over values
// from the file. Returns a populated Config or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range requiredKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
