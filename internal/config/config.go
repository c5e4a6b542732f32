package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Geocoding GeocodingConfig `mapstructure:"geocoding" validate:"required"`
	Uploads   UploadsConfig   `mapstructure:"uploads"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ShutdownTimeoutSeconds bounds graceful shutdown of in-flight requests.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=44640"`
	// BcryptCost is the work factor used when hashing new passwords.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// GeocodingConfig selects and configures the address-to-coordinates provider.
type GeocodingConfig struct {
	// Provider is "google" for the Google Maps Geocoding API or "static" for a
	// fixed-coordinate provider used in development.
	Provider       string  `mapstructure:"provider"        validate:"required,oneof=google static"`
	APIKey         string  `mapstructure:"api_key"         validate:"required_if=Provider google"`
	// BaseURL is the Maps API host, e.g. https://maps.googleapis.com.
	BaseURL        string  `mapstructure:"base_url"        validate:"required,url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gt=0"`
	StaticLat      float64 `mapstructure:"static_lat"      validate:"gte=-90,lte=90"`
	StaticLng      float64 `mapstructure:"static_lng"      validate:"gte=-180,lte=180"`
}

// UploadsConfig controls where uploaded images are stored.
type UploadsConfig struct {
	Dir          string `mapstructure:"dir"            validate:"required"`
	MaxSizeBytes int64  `mapstructure:"max_size_bytes" validate:"gt=0"`
}
