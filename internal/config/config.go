package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Listing  ListingConfig  `mapstructure:"listing" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// AllowedOrigins lists CORS origins. Empty disables cross-origin access.
	AllowedOrigins         []string `mapstructure:"allowed_origins"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains authentication, token and password settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lt=44640"`
	// GrantLifetimeMinutes bounds how long an unlocked experience stays readable.
	GrantLifetimeMinutes int `mapstructure:"grant_lifetime_minutes" validate:"required,gt=0,lt=44640"`
	MinPasswordLength    int `mapstructure:"min_password_length" validate:"required,gte=4,lte=72"`
	BCryptCost           int `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// ListingConfig controls paginated listings.
type ListingConfig struct {
	PageSize int `mapstructure:"page_size" validate:"required,gt=0,lte=100"`
}
