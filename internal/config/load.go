package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load,
// e.g. ACRESSITY_DATABASE_URL.
const EnvPrefix = "ACRESSITY"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom behaves like Load but searches dir for config.yaml.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.grant_lifetime_minutes", 720)
	v.SetDefault("auth.min_password_length", 6)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("listing.page_size", 10)
}

// bindEnv registers keys without defaults so AutomaticEnv picks them up
// during Unmarshal.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{"database.url", "auth.jwt_secret"} {
		_ = v.BindEnv(key)
	}
}
