// File: internal/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from a YAML file selected by APP_ENV (or
// CONFIG_PATH) with ABK_-prefixed environment variables taking precedence.
// A local .env file is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	env := strings.ToLower(os.Getenv("APP_ENV"))
	if env == "" {
		env = "development"
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(fmt.Sprintf("config.%s", env))
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/abk-review")
	}

	v.SetEnvPrefix("ABK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Environment variables alone are a valid configuration source.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.migrations_path", "file://migrations")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.topic", "abk.platform-events")

	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("jwt.cookie_name", "abk_token")
	v.SetDefault("jwt.oauth_state_ttl", 10*time.Minute)

	v.SetDefault("app.connections_url", "/connections")
	v.SetDefault("app.login_url", "/login")
	v.SetDefault("app.demo_email", "demo@abk-review.com")
	v.SetDefault("app.demo_password", "demo123")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.environment", "development")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.login_per_minute", 10)
	v.SetDefault("rate_limit.burst", 5)
}
