// File: internal/config/config.go
package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server         ServerConfig                   `mapstructure:"server"`
	Database       DatabaseConfig                 `mapstructure:"database"`
	Redis          RedisConfig                    `mapstructure:"redis"`
	Kafka          KafkaConfig                    `mapstructure:"kafka"`
	JWT            JWTConfig                      `mapstructure:"jwt"`
	Crypto         CryptoConfig                   `mapstructure:"crypto"`
	App            AppConfig                      `mapstructure:"app"`
	Logging        LoggingConfig                  `mapstructure:"logging"`
	RateLimit      RateLimitConfig                `mapstructure:"rate_limit"`
	OAuthProviders map[string]OAuthProviderConfig `mapstructure:"oauth_providers"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	DBName         string `mapstructure:"dbname"`
	SSLMode        string `mapstructure:"sslmode"`
	MigrationsPath string `mapstructure:"migrations_path"`
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// Enabled reports whether event publishing is configured at all. The
// producer is optional; with no brokers the service runs without it.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type JWTConfig struct {
	Secret         string        `mapstructure:"secret"`
	TTL            time.Duration `mapstructure:"ttl"`
	CookieName     string        `mapstructure:"cookie_name"`
	OAuthStateTTL  time.Duration `mapstructure:"oauth_state_ttl"`
	StateSecret    string        `mapstructure:"state_secret"`
}

type CryptoConfig struct {
	// Key and IV are used as raw bytes, matching the rows already written
	// by the previous backend: 32 characters of key, 16 of IV.
	Key string `mapstructure:"key"`
	IV  string `mapstructure:"iv"`
}

type AppConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	ConnectionsURL string `mapstructure:"connections_url"`
	LoginURL       string `mapstructure:"login_url"`
	AllowedOrigin  string `mapstructure:"allowed_origin"`
	DemoEmail      string `mapstructure:"demo_email"`
	DemoPassword   string `mapstructure:"demo_password"`
}

type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Environment string `mapstructure:"environment"`
}

type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	LoginPerMinute int  `mapstructure:"login_per_minute"`
	Burst          int  `mapstructure:"burst"`
}

type OAuthProviderConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	Scopes       []string `mapstructure:"scopes"`
}

// Validate checks the invariants the service cannot start without.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if len(c.Crypto.Key) != 32 {
		return fmt.Errorf("crypto.key must be exactly 32 characters, got %d", len(c.Crypto.Key))
	}
	if len(c.Crypto.IV) != 16 {
		return fmt.Errorf("crypto.iv must be exactly 16 characters, got %d", len(c.Crypto.IV))
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("jwt.ttl must be positive")
	}
	return nil
}
