// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// RedisAddr is the Redis address for the revocation store (host:port).
	// Empty selects the in-memory store (single-process deployments and tests only).
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	// RedisDB is the Redis logical database number.
	RedisDB int `mapstructure:"REDIS_DB"`
	// JWTSigningKey is the HS256 secret used to sign access tokens.
	JWTSigningKey string `mapstructure:"JWT_SIGNING_KEY"`
	// TokenDigestKey is the HMAC secret for the claim digest. Must differ from JWT_SIGNING_KEY.
	TokenDigestKey string `mapstructure:"TOKEN_DIGEST_KEY"`
	// TokenTTLMinutes is the access token lifetime in minutes (e.g. 60).
	TokenTTLMinutes int `mapstructure:"TOKEN_TTL_MINUTES"`
	// RootDomain is the canonical root domain (e.g. "medrekk.com"). Requests whose
	// Host equals it take the owner fast path; any other Host is resolved by subdomain.
	RootDomain string `mapstructure:"ROOT_DOMAIN"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// StoreTimeout bounds revocation-store round trips (e.g. "2s"). Calls that
	// exceed it fail closed.
	StoreTimeout string `mapstructure:"STORE_TIMEOUT"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint; empty disables telemetry export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	// viper < v1.21 needs this option for Unmarshal to bind env vars to struct
	// fields; it is the default starting with v1.21.
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("TOKEN_TTL_MINUTES", 60)
	v.SetDefault("ROOT_DOMAIN", "medrekk.com")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("STORE_TIMEOUT", "2s")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.JWTSigningKey == "" {
		return nil, errors.New("config: JWT_SIGNING_KEY must be set")
	}
	if cfg.TokenDigestKey == "" {
		return nil, errors.New("config: TOKEN_DIGEST_KEY must be set")
	}
	if cfg.TokenDigestKey == cfg.JWTSigningKey {
		return nil, errors.New("config: TOKEN_DIGEST_KEY must differ from JWT_SIGNING_KEY")
	}
	if cfg.TokenTTLMinutes <= 0 {
		return nil, errors.New("config: TOKEN_TTL_MINUTES must be positive")
	}
	if cfg.RootDomain == "" {
		return nil, errors.New("config: ROOT_DOMAIN must be set")
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// TokenTTL returns the access token lifetime as a time.Duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// StoreTimeoutDuration parses StoreTimeout as a time.Duration. Returns 2s if unset or invalid.
func (c *Config) StoreTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.StoreTimeout)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}
