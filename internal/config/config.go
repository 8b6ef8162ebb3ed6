package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port        string
	DatabaseURL string

	// Token signing. The two secrets must be present and distinct so a
	// leaked refresh secret cannot forge access tokens (and vice versa).
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	// CookieSecure controls the Secure attribute on the refresh cookie.
	// Off by default so local non-TLS development works.
	CookieSecure bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string

	// Optional GraphQL user-directory endpoint used to resolve share
	// invitations by email. Empty means the local users table is used.
	UserServiceURL string
}

var (
	ErrMissingAccessSecret  = errors.New("ACCESS_TOKEN_SECRET is not set")
	ErrMissingRefreshSecret = errors.New("REFRESH_TOKEN_SECRET is not set")
	ErrIdenticalSecrets     = errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
)

// Load reads configuration from environment variables. A missing or
// reused signing secret is a deployment error and fails startup; it is
// never surfaced as an authentication failure.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		AccessTokenTTL:     getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:    getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		CookieSecure:       getEnvBool("COOKIE_SECURE", false),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		UserServiceURL:     os.Getenv("USER_SERVICE_URL"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.AccessTokenSecret == "" {
		return nil, ErrMissingAccessSecret
	}
	if cfg.RefreshTokenSecret == "" {
		return nil, ErrMissingRefreshSecret
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, ErrIdenticalSecrets
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
