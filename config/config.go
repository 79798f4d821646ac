// Package config provides configuration management for the eduflow backend.
// It handles loading and validation of configuration values from environment
// variables, with support for required variables, default values, and
// collective error reporting, so a misconfigured process fails fast at
// startup with every problem listed at once.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment names. Only "production" changes behavior (secure cookies,
// no error detail in responses); anything else is treated as development.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// PoolConfig represents configuration for the database connection pool.
// Either URL is set (takes precedence) or the discrete fields are used to
// build a DSN.
type PoolConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// DSN returns the postgres connection string for this pool.
func (c *PoolConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.DBName,
	)
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret            string        // Secret key for signing JWTs, required
	AccessTokenDuration  time.Duration // Lifetime of access tokens
	RefreshTokenDuration time.Duration // Lifetime of refresh tokens
	BcryptCost           int           // Work factor for password hashing
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string
}

// AppConfig is the top-level configuration structure for the application.
// It is constructed once at startup and passed by reference into the
// services that need it; nothing reads the environment after LoadConfig.
type AppConfig struct {
	DB          *PoolConfig
	Auth        *AuthConfig
	Server      *ServerConfig
	Environment string
}

// IsProduction reports whether the process runs with production behavior.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// getRequiredEnv fetches a required environment variable, collecting an
// error when it is absent.
func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// getOptionalEnv fetches an environment variable with a default.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getOptionalEnvInt fetches an environment variable parsed as an int,
// falling back to defaultValue and collecting an error when parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// getOptionalEnvDuration fetches an environment variable parsed with
// time.ParseDuration ("15m", "24h"), falling back to defaultValue.
func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampBcryptCost keeps the hashing work factor inside a sane band.
// Below 10 is too weak for stored credentials, above 14 makes login
// noticeably slow.
func clampBcryptCost(cost int) int {
	if cost < 10 {
		return 10
	}
	if cost > 14 {
		return 14
	}
	return cost
}

// clampPoolSize keeps the connection pool size between 5 and 100.
func clampPoolSize(size int) int {
	if size < 5 {
		return 5
	}
	if size > 100 {
		return 100
	}
	return size
}

// LoadConfig creates and returns an AppConfig by reading and validating
// environment variables. It collects all errors encountered during loading
// and returns a single aggregated error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errs []string

	// Database configuration. DATABASE_URL wins when present; otherwise a
	// DSN is built from the discrete DB_* variables.
	dbURL := getOptionalEnv("DATABASE_URL", "")
	pool := &PoolConfig{
		URL:     dbURL,
		MaxSize: clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errs)),
	}
	if dbURL == "" {
		pool.User = getRequiredEnv("DB_USER", &errs)
		pool.Password = getRequiredEnv("DB_PASSWORD", &errs)
		pool.DBName = getRequiredEnv("DB_NAME", &errs)
		pool.Host = getOptionalEnv("DB_HOST", "localhost")
		pool.Port = getOptionalEnvInt("DB_PORT", 5432, &errs)
	}

	// Auth configuration. The signing secret has no default on purpose:
	// starting without one is a configuration error, not a per-request one.
	authConfig := &AuthConfig{
		JWTSecret:            getRequiredEnv("JWT_SECRET", &errs),
		AccessTokenDuration:  getOptionalEnvDuration("JWT_ACCESS_TOKEN_DURATION", 15*time.Minute, &errs),
		RefreshTokenDuration: getOptionalEnvDuration("JWT_REFRESH_TOKEN_DURATION", 24*time.Hour, &errs),
		BcryptCost:           clampBcryptCost(getOptionalEnvInt("BCRYPT_COST", 12, &errs)),
	}

	serverConfig := &ServerConfig{
		Port: getOptionalEnv("PORT", "4000"),
	}

	environment := getOptionalEnv("APP_ENV", EnvDevelopment)

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		DB:          pool,
		Auth:        authConfig,
		Server:      serverConfig,
		Environment: environment,
	}, nil
}
