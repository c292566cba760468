package configs

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Quote    QuoteConfig
	Auth     AuthConfig
	Trading  TradingConfig
	Logger   LoggerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// QuoteConfig holds quote collaborator configuration
type QuoteConfig struct {
	BaseURL        string
	APIKey         string
	RateLimit      float64
	RateLimitBurst int
}

// AuthConfig holds session and token configuration
type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
}

// TradingConfig holds ledger configuration
type TradingConfig struct {
	SeedCash decimal.Decimal
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Quote: QuoteConfig{
			BaseURL:        getEnv("QUOTE_API_URL", "https://cloud.iexapis.com"),
			APIKey:         getEnv("QUOTE_API_KEY", ""),
			RateLimit:      getEnvFloat("QUOTE_RATE_LIMIT", 10),
			RateLimitBurst: getEnvInt("QUOTE_RATE_LIMIT_BURST", 5),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", "default-secret-change-in-production"),
			SessionTTL: time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		},
		Trading: TradingConfig{
			SeedCash: getEnvDecimal("SEED_CASH", "10000.00"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(defaultValue)
}
