package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Seat reservation configuration
	Reservation ReservationConfig

	// Payment gateway configuration
	Payment PaymentConfig

	// CORS configuration
	CORS CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// ReservationConfig holds temporary seat hold configuration
type ReservationConfig struct {
	HoldTimeout     time.Duration // default lifetime of a temporary hold
	CleanupInterval time.Duration // how often the reaper sweeps expired holds
}

// PaymentConfig holds external payment gateway configuration
type PaymentConfig struct {
	Environment   string // "sandbox" or "production"
	MerchantKey   string // gateway merchant key
	MerchantToken string // gateway merchant token (SECRET - never expose to client)
	Currency      string // default currency code
	ReturnURL     string // URL to redirect after payment
	WebhookURL    string // server webhook URL for payment notifications
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Reservation: ReservationConfig{
			HoldTimeout:     time.Duration(getEnvAsInt("RESERVATION_HOLD_TIMEOUT_MINUTES", 10)) * time.Minute,
			CleanupInterval: time.Duration(getEnvAsInt("RESERVATION_CLEANUP_INTERVAL_MINUTES", 2)) * time.Minute,
		},
		Payment: PaymentConfig{
			Environment:   getEnv("PAYMENT_ENVIRONMENT", "sandbox"),
			MerchantKey:   getEnv("PAYMENT_MERCHANT_KEY", ""),
			MerchantToken: getEnv("PAYMENT_MERCHANT_TOKEN", ""),
			Currency:      getEnv("PAYMENT_CURRENCY", "MYR"),
			ReturnURL:     getEnv("PAYMENT_RETURN_URL", ""),
			WebhookURL:    getEnv("PAYMENT_WEBHOOK_URL", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Reservation.HoldTimeout <= 0 {
		return fmt.Errorf("RESERVATION_HOLD_TIMEOUT_MINUTES must be positive")
	}

	if c.Reservation.CleanupInterval <= 0 {
		return fmt.Errorf("RESERVATION_CLEANUP_INTERVAL_MINUTES must be positive")
	}

	// Gateway credentials are only required in production mode; sandbox and
	// development fall back to placeholder intents.
	if c.Payment.Environment == "production" {
		if c.Payment.MerchantKey == "" {
			return fmt.Errorf("PAYMENT_MERCHANT_KEY is required in production mode")
		}
		if c.Payment.MerchantToken == "" {
			return fmt.Errorf("PAYMENT_MERCHANT_TOKEN is required in production mode")
		}
	}

	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice gets an environment variable as a comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
