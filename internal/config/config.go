package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kevin07696/giftcard-service/internal/adapters/paygate"
)

// Config holds all application configuration
type Config struct {
	Gateway GatewayConfig
	Logger  LoggerConfig
}

// GatewayConfig holds gift card gateway connection settings
type GatewayConfig struct {
	Host          string `validate:"required"`
	Port          int    `validate:"required,gt=0,lte=65535"`
	TerminalID    string `validate:"required"`
	ProgramName   string `validate:"required"`
	TimeoutMs     int    `validate:"gt=0"`
	MinCardNumber string `validate:"required,numeric"`
	MaxCardNumber string `validate:"required,numeric"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string `validate:"oneof=debug info warn error"`
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Gateway: GatewayConfig{
			Host:          getEnv("GIFTCARD_HOST", ""),
			Port:          getEnvAsInt("GIFTCARD_PORT", 0),
			TerminalID:    getEnv("GIFTCARD_TERMINAL_ID", ""),
			ProgramName:   getEnv("GIFTCARD_PROGRAM_NAME", ""),
			TimeoutMs:     getEnvAsInt("GIFTCARD_TIMEOUT_MS", 5000),
			MinCardNumber: getEnv("GIFTCARD_MIN_CARD_NUMBER", ""),
			MaxCardNumber: getEnv("GIFTCARD_MAX_CARD_NUMBER", ""),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ClientConfig converts the env settings into the gateway client's config.
// The card-range invariants are checked by the client itself.
func (c *GatewayConfig) ClientConfig() paygate.Config {
	return paygate.Config{
		TerminalID:    c.TerminalID,
		ProgramName:   c.ProgramName,
		Host:          c.Host,
		Port:          c.Port,
		Timeout:       time.Duration(c.TimeoutMs) * time.Millisecond,
		MinCardNumber: c.MinCardNumber,
		MaxCardNumber: c.MaxCardNumber,
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
