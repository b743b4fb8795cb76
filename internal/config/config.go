package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"finance/internal/logger"
	"finance/internal/money"
	"finance/internal/summary"
)

type Config struct {
	// Currency Configuration
	CurrencyCode   string
	CurrencyDigits int

	// Calendar Configuration
	Timezone              string
	BusinessDayAnchorHour int

	// Summary Configuration
	ReliabilityDueDays int

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string

	location *time.Location
}

func Load() (*Config, error) {
	config := &Config{
		CurrencyCode:  strings.ToUpper(getEnv("CURRENCY_CODE", "DZD")),
		Timezone:      getEnv("TIMEZONE", "Local"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stderr"),
	}

	var err error
	if config.CurrencyDigits, err = getEnvInt("CURRENCY_DIGITS", 2); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if config.BusinessDayAnchorHour, err = getEnvInt("BUSINESS_DAY_ANCHOR_HOUR", 8); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if config.ReliabilityDueDays, err = getEnvInt("RELIABILITY_DUE_DAYS", summary.DefaultDueDays); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Default returns the configuration used when no environment is available.
func Default() *Config {
	return &Config{
		CurrencyCode:          "DZD",
		CurrencyDigits:        2,
		Timezone:              "Local",
		BusinessDayAnchorHour: 8,
		ReliabilityDueDays:    summary.DefaultDueDays,
		LogLevel:              "info",
		LogFormat:             "console",
		LogTimeFormat:         time.RFC3339,
		LogOutput:             "stderr",
		location:              time.Local,
	}
}

func (c *Config) validate() error {
	if c.CurrencyCode == "" || len(c.CurrencyCode) > 8 {
		return fmt.Errorf("CURRENCY_CODE must be 1 to 8 characters")
	}
	if c.CurrencyDigits < 0 || c.CurrencyDigits > 4 {
		return fmt.Errorf("CURRENCY_DIGITS must be between 0 and 4, got %d", c.CurrencyDigits)
	}
	if c.BusinessDayAnchorHour < 0 || c.BusinessDayAnchorHour > 23 {
		return fmt.Errorf("BUSINESS_DAY_ANCHOR_HOUR must be between 0 and 23, got %d", c.BusinessDayAnchorHour)
	}
	if c.ReliabilityDueDays <= 0 {
		return fmt.Errorf("RELIABILITY_DUE_DAYS must be positive, got %d", c.ReliabilityDueDays)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("TIMEZONE %q is not a known location: %w", c.Timezone, err)
	}
	c.location = loc
	return nil
}

// Currency returns the currency amounts are parsed and printed in.
func (c *Config) Currency() money.Currency {
	return money.Currency{Code: c.CurrencyCode, Digits: int32(c.CurrencyDigits)}
}

// Location returns the time zone calendar days are counted in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number, got %q", key, value)
	}
	return n, nil
}
