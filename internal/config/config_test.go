package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/internal/config"
	"finance/internal/money"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"CURRENCY_CODE", "CURRENCY_DIGITS", "TIMEZONE", "BUSINESS_DAY_ANCHOR_HOUR", "RELIABILITY_DUE_DAYS", "LOG_LEVEL", "LOG_OUTPUT"} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, money.Currency{Code: "DZD", Digits: 2}, cfg.Currency())
	assert.Equal(t, 8, cfg.BusinessDayAnchorHour)
	assert.Equal(t, 30, cfg.ReliabilityDueDays)
	assert.Equal(t, "stderr", cfg.GetLoggerConfig().Output)
	assert.NotNil(t, cfg.Location())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CURRENCY_CODE", "jpy")
	t.Setenv("CURRENCY_DIGITS", "0")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("BUSINESS_DAY_ANCHOR_HOUR", "6")
	t.Setenv("RELIABILITY_DUE_DAYS", "45")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, money.Currency{Code: "JPY", Digits: 0}, cfg.Currency())
	assert.Equal(t, "UTC", cfg.Location().String())
	assert.Equal(t, 6, cfg.BusinessDayAnchorHour)
	assert.Equal(t, 45, cfg.ReliabilityDueDays)
	assert.Equal(t, "debug", cfg.GetLoggerConfig().Level)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"CURRENCY_DIGITS":          "7",
		"BUSINESS_DAY_ANCHOR_HOUR": "24",
		"RELIABILITY_DUE_DAYS":     "0",
		"TIMEZONE":                 "Mars/Olympus",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}

	t.Run("not a number", func(t *testing.T) {
		t.Setenv("CURRENCY_DIGITS", "two")
		_, err := config.Load()
		assert.ErrorContains(t, err, "CURRENCY_DIGITS")
	})
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, money.Currency{Code: "DZD", Digits: 2}, cfg.Currency())
	assert.Equal(t, 8, cfg.BusinessDayAnchorHour)
}
