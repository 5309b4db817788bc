package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "care_booking", cfg.DBConfig.DBName)
	assert.Equal(t, 30, cfg.Policy.MaxDuration)
	assert.Equal(t, 8, cfg.Policy.HoursPerDay)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOOKING_SERVICE_PORT", "9001")
	t.Setenv("BOOKING_MAX_DURATION", "14")
	t.Setenv("BOOKING_HOURS_PER_DAY", "10")
	t.Setenv("BOOKING_CORS_ORIGINS", "https://care.io, https://admin.care.io")
	t.Setenv("BOOKING_SMTP_HOST", "smtp.care.io")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9001", cfg.Port)
	assert.Equal(t, 14, cfg.Policy.MaxDuration)
	assert.Equal(t, 10, cfg.Policy.HoursPerDay)
	assert.Equal(t, []string{"https://care.io", "https://admin.care.io"}, cfg.CORSOrigins)
	assert.True(t, cfg.SMTPConfig.Enabled())
}
