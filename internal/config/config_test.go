package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"BOT_TOKEN", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"ADMIN_ADDR", "ADMIN_TOKEN", "TIMEZONE", "LIVE_UPDATE_INTERVAL",
	"FANOUT_RATE", "PENDING_TTL", "LOGO_PATH", "DEBUG",
}

// setEnv clears every config key, then applies env
func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
	for key, value := range env {
		t.Setenv(key, value)
	}
}

func requiredEnv() map[string]string {
	return map[string]string{
		"BOT_TOKEN":   "test_token",
		"DB_PASSWORD": "test_db_password",
		"ADMIN_TOKEN": "test_admin_token",
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	for _, key := range []string{"BOT_TOKEN", "DB_PASSWORD", "ADMIN_TOKEN"} {
		t.Run(key, func(t *testing.T) {
			env := requiredEnv()
			delete(env, key)
			setEnv(t, env)

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	setEnv(t, requiredEnv())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test_token", cfg.BotToken)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "meetup", cfg.Database.Name)
	assert.Equal(t, "meetup", cfg.Database.User)
	assert.Equal(t, ":8080", cfg.Admin.Addr)
	assert.Equal(t, "Europe/Moscow", cfg.Timezone)
	assert.Equal(t, 60*time.Second, cfg.LiveUpdateInterval)
	assert.Equal(t, time.Hour, cfg.PendingTTL)
	assert.Equal(t, 25, cfg.FanoutRate)
	assert.Equal(t, "logo.png", cfg.LogoPath)
	assert.False(t, cfg.Debug)
}

func TestLoad_Overrides(t *testing.T) {
	env := requiredEnv()
	env["TIMEZONE"] = "UTC"
	env["LIVE_UPDATE_INTERVAL"] = "30s"
	env["PENDING_TTL"] = "15m"
	env["FANOUT_RATE"] = "5"
	env["DEBUG"] = "true"
	setEnv(t, env)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.LiveUpdateInterval)
	assert.Equal(t, 15*time.Minute, cfg.PendingTTL)
	assert.Equal(t, 5, cfg.FanoutRate)
	assert.True(t, cfg.Debug)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"LIVE_UPDATE_INTERVAL", "every minute"},
		{"PENDING_TTL", "1 hour"},
		{"FANOUT_RATE", "fast"},
		{"DEBUG", "maybe"},
		{"TIMEZONE", "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			env := requiredEnv()
			env[tt.key] = tt.value
			setEnv(t, env)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
