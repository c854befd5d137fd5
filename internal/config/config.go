package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken string
	Database DatabaseConfig
	Admin    AdminConfig

	Timezone           string
	LiveUpdateInterval time.Duration
	FanoutRate         int
	PendingTTL         time.Duration
	LogoPath           string
	Debug              bool
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// AdminConfig holds organizer API settings
type AdminConfig struct {
	Addr  string
	Token string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken: os.Getenv("BOT_TOKEN"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "meetup"),
			User:     getEnv("DB_USER", "meetup"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Admin: AdminConfig{
			Addr:  getEnv("ADMIN_ADDR", ":8080"),
			Token: os.Getenv("ADMIN_TOKEN"),
		},
		Timezone: getEnv("TIMEZONE", "Europe/Moscow"),
		LogoPath: getEnv("LOGO_PATH", "logo.png"),
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	if cfg.Admin.Token == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN is required")
	}

	var err error
	if cfg.LiveUpdateInterval, err = getDuration("LIVE_UPDATE_INTERVAL", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.PendingTTL, err = getDuration("PENDING_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.FanoutRate, err = getInt("FANOUT_RATE", 25); err != nil {
		return nil, err
	}
	if cfg.Debug, err = getBool("DEBUG", false); err != nil {
		return nil, err
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// Location resolves Timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}
