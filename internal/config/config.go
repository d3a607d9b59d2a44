package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/db"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/services"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/env"
	"github.com/google/uuid"
)

// Config holds the application configuration
type Config struct {
	Host     string
	HTTPPort int

	Database db.Config

	// JWTSecret verifies admin and service tokens.
	JWTSecret string
	// SettingsKey derives the key for encrypted settings. Empty stores
	// encrypted values as plaintext.
	SettingsKey string
	// CORSOrigin is allowed when the cors_origins setting cannot be read.
	CORSOrigin string

	// Settings cache behaviour.
	SettingsCacheTTL      time.Duration
	SettingsReloadTimeout time.Duration
	SettingsRetryBackoff  time.Duration
	// CounterTimeout bounds each lockout or reputation counter write.
	CounterTimeout time.Duration

	// NATSURL enables the cross-instance invalidation broadcast.
	NATSURL    string
	InstanceID string

	// Cron schedules; empty disables the job.
	LockoutSweepSchedule string
	SettingsWarmSchedule string

	ShutdownTimeout time.Duration
}

// NewConfig creates a new Config instance with values from environment variables
func NewConfig() *Config {
	host := os.Getenv("PF_HOST")
	if host == "" {
		// In Docker, bind to all interfaces
		if env.GetBool("PF_IN_DOCKER") {
			host = "0.0.0.0"
		} else {
			host = "localhost"
		}
	}

	instanceID := os.Getenv("PF_INSTANCE_ID")
	if instanceID == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "pricefeed"
		}
		instanceID = fmt.Sprintf("%s-%s", hostname, uuid.NewString()[:8])
	}

	cfg := &Config{
		Host:     host,
		HTTPPort: env.GetIntOrDefault("PF_HTTP_PORT", 8080),
		Database: db.Config{
			Host:     env.GetOrDefault("DB_HOST", "localhost"),
			Port:     env.GetIntOrDefault("DB_PORT", 5432),
			User:     env.GetOrDefault("DB_USER", "pricefeed"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   env.GetOrDefault("DB_NAME", "pricefeed"),
			SSLMode:  env.GetOrDefault("DB_SSLMODE", "disable"),
		},
		JWTSecret:             os.Getenv("JWT_SECRET"),
		SettingsKey:           os.Getenv("PF_SETTINGS_KEY"),
		CORSOrigin:            env.GetOrDefault("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
		SettingsCacheTTL:      env.GetDurationOrDefault("PF_SETTINGS_CACHE_TTL", settings.DefaultTTL),
		SettingsReloadTimeout: env.GetDurationOrDefault("PF_SETTINGS_RELOAD_TIMEOUT", settings.DefaultReloadTimeout),
		SettingsRetryBackoff:  env.GetDurationOrDefault("PF_SETTINGS_RETRY_BACKOFF", settings.DefaultRetryBackoff),
		CounterTimeout:        env.GetDurationOrDefault("PF_COUNTER_TIMEOUT", services.DefaultCounterTimeout),
		NATSURL:               os.Getenv("PF_NATS_URL"),
		InstanceID:            instanceID,
		LockoutSweepSchedule:  env.GetOrDefault("PF_LOCKOUT_SWEEP_SCHEDULE", "@every 5m"),
		SettingsWarmSchedule:  os.Getenv("PF_SETTINGS_WARM_SCHEDULE"),
		ShutdownTimeout:       env.GetDurationOrDefault("PF_SHUTDOWN_TIMEOUT", 15*time.Second),
	}

	if cfg.SettingsKey == "" {
		debug.Warning("PF_SETTINGS_KEY not set, encrypted settings will be stored unencrypted")
	}
	if cfg.NATSURL == "" {
		debug.Info("PF_NATS_URL not set, settings changes reach other instances within %s", cfg.SettingsCacheTTL)
	}
	return cfg
}

// Validate reports settings the server cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("PF_HTTP_PORT %d out of range", c.HTTPPort))
	}
	if c.SettingsCacheTTL <= 0 {
		errs = append(errs, errors.New("PF_SETTINGS_CACHE_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// SettingsOptions returns the cache options for settings.New.
func (c *Config) SettingsOptions() settings.Options {
	return settings.Options{
		TTL:           c.SettingsCacheTTL,
		ReloadTimeout: c.SettingsReloadTimeout,
		RetryBackoff:  c.SettingsRetryBackoff,
	}
}

// GetAddress returns the full address for the server to listen on
func (c *Config) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}
