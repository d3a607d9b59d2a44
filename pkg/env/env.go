package env

import (
	"os"
	"strconv"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
)

// GetOrDefault returns the environment variable value or the default if not set
func GetOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	debug.Debug("%s not set, using default: %s", key, defaultValue)
	return defaultValue
}

// GetBool returns the environment variable as a boolean.
// "true", "1", "yes" and "y" (any case of those spellings) are true.
func GetBool(key string) bool {
	switch os.Getenv(key) {
	case "true", "1", "yes", "y", "TRUE", "YES", "Y":
		return true
	default:
		return false
	}
}

// GetIntOrDefault parses the variable as a base-10 integer.
func GetIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		debug.Warning("Invalid integer for %s (%q), using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// GetDurationOrDefault parses the variable with time.ParseDuration.
// A bare integer is read as seconds.
func GetDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		debug.Warning("Invalid duration for %s (%q), using default: %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
