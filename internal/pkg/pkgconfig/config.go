package pkgconfig

import (
	"os"
	"time"
)

// Config is the read-only view of the application configuration.
type Config interface {
	GetInt(key string) int64
	GetBool(key string) bool
	GetFloat(key string) float64
	GetString(key string) string
	GetDuration(key string) time.Duration
	GetArray(key string) []string
	Close() error
}

// DefaultPath is /config/config.yaml, or ./config/config.yaml when LOCAL=true.
func DefaultPath() string {
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}
