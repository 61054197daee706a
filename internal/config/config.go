package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Import backends
const (
	ImportNone   = "none"
	ImportGoogle = "google"
)

type Config struct {
	// HTTP Server
	Port           string
	MaxUploadBytes int64
	UploadRate     int // POST requests per minute per client

	// Logging
	LogLevel string

	// Dashboard
	PreviewLimit         int
	CacheSize            int
	CacheTTL             time.Duration
	CacheCleanupInterval time.Duration

	// AMQP (optional)
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// Google Sheets import (optional)
	ImportBackend            string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8081"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 20<<20)),
		UploadRate:     getEnvInt("UPLOAD_RATE_PER_MINUTE", 30),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		PreviewLimit:         getEnvInt("PREVIEW_LIMIT", 200),
		CacheSize:            getEnvInt("CACHE_SIZE", 64),
		CacheTTL:             getEnvDuration("CACHE_TTL", 10*time.Minute),
		CacheCleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", 5*time.Minute),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "xlsdash"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "workbook.loaded"),

		ImportBackend:            strings.ToLower(getEnv("IMPORT_BACKEND", ImportNone)),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validLevels := []string{"debug", "info", "warn", "warning", "error"}
	if !slices.Contains(validLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels[:4]))
	}

	if c.MaxUploadBytes < 1024 {
		errors = append(errors, fmt.Sprintf("invalid max upload size %d: must be at least 1024 bytes", c.MaxUploadBytes))
	}
	if c.UploadRate < 1 {
		errors = append(errors, fmt.Sprintf("invalid upload rate %d: must be at least 1 per minute", c.UploadRate))
	}

	if c.PreviewLimit < 1 || c.PreviewLimit > 10000 {
		errors = append(errors, fmt.Sprintf("invalid preview limit %d: must be between 1 and 10000", c.PreviewLimit))
	}
	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache ttl %v: must be at least 1 second", c.CacheTTL))
	}
	if c.CacheCleanupInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache cleanup interval %v: must be at least 1 second", c.CacheCleanupInterval))
	}

	// AMQP is optional; validate only when configured
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRoutingKey == "" {
			errors = append(errors, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	validBackends := []string{ImportNone, ImportGoogle}
	if !slices.Contains(validBackends, c.ImportBackend) {
		errors = append(errors, fmt.Sprintf("invalid import backend '%s': must be one of %v", c.ImportBackend, validBackends))
	}
	if c.ImportBackend == ImportGoogle {
		hasJSON := c.GoogleServiceAccountJSON != ""
		hasFile := c.GoogleServiceAccountFile != ""
		if !hasJSON && !hasFile && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for google import")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// AMQPEnabled reports whether workbook events should be published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
