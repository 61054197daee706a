package backend

import (
	"fmt"
	"strings"

	"xlsdash/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	importType := ImportType(strings.ToLower(appConfig.ImportBackend))
	if importType == "" {
		importType = NoImport
	}
	if !importType.IsValid() {
		return Config{}, fmt.Errorf("invalid import backend in config: %s", appConfig.ImportBackend)
	}

	return Config{
		Import: importType,

		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,

		AMQPURL:        appConfig.AMQPURL,
		AMQPExchange:   appConfig.AMQPExchange,
		AMQPRoutingKey: appConfig.AMQPRoutingKey,

		CacheSize: appConfig.CacheSize,
		CacheTTL:  appConfig.CacheTTL,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Import.IsValid() {
		return fmt.Errorf("invalid import backend: %s", c.Import)
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("cache size must be at least 1, got %d", c.CacheSize)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %v", c.CacheTTL)
	}
	// Google credentials may also come from GOOGLE_APPLICATION_CREDENTIALS,
	// so their absence is reported when the client is built.
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPRoutingKey == "") {
		return fmt.Errorf("AMQP exchange and routing key are required when AMQP URL is set")
	}
	return nil
}

// AMQPEnabled reports whether workbook events should be published.
func (c Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// GetImportTypes returns all valid import types
func GetImportTypes() []ImportType {
	return []ImportType{NoImport, GoogleImport}
}

// GetImportTypeStrings returns all valid import type strings
func GetImportTypeStrings() []string {
	types := GetImportTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
