package backend

import (
	"context"
	"fmt"
	"log/slog"

	"xlsdash/internal/amqp"
	"xlsdash/internal/cache"
	"xlsdash/internal/core"
	ports "xlsdash/internal/sheets"
	"xlsdash/internal/sheets/csvfile"
	gsheet "xlsdash/internal/sheets/google"
	"xlsdash/internal/sheets/memory"
	"xlsdash/internal/sheets/xlsx"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// DecoderFor picks the decoder for an uploaded file by extension.
// Anything that is not .csv is treated as a spreadsheet workbook.
func DecoderFor(filename string) ports.Decoder {
	if csvfile.IsCSV(filename) {
		return csvfile.New(filename)
	}
	return xlsx.New()
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	result := &BackendResult{
		Store:      memory.New(),
		DecoderFor: DecoderFor,
		Memo:       cache.NewLRUCache[[]core.GroupTotal](config.CacheSize, config.CacheTTL),
	}

	switch config.Import {
	case GoogleImport:
		remote, err := f.createGoogleSource(ctx, config)
		if err != nil {
			return nil, err
		}
		result.Remote = remote
	case NoImport:
	default:
		return nil, fmt.Errorf("unsupported import backend: %s", config.Import)
	}

	if config.AMQPEnabled() {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPRoutingKey)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"routing_key", config.AMQPRoutingKey)
			result.Publisher = client
			result.Cleanup = client.Close
		}
	}

	f.logger.Info("Initialized dashboard backend",
		"import", config.Import.String(),
		"amqp_enabled", result.Publisher != nil,
		"cache_size", config.CacheSize,
		"cache_ttl", config.CacheTTL.String())

	return result, nil
}

func (f *DefaultFactory) createGoogleSource(ctx context.Context, config Config) (*gsheet.Client, error) {
	cli, err := gsheet.New(ctx, gsheet.Credentials{
		JSON: config.GoogleServiceAccountJSON,
		File: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	f.logger.Info("Initialized Google Sheets import")
	return cli, nil
}
