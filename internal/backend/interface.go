package backend

import (
	"context"
	"time"

	"xlsdash/internal/cache"
	"xlsdash/internal/core"
	"xlsdash/internal/log"
	"xlsdash/internal/services"
	ports "xlsdash/internal/sheets"
	"xlsdash/internal/sheets/memory"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds the adapters a DashboardService is built from.
// Remote and Publisher are nil when not configured.
type BackendResult struct {
	Store      *memory.Store
	DecoderFor func(filename string) ports.Decoder
	Remote     ports.RemoteSource
	Publisher  ports.EventPublisher
	Memo       *cache.LRUCache[[]core.GroupTotal]
	Cleanup    CleanupFunc
}

// Deps turns the result into service dependencies.
func (r *BackendResult) Deps(previewLimit int, logger *log.Logger) services.DashboardDeps {
	return services.DashboardDeps{
		Store:        r.Store,
		DecoderFor:   r.DecoderFor,
		Remote:       r.Remote,
		Publisher:    r.Publisher,
		Memo:         r.Memo,
		PreviewLimit: previewLimit,
		Logger:       logger,
	}
}

// Close runs the cleanup function, if any.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Remote import source
	Import ImportType

	// Google Sheets specific
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// AMQP event publishing, optional
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// By-month memo
	CacheSize int
	CacheTTL  time.Duration
}

// ImportType selects the remote import source.
type ImportType string

const (
	NoImport     ImportType = "none"
	GoogleImport ImportType = "google"
)

// String implements fmt.Stringer
func (it ImportType) String() string {
	return string(it)
}

// IsValid returns true if the import type is known
func (it ImportType) IsValid() bool {
	switch it {
	case NoImport, GoogleImport:
		return true
	default:
		return false
	}
}
