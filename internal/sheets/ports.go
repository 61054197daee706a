package sheets

import (
	"context"
	"io"

	"xlsdash/internal/core"
)

// Ports for inbound sources and outbound adapters.
type (
	// Decoder turns an uploaded file into positional sheets in source order.
	Decoder interface {
		Decode(ctx context.Context, r io.Reader) ([]core.RawSheet, error)
	}

	// RemoteSource fetches a whole spreadsheet from a hosted service.
	RemoteSource interface {
		FetchWorkbook(ctx context.Context, spreadsheetID string) (title string, sheets []core.RawSheet, err error)
	}

	// WorkbookStore keeps the single current workbook.
	WorkbookStore interface {
		Replace(wb *core.Workbook)
		Current() (*core.Workbook, error)
	}

	// EventPublisher announces workbook lifecycle events.
	EventPublisher interface {
		PublishWorkbookLoaded(ctx context.Context, wb *core.Workbook) error
	}
)
