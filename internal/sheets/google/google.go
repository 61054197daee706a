package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"xlsdash/internal/core"
	ports "xlsdash/internal/sheets"
)

// Client reads whole spreadsheets through the Sheets v4 API.
type Client struct {
	svc *gsheet.Service
}

// Ensure interface conformance
var _ ports.RemoteSource = (*Client)(nil)

// Credentials selects a service account key, inline JSON taking precedence over a file.
type Credentials struct {
	JSON string
	File string
}

var ErrMissingCredentials = errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")

// New creates a read-only Sheets client from service account credentials.
func New(ctx context.Context, creds Credentials) (*Client, error) {
	svc, err := newSheetsService(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// NewWithService wraps an existing service, e.g. one pointed at a test endpoint.
func NewWithService(svc *gsheet.Service) *Client {
	return &Client{svc: svc}
}

func credentialsJSON(creds Credentials) ([]byte, error) {
	inline := strings.TrimSpace(creds.JSON)
	file := strings.TrimSpace(creds.File)
	if inline == "" && file == "" {
		// standard Google Cloud variable
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, ErrMissingCredentials
	}
}

func newSheetsService(ctx context.Context, creds Credentials) (*gsheet.Service, error) {
	data, err := credentialsJSON(creds)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(data),
		"scope", gsheet.SpreadsheetsReadonlyScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(data),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// FetchWorkbook reads every sheet of the spreadsheet in tab order with unformatted values.
func (c *Client) FetchWorkbook(ctx context.Context, spreadsheetID string) (string, []core.RawSheet, error) {
	if c.svc == nil {
		return "", nil, errors.New("sheets service not initialized")
	}
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return "", nil, errors.New("missing spreadsheet id")
	}

	meta, err := c.svc.Spreadsheets.Get(spreadsheetID).
		Fields("properties.title", "sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("get spreadsheet %s: %w", spreadsheetID, err)
	}

	title := spreadsheetID
	if meta.Properties != nil && meta.Properties.Title != "" {
		title = meta.Properties.Title
	}

	names := make([]string, 0, len(meta.Sheets))
	ranges := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		if s.Properties == nil {
			continue
		}
		names = append(names, s.Properties.Title)
		ranges = append(ranges, quoteSheetName(s.Properties.Title))
	}
	if len(names) == 0 {
		return title, nil, nil
	}

	resp, err := c.svc.Spreadsheets.Values.BatchGet(spreadsheetID).
		Ranges(ranges...).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("read values %s: %w", spreadsheetID, err)
	}

	out := make([]core.RawSheet, 0, len(names))
	for i, name := range names {
		var values [][]interface{}
		if i < len(resp.ValueRanges) && resp.ValueRanges[i] != nil {
			values = resp.ValueRanges[i].Values
		}
		out = append(out, toRawSheet(name, values))
	}
	slog.InfoContext(ctx, "Fetched spreadsheet", "spreadsheet_id", spreadsheetID, "sheets", len(out))
	return title, out, nil
}
